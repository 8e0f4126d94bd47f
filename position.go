package stockfolio

import "fmt"

// Position is the running state of a holding in one symbol, folded from its
// trades with the average cost method.
//
// Shares is the signed running sum of the trades quantities and never goes
// negative. AvgCost changes only on buys; it is 0 while the position is closed.
type Position struct {
	Symbol   string
	Shares   Quantity
	AvgCost  Money // average cost per share
	Realized Money // realized profit and loss, accumulated over sells
	Trades   int
}

// NewPosition returns the closed position of a symbol.
func NewPosition(symbol string) Position {
	return Position{Symbol: symbol}
}

// IsOpen reports whether shares are held.
func (p Position) IsOpen() bool { return p.Shares.IsPositive() }

// CostBasis returns the cost of the shares held.
func (p Position) CostBasis() Money { return p.AvgCost.Mul(p.Shares) }

// currency returns the currency of the position, "" until it has traded.
func (p Position) currency() string {
	if p.AvgCost.cur != "" {
		return p.AvgCost.cur
	}
	return p.Realized.cur
}

// Apply folds a trade into the position and returns the new position.
//
// The receiver is never modified: on error the returned position is p itself.
// Malformed trades return a *ValidationError and selling more than held returns
// an *OversellError.
func (p Position) Apply(t Trade) (Position, error) {
	if err := t.Validate(); err != nil {
		return p, err
	}
	if p.Symbol != "" && t.Symbol != p.Symbol {
		return p, &ValidationError{Trade: t, Field: "symbol", Reason: fmt.Sprintf("does not match position %s", p.Symbol)}
	}
	if c := p.currency(); c != "" && t.Price.cur != "" && t.Price.cur != c {
		return p, &ValidationError{Trade: t, Field: "currency", Reason: fmt.Sprintf("does not match position currency %s", c)}
	}

	next := p
	next.Symbol = t.Symbol
	next.Trades++
	price := t.Price.In(p.currency())

	switch t.Side {
	case Buy:
		if p.Shares.IsZero() {
			// opening: the average is the price itself, exactly.
			next.AvgCost = price
		} else {
			total := p.CostBasis().Add(price.Mul(t.Quantity))
			next.AvgCost = total.Div(p.Shares.Add(t.Quantity))
		}
		next.Shares = p.Shares.Add(t.Quantity)
		next.Realized = p.Realized.In(price.cur)
	case Sell:
		if p.Shares.LessThan(t.Quantity) {
			return p, &OversellError{Trade: t, Held: p.Shares}
		}
		next.Realized = p.Realized.Add(price.Sub(p.AvgCost).Mul(t.Quantity))
		next.Shares = p.Shares.Sub(t.Quantity)
		if next.Shares.IsZero() {
			next.AvgCost = M(0, next.Realized.cur)
		}
	}
	return next, nil
}

// Fold applies trades in order, stopping at the first error. The position
// returned with an error is the one folded before the offending trade.
func (p Position) Fold(trades ...Trade) (Position, error) {
	for _, t := range trades {
		next, err := p.Apply(t)
		if err != nil {
			return p, err
		}
		p = next
	}
	return p, nil
}

// PositionSummary is a position valued at a current market price.
type PositionSummary struct {
	Symbol      string
	Shares      Quantity
	AvgCost     Money
	Realized    Money
	Trades      int
	Price       Money // current market price
	MarketValue Money
	CostBasis   Money
	Unrealized  Money
	Return      Percent // unrealized return on cost basis, 0 for a zero cost basis
}

// Summarize values the position at price.
func (p Position) Summarize(price Money) PositionSummary {
	price = price.In(p.currency())
	mv := price.Mul(p.Shares)
	cost := p.CostBasis()
	unrealized := mv.Sub(cost)
	return PositionSummary{
		Symbol:      p.Symbol,
		Shares:      p.Shares,
		AvgCost:     p.AvgCost,
		Realized:    p.Realized,
		Trades:      p.Trades,
		Price:       price,
		MarketValue: mv,
		CostBasis:   cost,
		Unrealized:  unrealized,
		Return:      PercentOf(unrealized, cost),
	}
}

// IsOpen reports whether shares are held.
func (s PositionSummary) IsOpen() bool { return s.Shares.IsPositive() }

// ReconstructPosition folds the trades of a single symbol, oldest first, and
// values the resulting position at the current price.
//
// Every trade is validated before the fold starts. An oversell halts the fold;
// the summary returned with the *OversellError is the position before the
// offending trade.
func ReconstructPosition(trades []Trade, price Money) (PositionSummary, error) {
	var symbol string
	if len(trades) > 0 {
		symbol = trades[0].Symbol
	}
	p := NewPosition(symbol)
	for _, t := range trades {
		if err := t.Validate(); err != nil {
			return p.Summarize(price), err
		}
		if t.Symbol != symbol {
			return p.Summarize(price), &ValidationError{Trade: t, Field: "symbol", Reason: fmt.Sprintf("does not match position %s", symbol)}
		}
	}
	if price.IsNegative() {
		return p.Summarize(Money{}), fmt.Errorf("price of %s must not be negative, got %s", symbol, price)
	}

	p, err := p.Fold(trades...)
	if err == nil && !price.compatible(p.AvgCost) {
		return p.Summarize(Money{}), fmt.Errorf("price currency %s does not match %s position currency %s", price.cur, symbol, p.currency())
	}
	if err != nil && !price.compatible(p.AvgCost) {
		price = Money{}
	}
	return p.Summarize(price), err
}
