package stockfolio

import (
	"fmt"
	"slices"

	"github.com/etnz/stockfolio/date"
)

// HistoryPoint is the state of the portfolio at the end of a trading day.
type HistoryPoint struct {
	Date     date.Date
	Value    Money // open positions at current prices
	Cost     Money // open cost basis
	GainLoss Money
	Realized Money // accumulated since the first trade
}

// History replays trades and returns one point per day on which trades
// occurred, oldest first.
//
// Positions are valued at their current quote, so the curve shows how the
// cost basis built up against today's prices.
func History(trades []Trade, quotes QuoteLookup) ([]HistoryPoint, error) {
	trades = slices.Clone(trades)
	slices.SortStableFunc(trades, func(a, b Trade) int { return a.Time.Compare(b.Time) })
	if err := CheckCurrency(trades, FeedCurrency(trades)); err != nil {
		return nil, err
	}

	positions := make(map[string]Position)
	var points []HistoryPoint
	for i, t := range trades {
		p, ok := positions[t.Symbol]
		if !ok {
			p = NewPosition(t.Symbol)
		}
		p, err := p.Apply(t)
		if err != nil {
			return points, fmt.Errorf("replaying %s: %w", t.Symbol, err)
		}
		positions[t.Symbol] = p

		day := date.Of(t.Time)
		if i+1 < len(trades) && date.Of(trades[i+1].Time) == day {
			continue
		}
		pt, err := valuate(day, positions, quotes)
		if err != nil {
			return points, err
		}
		points = append(points, pt)
	}
	return points, nil
}

func valuate(day date.Date, positions map[string]Position, quotes QuoteLookup) (HistoryPoint, error) {
	pt := HistoryPoint{Date: day}
	for symbol, p := range positions {
		pt.Realized = pt.Realized.Add(p.Realized)
		if !p.IsOpen() {
			continue
		}
		q, ok := quotes.Quote(symbol)
		if !ok {
			return pt, fmt.Errorf("%s: %w", symbol, ErrNoQuote)
		}
		if !q.Price.compatible(p.AvgCost) || !q.Price.compatible(pt.Value) {
			return pt, fmt.Errorf("%s: quote in %s: %w", symbol, q.Price.cur, ErrCurrencyMismatch)
		}
		s := p.Summarize(q.Price)
		pt.Value = pt.Value.Add(s.MarketValue)
		pt.Cost = pt.Cost.Add(s.CostBasis)
	}
	pt.GainLoss = pt.Value.Sub(pt.Cost)
	return pt, nil
}
