package stockfolio

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Quote is the current market data of a symbol.
type Quote struct {
	Symbol string
	Sector string
	Price  Money
	Change Money // daily change per share
}

// QuoteLookup gives access to current quotes.
type QuoteLookup interface {
	Quote(symbol string) (Quote, bool)
}

// Quotes is an in-memory QuoteLookup.
type Quotes map[string]Quote

func (q Quotes) Quote(symbol string) (Quote, bool) {
	v, ok := q[symbol]
	return v, ok
}

// Book is a mixed trade feed grouped per symbol, each group ordered by time.
type Book struct {
	bySymbol map[string][]Trade
	currency string
}

// NewBook groups trades per symbol. Trades with the same timestamp keep their
// feed order.
func NewBook(trades []Trade) *Book {
	b := &Book{bySymbol: make(map[string][]Trade), currency: FeedCurrency(trades)}
	for _, t := range trades {
		b.bySymbol[t.Symbol] = append(b.bySymbol[t.Symbol], t)
	}
	for _, ts := range b.bySymbol {
		slices.SortStableFunc(ts, func(a, b Trade) int { return a.Time.Compare(b.Time) })
	}
	return b
}

// Symbols returns the traded symbols, sorted.
func (b *Book) Symbols() []string {
	return slices.Sorted(maps.Keys(b.bySymbol))
}

// Trades returns the trades of a symbol, oldest first.
func (b *Book) Trades(symbol string) []Trade {
	return slices.Clone(b.bySymbol[symbol])
}

// All iterates over symbols in order with their trades.
func (b *Book) All() iter.Seq2[string, []Trade] {
	return func(yield func(string, []Trade) bool) {
		for _, s := range b.Symbols() {
			if !yield(s, b.bySymbol[s]) {
				return
			}
		}
	}
}

// Result is the outcome of folding a book.
type Result struct {
	Positions []Holding        // successfully folded symbols, open or closed, sorted by symbol
	Errors    map[string]error // failing symbols
}

// Currency returns the currency of the book, the one of its earliest trade
// with a currency.
func (b *Book) Currency() string { return b.currency }

// Reconstruct folds every symbol independently. A symbol that fails is
// reported in Errors and left out of Positions.
//
// The positions all share the book currency: a symbol traded or quoted in
// another currency fails with an error matching ErrCurrencyMismatch.
func (b *Book) Reconstruct(quotes QuoteLookup) Result {
	r := Result{Errors: make(map[string]error)}
	cur := b.currency
	for symbol, trades := range b.All() {
		if err := CheckCurrency(trades, cur); err != nil {
			r.Errors[symbol] = err
			continue
		}
		q, ok := quotes.Quote(symbol)
		s, err := ReconstructPosition(trades, q.Price)
		if err != nil {
			r.Errors[symbol] = err
			continue
		}
		// a closed position only carries its realized gain and needs no quote.
		if !ok && s.IsOpen() {
			r.Errors[symbol] = fmt.Errorf("%s: %w", symbol, ErrNoQuote)
			continue
		}
		h := Holding{PositionSummary: s, Sector: q.Sector, Change: q.Change}
		hc, consistent := h.currencyOf()
		if !consistent || cur != "" && hc != "" && hc != cur {
			r.Errors[symbol] = fmt.Errorf("%s: quote in %s, portfolio in %s: %w", symbol, q.Price.cur, cur, ErrCurrencyMismatch)
			continue
		}
		if cur == "" {
			cur = hc
		}
		r.Positions = append(r.Positions, h)
	}
	return r
}

// Portfolio aggregates the successfully folded positions.
func (r Result) Portfolio() PortfolioSummary {
	return AggregatePortfolio(r.Positions)
}

// Err joins the errors of every failing symbol, in symbol order.
func (r Result) Err() error {
	symbols := slices.Sorted(maps.Keys(r.Errors))
	errs := make([]error, 0, len(symbols))
	for _, s := range symbols {
		errs = append(errs, r.Errors[s])
	}
	return errors.Join(errs...)
}
