package market

import (
	"fmt"
	"slices"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
)

// PriceBar is the daily OHLCV summary of a ticker.
type PriceBar struct {
	Symbol string
	Date   date.Date
	Open   stockfolio.Money
	High   stockfolio.Money
	Low    stockfolio.Money
	Close  stockfolio.Money
	Volume int64
}

// Validate checks that low <= open, close <= high.
func (b PriceBar) Validate() error {
	switch {
	case b.Symbol == "":
		return fmt.Errorf("price bar symbol is missing")
	case b.Date.IsZero():
		return fmt.Errorf("price bar %s: date is missing", b.Symbol)
	case b.Low.IsNegative():
		return fmt.Errorf("price bar %s %s: low %s must not be negative", b.Symbol, b.Date, b.Low)
	case b.Open.LessThan(b.Low) || b.Close.LessThan(b.Low):
		return fmt.Errorf("price bar %s %s: low %s above open %s or close %s", b.Symbol, b.Date, b.Low, b.Open, b.Close)
	case b.Open.GreaterThan(b.High) || b.Close.GreaterThan(b.High):
		return fmt.Errorf("price bar %s %s: high %s below open %s or close %s", b.Symbol, b.Date, b.High, b.Open, b.Close)
	case b.Volume < 0:
		return fmt.Errorf("price bar %s %s: volume must not be negative", b.Symbol, b.Date)
	}
	return nil
}

// Bars holds price bars per symbol, at most one per day, ordered by date.
type Bars struct {
	bySymbol map[string][]PriceBar
}

func NewBars() *Bars {
	return &Bars{bySymbol: make(map[string][]PriceBar)}
}

// Add validates and inserts a bar, replacing the bar of the same day if any.
func (b *Bars) Add(bar PriceBar) error {
	if err := bar.Validate(); err != nil {
		return err
	}
	bars := b.bySymbol[bar.Symbol]
	i, found := slices.BinarySearchFunc(bars, bar.Date, func(e PriceBar, d date.Date) int { return e.Date.Compare(d) })
	if found {
		bars[i] = bar
		return nil
	}
	b.bySymbol[bar.Symbol] = slices.Insert(bars, i, bar)
	return nil
}

// Range returns the bars of symbol within r, oldest first.
func (b *Bars) Range(symbol string, r date.Range) []PriceBar {
	var res []PriceBar
	for _, bar := range b.bySymbol[symbol] {
		if r.Contains(bar.Date) {
			res = append(res, bar)
		}
	}
	return res
}

// Last returns the n most recent bars of symbol, oldest first.
func (b *Bars) Last(symbol string, n int) []PriceBar {
	bars := b.bySymbol[symbol]
	if n >= 0 && n < len(bars) {
		bars = bars[len(bars)-n:]
	}
	return slices.Clone(bars)
}

// Latest returns the most recent bar of symbol.
func (b *Bars) Latest(symbol string) (PriceBar, bool) {
	bars := b.bySymbol[symbol]
	if len(bars) == 0 {
		return PriceBar{}, false
	}
	return bars[len(bars)-1], true
}

// Performance returns the close to close change in percent over bars, 0 when
// there are less than two bars.
func Performance(bars []PriceBar) stockfolio.Percent {
	if len(bars) < 2 {
		return 0
	}
	first, last := bars[0].Close, bars[len(bars)-1].Close
	return stockfolio.PercentOf(last.Sub(first), first)
}
