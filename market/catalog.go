package market

import (
	"cmp"
	"slices"
	"strings"

	"github.com/etnz/stockfolio"
)

// Catalog is an in-memory index of tickers by symbol.
type Catalog struct {
	tickers []Ticker
	index   map[string]int
}

// NewCatalog returns a catalog of tickers. Later tickers replace earlier ones
// with the same symbol.
func NewCatalog(tickers ...Ticker) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, t := range tickers {
		c.Add(t)
	}
	return c
}

// Add adds or replaces a ticker.
func (c *Catalog) Add(t Ticker) {
	if i, ok := c.index[t.Symbol]; ok {
		c.tickers[i] = t
		return
	}
	c.index[t.Symbol] = len(c.tickers)
	c.tickers = append(c.tickers, t)
}

func (c *Catalog) Has(symbol string) bool {
	_, ok := c.index[symbol]
	return ok
}

func (c *Catalog) Get(symbol string) (Ticker, bool) {
	i, ok := c.index[symbol]
	if !ok {
		return Ticker{}, false
	}
	return c.tickers[i], true
}

func (c *Catalog) Len() int { return len(c.tickers) }

// Quote implements stockfolio.QuoteLookup.
func (c *Catalog) Quote(symbol string) (stockfolio.Quote, bool) {
	t, ok := c.Get(symbol)
	if !ok {
		return stockfolio.Quote{}, false
	}
	return t.Quote(), true
}

// Tickers returns all tickers sorted by symbol.
func (c *Catalog) Tickers() []Ticker {
	ts := slices.Clone(c.tickers)
	slices.SortFunc(ts, func(a, b Ticker) int { return cmp.Compare(a.Symbol, b.Symbol) })
	return ts
}

// Indexes returns the market indexes sorted by symbol.
func (c *Catalog) Indexes() []Ticker {
	var ts []Ticker
	for _, t := range c.Tickers() {
		if t.IsIndex {
			ts = append(ts, t)
		}
	}
	return ts
}

// Filter selects stocks. Zero fields do not filter.
type Filter struct {
	Sector    string
	Query     string // case insensitive match on symbol or name
	MinPrice  stockfolio.Money
	MaxPrice  stockfolio.Money
	MinVolume int64
}

func (f Filter) match(t Ticker) bool {
	if f.Sector != "" && t.Sector != f.Sector {
		return false
	}
	if q := strings.ToLower(f.Query); q != "" &&
		!strings.Contains(strings.ToLower(t.Symbol), q) && !strings.Contains(strings.ToLower(t.Name), q) {
		return false
	}
	if !f.MinPrice.IsZero() && t.Price.LessThan(f.MinPrice) {
		return false
	}
	if !f.MaxPrice.IsZero() && t.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	return t.Volume >= f.MinVolume
}

// Screen returns the stocks matching f, best daily change first. Indexes are
// never returned.
func (c *Catalog) Screen(f Filter) []Ticker {
	var ts []Ticker
	for _, t := range c.tickers {
		if !t.IsIndex && f.match(t) {
			ts = append(ts, t)
		}
	}
	slices.SortStableFunc(ts, byChangeDesc)
	return ts
}

func byChangeDesc(a, b Ticker) int {
	if c := cmp.Compare(b.ChangePct, a.ChangePct); c != 0 {
		return c
	}
	return cmp.Compare(a.Symbol, b.Symbol)
}

// Gainers returns the n stocks with the best daily change.
func (c *Catalog) Gainers(n int) []Ticker {
	return first(c.Screen(Filter{}), n)
}

// Losers returns the n stocks with the worst daily change.
func (c *Catalog) Losers(n int) []Ticker {
	ts := c.Screen(Filter{})
	slices.SortStableFunc(ts, func(a, b Ticker) int { return byChangeDesc(b, a) })
	return first(ts, n)
}

// Sectors returns the distinct sectors of the stocks, sorted.
func (c *Catalog) Sectors() []string {
	var sectors []string
	for _, t := range c.tickers {
		if t.Sector != "" && !t.IsIndex {
			sectors = append(sectors, t.Sector)
		}
	}
	slices.Sort(sectors)
	return slices.Compact(sectors)
}

// Related returns up to n other stocks of the same sector than symbol.
func (c *Catalog) Related(symbol string, n int) []Ticker {
	t, ok := c.Get(symbol)
	if !ok || t.Sector == "" {
		return nil
	}
	var related []Ticker
	for _, o := range c.Tickers() {
		if o.Symbol != symbol && !o.IsIndex && o.Sector == t.Sector {
			related = append(related, o)
		}
	}
	return first(related, n)
}

func first(ts []Ticker, n int) []Ticker {
	if n < 0 || n >= len(ts) {
		return ts
	}
	return ts[:n]
}
