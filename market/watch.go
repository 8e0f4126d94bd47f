package market

import "slices"

// Watchlist is the list of symbols a user follows, in the order they were added.
type Watchlist struct {
	User    string
	Symbols []string
}

// Add adds symbol to the list. It returns false if it was already there.
func (w *Watchlist) Add(symbol string) bool {
	if w.Has(symbol) {
		return false
	}
	w.Symbols = append(w.Symbols, symbol)
	return true
}

// Remove removes symbol from the list. It returns false if it was not there.
func (w *Watchlist) Remove(symbol string) bool {
	i := slices.Index(w.Symbols, symbol)
	if i < 0 {
		return false
	}
	w.Symbols = slices.Delete(w.Symbols, i, i+1)
	return true
}

func (w Watchlist) Has(symbol string) bool { return slices.Contains(w.Symbols, symbol) }

// WatchSummary is a watchlist resolved against the catalog.
type WatchSummary struct {
	User    string
	Tickers []Ticker
	Missing []string // watched symbols unknown to the catalog
	Gainers int
	Losers  int
}

// Watch resolves the tickers of a watchlist.
func (c *Catalog) Watch(w Watchlist) WatchSummary {
	s := WatchSummary{User: w.User}
	for _, symbol := range w.Symbols {
		t, ok := c.Get(symbol)
		if !ok {
			s.Missing = append(s.Missing, symbol)
			continue
		}
		s.Tickers = append(s.Tickers, t)
		switch {
		case t.IsGainer():
			s.Gainers++
		case t.IsLoser():
			s.Losers++
		}
	}
	return s
}
