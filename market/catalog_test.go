package market

import (
	"testing"

	"github.com/etnz/stockfolio"
)

func inr(v float64) stockfolio.Money { return stockfolio.M(v, "INR") }

func testCatalog() *Catalog {
	return NewCatalog(
		Ticker{Symbol: "NIFTY", Name: "Nifty 50", IsIndex: true, ChangePct: 9},
		Ticker{Symbol: "TCS", Name: "Tata Consultancy", Sector: "Technology", Price: inr(3500), Change: inr(35), ChangePct: 1, Volume: 1000},
		Ticker{Symbol: "INFY", Name: "Infosys", Sector: "Technology", Price: inr(1500), ChangePct: -2, Volume: 5000},
		Ticker{Symbol: "ITC", Name: "ITC Limited", Sector: "Consumer", Price: inr(400), ChangePct: 3, Volume: 200},
		Ticker{Symbol: "WIPRO", Name: "Wipro", Sector: "Technology", Price: inr(450), ChangePct: 0, Volume: 10},
	)
}

func symbols(ts []Ticker) []string {
	var s []string
	for _, t := range ts {
		s = append(s, t.Symbol)
	}
	return s
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCatalog_Add(t *testing.T) {
	c := testCatalog()
	c.Add(Ticker{Symbol: "TCS", Name: "TCS", Price: inr(3600)})
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
	q, ok := c.Quote("TCS")
	if !ok || !q.Price.Equal(inr(3600)) {
		t.Errorf("Quote(TCS) = %v, %v, want the replaced price", q, ok)
	}
	if _, ok := c.Quote("NONE"); ok {
		t.Error("Quote(NONE) should not exist")
	}
}

func TestCatalog_Screen(t *testing.T) {
	c := testCatalog()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all stocks", Filter{}, []string{"ITC", "TCS", "WIPRO", "INFY"}},
		{"sector", Filter{Sector: "Technology"}, []string{"TCS", "WIPRO", "INFY"}},
		{"query on name", Filter{Query: "tata"}, []string{"TCS"}},
		{"query on symbol", Filter{Query: "in"}, []string{"INFY"}},
		{"price range", Filter{MinPrice: inr(400), MaxPrice: inr(1500)}, []string{"ITC", "WIPRO", "INFY"}},
		{"volume", Filter{MinVolume: 1000}, []string{"TCS", "INFY"}},
		{"nothing", Filter{Sector: "Energy"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := symbols(c.Screen(tt.filter)); !equal(got, tt.want) {
				t.Errorf("Screen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog_Movers(t *testing.T) {
	c := testCatalog()
	if got := symbols(c.Gainers(2)); !equal(got, []string{"ITC", "TCS"}) {
		t.Errorf("Gainers(2) = %v", got)
	}
	if got := symbols(c.Losers(2)); !equal(got, []string{"INFY", "WIPRO"}) {
		t.Errorf("Losers(2) = %v", got)
	}
	if got := symbols(c.Indexes()); !equal(got, []string{"NIFTY"}) {
		t.Errorf("Indexes() = %v", got)
	}
}

func TestCatalog_Sectors(t *testing.T) {
	if got := testCatalog().Sectors(); !equal(got, []string{"Consumer", "Technology"}) {
		t.Errorf("Sectors() = %v", got)
	}
}

func TestCatalog_Related(t *testing.T) {
	c := testCatalog()
	if got := symbols(c.Related("TCS", 5)); !equal(got, []string{"INFY", "WIPRO"}) {
		t.Errorf("Related(TCS) = %v", got)
	}
	if got := c.Related("NONE", 5); got != nil {
		t.Errorf("Related(NONE) = %v, want nil", got)
	}
}

func TestCatalog_Watch(t *testing.T) {
	w := Watchlist{User: "alice"}
	for _, s := range []string{"TCS", "INFY", "TCS", "WIPRO", "GONE"} {
		w.Add(s)
	}
	if !equal(w.Symbols, []string{"TCS", "INFY", "WIPRO", "GONE"}) {
		t.Errorf("Symbols = %v, want no duplicate", w.Symbols)
	}
	if w.Remove("NONE") {
		t.Error("Remove(NONE) = true")
	}

	s := testCatalog().Watch(w)
	if s.Gainers != 1 || s.Losers != 1 || len(s.Tickers) != 3 {
		t.Errorf("Watch() = %+v, want 3 tickers, 1 gainer, 1 loser", s)
	}
	if !equal(s.Missing, []string{"GONE"}) {
		t.Errorf("Missing = %v, want [GONE]", s.Missing)
	}
}

func TestTicker_Validate(t *testing.T) {
	tests := []struct {
		ticker  Ticker
		wantErr bool
	}{
		{Ticker{Symbol: "TCS", Price: inr(1)}, false},
		{Ticker{}, true},
		{Ticker{Symbol: "tcs"}, true},
		{Ticker{Symbol: "TCS", Price: inr(-1)}, true},
		{Ticker{Symbol: "TCS", Volume: -1}, true},
	}
	for _, tt := range tests {
		if err := tt.ticker.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.ticker, err, tt.wantErr)
		}
	}
}
