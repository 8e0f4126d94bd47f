package stockfolio

import (
	"errors"
	"testing"
)

func TestNewBook(t *testing.T) {
	b := NewBook([]Trade{
		buy(3, "TCS", 1, 10),
		buy(2, "AAPL", 1, 10),
		sell(1, "TCS", 1, 10),
		buy(1, "TCS", 2, 10),
	})
	if got := b.Symbols(); len(got) != 2 || got[0] != "AAPL" || got[1] != "TCS" {
		t.Errorf("Symbols() = %v, want [AAPL TCS]", got)
	}
	// same timestamp keeps the feed order.
	tcs := b.Trades("TCS")
	if len(tcs) != 3 || tcs[0].Side != Sell || tcs[1].Side != Buy || !tcs[2].Time.Equal(day(3)) {
		t.Errorf("Trades(TCS) = %v, want sorted by time, stable", tcs)
	}
	if b.Trades("NONE") != nil {
		t.Error("Trades(NONE) should be empty")
	}
}

func TestBook_Reconstruct(t *testing.T) {
	b := NewBook([]Trade{
		buy(1, "AAPL", 10, 100),
		buy(1, "BAD", 1, 10),
		buy(2, "AAPL", 5, 110),
		sell(2, "BAD", 2, 10),
		sell(3, "AAPL", 5, 120),
		buy(3, "GONE", 1, 10),
		sell(4, "GONE", 1, 30),
		buy(4, "NOQ", 1, 10),
	})
	quotes := Quotes{
		"AAPL": {Symbol: "AAPL", Sector: "Technology", Price: INR(115), Change: INR(1)},
		"BAD":  {Symbol: "BAD", Price: INR(10)},
	}
	r := b.Reconstruct(quotes)

	if len(r.Errors) != 2 {
		t.Fatalf("Errors = %v, want BAD and NOQ", r.Errors)
	}
	if !errors.Is(r.Errors["BAD"], ErrOversell) {
		t.Errorf("Errors[BAD] = %v, want ErrOversell", r.Errors["BAD"])
	}
	if !errors.Is(r.Errors["NOQ"], ErrNoQuote) {
		t.Errorf("Errors[NOQ] = %v, want ErrNoQuote", r.Errors["NOQ"])
	}
	if err := r.Err(); !errors.Is(err, ErrOversell) || !errors.Is(err, ErrNoQuote) {
		t.Errorf("Err() = %v, want both errors", err)
	}

	if len(r.Positions) != 2 || r.Positions[0].Symbol != "AAPL" || r.Positions[1].Symbol != "GONE" {
		t.Fatalf("Positions = %v, want AAPL and GONE", r.Positions)
	}
	aapl := r.Positions[0]
	if !eq(aapl.Unrealized, INR(116.67)) || aapl.Sector != "Technology" {
		t.Errorf("AAPL = %+v, want 116.67 unrealized in Technology", aapl)
	}

	s := r.Portfolio()
	if !s.TotalValue.Equal(INR(1150)) {
		t.Errorf("TotalValue = %v, want 1150", s.TotalValue)
	}
	// AAPL 83.33 + GONE 20
	if !eq(s.TotalRealized, INR(103.33)) {
		t.Errorf("TotalRealized = %v, want 103.33", s.TotalRealized)
	}
	if !s.DayChange.Equal(INR(10)) {
		t.Errorf("DayChange = %v, want 10", s.DayChange)
	}
}

func TestResult_ErrNil(t *testing.T) {
	r := NewBook(nil).Reconstruct(Quotes{})
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestBook_ReconstructMixedCurrencies(t *testing.T) {
	b := NewBook([]Trade{
		buy(1, "TCS", 10, 100),
		NewBuy(day(2), "AAPL", Q(1), M(150, "USD")),
		NewBuy(day(2), "ITC", Q(4), NO(40)),
	})
	if b.Currency() != "INR" {
		t.Errorf("Currency() = %q, want INR", b.Currency())
	}
	quotes := Quotes{
		"TCS":  {Price: INR(120), Change: INR(1)},
		"AAPL": {Price: M(160, "USD")},
		"ITC":  {Price: M(45, "USD")},
	}
	r := b.Reconstruct(quotes)

	if len(r.Positions) != 1 || r.Positions[0].Symbol != "TCS" {
		t.Fatalf("Positions = %v, want TCS only", r.Positions)
	}
	for _, symbol := range []string{"AAPL", "ITC"} {
		if !errors.Is(r.Errors[symbol], ErrCurrencyMismatch) {
			t.Errorf("Errors[%s] = %v, want ErrCurrencyMismatch", symbol, r.Errors[symbol])
		}
	}
	if s := r.Portfolio(); !s.TotalValue.Equal(INR(1200)) {
		t.Errorf("TotalValue = %v, want 1200", s.TotalValue)
	}
}

func TestBook_ReconstructQuotesSetCurrency(t *testing.T) {
	b := NewBook([]Trade{
		NewBuy(day(1), "AAPL", Q(1), NO(150)),
		NewBuy(day(1), "MSFT", Q(1), NO(300)),
	})
	r := b.Reconstruct(Quotes{"AAPL": {Price: M(160, "USD")}, "MSFT": {Price: INR(310)}})

	// symbols fold in order, the first quoted currency wins.
	if len(r.Positions) != 1 || r.Positions[0].Symbol != "AAPL" {
		t.Fatalf("Positions = %v, want AAPL only", r.Positions)
	}
	if !errors.Is(r.Errors["MSFT"], ErrCurrencyMismatch) {
		t.Errorf("Errors[MSFT] = %v, want ErrCurrencyMismatch", r.Errors["MSFT"])
	}
}
