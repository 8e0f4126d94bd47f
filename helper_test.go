package stockfolio

import "time"

// INR is a helper for test to create rupees from const
func INR(v float64) Money { return M(v, "INR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// day returns the time at noon of the nth day of January 2025.
func day(n int) time.Time { return time.Date(2025, time.January, n, 12, 0, 0, 0, time.UTC) }

func buy(n int, symbol string, qty int, price float64) Trade {
	return NewBuy(day(n), symbol, Q(qty), INR(price))
}

func sell(n int, symbol string, qty int, price float64) Trade {
	return NewSell(day(n), symbol, Q(qty), INR(price))
}

// eq reports whether a rounded to cents equals b.
func eq(a, b Money) bool { return a.Round(2).Equal(b) }
