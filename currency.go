package stockfolio

import (
	"fmt"
	"slices"
)

// FeedCurrency returns the currency of the earliest trade that has one, ""
// when no trade has a currency.
func FeedCurrency(trades []Trade) string {
	var (
		cur   string
		first Trade
	)
	for _, t := range trades {
		if t.Price.cur == "" {
			continue
		}
		if cur == "" || t.Time.Before(first.Time) {
			cur, first = t.Price.cur, t
		}
	}
	return cur
}

// CheckCurrency returns a *ValidationError for the first trade, in feed
// order, whose currency is neither currency nor empty. Trades without a
// currency are accepted in any feed.
func CheckCurrency(trades []Trade, currency string) error {
	if currency == "" {
		return nil
	}
	i := slices.IndexFunc(trades, func(t Trade) bool { return t.Price.cur != "" && t.Price.cur != currency })
	if i < 0 {
		return nil
	}
	return &ValidationError{Trade: trades[i], Field: "currency", Reason: fmt.Sprintf("does not match feed currency %s", currency)}
}

// currencyOf returns the currency carried by any amount of h, and false when
// two of them disagree.
func (h Holding) currencyOf() (string, bool) {
	var cur string
	for _, m := range []Money{h.Price, h.AvgCost, h.Realized, h.Change} {
		switch {
		case m.cur == "":
		case cur == "":
			cur = m.cur
		case cur != m.cur:
			return "", false
		}
	}
	return cur, true
}
