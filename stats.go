package stockfolio

// TradingStats counts trading activity.
type TradingStats struct {
	Total   int
	Buys    int
	Sells   int
	Symbols int   // distinct symbols traded
	Bought  Money // gross amount bought
	Sold    Money // gross amount sold
}

// Stats computes trading statistics. Trades are not validated beyond their
// currency: Bought and Sold are in the feed currency.
func Stats(trades []Trade) (TradingStats, error) {
	var s TradingStats
	if err := CheckCurrency(trades, FeedCurrency(trades)); err != nil {
		return s, err
	}
	symbols := make(map[string]struct{})
	for _, t := range trades {
		s.Total++
		symbols[t.Symbol] = struct{}{}
		switch t.Side {
		case Buy:
			s.Buys++
			s.Bought = s.Bought.Add(t.Notional())
		case Sell:
			s.Sells++
			s.Sold = s.Sold.Add(t.Notional())
		}
	}
	s.Symbols = len(symbols)
	return s, nil
}
