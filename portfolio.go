package stockfolio

import (
	"cmp"
	"slices"
)

// UnknownSector is the sector of holdings whose sector is not known.
const UnknownSector = "Unknown"

// Holding is a position summary tagged with its ticker data.
type Holding struct {
	PositionSummary
	Sector string
	Change Money   // daily price change per share
	Weight Percent // share of the portfolio total value, set by AggregatePortfolio
}

// DayChange returns the value change of the holding over the day.
func (h Holding) DayChange() Money {
	if !h.IsOpen() {
		return Money{}
	}
	return h.Change.Mul(h.Shares)
}

// PortfolioSummary is a read-only view of a set of positions at current prices.
type PortfolioSummary struct {
	TotalValue    Money
	TotalCost     Money
	TotalGainLoss Money
	TotalRealized Money
	DayChange     Money
	TotalReturn   Percent
	Allocation    map[string]Percent // sector -> percent of TotalValue
	Holdings      []Holding          // open holdings, by market value descending
}

// AggregatePortfolio summarizes holdings.
//
// Closed holdings only contribute to TotalRealized. Allocation is empty when
// the total value is zero.
func AggregatePortfolio(holdings []Holding) PortfolioSummary {
	var s PortfolioSummary
	bySector := make(map[string]Money)
	for _, h := range holdings {
		s.TotalRealized = s.TotalRealized.Add(h.Realized)
		if !h.IsOpen() {
			continue
		}
		if h.Sector == "" {
			h.Sector = UnknownSector
		}
		s.TotalValue = s.TotalValue.Add(h.MarketValue)
		s.TotalCost = s.TotalCost.Add(h.CostBasis)
		s.DayChange = s.DayChange.Add(h.DayChange())
		bySector[h.Sector] = bySector[h.Sector].Add(h.MarketValue)
		s.Holdings = append(s.Holdings, h)
	}
	s.TotalGainLoss = s.TotalValue.Sub(s.TotalCost)
	s.TotalReturn = PercentOf(s.TotalGainLoss, s.TotalCost)

	s.Allocation = make(map[string]Percent)
	if !s.TotalValue.IsZero() {
		for sector, v := range bySector {
			s.Allocation[sector] = PercentOf(v, s.TotalValue)
		}
	}
	for i := range s.Holdings {
		s.Holdings[i].Weight = PercentOf(s.Holdings[i].MarketValue, s.TotalValue)
	}
	slices.SortStableFunc(s.Holdings, func(a, b Holding) int {
		if c := b.MarketValue.Decimal().Cmp(a.MarketValue.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return s
}

// Top returns the n largest holdings.
func (s PortfolioSummary) Top(n int) []Holding {
	if n < 0 || n >= len(s.Holdings) {
		return s.Holdings
	}
	return s.Holdings[:n]
}

// Sectors returns the allocated sectors, largest first.
func (s PortfolioSummary) Sectors() []string {
	sectors := make([]string, 0, len(s.Allocation))
	for sector := range s.Allocation {
		sectors = append(sectors, sector)
	}
	slices.SortFunc(sectors, func(a, b string) int {
		if c := cmp.Compare(s.Allocation[b], s.Allocation[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return sectors
}

// Holding returns the open holding of a symbol.
func (s PortfolioSummary) Holding(symbol string) (Holding, bool) {
	for _, h := range s.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}
