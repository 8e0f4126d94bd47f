package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"

	md "github.com/nao1215/markdown"

	"github.com/etnz/stockfolio"
)

// Portfolio renders the portfolio of a user: totals, allocation, the top
// holdings (all of them when top <= 0) and the symbols that were skipped.
func Portfolio(w io.Writer, user string, s stockfolio.PortfolioSummary, skipped map[string]string, top int) error {
	doc := md.NewMarkdown(w)
	doc.H1("Portfolio of " + user)

	doc.Table(md.TableSet{
		Alignment: alignments("lr"),
		Header:    []string{"Total", "Amount"},
		Rows: [][]string{
			{"Value", s.TotalValue.String()},
			{"Cost", s.TotalCost.String()},
			{"Gain/Loss", s.TotalGainLoss.SignedString()},
			{"Return", s.TotalReturn.SignedString()},
			{"Realized", s.TotalRealized.SignedString()},
			{"Day Change", s.DayChange.SignedString()},
		},
	})

	if sectors := s.Sectors(); len(sectors) > 0 {
		doc.H2("Allocation")
		table := md.TableSet{Alignment: alignments("lr"), Header: []string{"Sector", "Weight"}}
		for _, sector := range sectors {
			table.Rows = append(table.Rows, row(sector, s.Allocation[sector].String()))
		}
		doc.Table(table)
	}

	holdings := s.Holdings
	if top > 0 {
		holdings = s.Top(top)
	}
	if len(holdings) > 0 {
		if len(holdings) < len(s.Holdings) {
			doc.H2(fmt.Sprintf("Top %d Holdings", len(holdings)))
		} else {
			doc.H2("Holdings")
		}
		table := md.TableSet{
			Alignment: alignments("lrrrrrr"),
			Header:    []string{"Symbol", "Shares", "Avg Cost", "Price", "Value", "Gain/Loss", "Weight"},
		}
		for _, h := range holdings {
			table.Rows = append(table.Rows, row(h.Symbol, h.Shares.String(), h.AvgCost.String(), h.Price.String(), h.MarketValue.String(), h.Unrealized.SignedString(), h.Weight.String()))
		}
		doc.Table(table)
	}

	if len(skipped) > 0 {
		doc.H2("Skipped")
		var items []string
		for _, symbol := range slices.Sorted(maps.Keys(skipped)) {
			items = append(items, md.Bold(symbol)+": "+skipped[symbol])
		}
		doc.BulletList(items...)
	}
	return doc.Build()
}

// Position renders a single position.
func Position(w io.Writer, p stockfolio.PositionSummary) error {
	return md.NewMarkdown(w).
		H1(p.Symbol).
		Table(md.TableSet{
			Alignment: alignments("lr"),
			Header:    []string{"", p.Symbol},
			Rows: [][]string{
				{"Shares", p.Shares.String()},
				{"Average Cost", p.AvgCost.String()},
				{"Price", p.Price.String()},
				{"Market Value", p.MarketValue.String()},
				{"Cost Basis", p.CostBasis.String()},
				{"Unrealized", p.Unrealized.SignedString()},
				{"Return", p.Return.SignedString()},
				{"Realized", p.Realized.SignedString()},
				{"Trades", itoa(p.Trades)},
			},
		}).
		Build()
}

// History renders the daily history of a portfolio.
func History(w io.Writer, user string, points []stockfolio.HistoryPoint) error {
	doc := md.NewMarkdown(w)
	doc.H1("History of " + user)
	if len(points) == 0 {
		doc.PlainText("No trades.")
		return doc.Build()
	}
	table := md.TableSet{
		Alignment: alignments("lrrrr"),
		Header:    []string{"Date", "Value", "Cost", "Gain/Loss", "Realized"},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{p.Date.String(), p.Value.String(), p.Cost.String(), p.GainLoss.SignedString(), p.Realized.SignedString()})
	}
	return doc.Table(table).Build()
}

// Stats renders trading statistics.
func Stats(w io.Writer, user string, s stockfolio.TradingStats) error {
	return md.NewMarkdown(w).
		H1("Trading Statistics of " + user).
		Table(md.TableSet{
			Alignment: alignments("lr"),
			Header:    []string{"Statistic", "Value"},
			Rows: [][]string{
				{"Trades", itoa(s.Total)},
				{"Buys", itoa(s.Buys)},
				{"Sells", itoa(s.Sells)},
				{"Symbols", itoa(s.Symbols)},
				{"Bought", s.Bought.String()},
				{"Sold", s.Sold.String()},
			},
		}).
		Build()
}
