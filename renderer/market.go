package renderer

import (
	"fmt"
	"io"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/orders"
)

// Tickers renders a list of tickers under title.
func Tickers(w io.Writer, title string, tickers []market.Ticker) error {
	doc := md.NewMarkdown(w)
	tickersSection(doc, title, tickers)
	return doc.Build()
}

func tickersSection(doc *md.Markdown, title string, tickers []market.Ticker) {
	doc.H1(title)
	if len(tickers) == 0 {
		doc.PlainText("No tickers.")
		return
	}
	table := md.TableSet{
		Alignment: alignments("lllrrrr"),
		Header:    []string{"Symbol", "Name", "Sector", "Price", "Change", "Change %", "Volume"},
	}
	for _, tk := range tickers {
		symbol := tk.Symbol
		if tk.IsIndex {
			symbol += " (index)"
		}
		table.Rows = append(table.Rows, row(symbol, tk.Name, tk.Sector, tk.Price.String(), tk.Change.SignedString(), tk.ChangePct.SignedString(), strconv.FormatInt(tk.Volume, 10)))
	}
	doc.Table(table)
}

// Bars renders the daily bars of a symbol and their performance.
func Bars(w io.Writer, symbol string, bars []market.PriceBar) error {
	doc := md.NewMarkdown(w)
	doc.H1(symbol)
	if len(bars) == 0 {
		doc.PlainText("No price data.")
		return doc.Build()
	}
	doc.PlainText(fmt.Sprintf("Performance from %s to %s: %s", bars[0].Date, bars[len(bars)-1].Date, md.Bold(market.Performance(bars).SignedString())))
	doc.PlainText("")
	table := md.TableSet{
		Alignment: alignments("lrrrrr"),
		Header:    []string{"Date", "Open", "High", "Low", "Close", "Volume"},
	}
	for _, b := range bars {
		table.Rows = append(table.Rows, []string{b.Date.String(), b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(), strconv.FormatInt(b.Volume, 10)})
	}
	return doc.Table(table).Build()
}

// Watchlist renders a resolved watchlist.
func Watchlist(w io.Writer, s market.WatchSummary) error {
	doc := md.NewMarkdown(w)
	tickersSection(doc, "Watchlist of "+s.User, s.Tickers)
	if len(s.Tickers) > 0 {
		doc.PlainText("")
		doc.PlainText(fmt.Sprintf("%d gainers, %d losers.", s.Gainers, s.Losers))
	}
	if len(s.Missing) > 0 {
		doc.H2("Unlisted")
		doc.BulletList(s.Missing...)
	}
	return doc.Build()
}

// Orders renders orders, oldest first.
func Orders(w io.Writer, user string, list []orders.Order) error {
	doc := md.NewMarkdown(w)
	doc.H1("Orders of " + user)
	if len(list) == 0 {
		doc.PlainText("No orders.")
		return doc.Build()
	}
	table := md.TableSet{
		Alignment: alignments("llllrrl"),
		Header:    []string{"ID", "Created", "Side", "Symbol", "Quantity", "Price", "Status"},
	}
	for _, o := range list {
		table.Rows = append(table.Rows, row(o.ID.String(), o.Created.Format("2006-01-02 15:04"), o.Side.String(), o.Symbol, o.Quantity.String(), o.Price.String(), string(o.Status)))
	}
	return doc.Table(table).Build()
}
