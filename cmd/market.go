package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/renderer"
)

type tickersCmd struct {
	filter   market.Filter
	minPrice string
	maxPrice string
	gainers  int
	losers   int
	indexes  bool
	related  string
	sectors  bool
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "list and screen the listed tickers" }
func (*tickersCmd) Usage() string {
	return `sfo tickers [-sector <sector>] [-q <text>] [-min <price>] [-max <price>] [-min-volume <n>]
sfo tickers -gainers <n> | -losers <n> | -indexes | -sectors | -related <symbol>

  Screens the stocks of the catalog, best performers of the day first.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter.Sector, "sector", "", "Only list stocks of this sector.")
	f.StringVar(&c.filter.Query, "q", "", "Only list stocks whose symbol or name contains the text.")
	f.StringVar(&c.minPrice, "min", "", "Minimum price.")
	f.StringVar(&c.maxPrice, "max", "", "Maximum price.")
	f.Int64Var(&c.filter.MinVolume, "min-volume", 0, "Minimum volume.")
	f.IntVar(&c.gainers, "gainers", 0, "List the n top gainers of the day.")
	f.IntVar(&c.losers, "losers", 0, "List the n top losers of the day.")
	f.BoolVar(&c.indexes, "indexes", false, "List the market indexes.")
	f.BoolVar(&c.sectors, "sectors", false, "List the sectors.")
	f.StringVar(&c.related, "related", "", "List stocks of the same sector as the symbol.")
}

func (c *tickersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, cfg, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	for _, p := range []struct {
		s   string
		dst *stockfolio.Money
	}{{c.minPrice, &c.filter.MinPrice}, {c.maxPrice, &c.filter.MaxPrice}} {
		if p.s == "" {
			continue
		}
		if *p.dst, err = stockfolio.ParseMoney(p.s, cfg.Portfolio.Currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid price %q: %v\n", p.s, err)
			return subcommands.ExitUsageError
		}
	}

	catalog, err := svc.Catalog(ctx)
	if err != nil {
		return fail("%v", err)
	}

	var b strings.Builder
	switch {
	case c.sectors:
		b.WriteString("# Sectors\n\n")
		for _, s := range catalog.Sectors() {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	case c.gainers > 0:
		err = renderer.Tickers(&b, "Top Gainers", catalog.Gainers(c.gainers))
	case c.losers > 0:
		err = renderer.Tickers(&b, "Top Losers", catalog.Losers(c.losers))
	case c.indexes:
		err = renderer.Tickers(&b, "Indexes", catalog.Indexes())
	case c.related != "":
		symbol := strings.ToUpper(c.related)
		err = renderer.Tickers(&b, "Related to "+symbol, catalog.Related(symbol, 10))
	default:
		err = renderer.Tickers(&b, "Stocks", catalog.Screen(c.filter))
	}
	if err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type importTickersCmd struct {
	sel      market.Selectors
	currency string
}

func (*importTickersCmd) Name() string     { return "import-tickers" }
func (*importTickersCmd) Synopsis() string { return "import tickers from a JSON document" }
func (*importTickersCmd) Usage() string {
	return `sfo import-tickers [-items <jsonpath>] [-symbol <jsonpath>] ... <file.json|->

  Imports or updates tickers from any JSON document. Each field is located
  with a JSONPath expression evaluated on the items selected by -items.

Usage Examples:
$ sfo import-tickers -items '$.data[*]' -price '$.lastPrice' -change-pct '$.pChange' nse.json
`
}

func (c *importTickersCmd) SetFlags(f *flag.FlagSet) {
	d := market.DefaultSelectors
	f.StringVar(&c.sel.Items, "items", d.Items, "JSONPath of the ticker objects.")
	f.StringVar(&c.sel.Symbol, "symbol", d.Symbol, "JSONPath of the symbol.")
	f.StringVar(&c.sel.Name, "name", d.Name, "JSONPath of the company name.")
	f.StringVar(&c.sel.Exchange, "exchange", d.Exchange, "JSONPath of the exchange.")
	f.StringVar(&c.sel.Sector, "sector", d.Sector, "JSONPath of the sector.")
	f.StringVar(&c.sel.Price, "price", d.Price, "JSONPath of the price.")
	f.StringVar(&c.sel.Change, "change", d.Change, "JSONPath of the day change.")
	f.StringVar(&c.sel.ChangePct, "change-pct", d.ChangePct, "JSONPath of the day change in percent.")
	f.StringVar(&c.sel.Volume, "volume", d.Volume, "JSONPath of the volume.")
	f.StringVar(&c.sel.IsIndex, "is-index", d.IsIndex, "JSONPath of the index flag.")
	f.StringVar(&c.currency, "currency", "", "Currency of the prices. Defaults to the configured currency.")
}

func (c *importTickersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import-tickers requires exactly one file")
		return subcommands.ExitUsageError
	}
	svc, cfg, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	currency := c.currency
	if currency == "" {
		currency = cfg.Portfolio.Currency
	}
	r := os.Stdin
	if f.Arg(0) != "-" {
		if r, err = os.Open(f.Arg(0)); err != nil {
			return fail("%v", err)
		}
		defer r.Close()
	}
	tickers, err := market.ImportTickers(r, c.sel, currency)
	if err != nil {
		return fail("reading %s: %v", f.Arg(0), err)
	}
	if err := svc.ImportTickers(ctx, tickers); err != nil {
		return fail("%v", err)
	}
	fmt.Printf("%d tickers imported\n", len(tickers))
	return subcommands.ExitSuccess
}

type barsCmd struct {
	window string
	on     string
	imp    string
	csv    bool
}

func (*barsCmd) Name() string     { return "bars" }
func (*barsCmd) Synopsis() string { return "display or import the daily price bars of a symbol" }
func (*barsCmd) Usage() string {
	return `sfo bars [-w 1d|1w|1m|3m|6m|1y] [-d <date>] [-csv] <symbol>
sfo bars -import <file.csv> <symbol>

  Displays the daily bars of a symbol over a window ending on a date, or
  imports bars from a CSV file with the columns date,open,high,low,close,volume.
`
}

func (c *barsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "1m", "Chart window.")
	f.StringVar(&c.on, "d", date.Today().String(), "Last day of the window.")
	f.StringVar(&c.imp, "import", "", "CSV file of bars to import.")
	f.BoolVar(&c.csv, "csv", false, "Print the bars as CSV.")
}

func (c *barsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: bars requires exactly one symbol")
		return subcommands.ExitUsageError
	}
	symbol := strings.ToUpper(f.Arg(0))
	window, err := date.ParseLookback(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc, cfg, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	if c.imp != "" {
		r, err := os.Open(c.imp)
		if err != nil {
			return fail("%v", err)
		}
		defer r.Close()
		bars, err := market.ReadBarsCSV(r, symbol, cfg.Portfolio.Currency)
		if err != nil {
			return fail("reading %s: %v", c.imp, err)
		}
		if err := svc.ImportBars(ctx, bars); err != nil {
			return fail("%v", err)
		}
		fmt.Printf("%d bars imported for %s\n", len(bars), symbol)
		return subcommands.ExitSuccess
	}

	bars, err := svc.Bars(ctx, symbol, window, on)
	if err != nil {
		return fail("%v", err)
	}
	if c.csv {
		if err := market.WriteBarsCSV(os.Stdout, bars); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	if err := renderer.Bars(&b, symbol, bars); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type watchCmd struct {
	add    bool
	remove bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "manage the watchlist of the user" }
func (*watchCmd) Usage() string {
	return `sfo -user <user> watch
sfo -user <user> watch -add <symbol>...
sfo -user <user> watch -rm <symbol>...

  Displays the watchlist of the user, or adds and removes symbols.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Add the symbols to the watchlist.")
	f.BoolVar(&c.remove, "rm", false, "Remove the symbols from the watchlist.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if c.add && c.remove || (c.add || c.remove) != (f.NArg() > 0) {
		fmt.Fprintln(os.Stderr, "Error: use either -add or -rm, followed by symbols")
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	for _, arg := range f.Args() {
		symbol := strings.ToUpper(arg)
		var changed bool
		if c.add {
			changed, err = svc.Watch(ctx, user, symbol)
		} else {
			changed, err = svc.Unwatch(ctx, user, symbol)
		}
		if err != nil {
			return fail("%s: %v", symbol, err)
		}
		if !changed {
			fmt.Fprintf(os.Stderr, "%s: unchanged\n", symbol)
		}
	}

	w, err := svc.Watchlist(ctx, user)
	if err != nil {
		return fail("%v", err)
	}
	var b strings.Builder
	if err := renderer.Watchlist(&b, w); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
