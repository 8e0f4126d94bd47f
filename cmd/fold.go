package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/renderer"
)

// priceFlags collects repeated -p SYMBOL=PRICE flags.
type priceFlags map[string]string

func (p priceFlags) String() string {
	var parts []string
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (p priceFlags) Set(s string) error {
	symbol, price, ok := strings.Cut(s, "=")
	if !ok || symbol == "" || price == "" {
		return fmt.Errorf("expected SYMBOL=PRICE, got %q", s)
	}
	p[strings.ToUpper(symbol)] = price
	return nil
}

type foldCmd struct {
	prices   priceFlags
	tickers  string
	currency string
	format   bool
}

func (*foldCmd) Name() string     { return "fold" }
func (*foldCmd) Synopsis() string { return "reconstruct a portfolio from a JSONL trade file" }
func (*foldCmd) Usage() string {
	return `sfo fold [-p SYMBOL=PRICE]... [-tickers <file.json>] [-currency <code>] [-fmt] <trades.jsonl|->

  Reconstructs the positions of a trade file without any database, valuing
  them at the prices given by -p or read from a tickers JSON file.
  With -fmt, prints the trades sorted by time in the canonical JSONL form instead.

Usage Examples:
$ sfo fold -p TCS=3500 -p INFY=1500 trades.jsonl
`
}

func (c *foldCmd) SetFlags(f *flag.FlagSet) {
	c.prices = priceFlags{}
	f.Var(c.prices, "p", "Current price of a symbol, as SYMBOL=PRICE. Can be repeated.")
	f.StringVar(&c.tickers, "tickers", "", "JSON file of tickers providing prices and sectors.")
	f.StringVar(&c.currency, "currency", "INR", "Currency of the prices.")
	f.BoolVar(&c.format, "fmt", false, "Print the trades in canonical form.")
}

func (c *foldCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: fold requires exactly one trade file")
		return subcommands.ExitUsageError
	}
	trades, err := readTrades(f.Arg(0))
	if err != nil {
		return fail("%v", err)
	}
	if c.format {
		slices.SortStableFunc(trades, func(a, b stockfolio.Trade) int { return a.Time.Compare(b.Time) })
		if err := stockfolio.EncodeTrades(os.Stdout, trades); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	quotes, err := c.quotes()
	if err != nil {
		return fail("%v", err)
	}
	res := stockfolio.NewBook(trades).Reconstruct(quotes)
	skipped := make(map[string]string, len(res.Errors))
	for symbol, err := range res.Errors {
		skipped[symbol] = err.Error()
	}
	var b strings.Builder
	if err := renderer.Portfolio(&b, f.Arg(0), res.Portfolio(), skipped, -1); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// quotes merges the tickers file and the -p flags, the flags win.
func (c *foldCmd) quotes() (stockfolio.Quotes, error) {
	quotes := stockfolio.Quotes{}
	if c.tickers != "" {
		r, err := os.Open(c.tickers)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		tickers, err := market.ImportTickers(r, market.DefaultSelectors, c.currency)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.tickers, err)
		}
		for _, t := range tickers {
			quotes[t.Symbol] = t.Quote()
		}
	}
	for symbol, s := range c.prices {
		price, err := stockfolio.ParseMoney(s, c.currency)
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", symbol, err)
		}
		q := quotes[symbol]
		q.Symbol, q.Price = symbol, price
		quotes[symbol] = q
	}
	return quotes, nil
}

// readTrades decodes a JSONL trade file, "-" being the standard input.
func readTrades(path string) ([]stockfolio.Trade, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	trades, err := stockfolio.DecodeTrades(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return trades, nil
}
