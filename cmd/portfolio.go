package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stockfolio/renderer"
)

type portfolioCmd struct {
	top  int
	html bool
	all  string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the portfolio of the user at current prices" }
func (*portfolioCmd) Usage() string {
	return `sfo -user <user> portfolio [-top <n>] [-html]
sfo portfolio -all <user1,user2,...>

  Reconstructs every position from the filled orders of the user and values
  them at the current ticker prices. Symbols whose trades cannot be folded
  are listed apart.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "top", 0, "Number of holdings to list. Defaults to the configured top_holdings, -1 lists all.")
	f.BoolVar(&c.html, "html", false, "Print HTML instead of rendering for the terminal.")
	f.StringVar(&c.all, "all", "", "Comma separated users to report on, computed concurrently.")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, cfg, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	top := c.top
	if top == 0 {
		top = cfg.Portfolio.TopHoldings
	}

	users := strings.FieldsFunc(c.all, func(r rune) bool { return r == ',' || r == ' ' })
	if len(users) == 0 {
		user, err := currentUser()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		users = []string{user}
	}

	reports, err := svc.Portfolios(ctx, users)
	if err != nil {
		return fail("%v", err)
	}
	var b strings.Builder
	for _, user := range users {
		r := reports[user]
		if err := renderer.Portfolio(&b, r.User, r.Summary, r.Skipped, top); err != nil {
			return fail("rendering: %v", err)
		}
	}
	return c.print(b.String())
}

func (c *portfolioCmd) print(md string) subcommands.ExitStatus {
	if !c.html {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	html, err := renderer.HTML(md)
	if err != nil {
		return fail("converting to HTML: %v", err)
	}
	fmt.Print(html)
	return subcommands.ExitSuccess
}

type positionCmd struct{}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "display the position of the user in a symbol" }
func (*positionCmd) Usage() string {
	return `sfo -user <user> position <symbol>

  Displays the shares, average cost, realized and unrealized gains of the
  user in a symbol.
`
}

func (*positionCmd) SetFlags(*flag.FlagSet) {}

func (*positionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: position requires -user and exactly one symbol")
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	p, err := svc.Position(ctx, user, strings.ToUpper(f.Arg(0)))
	if err != nil {
		return fail("%v", err)
	}
	var b strings.Builder
	if err := renderer.Position(&b, p); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the daily history of the portfolio" }
func (*historyCmd) Usage() string {
	return `sfo -user <user> history

  Replays the filled orders day by day and values the open positions at
  current prices.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	points, err := svc.History(ctx, user)
	var b strings.Builder
	if err := renderer.History(&b, user, points); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	if err != nil {
		// the points before the error are still worth printing.
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display trading statistics of the user" }
func (*statsCmd) Usage() string {
	return `sfo -user <user> stats

  Counts the filled orders of the user and the amounts traded.
`
}

func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (*statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	s, err := svc.Stats(ctx, user)
	if err != nil {
		return fail("%v", err)
	}
	var b strings.Builder
	if err := renderer.Stats(&b, user, s); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
