package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/orders"
	"github.com/etnz/stockfolio/renderer"
)

// orderCmd places a buy or a sell order, depending on side.
type orderCmd struct {
	side  string
	price string
	fill  bool
}

func (c *orderCmd) Name() string { return c.side }
func (c *orderCmd) Synopsis() string {
	return fmt.Sprintf("place an order to %s shares of a symbol", c.side)
}
func (c *orderCmd) Usage() string {
	return fmt.Sprintf(`sfo -user <user> %[1]s [-price <price>] [-fill] <symbol> <quantity>

  Places a pending order to %[1]s a whole number of shares. Without -price the
  order is placed at the current ticker price. With -fill the order is
  executed right away.
`, c.side)
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "Limit price per share. Defaults to the current ticker price.")
	f.BoolVar(&c.fill, "fill", false, "Execute the order immediately.")
}

func (c *orderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil || f.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: %s requires -user, a symbol and a quantity\n", c.side)
		return subcommands.ExitUsageError
	}
	side, err := stockfolio.ParseSide(c.side)
	if err != nil {
		return fail("%v", err)
	}
	qty, err := stockfolio.ParseQuantity(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid quantity %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}

	svc, cfg, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	var price stockfolio.Money
	if c.price != "" {
		if price, err = stockfolio.ParseMoney(c.price, cfg.Portfolio.Currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid price %q: %v\n", c.price, err)
			return subcommands.ExitUsageError
		}
	}

	o, err := svc.PlaceOrder(ctx, user, strings.ToUpper(f.Arg(0)), side, qty, price)
	if err != nil {
		return fail("%v", err)
	}
	if c.fill {
		filled, err := svc.FillOrder(ctx, o.ID.String())
		if err != nil {
			return fail("order %s placed but not filled: %v", o.ID, err)
		}
		o = filled
	}
	fmt.Println(o)
	return subcommands.ExitSuccess
}

type fillCmd struct{}

func (*fillCmd) Name() string     { return "fill" }
func (*fillCmd) Synopsis() string { return "execute pending orders" }
func (*fillCmd) Usage() string {
	return `sfo fill <order-id>...

  Executes pending orders at their price. A sell order that would sell more
  shares than held is rejected and stays pending.
`
}

func (*fillCmd) SetFlags(*flag.FlagSet) {}

func (*fillCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: fill requires at least one order id")
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		o, err := svc.FillOrder(ctx, id)
		if err != nil {
			status = fail("filling %s: %v", id, err)
			continue
		}
		fmt.Println(o)
	}
	return status
}

type cancelCmd struct {
	all bool
}

func (*cancelCmd) Name() string     { return "cancel" }
func (*cancelCmd) Synopsis() string { return "cancel pending orders" }
func (*cancelCmd) Usage() string {
	return `sfo cancel <order-id>...
sfo -user <user> cancel -all

  Cancels pending orders, or all the pending orders of the user with -all.
`
}

func (c *cancelCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Cancel all the pending orders of the user.")
}

func (c *cancelCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.all == (f.NArg() > 0) {
		fmt.Fprintln(os.Stderr, "Error: cancel requires either order ids or -all")
		return subcommands.ExitUsageError
	}
	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	if c.all {
		user, err := currentUser()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		n, err := svc.CancelAll(ctx, user)
		if err != nil {
			return fail("%v", err)
		}
		fmt.Printf("%d orders canceled\n", n)
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		o, err := svc.CancelOrder(ctx, id)
		if err != nil {
			status = fail("canceling %s: %v", id, err)
			continue
		}
		fmt.Println(o)
	}
	return status
}

type ordersCmd struct {
	status string
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list the orders of the user" }
func (*ordersCmd) Usage() string {
	return `sfo -user <user> orders [-status pending,filled,canceled]

  Lists the orders of the user, oldest first.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "Comma separated statuses to list. Lists all by default.")
}

func (c *ordersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := currentUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var statuses []orders.Status
	for _, s := range strings.FieldsFunc(c.status, func(r rune) bool { return r == ',' }) {
		st, err := orders.ParseStatus(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		statuses = append(statuses, st)
	}

	svc, _, release, err := openService(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer release()

	list, err := svc.Orders(ctx, user, statuses...)
	if err != nil {
		return fail("%v", err)
	}
	var b strings.Builder
	if err := renderer.Orders(&b, user, list); err != nil {
		return fail("rendering: %v", err)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
