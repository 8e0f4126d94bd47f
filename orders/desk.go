package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/stockfolio"
	"github.com/google/uuid"
)

// Desk places, fills and cancels orders.
type Desk struct {
	repo  Repository
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a Desk.
type Option func(*Desk)

// WithClock sets the clock used to timestamp orders.
func WithClock(now func() time.Time) Option { return func(d *Desk) { d.now = now } }

// WithIDs sets the order ID generator.
func WithIDs(newID func() uuid.UUID) Option { return func(d *Desk) { d.newID = newID } }

func NewDesk(repo Repository, opts ...Option) *Desk {
	d := &Desk{repo: repo, now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Place validates and stores a new pending order.
//
// A sell is rejected with a *stockfolio.OversellError when its quantity
// exceeds the filled position minus the sells already pending.
func (d *Desk) Place(ctx context.Context, user, symbol string, side stockfolio.Side, qty stockfolio.Quantity, price stockfolio.Money) (Order, error) {
	o := Order{
		ID:       d.newID(),
		User:     user,
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Status:   Pending,
		Created:  d.now(),
	}
	if user == "" {
		return Order{}, errors.New("order user is missing")
	}
	t := o.Trade()
	t.Time = o.Created
	if err := t.Validate(); err != nil {
		return Order{}, err
	}

	if side == stockfolio.Sell {
		available, err := d.available(ctx, user, symbol)
		if err != nil {
			return Order{}, err
		}
		if available.LessThan(qty) {
			return Order{}, &stockfolio.OversellError{Trade: t, Held: available}
		}
	}

	if err := d.repo.InsertOrder(ctx, o); err != nil {
		return Order{}, fmt.Errorf("storing order %s: %w", o.ID, err)
	}
	return o, nil
}

// available returns the shares of symbol that user can still sell.
func (d *Desk) available(ctx context.Context, user, symbol string) (stockfolio.Quantity, error) {
	p, err := d.Position(ctx, user, symbol)
	if err != nil {
		return stockfolio.Quantity{}, err
	}
	pending, err := d.repo.ListOrders(ctx, user, Pending)
	if err != nil {
		return stockfolio.Quantity{}, fmt.Errorf("listing pending orders of %s: %w", user, err)
	}
	held := p.Shares
	for _, o := range pending {
		if o.Symbol == symbol && o.Side == stockfolio.Sell {
			held = held.Sub(o.Quantity)
		}
	}
	if held.IsNegative() {
		return stockfolio.Quantity{}, nil
	}
	return held, nil
}

// Position folds the filled orders of user in symbol.
func (d *Desk) Position(ctx context.Context, user, symbol string) (stockfolio.Position, error) {
	trades, err := d.Trades(ctx, user)
	if err != nil {
		return stockfolio.Position{}, err
	}
	var mine []stockfolio.Trade
	for _, t := range trades {
		if t.Symbol == symbol {
			mine = append(mine, t)
		}
	}
	p, err := stockfolio.NewPosition(symbol).Fold(mine...)
	if err != nil {
		return p, fmt.Errorf("folding %s position of %s: %w", symbol, user, err)
	}
	return p, nil
}

// Fill executes a pending order. A sell that would oversell the filled
// position is rejected and the order stays pending.
func (d *Desk) Fill(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := d.pending(ctx, id)
	if err != nil {
		return Order{}, err
	}
	o.Executed = d.now()
	if o.Side == stockfolio.Sell {
		p, err := d.Position(ctx, o.User, o.Symbol)
		if err != nil {
			return Order{}, err
		}
		if _, err := p.Apply(o.Trade()); err != nil {
			return Order{}, err
		}
	}
	if err := d.transition(ctx, o.ID, Filled, o.Executed); err != nil {
		return Order{}, err
	}
	o.Status = Filled
	return o, nil
}

// Cancel cancels a pending order.
func (d *Desk) Cancel(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := d.pending(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := d.transition(ctx, o.ID, Canceled, time.Time{}); err != nil {
		return Order{}, err
	}
	o.Status = Canceled
	return o, nil
}

// CancelAll cancels every pending order of user and returns how many were
// canceled.
func (d *Desk) CancelAll(ctx context.Context, user string) (int, error) {
	pending, err := d.repo.ListOrders(ctx, user, Pending)
	if err != nil {
		return 0, fmt.Errorf("listing pending orders of %s: %w", user, err)
	}
	n := 0
	for _, o := range pending {
		ok, err := d.repo.TransitionOrder(ctx, o.ID, Pending, Canceled, time.Time{})
		if err != nil {
			return n, fmt.Errorf("canceling order %s: %w", o.ID, err)
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Orders returns every order of user in creation order.
func (d *Desk) Orders(ctx context.Context, user string, statuses ...Status) ([]Order, error) {
	return d.repo.ListOrders(ctx, user, statuses...)
}

// Trades returns the trades of the filled orders of user, oldest first.
func (d *Desk) Trades(ctx context.Context, user string) ([]stockfolio.Trade, error) {
	filled, err := d.repo.ListOrders(ctx, user, Filled)
	if err != nil {
		return nil, fmt.Errorf("listing filled orders of %s: %w", user, err)
	}
	slices.SortStableFunc(filled, func(a, b Order) int { return a.Executed.Compare(b.Executed) })
	trades := make([]stockfolio.Trade, len(filled))
	for i, o := range filled {
		trades[i] = o.Trade()
	}
	return trades, nil
}

func (d *Desk) pending(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := d.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status != Pending {
		return Order{}, fmt.Errorf("order %s is %s: %w", id, o.Status, ErrNotPending)
	}
	return o, nil
}

func (d *Desk) transition(ctx context.Context, id uuid.UUID, to Status, executed time.Time) error {
	ok, err := d.repo.TransitionOrder(ctx, id, Pending, to, executed)
	if err != nil {
		return fmt.Errorf("updating order %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotPending)
	}
	return nil
}
