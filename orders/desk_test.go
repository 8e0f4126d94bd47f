package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/stockfolio"
	"github.com/google/uuid"
)

// clock returns a clock that advances by a minute at every call.
func clock() func() time.Time {
	t := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func inr(v float64) stockfolio.Money { return stockfolio.M(v, "INR") }

func newDesk() *Desk { return NewDesk(NewMemory(), WithClock(clock())) }

func place(t *testing.T, d *Desk, side stockfolio.Side, qty int, price float64) Order {
	t.Helper()
	o, err := d.Place(context.Background(), "alice", "TCS", side, stockfolio.Q(qty), inr(price))
	if err != nil {
		t.Fatalf("Place(%s %d) error = %v", side, qty, err)
	}
	return o
}

func fill(t *testing.T, d *Desk, o Order) Order {
	t.Helper()
	f, err := d.Fill(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("Fill(%s) error = %v", o, err)
	}
	return f
}

func TestDesk_Place(t *testing.T) {
	ctx := context.Background()
	d := newDesk()

	o := place(t, d, stockfolio.Buy, 10, 100)
	if o.Status != Pending || o.ID == uuid.Nil || o.Created.IsZero() {
		t.Errorf("Place() = %v, want a pending order with an ID", o)
	}

	tests := []struct {
		name string
		user string
		side stockfolio.Side
		qty  int
		want error
	}{
		{"zero quantity", "alice", stockfolio.Buy, 0, stockfolio.ErrInvalidTrade},
		{"unknown side", "alice", 0, 1, stockfolio.ErrInvalidTrade},
		{"sell pending buy", "alice", stockfolio.Sell, 1, stockfolio.ErrOversell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Place(ctx, tt.user, "TCS", tt.side, stockfolio.Q(tt.qty), inr(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("Place() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := d.Place(ctx, "", "TCS", stockfolio.Buy, stockfolio.Q(1), inr(1)); err == nil {
		t.Error("Place() without user should fail")
	}
}

func TestDesk_SellChecksPendingSells(t *testing.T) {
	ctx := context.Background()
	d := newDesk()
	fill(t, d, place(t, d, stockfolio.Buy, 10, 100))
	place(t, d, stockfolio.Sell, 6, 110)

	_, err := d.Place(ctx, "alice", "TCS", stockfolio.Sell, stockfolio.Q(5), inr(110))
	var oe *stockfolio.OversellError
	if !errors.As(err, &oe) {
		t.Fatalf("Place() error = %v, want an oversell", err)
	}
	if !oe.Held.Equal(stockfolio.Q(4)) {
		t.Errorf("Held = %v, want 4 still available", oe.Held)
	}
	place(t, d, stockfolio.Sell, 4, 110)
}

func TestDesk_FillAndTrades(t *testing.T) {
	ctx := context.Background()
	d := newDesk()
	b1 := place(t, d, stockfolio.Buy, 10, 100)
	b2 := place(t, d, stockfolio.Buy, 5, 110)
	// filled in reverse order: trades follow the execution time.
	fill(t, d, b2)
	fill(t, d, b1)
	s := fill(t, d, place(t, d, stockfolio.Sell, 5, 120))
	if s.Status != Filled || s.Executed.IsZero() {
		t.Errorf("Fill() = %v, want a filled order with an execution time", s)
	}

	trades, err := d.Trades(ctx, "alice")
	if err != nil {
		t.Fatalf("Trades() error = %v", err)
	}
	if len(trades) != 3 || !trades[0].Price.Equal(inr(110)) || trades[2].Side != stockfolio.Sell {
		t.Fatalf("Trades() = %v", trades)
	}
	summary, err := stockfolio.ReconstructPosition(trades, inr(115))
	if err != nil {
		t.Fatalf("ReconstructPosition() error = %v", err)
	}
	if !summary.Unrealized.Round(2).Equal(inr(116.67)) {
		t.Errorf("Unrealized = %v, want 116.67", summary.Unrealized)
	}

	if _, err := d.Fill(ctx, b1.ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("Fill() twice error = %v, want ErrNotPending", err)
	}
	if _, err := d.Fill(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fill() unknown error = %v, want ErrNotFound", err)
	}
}

func TestDesk_FillRejectsOversell(t *testing.T) {
	ctx := context.Background()
	d := newDesk()
	b := place(t, d, stockfolio.Buy, 2, 100)
	fill(t, d, b)
	s1 := place(t, d, stockfolio.Sell, 2, 100)
	// the buy is canceled after the sell was accepted: nothing left to sell.
	repo := d.repo.(*Memory)
	repo.orders[0].Status = Canceled

	if _, err := d.Fill(ctx, s1.ID); !errors.Is(err, stockfolio.ErrOversell) {
		t.Fatalf("Fill() error = %v, want ErrOversell", err)
	}
	o, err := repo.GetOrder(ctx, s1.ID)
	if err != nil || o.Status != Pending {
		t.Errorf("order after a rejected fill = %v, %v, want pending", o, err)
	}
}

func TestDesk_Cancel(t *testing.T) {
	ctx := context.Background()
	d := newDesk()
	o1 := place(t, d, stockfolio.Buy, 1, 10)
	place(t, d, stockfolio.Buy, 2, 10)
	place(t, d, stockfolio.Buy, 3, 10)
	fill(t, d, place(t, d, stockfolio.Buy, 4, 10))

	c, err := d.Cancel(ctx, o1.ID)
	if err != nil || c.Status != Canceled {
		t.Fatalf("Cancel() = %v, %v", c, err)
	}
	if _, err := d.Cancel(ctx, o1.ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("Cancel() twice error = %v, want ErrNotPending", err)
	}

	n, err := d.CancelAll(ctx, "alice")
	if err != nil || n != 2 {
		t.Errorf("CancelAll() = %d, %v, want 2", n, err)
	}
	all, err := d.Orders(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []Status{Canceled, Canceled, Canceled, Filled}
	for i, o := range all {
		if o.Status != want[i] {
			t.Errorf("order #%d is %s, want %s", i, o.Status, want[i])
		}
	}
	if n, _ := d.CancelAll(ctx, "bob"); n != 0 {
		t.Errorf("CancelAll(bob) = %d, want 0", n)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("filled"); err != nil || s != Filled {
		t.Errorf("ParseStatus(filled) = %v, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) should fail")
	}
}
