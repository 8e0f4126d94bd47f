// Package orders is the simplified order desk: orders are placed PENDING,
// then filled or canceled. Filled orders are the trade feed of a user.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/stockfolio"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown order IDs.
	ErrNotFound = errors.New("order not found")
	// ErrNotPending is returned when changing an order that is no longer pending.
	ErrNotPending = errors.New("order is not pending")
)

// Status is the life cycle state of an order.
type Status string

const (
	Pending  Status = "PENDING"
	Filled   Status = "FILLED"
	Canceled Status = "CANCELED"
)

// ParseStatus parses a status, case insensitive.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case Pending, Filled, Canceled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Order is a request from a user to trade a symbol at a price.
type Order struct {
	ID       uuid.UUID
	User     string
	Symbol   string
	Side     stockfolio.Side
	Quantity stockfolio.Quantity
	Price    stockfolio.Money
	Status   Status
	Created  time.Time
	Executed time.Time // zero until filled
}

// Trade returns the trade executed by a filled order.
func (o Order) Trade() stockfolio.Trade {
	return stockfolio.Trade{
		Symbol:   o.Symbol,
		Side:     o.Side,
		Quantity: o.Quantity,
		Price:    o.Price,
		Time:     o.Executed,
	}
}

func (o Order) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s [%s]", o.ID, o.Side, o.Quantity, o.Symbol, o.Price, o.Status)
}

// Repository persists orders.
type Repository interface {
	InsertOrder(ctx context.Context, o Order) error
	// GetOrder returns ErrNotFound for unknown IDs.
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	// TransitionOrder moves an order from status 'from' to 'to' and records
	// the execution time. It returns false when the order was not in 'from'.
	TransitionOrder(ctx context.Context, id uuid.UUID, from, to Status, executed time.Time) (bool, error)
	// ListOrders returns the orders of a user in creation order, restricted
	// to statuses when any is given.
	ListOrders(ctx context.Context, user string, statuses ...Status) ([]Order, error)
}
