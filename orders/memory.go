package orders

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-memory Repository, safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	orders []Order
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) InsertOrder(ctx context.Context, o Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (m *Memory) TransitionOrder(ctx context.Context, id uuid.UUID, from, to Status, executed time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.ID != id {
			continue
		}
		if o.Status != from {
			return false, nil
		}
		m.orders[i].Status = to
		m.orders[i].Executed = executed
		return true, nil
	}
	return false, nil
}

func (m *Memory) ListOrders(ctx context.Context, user string, statuses ...Status) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Order
	for _, o := range m.orders {
		if o.User == user && (len(statuses) == 0 || slices.Contains(statuses, o.Status)) {
			res = append(res, o)
		}
	}
	return res, nil
}

var _ Repository = (*Memory)(nil)
