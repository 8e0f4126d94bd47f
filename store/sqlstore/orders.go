package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/orders"
	"github.com/google/uuid"
)

func (s *Store) InsertOrder(ctx context.Context, o orders.Order) error {
	_, err := s.exec(ctx, `
		INSERT INTO orders(id, user_name, symbol, side, quantity, currency, price, status, created_ns, executed_ns)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID.String(), o.User, o.Symbol, o.Side.String(), o.Quantity.String(), o.Price.Currency(), o.Price.Decimal().String(),
		string(o.Status), nanos(o.Created), nanos(o.Executed))
	if err != nil {
		return fmt.Errorf("inserting order %s: %w", o.ID, err)
	}
	return nil
}

const orderColumns = `id, user_name, symbol, side, quantity, currency, price, status, created_ns, executed_ns`

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (orders.Order, error) {
	o, err := scanOrder(s.queryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, fmt.Errorf("order %s: %w", id, orders.ErrNotFound)
	}
	return o, err
}

func (s *Store) TransitionOrder(ctx context.Context, id uuid.UUID, from, to orders.Status, executed time.Time) (bool, error) {
	res, err := s.exec(ctx, `UPDATE orders SET status = ?, executed_ns = ? WHERE id = ? AND status = ?`,
		string(to), nanos(executed), id.String(), string(from))
	if err != nil {
		return false, fmt.Errorf("updating order %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) ListOrders(ctx context.Context, user string, statuses ...orders.Status) ([]orders.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_name = ?`
	args := []any{user}
	if len(statuses) > 0 {
		query += ` AND status IN (?` + strings.Repeat(`, ?`, len(statuses)-1) + `)`
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += ` ORDER BY created_ns, id`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders of %s: %w", user, err)
	}
	defer rows.Close()
	var res []orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func scanOrder(row scanner) (orders.Order, error) {
	var (
		o                         orders.Order
		id, side, qty, cur, price string
		status                    string
		created, executed         int64
	)
	if err := row.Scan(&id, &o.User, &o.Symbol, &side, &qty, &cur, &price, &status, &created, &executed); err != nil {
		return o, err
	}
	var err error
	if o.ID, err = uuid.Parse(id); err != nil {
		return o, fmt.Errorf("order id %q: %w", id, err)
	}
	if o.Side, err = stockfolio.ParseSide(side); err != nil {
		return o, fmt.Errorf("order %s: %w", id, err)
	}
	if o.Quantity, err = stockfolio.ParseQuantity(qty); err != nil {
		return o, fmt.Errorf("order %s quantity: %w", id, err)
	}
	if o.Price, err = stockfolio.ParseMoney(price, cur); err != nil {
		return o, fmt.Errorf("order %s price: %w", id, err)
	}
	if o.Status, err = orders.ParseStatus(status); err != nil {
		return o, fmt.Errorf("order %s: %w", id, err)
	}
	o.Created = fromNanos(created)
	o.Executed = fromNanos(executed)
	return o, nil
}
