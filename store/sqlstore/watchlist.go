package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/stockfolio/market"
)

func (s *Store) AddWatch(ctx context.Context, user, symbol string) (bool, error) {
	res, err := s.exec(ctx, `
		INSERT INTO watchlist(user_name, symbol, added_ns) VALUES(?, ?, ?)
		ON CONFLICT(user_name, symbol) DO NOTHING
	`, user, symbol, time.Now().UnixNano())
	if err != nil {
		return false, fmt.Errorf("watching %s for %s: %w", symbol, user, err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Store) RemoveWatch(ctx context.Context, user, symbol string) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM watchlist WHERE user_name = ? AND symbol = ?`, user, symbol)
	if err != nil {
		return false, fmt.Errorf("unwatching %s for %s: %w", symbol, user, err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Store) Watchlist(ctx context.Context, user string) (market.Watchlist, error) {
	w := market.Watchlist{User: user}
	rows, err := s.query(ctx, `SELECT symbol FROM watchlist WHERE user_name = ? ORDER BY added_ns, symbol`, user)
	if err != nil {
		return w, fmt.Errorf("listing watchlist of %s: %w", user, err)
	}
	defer rows.Close()
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return w, err
		}
		w.Symbols = append(w.Symbols, symbol)
	}
	return w, rows.Err()
}
