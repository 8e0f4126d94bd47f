package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/store"
)

func (s *Store) UpsertTicker(ctx context.Context, t market.Ticker) error {
	if err := t.Validate(); err != nil {
		return err
	}
	updated := t.Updated
	if updated.IsZero() {
		updated = time.Now()
	}
	isIndex := 0
	if t.IsIndex {
		isIndex = 1
	}
	_, err := s.exec(ctx, `
		INSERT INTO tickers(symbol, name, exchange, sector, currency, price, day_change, change_pct, volume, is_index, updated_ms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			exchange = excluded.exchange,
			sector = excluded.sector,
			currency = excluded.currency,
			price = excluded.price,
			day_change = excluded.day_change,
			change_pct = excluded.change_pct,
			volume = excluded.volume,
			is_index = excluded.is_index,
			updated_ms = excluded.updated_ms
	`, t.Symbol, t.Name, t.Exchange, t.Sector, currency(t.Price, t.Change), t.Price.Decimal().String(), t.Change.Decimal().String(),
		strconv.FormatFloat(float64(t.ChangePct), 'f', -1, 64), t.Volume, isIndex, updated.UnixMilli())
	if err != nil {
		return fmt.Errorf("upserting ticker %s: %w", t.Symbol, err)
	}
	return nil
}

const tickerColumns = `symbol, name, exchange, sector, currency, price, day_change, change_pct, volume, is_index, updated_ms`

func (s *Store) GetTicker(ctx context.Context, symbol string) (market.Ticker, error) {
	row := s.queryRow(ctx, `SELECT `+tickerColumns+` FROM tickers WHERE symbol = ?`, symbol)
	t, err := scanTicker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return market.Ticker{}, fmt.Errorf("ticker %s: %w", symbol, store.ErrNotFound)
	}
	return t, err
}

func (s *Store) ListTickers(ctx context.Context) ([]market.Ticker, error) {
	rows, err := s.query(ctx, `SELECT `+tickerColumns+` FROM tickers ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("listing tickers: %w", err)
	}
	defer rows.Close()
	var tickers []market.Ticker
	for rows.Next() {
		t, err := scanTicker(rows)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicker(row scanner) (market.Ticker, error) {
	var (
		t                       market.Ticker
		cur, price, change, pct string
		isIndex                 int
		updated                 int64
	)
	if err := row.Scan(&t.Symbol, &t.Name, &t.Exchange, &t.Sector, &cur, &price, &change, &pct, &t.Volume, &isIndex, &updated); err != nil {
		return t, err
	}
	var err error
	if t.Price, err = stockfolio.ParseMoney(price, cur); err != nil {
		return t, fmt.Errorf("ticker %s price: %w", t.Symbol, err)
	}
	if t.Change, err = stockfolio.ParseMoney(change, cur); err != nil {
		return t, fmt.Errorf("ticker %s change: %w", t.Symbol, err)
	}
	p, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return t, fmt.Errorf("ticker %s change percent: %w", t.Symbol, err)
	}
	t.ChangePct = stockfolio.Percent(p)
	t.IsIndex = isIndex != 0
	t.Updated = time.UnixMilli(updated).UTC()
	return t, nil
}

// currency returns the first currency set among amounts.
func currency(amounts ...stockfolio.Money) string {
	for _, m := range amounts {
		if c := m.Currency(); c != "" {
			return c
		}
	}
	return ""
}
