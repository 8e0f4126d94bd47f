package sqlstore

import (
	"context"
	"fmt"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
	"github.com/etnz/stockfolio/market"
)

func (s *Store) UpsertBar(ctx context.Context, b market.PriceBar) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := s.exec(ctx, `
		INSERT INTO price_bars(symbol, day, currency, open_price, high_price, low_price, close_price, volume)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, day) DO UPDATE SET
			currency = excluded.currency,
			open_price = excluded.open_price,
			high_price = excluded.high_price,
			low_price = excluded.low_price,
			close_price = excluded.close_price,
			volume = excluded.volume
	`, b.Symbol, b.Date.String(), currency(b.Open, b.High, b.Low, b.Close),
		b.Open.Decimal().String(), b.High.Decimal().String(), b.Low.Decimal().String(), b.Close.Decimal().String(), b.Volume)
	if err != nil {
		return fmt.Errorf("upserting %s bar of %s: %w", b.Symbol, b.Date, err)
	}
	return nil
}

// ListBars returns the bars of symbol in r, oldest first. ISO dates compare
// as text.
func (s *Store) ListBars(ctx context.Context, symbol string, r date.Range) ([]market.PriceBar, error) {
	query := `SELECT symbol, day, currency, open_price, high_price, low_price, close_price, volume FROM price_bars WHERE symbol = ?`
	args := []any{symbol}
	if !r.From.IsZero() {
		query += ` AND day >= ?`
		args = append(args, r.From.String())
	}
	if !r.To.IsZero() {
		query += ` AND day <= ?`
		args = append(args, r.To.String())
	}
	query += ` ORDER BY day`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s bars: %w", symbol, err)
	}
	defer rows.Close()
	var bars []market.PriceBar
	for rows.Next() {
		var (
			b                     market.PriceBar
			day, cur              string
			open, high, low, last string
		)
		if err := rows.Scan(&b.Symbol, &day, &cur, &open, &high, &low, &last, &b.Volume); err != nil {
			return nil, err
		}
		if b.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("%s bar date: %w", symbol, err)
		}
		for _, f := range []struct {
			dst *stockfolio.Money
			src string
		}{{&b.Open, open}, {&b.High, high}, {&b.Low, low}, {&b.Close, last}} {
			if *f.dst, err = stockfolio.ParseMoney(f.src, cur); err != nil {
				return nil, fmt.Errorf("%s bar of %s: %w", symbol, day, err)
			}
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
