// Package sqlstore implements store.Store on database/sql, with SQLite
// (modernc.org/sqlite) or PostgreSQL (pgx) as the database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/etnz/stockfolio/store"
)

// Drivers.
const (
	SQLite   = "sqlite"
	Postgres = "pgx"
)

// Config holds the database connection settings.
type Config struct {
	Driver    string // SQLite or Postgres
	DSN       string // file path for SQLite, connection URL for Postgres
	PingTries uint   // attempts to reach the database, default 5
}

// Store is a SQL store.Store.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case SQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %q: %w", dir, err)
			}
		}
	case Postgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == SQLite {
		db.SetMaxOpenConns(1)
	}

	tries := cfg.PingTries
	if tries == 0 {
		tries = 5
	}
	notify := func(err error, d time.Duration) {
		log.Warn().Err(err).Str("driver", cfg.Driver).Dur("backoff", d).Msg("database not reachable, retrying")
	}
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(tries), backoff.WithNotify(notify))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", cfg.Driver, err)
	}

	s := &Store{db: db, driver: cfg.Driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating %s database: %w", cfg.Driver, err)
	}
	log.Debug().Str("driver", cfg.Driver).Msg("database ready")
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// rebind rewrites '?' placeholders into '$n' for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tickers (
  symbol TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  exchange TEXT NOT NULL,
  sector TEXT NOT NULL,
  currency TEXT NOT NULL,
  price TEXT NOT NULL,
  day_change TEXT NOT NULL,
  change_pct TEXT NOT NULL,
  volume BIGINT NOT NULL,
  is_index INTEGER NOT NULL,
  updated_ms BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS price_bars (
  symbol TEXT NOT NULL,
  day TEXT NOT NULL,
  currency TEXT NOT NULL,
  open_price TEXT NOT NULL,
  high_price TEXT NOT NULL,
  low_price TEXT NOT NULL,
  close_price TEXT NOT NULL,
  volume BIGINT NOT NULL,
  PRIMARY KEY (symbol, day)
)`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_name TEXT NOT NULL,
  symbol TEXT NOT NULL,
  side TEXT NOT NULL,
  quantity TEXT NOT NULL,
  currency TEXT NOT NULL,
  price TEXT NOT NULL,
  status TEXT NOT NULL,
  created_ns BIGINT NOT NULL,
  executed_ns BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_name, created_ns)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
  user_name TEXT NOT NULL,
  symbol TEXT NOT NULL,
  added_ns BIGINT NOT NULL,
  PRIMARY KEY (user_name, symbol)
)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// nanos and fromNanos store times with a zero time stored as 0.
func nanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

var _ store.Store = (*Store)(nil)
