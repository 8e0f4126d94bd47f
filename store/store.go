// Package store defines the persistence of the market data, orders and
// watchlists. Implementations live in the sub packages.
package store

import (
	"context"
	"errors"

	"github.com/etnz/stockfolio/date"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/orders"
)

// ErrNotFound is returned when a ticker does not exist.
var ErrNotFound = errors.New("not found")

// Tickers persists the ticker catalog.
type Tickers interface {
	UpsertTicker(ctx context.Context, t market.Ticker) error
	// GetTicker returns ErrNotFound for unknown symbols.
	GetTicker(ctx context.Context, symbol string) (market.Ticker, error)
	ListTickers(ctx context.Context) ([]market.Ticker, error)
}

// Bars persists daily price bars, unique per (symbol, date).
type Bars interface {
	UpsertBar(ctx context.Context, b market.PriceBar) error
	ListBars(ctx context.Context, symbol string, r date.Range) ([]market.PriceBar, error)
}

// Watchlists persists the watchlists of the users.
type Watchlists interface {
	// AddWatch returns false when the symbol was already watched.
	AddWatch(ctx context.Context, user, symbol string) (bool, error)
	// RemoveWatch returns false when the symbol was not watched.
	RemoveWatch(ctx context.Context, user, symbol string) (bool, error)
	Watchlist(ctx context.Context, user string) (market.Watchlist, error)
}

// Store is the whole persistence of the application.
type Store interface {
	Tickers
	Bars
	Watchlists
	orders.Repository
	Close() error
}

// Catalog loads every ticker into an in-memory catalog.
func Catalog(ctx context.Context, s Tickers) (*market.Catalog, error) {
	tickers, err := s.ListTickers(ctx)
	if err != nil {
		return nil, err
	}
	return market.NewCatalog(tickers...), nil
}
