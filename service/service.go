// Package service composes the store, the cache, the order desk and the
// portfolio computations into the operations of the application.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/orders"
	"github.com/etnz/stockfolio/store"
)

// Cache keeps computed reports per user.
//
// Reports depend on the trades of their user and on every quote: filling an
// order drops one report, importing tickers drops them all.
type Cache interface {
	Summary(ctx context.Context, user string) ([]byte, bool, error)
	SetSummary(ctx context.Context, user string, report []byte) error
	Invalidate(ctx context.Context, user string) error
	InvalidateAll(ctx context.Context) error
}

// QuoteCache is implemented by caches that also keep the latest quotes.
type QuoteCache interface {
	SetQuotes(ctx context.Context, tickers []market.Ticker) error
	Quotes(ctx context.Context) (stockfolio.Quotes, error)
}

type Service struct {
	store   store.Store
	desk    *orders.Desk
	cache   Cache
	workers int
	deskOpt []orders.Option
}

type Option func(*Service)

// WithCache caches portfolio reports.
func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

// WithWorkers bounds the number of users computed concurrently.
func WithWorkers(n int) Option { return func(s *Service) { s.workers = n } }

// WithClock sets the clock of the order desk.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.deskOpt = append(s.deskOpt, orders.WithClock(now)) }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, workers: 4}
	for _, opt := range opts {
		opt(s)
	}
	s.desk = orders.NewDesk(st, s.deskOpt...)
	return s
}

// Report is the portfolio of a user. Symbols whose trades could not be folded
// are listed in Skipped with the reason.
type Report struct {
	User    string
	Summary stockfolio.PortfolioSummary
	Skipped map[string]string `json:",omitempty"`
}

// quotes returns the latest quotes, from the cache when it has them.
func (s *Service) quotes(ctx context.Context) (stockfolio.QuoteLookup, error) {
	if qc, ok := s.cache.(QuoteCache); ok {
		quotes, err := qc.Quotes(ctx)
		if err == nil && len(quotes) > 0 {
			return quotes, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("quote cache unavailable")
		}
	}
	return store.Catalog(ctx, s.store)
}

// Portfolio returns the portfolio report of user.
func (s *Service) Portfolio(ctx context.Context, user string) (Report, error) {
	if r, ok := s.cached(ctx, user); ok {
		return r, nil
	}
	trades, err := s.desk.Trades(ctx, user)
	if err != nil {
		return Report{}, err
	}
	quotes, err := s.quotes(ctx)
	if err != nil {
		return Report{}, err
	}
	res := stockfolio.NewBook(trades).Reconstruct(quotes)
	r := Report{User: user, Summary: res.Portfolio()}
	for symbol, err := range res.Errors {
		if r.Skipped == nil {
			r.Skipped = make(map[string]string)
		}
		r.Skipped[symbol] = err.Error()
		log.Warn().Err(err).Str("user", user).Str("symbol", symbol).Msg("position skipped")
	}
	s.keep(ctx, r)
	return r, nil
}

func (s *Service) cached(ctx context.Context, user string) (Report, bool) {
	if s.cache == nil {
		return Report{}, false
	}
	b, ok, err := s.cache.Summary(ctx, user)
	if err != nil {
		log.Warn().Err(err).Str("user", user).Msg("reading cached portfolio")
		return Report{}, false
	}
	if !ok {
		return Report{}, false
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("decoding cached portfolio")
		return Report{}, false
	}
	log.Debug().Str("user", user).Msg("portfolio from cache")
	return r, true
}

func (s *Service) keep(ctx context.Context, r Report) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(r)
	if err == nil {
		err = s.cache.SetSummary(ctx, r.User, b)
	}
	if err != nil {
		log.Warn().Err(err).Str("user", r.User).Msg("caching portfolio")
	}
}

func (s *Service) invalidate(ctx context.Context, user string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, user); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("invalidating cached portfolio")
	}
}

// Portfolios computes the reports of many users concurrently. The first
// failure cancels the others.
func (s *Service) Portfolios(ctx context.Context, users []string) (map[string]Report, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))
	var mu sync.Mutex
	reports := make(map[string]Report, len(users))
	for _, user := range users {
		g.Go(func() error {
			r, err := s.Portfolio(gctx, user)
			if err != nil {
				return fmt.Errorf("portfolio of %s: %w", user, err)
			}
			mu.Lock()
			reports[user] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Position returns the position of user in symbol at the ticker price.
func (s *Service) Position(ctx context.Context, user, symbol string) (stockfolio.PositionSummary, error) {
	t, err := s.store.GetTicker(ctx, symbol)
	if err != nil {
		return stockfolio.PositionSummary{}, err
	}
	trades, err := s.desk.Trades(ctx, user)
	if err != nil {
		return stockfolio.PositionSummary{}, err
	}
	return stockfolio.ReconstructPosition(stockfolio.NewBook(trades).Trades(symbol), t.Price)
}

// History returns the daily history of the portfolio of user.
func (s *Service) History(ctx context.Context, user string) ([]stockfolio.HistoryPoint, error) {
	trades, err := s.desk.Trades(ctx, user)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes(ctx)
	if err != nil {
		return nil, err
	}
	return stockfolio.History(trades, quotes)
}

// Stats returns the trading statistics of user, over filled orders.
func (s *Service) Stats(ctx context.Context, user string) (stockfolio.TradingStats, error) {
	trades, err := s.desk.Trades(ctx, user)
	if err != nil {
		return stockfolio.TradingStats{}, err
	}
	return stockfolio.Stats(trades)
}

// Catalog returns the ticker catalog.
func (s *Service) Catalog(ctx context.Context) (*market.Catalog, error) {
	return store.Catalog(ctx, s.store)
}

// ImportTickers stores tickers, refreshes the cached quotes and drops the
// cached reports valued at the previous prices.
func (s *Service) ImportTickers(ctx context.Context, tickers []market.Ticker) error {
	for _, t := range tickers {
		if err := s.store.UpsertTicker(ctx, t); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(tickers)).Msg("tickers imported")
	if s.cache == nil {
		return nil
	}
	if qc, ok := s.cache.(QuoteCache); ok {
		all, err := s.store.ListTickers(ctx)
		if err != nil {
			return err
		}
		if err := qc.SetQuotes(ctx, all); err != nil {
			log.Warn().Err(err).Msg("caching quotes")
		}
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidating cached portfolios: %w", err)
	}
	return nil
}

// ImportBars stores price bars.
func (s *Service) ImportBars(ctx context.Context, bars []market.PriceBar) error {
	for _, b := range bars {
		if err := s.store.UpsertBar(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Bars returns the bars of symbol over the window ending on 'on'.
func (s *Service) Bars(ctx context.Context, symbol string, window date.Lookback, on date.Date) ([]market.PriceBar, error) {
	if _, err := s.store.GetTicker(ctx, symbol); err != nil {
		return nil, err
	}
	return s.store.ListBars(ctx, symbol, window.Range(on))
}

// Watchlist returns the watchlist of user resolved against the catalog.
func (s *Service) Watchlist(ctx context.Context, user string) (market.WatchSummary, error) {
	w, err := s.store.Watchlist(ctx, user)
	if err != nil {
		return market.WatchSummary{}, err
	}
	c, err := s.Catalog(ctx)
	if err != nil {
		return market.WatchSummary{}, err
	}
	return c.Watch(w), nil
}

// Watch adds a listed symbol to the watchlist of user.
func (s *Service) Watch(ctx context.Context, user, symbol string) (bool, error) {
	if _, err := s.store.GetTicker(ctx, symbol); err != nil {
		return false, err
	}
	return s.store.AddWatch(ctx, user, symbol)
}

// Unwatch removes symbol from the watchlist of user.
func (s *Service) Unwatch(ctx context.Context, user, symbol string) (bool, error) {
	return s.store.RemoveWatch(ctx, user, symbol)
}

// PlaceOrder places an order on a listed symbol. A zero price means the
// current ticker price.
func (s *Service) PlaceOrder(ctx context.Context, user, symbol string, side stockfolio.Side, qty stockfolio.Quantity, price stockfolio.Money) (orders.Order, error) {
	t, err := s.store.GetTicker(ctx, symbol)
	if err != nil {
		return orders.Order{}, err
	}
	if price.IsZero() {
		price = t.Price
	}
	o, err := s.desk.Place(ctx, user, symbol, side, qty, price)
	if err != nil {
		return orders.Order{}, err
	}
	log.Info().Str("user", user).Stringer("order", o.ID).Str("side", side.String()).Str("symbol", symbol).Msg("order placed")
	return o, nil
}

// FillOrder executes a pending order.
func (s *Service) FillOrder(ctx context.Context, id string) (orders.Order, error) {
	uid, err := parseID(id)
	if err != nil {
		return orders.Order{}, err
	}
	o, err := s.desk.Fill(ctx, uid)
	if err != nil {
		return orders.Order{}, err
	}
	s.invalidate(ctx, o.User)
	log.Info().Str("user", o.User).Stringer("order", o.ID).Msg("order filled")
	return o, nil
}

// CancelOrder cancels a pending order.
func (s *Service) CancelOrder(ctx context.Context, id string) (orders.Order, error) {
	uid, err := parseID(id)
	if err != nil {
		return orders.Order{}, err
	}
	o, err := s.desk.Cancel(ctx, uid)
	if err != nil {
		return orders.Order{}, err
	}
	s.invalidate(ctx, o.User)
	log.Info().Str("user", o.User).Stringer("order", o.ID).Msg("order canceled")
	return o, nil
}

// CancelAll cancels the pending orders of user.
func (s *Service) CancelAll(ctx context.Context, user string) (int, error) {
	n, err := s.desk.CancelAll(ctx, user)
	if n > 0 {
		s.invalidate(ctx, user)
	}
	return n, err
}

// Orders returns the orders of user, oldest first.
func (s *Service) Orders(ctx context.Context, user string, statuses ...orders.Status) ([]orders.Order, error) {
	return s.desk.Orders(ctx, user, statuses...)
}

// SkippedSymbols returns the skipped symbols of a report, sorted.
func (r Report) SkippedSymbols() []string {
	return slices.Sorted(maps.Keys(r.Skipped))
}
