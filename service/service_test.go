package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
	"github.com/etnz/stockfolio/market"
	"github.com/etnz/stockfolio/orders"
	"github.com/etnz/stockfolio/store"
	"github.com/etnz/stockfolio/store/sqlstore"
)

func inr(v float64) stockfolio.Money { return stockfolio.M(v, "INR") }

// memCache is an in-memory Cache and QuoteCache.
type memCache struct {
	mu        sync.Mutex
	summaries map[string][]byte
	quotes    stockfolio.Quotes
	hits      int
}

func newMemCache() *memCache { return &memCache{summaries: map[string][]byte{}} }

func (c *memCache) Summary(_ context.Context, user string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.summaries[user]
	if ok {
		c.hits++
	}
	return b, ok, nil
}

func (c *memCache) SetSummary(_ context.Context, user string, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[user] = b
	return nil
}

func (c *memCache) Invalidate(_ context.Context, user string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, user)
	return nil
}

func (c *memCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.summaries)
	return nil
}

func (c *memCache) SetQuotes(_ context.Context, tickers []market.Ticker) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes = stockfolio.Quotes{}
	for _, t := range tickers {
		c.quotes[t.Symbol] = t.Quote()
	}
	return nil
}

func (c *memCache) Quotes(context.Context) (stockfolio.Quotes, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quotes, nil
}

func clock() func() time.Time {
	t := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Hour)
		return t
	}
}

func setup(t *testing.T, opts ...Option) *Service {
	t.Helper()
	ctx := context.Background()
	st, err := sqlstore.Open(ctx, sqlstore.Config{Driver: sqlstore.SQLite, DSN: filepath.Join(t.TempDir(), "svc.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := New(st, append([]Option{WithClock(clock())}, opts...)...)
	require.NoError(t, s.ImportTickers(ctx, []market.Ticker{
		{Symbol: "TCS", Name: "Tata Consultancy", Exchange: "NSE", Sector: "Technology", Price: inr(120), Change: inr(1), ChangePct: 0.84, Volume: 10},
		{Symbol: "ITC", Name: "ITC", Exchange: "NSE", Sector: "Consumer", Price: inr(40), Change: inr(-1), ChangePct: -2.44, Volume: 10},
	}))
	return s
}

func trade(t *testing.T, s *Service, user, symbol string, side stockfolio.Side, qty int, price float64) orders.Order {
	t.Helper()
	ctx := context.Background()
	o, err := s.PlaceOrder(ctx, user, symbol, side, stockfolio.Q(qty), inr(price))
	require.NoError(t, err)
	f, err := s.FillOrder(ctx, o.ID.String())
	require.NoError(t, err)
	return f
}

func TestService_Portfolio(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	s := setup(t, WithCache(cache))

	trade(t, s, "alice", "TCS", stockfolio.Buy, 10, 100)
	trade(t, s, "alice", "TCS", stockfolio.Buy, 5, 110)
	trade(t, s, "alice", "TCS", stockfolio.Sell, 5, 120)

	r, err := s.Portfolio(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, r.Skipped)
	require.Len(t, r.Summary.Holdings, 1)
	h := r.Summary.Holdings[0]
	assert.Equal(t, "TCS", h.Symbol)
	assert.Equal(t, "103.33", h.AvgCost.Round(2).Decimal().StringFixed(2))
	assert.True(t, r.Summary.TotalValue.Equal(inr(1200)), "value %v", r.Summary.TotalValue)
	assert.Equal(t, "83.33", r.Summary.TotalRealized.Round(2).Decimal().StringFixed(2))

	// served from the cache until an order changes it.
	_, err = s.Portfolio(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	trade(t, s, "alice", "ITC", stockfolio.Buy, 1, 40)
	r, err = s.Portfolio(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Len(t, r.Summary.Holdings, 2)
}

func TestService_PortfolioAfterImport(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	s := setup(t, WithCache(cache))

	trade(t, s, "alice", "TCS", stockfolio.Buy, 10, 100)
	r, err := s.Portfolio(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, r.Summary.TotalValue.Equal(inr(1200)), "value %v", r.Summary.TotalValue)

	require.NoError(t, s.ImportTickers(ctx, []market.Ticker{
		{Symbol: "TCS", Name: "Tata Consultancy", Exchange: "NSE", Sector: "Technology", Price: inr(200), Change: inr(80), ChangePct: 66.67, Volume: 10},
	}))

	r, err = s.Portfolio(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)
	assert.True(t, r.Summary.TotalValue.Equal(inr(2000)), "value %v", r.Summary.TotalValue)

	p, err := s.Position(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.True(t, p.MarketValue.Equal(r.Summary.TotalValue), "position %v, portfolio %v", p.MarketValue, r.Summary.TotalValue)
}

func TestService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	s := setup(t)

	_, err := s.PlaceOrder(ctx, "alice", "NOPE", stockfolio.Buy, stockfolio.Q(1), inr(1))
	assert.ErrorIs(t, err, store.ErrNotFound)

	// zero price trades at the ticker price.
	o, err := s.PlaceOrder(ctx, "alice", "TCS", stockfolio.Buy, stockfolio.Q(2), stockfolio.Money{})
	require.NoError(t, err)
	assert.True(t, o.Price.Equal(inr(120)))

	_, err = s.PlaceOrder(ctx, "alice", "TCS", stockfolio.Sell, stockfolio.Q(1), inr(1))
	assert.ErrorIs(t, err, stockfolio.ErrOversell)

	_, err = s.FillOrder(ctx, "not-an-id")
	assert.Error(t, err)

	c, err := s.CancelOrder(ctx, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, orders.Canceled, c.Status)
	_, err = s.FillOrder(ctx, o.ID.String())
	assert.ErrorIs(t, err, orders.ErrNotPending)

	list, err := s.Orders(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_CancelAll(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	for range 3 {
		_, err := s.PlaceOrder(ctx, "bob", "ITC", stockfolio.Buy, stockfolio.Q(1), inr(40))
		require.NoError(t, err)
	}
	n, err := s.CancelAll(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	pending, err := s.Orders(ctx, "bob", orders.Pending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestService_Portfolios(t *testing.T) {
	ctx := context.Background()
	s := setup(t, WithWorkers(2))
	trade(t, s, "alice", "TCS", stockfolio.Buy, 1, 100)
	trade(t, s, "bob", "ITC", stockfolio.Buy, 2, 30)

	reports, err := s.Portfolios(ctx, []string{"alice", "bob", "carol"})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.True(t, reports["alice"].Summary.TotalValue.Equal(inr(120)))
	assert.True(t, reports["bob"].Summary.TotalValue.Equal(inr(80)))
	assert.Empty(t, reports["carol"].Summary.Holdings)
}

func TestService_PositionHistoryStats(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	trade(t, s, "alice", "TCS", stockfolio.Buy, 10, 100)
	trade(t, s, "alice", "TCS", stockfolio.Sell, 4, 110)

	p, err := s.Position(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.True(t, p.Shares.Equal(stockfolio.Q(6)))
	assert.True(t, p.Realized.Equal(inr(40)))
	assert.True(t, p.MarketValue.Equal(inr(720)))

	_, err = s.Position(ctx, "alice", "NOPE")
	assert.ErrorIs(t, err, store.ErrNotFound)

	points, err := s.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, date.New(2025, time.January, 1), points[0].Date)

	st, err := s.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.True(t, st.Sold.Equal(inr(440)))
}

func TestService_Watchlist(t *testing.T) {
	ctx := context.Background()
	s := setup(t)

	_, err := s.Watch(ctx, "alice", "NOPE")
	assert.ErrorIs(t, err, store.ErrNotFound)

	added, err := s.Watch(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Watch(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.Watch(ctx, "alice", "ITC")
	require.NoError(t, err)

	w, err := s.Watchlist(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, w.Tickers, 2)
	assert.Equal(t, 1, w.Gainers)
	assert.Equal(t, 1, w.Losers)

	removed, err := s.Unwatch(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestService_Bars(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	on := date.New(2025, time.January, 10)
	var bars []market.PriceBar
	for i := range 10 {
		p := inr(float64(100 + i))
		bars = append(bars, market.PriceBar{Symbol: "TCS", Date: on.Add(-i), Open: p, High: p, Low: p, Close: p, Volume: 1})
	}
	require.NoError(t, s.ImportBars(ctx, bars))

	got, err := s.Bars(ctx, "TCS", date.Lookback(5), on)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, on.Add(-4), got[0].Date)
	assert.Equal(t, on, got[4].Date)

	_, err = s.Bars(ctx, "NOPE", date.Lookback(5), on)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
