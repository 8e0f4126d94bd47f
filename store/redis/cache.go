// Package redis caches portfolio reports and the latest quotes in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/market"
)

// Cache stores per user reports with a TTL and a hash of the latest quotes.
type Cache struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyQuotes string // prefix + ":quotes"
}

// New returns a cache using keys starting with prefix.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "stockfolio"
	}
	return &Cache{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyQuotes: prefix + ":quotes",
	}
}

// Dial connects to the Redis server at addr.
func Dial(ctx context.Context, addr, password string, db int, prefix string, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return New(rdb, prefix, ttl), nil
}

func (c *Cache) Close() error { return c.rdb.Close() }

func (c *Cache) summaryKey(user string) string { return c.prefix + ":summary:" + user }

// Summary returns the cached report of user, false when there is none.
func (c *Cache) Summary(ctx context.Context, user string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.summaryKey(user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// SetSummary caches the report of user for the cache TTL.
func (c *Cache) SetSummary(ctx context.Context, user string, report []byte) error {
	return c.rdb.Set(ctx, c.summaryKey(user), report, c.ttl).Err()
}

// Invalidate drops the cached report of user.
func (c *Cache) Invalidate(ctx context.Context, user string) error {
	return c.rdb.Del(ctx, c.summaryKey(user)).Err()
}

// InvalidateAll drops the cached reports of every user.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, c.summaryKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// SetQuotes stores the quotes of tickers in a single hash.
func (c *Cache) SetQuotes(ctx context.Context, tickers []market.Ticker) error {
	if len(tickers) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, t := range tickers {
		b, err := json.Marshal(t.Quote())
		if err != nil {
			return fmt.Errorf("encoding %s quote: %w", t.Symbol, err)
		}
		// field = symbol -> json
		pipe.HSet(ctx, c.keyQuotes, t.Symbol, string(b))
	}
	if c.ttl > 0 {
		pipe.Expire(ctx, c.keyQuotes, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Quotes returns the cached quotes.
func (c *Cache) Quotes(ctx context.Context) (stockfolio.Quotes, error) {
	m, err := c.rdb.HGetAll(ctx, c.keyQuotes).Result()
	if err != nil {
		return nil, err
	}
	quotes := make(stockfolio.Quotes, len(m))
	for symbol, v := range m {
		var q stockfolio.Quote
		if err := json.Unmarshal([]byte(v), &q); err != nil {
			return nil, fmt.Errorf("decoding %s quote: %w", symbol, err)
		}
		quotes[symbol] = q
	}
	return quotes, nil
}
