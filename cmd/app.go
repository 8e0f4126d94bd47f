// Package cmd implements the CLI application to trade and follow stock portfolios.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/etnz/stockfolio/config"
	"github.com/etnz/stockfolio/logger"
	"github.com/etnz/stockfolio/service"
	"github.com/etnz/stockfolio/store/redis"
	"github.com/etnz/stockfolio/store/sqlstore"
)

const (
	EnvConfig = "STOCKFOLIO_CONFIG"
	EnvUser   = "STOCKFOLIO_USER"

	defaultConfig = "stockfolio.toml"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", os.Getenv(EnvConfig), "Path to the TOML configuration file. Defaults to ./stockfolio.toml when it exists.")
	userName   = flag.String("user", os.Getenv(EnvUser), "User whose portfolio, orders and watchlist are used.")
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&foldCmd{}, "portfolio")
	c.Register(&portfolioCmd{}, "portfolio")
	c.Register(&positionCmd{}, "portfolio")
	c.Register(&historyCmd{}, "portfolio")
	c.Register(&statsCmd{}, "portfolio")

	c.Register(&orderCmd{side: "buy"}, "orders")
	c.Register(&orderCmd{side: "sell"}, "orders")
	c.Register(&fillCmd{}, "orders")
	c.Register(&cancelCmd{}, "orders")
	c.Register(&ordersCmd{}, "orders")

	c.Register(&tickersCmd{}, "market")
	c.Register(&importTickersCmd{}, "market")
	c.Register(&barsCmd{}, "market")
	c.Register(&watchCmd{}, "market")

	c.Register(&topicCmd{}, "help")
}

// loadConfig loads the configuration file and sets up the logger.
func loadConfig() (*config.Config, error) {
	path := *configFile
	if path == "" {
		if _, err := os.Stat(defaultConfig); err == nil {
			path = defaultConfig
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Console); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return cfg, nil
}

// openService opens the store and the cache described by the configuration.
// The returned function releases them.
func openService(ctx context.Context) (*service.Service, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:    cfg.Database.Driver,
		DSN:       cfg.Database.DSN,
		PingTries: uint(cfg.Database.PingTries),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	closers := []func() error{st.Close}
	opts := []service.Option{service.WithWorkers(cfg.Portfolio.Workers)}
	if cfg.Redis.Enabled {
		cache, err := redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, cfg.SummaryTTL())
		if err != nil {
			// the cache is optional, the store is the source of truth.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without cache")
		} else {
			closers = append(closers, cache.Close)
			opts = append(opts, service.WithCache(cache))
		}
	}
	release := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("closing")
			}
		}
	}
	return service.New(st, opts...), cfg, release, nil
}

// currentUser returns the -user flag or fails with a usage message.
func currentUser() (string, error) {
	if *userName == "" {
		return "", fmt.Errorf("no user: use -user or set %s", EnvUser)
	}
	return *userName, nil
}

// printMarkdown renders markdown for the terminal, or prints it raw if the
// renderer fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	log.Debug().Err(err).Msg("rendering markdown")
	fmt.Print(md)
}

// fail reports err and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
