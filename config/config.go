// Package config loads the application settings from a TOML file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables overriding the file.
const (
	EnvDBDriver  = "STOCKFOLIO_DB_DRIVER"
	EnvDBDSN     = "STOCKFOLIO_DB_DSN"
	EnvRedisAddr = "STOCKFOLIO_REDIS_ADDR"
	EnvLogLevel  = "STOCKFOLIO_LOG_LEVEL"
)

type Config struct {
	Database struct {
		Driver    string `toml:"driver"` // sqlite or pgx
		DSN       string `toml:"dsn"`
		PingTries int    `toml:"ping_tries"`
	} `toml:"database"`

	Redis struct {
		Enabled       bool   `toml:"enabled"`
		Addr          string `toml:"addr"`
		Password      string `toml:"password"`
		DB            int    `toml:"db"`
		Prefix        string `toml:"prefix"`
		SummaryTTLSec int    `toml:"summary_ttl_sec"`
	} `toml:"redis"`

	Portfolio struct {
		Currency    string `toml:"currency"`
		TopHoldings int    `toml:"top_holdings"`
		Workers     int    `toml:"workers"` // users computed concurrently
	} `toml:"portfolio"`

	Log struct {
		Level   string `toml:"level"`
		Console bool   `toml:"console"`
	} `toml:"log"`
}

// Load reads the file at path, if any, then the .env file of the working
// directory, if any, and the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	_ = godotenv.Load()
	ApplyEnv(&cfg)
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides cfg with the environment variables that are set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBDriver); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func ApplyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "./data/stockfolio.db"
	}
	if cfg.Database.PingTries <= 0 {
		cfg.Database.PingTries = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "stockfolio"
	}
	if cfg.Redis.SummaryTTLSec <= 0 {
		cfg.Redis.SummaryTTLSec = 300
	}
	if cfg.Portfolio.Currency == "" {
		cfg.Portfolio.Currency = "INR"
	}
	if cfg.Portfolio.TopHoldings <= 0 {
		cfg.Portfolio.TopHoldings = 5
	}
	if cfg.Portfolio.Workers <= 0 {
		cfg.Portfolio.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate reports every invalid setting at once.
func Validate(cfg *Config) error {
	var errs []string
	switch cfg.Database.Driver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or pgx", cfg.Database.Driver))
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		errs = append(errs, "database.dsn is empty")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		errs = append(errs, "redis.addr is empty but redis enabled")
	}
	if cfg.Redis.DB < 0 {
		errs = append(errs, "redis.db cannot be negative")
	}
	if len(cfg.Portfolio.Currency) != 3 || strings.ToUpper(cfg.Portfolio.Currency) != cfg.Portfolio.Currency {
		errs = append(errs, fmt.Sprintf("portfolio.currency %q must be an ISO 4217 code", cfg.Portfolio.Currency))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n - %s", strings.Join(errs, "\n - "))
	}
	return nil
}

// SummaryTTL returns the lifetime of cached portfolio reports.
func (c *Config) SummaryTTL() time.Duration {
	return time.Duration(c.Redis.SummaryTTLSec) * time.Second
}
