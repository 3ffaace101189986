/*
Package config loads the service configuration.

PURPOSE:
  One Config struct feeds the whole process. Values are resolved in three
  layers, later layers winning:
    1. Built-in defaults
    2. TOML file (timecore.toml, or -config flag)
    3. Environment variables (a .env file is loaded first if present)

ENVIRONMENT VARIABLES:
  TIMECORE_PORT            HTTP port
  TIMECORE_DB              SQLite database path (":memory:" for in-memory)
  TIMECORE_CANTON          Default canton for new employees
  TIMECORE_DAILY_HOURS     Default daily hours (e.g. "8.5")
  TIMECORE_LOG_LEVEL       logrus level (debug, info, warn, error)

SEE ALSO:
  - cmd/timecored: Consumes the Config at startup
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG STRUCT
// =============================================================================

type Config struct {
	Port       int     `toml:"port"`
	DBPath     string  `toml:"db_path"`
	Canton     string  `toml:"canton"`
	DailyHours float64 `toml:"daily_hours"`
	LogLevel   string  `toml:"log_level"`
}

// DefaultDailyHours returns the configured daily hours as a decimal.
func (c Config) DefaultDailyHours() decimal.Decimal {
	return decimal.NewFromFloat(c.DailyHours)
}

func defaults() Config {
	return Config{
		Port:       8080,
		DBPath:     "timecore.db",
		Canton:     "ZH",
		DailyHours: 8.5,
		LogLevel:   "info",
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load resolves the configuration. path may be empty; a missing file is not
// an error, but a malformed one is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = "timecore.toml"
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	// .env is a developer convenience; ignore when absent.
	_ = godotenv.Load()

	if v := os.Getenv("TIMECORE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("TIMECORE_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("TIMECORE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TIMECORE_CANTON"); v != "" {
		cfg.Canton = v
	}
	if v := os.Getenv("TIMECORE_DAILY_HOURS"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("TIMECORE_DAILY_HOURS: %w", err)
		}
		cfg.DailyHours = hours
	}
	if v := os.Getenv("TIMECORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
