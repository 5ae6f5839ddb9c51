// Package config provides centralized runtime configuration for reminderd.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. Values come from defaults
// overridden by REMINDERD_* environment variables.
type Config struct {
	// Telegram holds delivery channel configuration.
	Telegram TelegramConfig

	// Storage holds database configuration.
	Storage StorageConfig

	// Worker holds tick driver configuration.
	Worker WorkerConfig

	// Windows holds reminder window offsets.
	Windows WindowConfig

	// Daemon holds daemon lifecycle configuration.
	Daemon DaemonConfig
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	// Token is the bot credential. Required for sending.
	Token string

	// APIBase is the Bot API endpoint prefix.
	// Default: https://api.telegram.org
	APIBase string

	// Timeout is the per-request HTTP timeout.
	// Default: 15s
	Timeout time.Duration
}

// StorageConfig holds database settings.
type StorageConfig struct {
	// Path is the Badger database directory. Empty means the XDG default.
	Path string
}

// WorkerConfig holds tick driver settings.
type WorkerConfig struct {
	// TickInterval is the fixed interval between evaluation passes.
	// Default: 300s
	TickInterval time.Duration

	// Timezone is the IANA name of the reference zone all time-of-day
	// reasoning happens in. Default: Europe/Moscow
	Timezone string

	// SleepThreshold is the gap since the previous tick beyond which the
	// current tick is skipped as stale (system was suspended).
	// Default: 1h
	SleepThreshold time.Duration
}

// WindowConfig holds the named reminder window offsets, in minutes relative
// to a habit's average completion time. All window arithmetic is modulo 1440.
type WindowConfig struct {
	// FirstBefore/FirstAfter bound the first nudge window
	// [avg-FirstBefore, avg+FirstAfter). Defaults: 15, 5.
	FirstBefore int
	FirstAfter  int

	// SecondStart/SecondEnd bound the second nudge window
	// [avg+SecondStart, avg+SecondEnd). Defaults: 30, 45.
	SecondStart int
	SecondEnd   int

	// ThirdStart/ThirdEnd bound the third nudge window
	// [avg+ThirdStart, avg+ThirdEnd). Defaults: 120, 135.
	ThirdStart int
	ThirdEnd   int

	// DefaultAvgHour/DefaultAvgMinute is the synthetic average used for
	// habits without completion history. Defaults: 10, 0 — which yields a
	// fallback window of [09:45, 10:05).
	DefaultAvgHour   int
	DefaultAvgMinute int

	// GoalDailyStart/GoalDailyEnd bound the once-a-day goal summary window
	// as minutes of day. Defaults: 600, 615 ([10:00, 10:15)).
	GoalDailyStart int
	GoalDailyEnd   int

	// AvgHistoryDays is the rolling-history horizon for average completion
	// time. Default: 30.
	AvgHistoryDays int
}

// DaemonConfig holds daemon lifecycle settings.
type DaemonConfig struct {
	// StartupWait is how long to wait for a background daemon to come up.
	// Default: 500ms
	StartupWait time.Duration

	// KillTimeout is the graceful shutdown timeout before force kill.
	// Default: 5s
	KillTimeout time.Duration

	// LogMaxSize is the log file size that triggers rotation.
	// Default: 5MB
	LogMaxSize int64
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{
			APIBase: "https://api.telegram.org",
			Timeout: 15 * time.Second,
		},
		Worker: WorkerConfig{
			TickInterval:   300 * time.Second,
			Timezone:       "Europe/Moscow",
			SleepThreshold: time.Hour,
		},
		Windows: WindowConfig{
			FirstBefore:      15,
			FirstAfter:       5,
			SecondStart:      30,
			SecondEnd:        45,
			ThirdStart:       120,
			ThirdEnd:         135,
			DefaultAvgHour:   10,
			DefaultAvgMinute: 0,
			GoalDailyStart:   10 * 60,
			GoalDailyEnd:     10*60 + 15,
			AvgHistoryDays:   30,
		},
		Daemon: DaemonConfig{
			StartupWait: 500 * time.Millisecond,
			KillTimeout: 5 * time.Second,
			LogMaxSize:  5 * 1024 * 1024,
		},
	}
}

// Load returns the configuration with environment overrides applied.
func Load() *Config {
	cfg := Default()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv applies REMINDERD_* environment variable overrides.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("REMINDERD_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("REMINDERD_API_BASE"); v != "" {
		c.Telegram.APIBase = v
	}
	if v := os.Getenv("REMINDERD_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Telegram.Timeout = d
		}
	}

	if v := os.Getenv("REMINDERD_DB_PATH"); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv("REMINDERD_INTERVAL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Worker.TickInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("REMINDERD_TIMEZONE"); v != "" {
		c.Worker.Timezone = v
	}
	if v := os.Getenv("REMINDERD_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Worker.SleepThreshold = d
		}
	}

	if v := os.Getenv("REMINDERD_AVG_HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Windows.AvgHistoryDays = n
		}
	}

	if v := os.Getenv("REMINDERD_DAEMON_STARTUP_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Daemon.StartupWait = d
		}
	}
	if v := os.Getenv("REMINDERD_DAEMON_KILL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Daemon.KillTimeout = d
		}
	}
}

// Location resolves the configured reference timezone. Time-of-day reasoning
// must never fall back to the host's local zone silently.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Worker.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Worker.Timezone, err)
	}
	return loc, nil
}

// DefaultAvgMinuteOfDay returns the no-history synthetic average as a minute
// of day.
func (w WindowConfig) DefaultAvgMinuteOfDay() int {
	return w.DefaultAvgHour*60 + w.DefaultAvgMinute
}
