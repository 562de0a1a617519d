// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the document store backend: sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string `koanf:"postgres_dsn"`

	// ReminderCron schedules the submission-deadline reminder.
	ReminderCron string `koanf:"reminder_cron"`

	// MaxStandingsLimit caps GET /api/v1/standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// ColumnCost is the per-member price of one quiniela column.
	ColumnCost float64 `koanf:"column_cost"`

	// DoublesCost is the price of the pooled doubles column.
	DoublesCost float64 `koanf:"doubles_cost"`

	// WeeklyDue is the flat per-member contribution per played round.
	WeeklyDue float64 `koanf:"weekly_due"`

	// InitialFund seeds the pooled bote at season start.
	InitialFund float64 `koanf:"initial_fund"`

	// MinHitsToWin is the default prize threshold when a round does not
	// carry its own.
	MinHitsToWin int `koanf:"min_hits_to_win"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		StoreDriver:       "sqlite",
		SQLitePath:        "quiniela.db",
		ReminderCron:      "0 10 * * 4",
		MaxStandingsLimit: 100,
		ColumnCost:        0.75,
		DoublesCost:       12.00,
		WeeklyDue:         1.50,
		InitialFund:       0,
		MinHitsToWin:      10,
	}
}
