// Package config defines warcut configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives a copy of every log line. Empty disables the tee.
	LogFile string `koanf:"log_file"`

	// APIKey authenticates against the remote game API.
	APIKey string `koanf:"api_key"`

	// FactionID is the scored faction.
	FactionID string `koanf:"faction_id"`

	// BaseURL is the remote API root.
	BaseURL string `koanf:"base_url"`

	// RequestTimeoutMS bounds a single remote request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// RequestsPerMinute caps the remote API call rate.
	RequestsPerMinute int `koanf:"requests_per_minute"`

	// FetchConcurrency bounds concurrent per-chain attack fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// PageSize is the remote cap on attacks per response.
	PageSize int `koanf:"page_size"`

	// GracePeriodSeconds extends every chain's attack fetch window.
	GracePeriodSeconds int `koanf:"grace_period_seconds"`

	// UntrackedGroup is the defender group placeholder that is never scored.
	UntrackedGroup string `koanf:"untracked_group"`

	// OpposingFaction, WindowStart and WindowEnd skip the war lookup when set.
	OpposingFaction string `koanf:"opposing_faction"`
	WindowStart     int64  `koanf:"window_start"`
	WindowEnd       int64  `koanf:"window_end"`

	// OutputDir receives the CSV tables. Empty disables CSV output.
	OutputDir string `koanf:"output_dir"`

	// Sheets upload; both fields are required to enable it.
	SheetsCredentialsFile string `koanf:"sheets_credentials_file"`
	SheetsURL             string `koanf:"sheets_url"`
	SheetName             string `koanf:"sheet_name"`

	// Serve keeps the process alive and exposes the latest report over HTTP.
	Serve bool `koanf:"serve"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFile:             "warcut.log",
		BaseURL:             "https://api.torn.com",
		RequestTimeoutMS:    30_000,
		RequestsPerMinute:   60,
		FetchConcurrency:    4,
		PageSize:            100,
		GracePeriodSeconds:  60,
		UntrackedGroup:      "Untitled",
		OutputDir:           ".",
		SheetName:           "Summary",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// GracePeriod returns the fetch grace period as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// HasWindowOverride reports whether the war lookup should be skipped.
func (c *Config) HasWindowOverride() bool {
	return c.WindowStart != 0 || c.WindowEnd != 0 || c.OpposingFaction != ""
}

// SheetsEnabled reports whether the summary is uploaded to a spreadsheet.
func (c *Config) SheetsEnabled() bool {
	return c.SheetsCredentialsFile != "" && c.SheetsURL != ""
}

// Validate checks the configuration for values the run cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("%w: api_key must not be empty", ErrInvalidConfig)
	case c.FactionID == "":
		return fmt.Errorf("%w: faction_id must not be empty", ErrInvalidConfig)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.RequestsPerMinute <= 0:
		return fmt.Errorf("%w: requests_per_minute must be positive", ErrInvalidConfig)
	case c.FetchConcurrency <= 0:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case c.PageSize <= 0:
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	case c.GracePeriodSeconds < 0:
		return fmt.Errorf("%w: grace_period_seconds must not be negative", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.Serve && c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}

	if c.HasWindowOverride() {
		if c.WindowStart <= 0 || c.WindowEnd <= 0 || c.OpposingFaction == "" {
			return fmt.Errorf("%w: opposing_faction, window_start and window_end must be set together", ErrInvalidConfig)
		}
		if c.WindowEnd < c.WindowStart {
			return fmt.Errorf("%w: window_end %d is before window_start %d", ErrInvalidConfig, c.WindowEnd, c.WindowStart)
		}
	}

	return nil
}
