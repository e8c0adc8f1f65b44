// Package config defines service configuration and its loading.
//
// Values are layered by Load: defaults from New, an optional dotenv file,
// an optional YAML file, then PODIUM_ environment variables.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Source is the results location: a file path or an http(s) URL.
	Source string `koanf:"source"`

	// FetchTimeoutMS bounds one fetch of the source.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// Column names read from each record.
	TimeField    string `koanf:"time_field"`
	NameField    string `koanf:"name_field"`
	ProfileField string `koanf:"profile_field"`

	// DefaultProfile is the image used when a record has none.
	DefaultProfile string `koanf:"default_profile"`

	// PodiumSize and ListLimit shape the board: positions 1..PodiumSize
	// form the podium and the list runs up to ListLimit.
	PodiumSize int `koanf:"podium_size"`
	ListLimit  int `koanf:"list_limit"`

	// StrictTimes ranks unreadable times last instead of as zero.
	StrictTimes bool `koanf:"strict_times"`

	// RefreshIntervalSec reloads the source periodically; 0 disables it.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// RefreshQueueSize bounds pending refresh requests.
	RefreshQueueSize int `koanf:"refresh_queue_size"`

	// RefreshWorkers sets the number of pipeline workers.
	RefreshWorkers int `koanf:"refresh_workers"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MetricsEnabled turns metric observations on; /healthz is served
	// either way.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshSec is how often runtime gauges are sampled.
	MetricsRefreshSec int `koanf:"metrics_refresh_sec"`

	// Instance, when set, is attached to every metric as a constant label.
	Instance string `koanf:"instance"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Source:              "results.csv",
		FetchTimeoutMS:      5_000,
		TimeField:           "Tiempo",
		NameField:           "Jugador",
		ProfileField:        "Profile",
		DefaultProfile:      "img/profile.webp",
		PodiumSize:          3,
		ListLimit:           10,
		RefreshIntervalSec:  0,
		RefreshQueueSize:    64,
		RefreshWorkers:      max(1, runtime.NumCPU()/2),
		MaxLeaderboardLimit: 100,
		MetricsEnabled:      true,
		MetricsRefreshSec:   10,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalSec as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// MetricsRefresh returns MetricsRefreshSec as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshSec) * time.Second
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Source == "":
		return fmt.Errorf("%w: source must not be empty", ErrInvalidConfig)
	case c.PodiumSize < 1:
		return fmt.Errorf("%w: podium_size must be at least 1, got %d", ErrInvalidConfig, c.PodiumSize)
	case c.ListLimit < c.PodiumSize:
		return fmt.Errorf("%w: list_limit %d is below podium_size %d", ErrInvalidConfig, c.ListLimit, c.PodiumSize)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.RefreshIntervalSec < 0:
		return fmt.Errorf("%w: refresh_interval_sec must not be negative", ErrInvalidConfig)
	case c.RefreshQueueSize < 1:
		return fmt.Errorf("%w: refresh_queue_size must be at least 1", ErrInvalidConfig)
	case c.RefreshWorkers < 1:
		return fmt.Errorf("%w: refresh_workers must be at least 1", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	case c.MetricsRefreshSec < 1:
		return fmt.Errorf("%w: metrics_refresh_sec must be at least 1", ErrInvalidConfig)
	}
	return nil
}
