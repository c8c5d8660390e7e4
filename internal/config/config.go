// Package config defines the top-level configuration for manifoldscope and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by MSCOPE_* environment variables.
type Config struct {
	Manifold ManifoldConfig `toml:"manifold"`
	Fetch    FetchConfig    `toml:"fetch"`
	Parse    ParseConfig    `toml:"parse"`
	Report   ReportConfig   `toml:"report"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ManifoldConfig holds the Manifold Markets API endpoint parameters.
type ManifoldConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// FetchConfig holds parameters for the bet-fetching collaborator.
type FetchConfig struct {
	// PageSize is the number of bets requested per page (API max 1000).
	PageSize int `toml:"page_size"`
	// RateLimitRPS caps outgoing API requests per second.
	RateLimitRPS float64 `toml:"rate_limit_rps"`
	// ResolveUsernames controls whether trader IDs are resolved to display
	// names via the user endpoint. When false, truncated IDs are used.
	ResolveUsernames bool `toml:"resolve_usernames"`
	// MaxUsers caps how many distinct users are resolved per run.
	MaxUsers int `toml:"max_users"`
}

// ParseConfig holds parameters for text-input parsing.
type ParseConfig struct {
	// ReferenceDate anchors relative timestamps ("3mo", "1y") when parsing
	// text input, formatted YYYY-MM-DD. Empty means the time of processing.
	ReferenceDate string `toml:"reference_date"`
}

// ReportConfig holds rendering and publishing parameters.
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
	// TopTraders limits how many leaderboard rows the report shows.
	TopTraders int `toml:"top_traders"`
	// XLSX additionally exports the leaderboard and monthly series to a
	// spreadsheet next to the HTML report.
	XLSX bool `toml:"xlsx"`
	// Publish uploads the generated artifacts to the configured S3 bucket.
	Publish bool `toml:"publish"`
	// MarketURLBase is used to build the market link in the report header.
	MarketURLBase string `toml:"market_url_base"`
}

// RedisConfig holds Redis connection parameters for the username cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	// UserTTL controls how long resolved usernames stay cached.
	UserTTL duration `toml:"user_ttl"`
}

// S3Config holds S3-compatible object storage parameters for report
// publishing.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP preview server parameters for serve mode.
type ServerConfig struct {
	Port int `toml:"port"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "24h").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Manifold: ManifoldConfig{
			BaseURL:   "https://api.manifold.markets/v0",
			UserAgent: "manifoldscope/1.0",
		},
		Fetch: FetchConfig{
			PageSize:         1000,
			RateLimitRPS:     1.0,
			ResolveUsernames: true,
			MaxUsers:         200,
		},
		Report: ReportConfig{
			OutputDir:     "out",
			TopTraders:    25,
			XLSX:          false,
			Publish:       false,
			MarketURLBase: "https://manifold.markets",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
			TLSEnabled: false,
			UserTTL:    duration{24 * time.Hour},
		},
		S3: S3Config{
			Endpoint:       "",
			Region:         "us-east-1",
			Bucket:         "",
			Prefix:         "reports",
			UseSSL:         true,
			ForcePathStyle: false,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Mode:     "analyze",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"analyze": true,
	"parse":   true,
	"serve":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: analyze, parse, serve)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Manifold.BaseURL == "" {
		errs = append(errs, "manifold: base_url must not be empty")
	}

	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > 1000 {
		errs = append(errs, fmt.Sprintf("fetch: page_size must be 1-1000, got %d", c.Fetch.PageSize))
	}
	if c.Fetch.RateLimitRPS <= 0 {
		errs = append(errs, "fetch: rate_limit_rps must be > 0")
	}
	if c.Fetch.MaxUsers < 0 {
		errs = append(errs, "fetch: max_users must be >= 0")
	}

	if c.Parse.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.Parse.ReferenceDate); err != nil {
			errs = append(errs, fmt.Sprintf("parse: reference_date %q is not YYYY-MM-DD", c.Parse.ReferenceDate))
		}
	}

	if c.Report.OutputDir == "" {
		errs = append(errs, "report: output_dir must not be empty")
	}
	if c.Report.TopTraders < 1 {
		errs = append(errs, "report: top_traders must be >= 1")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.Report.Publish {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when report.publish is enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when report.publish is enabled")
		}
	}

	if c.Mode == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
