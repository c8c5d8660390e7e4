package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MSCOPE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
//
// A missing config file is not an error: defaults plus environment overrides
// are enough to run.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MSCOPE_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject credentials at run time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Manifold ──
	setStr(&cfg.Manifold.BaseURL, "MSCOPE_MANIFOLD_BASE_URL")
	setStr(&cfg.Manifold.UserAgent, "MSCOPE_MANIFOLD_USER_AGENT")

	// ── Fetch ──
	setInt(&cfg.Fetch.PageSize, "MSCOPE_FETCH_PAGE_SIZE")
	setFloat64(&cfg.Fetch.RateLimitRPS, "MSCOPE_FETCH_RATE_LIMIT_RPS")
	setBool(&cfg.Fetch.ResolveUsernames, "MSCOPE_FETCH_RESOLVE_USERNAMES")
	setInt(&cfg.Fetch.MaxUsers, "MSCOPE_FETCH_MAX_USERS")

	// ── Parse ──
	setStr(&cfg.Parse.ReferenceDate, "MSCOPE_PARSE_REFERENCE_DATE")

	// ── Report ──
	setStr(&cfg.Report.OutputDir, "MSCOPE_REPORT_OUTPUT_DIR")
	setInt(&cfg.Report.TopTraders, "MSCOPE_REPORT_TOP_TRADERS")
	setBool(&cfg.Report.XLSX, "MSCOPE_REPORT_XLSX")
	setBool(&cfg.Report.Publish, "MSCOPE_REPORT_PUBLISH")
	setStr(&cfg.Report.MarketURLBase, "MSCOPE_REPORT_MARKET_URL_BASE")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "MSCOPE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MSCOPE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MSCOPE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MSCOPE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MSCOPE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MSCOPE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MSCOPE_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.UserTTL, "MSCOPE_REDIS_USER_TTL")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "MSCOPE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "MSCOPE_S3_REGION")
	setStr(&cfg.S3.Bucket, "MSCOPE_S3_BUCKET")
	setStr(&cfg.S3.Prefix, "MSCOPE_S3_PREFIX")
	setStr(&cfg.S3.AccessKey, "MSCOPE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "MSCOPE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "MSCOPE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "MSCOPE_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "MSCOPE_SERVER_PORT")

	// ── Top-level ──
	setStr(&cfg.Mode, "MSCOPE_MODE")
	setStr(&cfg.LogLevel, "MSCOPE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
