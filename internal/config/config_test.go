package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.LogLevel = "loud"
	cfg.Fetch.PageSize = 0
	cfg.Report.OutputDir = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "page_size")
	assert.Contains(t, err.Error(), "output_dir")
}

func TestValidatePublishRequiresBucket(t *testing.T) {
	cfg := Defaults()
	cfg.Report.Publish = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestValidateRejectsBadReferenceDate(t *testing.T) {
	cfg := Defaults()
	cfg.Parse.ReferenceDate = "June 1st"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference_date")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Manifold.BaseURL, cfg.Manifold.BaseURL)
	assert.Equal(t, "analyze", cfg.Mode)
}

func TestLoadDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
mode = "parse"
log_level = "debug"

[fetch]
page_size = 500
rate_limit_rps = 2.5

[report]
top_traders = 10
xlsx = true

[redis]
enabled = true
addr = "redis:6379"
user_ttl = "12h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "parse", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.Fetch.PageSize)
	assert.Equal(t, 2.5, cfg.Fetch.RateLimitRPS)
	assert.Equal(t, 10, cfg.Report.TopTraders)
	assert.True(t, cfg.Report.XLSX)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Redis.UserTTL.Duration)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MSCOPE_MODE", "serve")
	t.Setenv("MSCOPE_FETCH_PAGE_SIZE", "250")
	t.Setenv("MSCOPE_FETCH_RESOLVE_USERNAMES", "false")
	t.Setenv("MSCOPE_REDIS_USER_TTL", "1h30m")
	t.Setenv("MSCOPE_SERVER_PORT", "9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "serve", cfg.Mode)
	assert.Equal(t, 250, cfg.Fetch.PageSize)
	assert.False(t, cfg.Fetch.ResolveUsernames)
	assert.Equal(t, 90*time.Minute, cfg.Redis.UserTTL.Duration)
	assert.Equal(t, 9090, cfg.Server.Port)
}
