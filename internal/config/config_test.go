package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "2024-25", c.Season)
	assert.Equal(t, 600*time.Millisecond, c.Fetch.PauseBetweenRequests)
	assert.Equal(t, 15, c.Windows.RecentForm)
	assert.Equal(t, 3, c.Windows.OpponentHistory)
	assert.Equal(t, "public/data/nba_feature_stats.json", c.Output.FeatureStatsPath)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
season: "2023-24"
fetch:
  pause_between_requests: 250ms
windows:
  recent_form: 10
output:
  feature_stats_path: out/stats.json
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2023-24", c.Season)
	assert.Equal(t, 250*time.Millisecond, c.Fetch.PauseBetweenRequests)
	assert.Equal(t, 10, c.Windows.RecentForm)
	assert.Equal(t, 3, c.Windows.OpponentHistory, "unset keys keep their default")
	assert.Equal(t, "out/stats.json", c.Output.FeatureStatsPath)
	assert.Equal(t, 10*time.Second, c.Fetch.Timeout)
}

func TestLoad_RejectsInvalidSeason(t *testing.T) {
	path := writeConfig(t, `season: "2024"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "season")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero recent form", mutate: func(c *Config) { c.Windows.RecentForm = 0 }, wantErr: true},
		{name: "zero opponent history", mutate: func(c *Config) { c.Windows.OpponentHistory = 0 }, wantErr: true},
		{name: "negative pause", mutate: func(c *Config) { c.Fetch.PauseBetweenRequests = -time.Second }, wantErr: true},
		{name: "zero pause allowed", mutate: func(c *Config) { c.Fetch.PauseBetweenRequests = 0 }},
		{name: "bad breaker ratio", mutate: func(c *Config) { c.Breaker.FailureRatio = 2 }, wantErr: true},
		{name: "breaker disabled ignores ratio", mutate: func(c *Config) {
			c.Breaker.Enabled = false
			c.Breaker.FailureRatio = 0
		}},
		{name: "missing stats url", mutate: func(c *Config) { c.Sources.StatsBaseURL = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ODDS_API_KEY", "secret-key-123")
	t.Setenv("API_PORT", "9090")
	t.Setenv("ENABLE_STATS_CACHE", "true")
	t.Setenv("STATS_CACHE_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://props.example.com,http://localhost:5173")

	c := Default()
	c.ApplyEnv()

	assert.Equal(t, "secret-key-123", c.Odds.APIKey)
	assert.Equal(t, "9090", c.API.Port)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.Equal(t, []string{"https://props.example.com", "http://localhost:5173"}, c.API.CORSOrigins)
}

func TestApplyEnv_CacheNeverEnabledInProduction(t *testing.T) {
	t.Setenv("API_ENV", "production")
	t.Setenv("ENABLE_STATS_CACHE", "true")

	c := Default()
	c.ApplyEnv()

	assert.True(t, c.API.Production)
	assert.False(t, c.Cache.Enabled)
}
