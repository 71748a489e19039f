package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
// Every component receives the piece it needs from here instead of reading globals.
type Config struct {
	// Season in the stats API format, e.g. "2024-25".
	Season string `yaml:"season"`

	Output  OutputConfig  `yaml:"output"`
	Sources SourcesConfig `yaml:"sources"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Windows WindowConfig  `yaml:"windows"`
	Breaker BreakerConfig `yaml:"breaker"`
	Cache   CacheConfig   `yaml:"cache"`
	Odds    OddsConfig    `yaml:"odds"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
}

type OutputConfig struct {
	FeatureStatsPath string `yaml:"feature_stats_path"`
	DerivedCSVPath   string `yaml:"derived_csv_path"`
	OffersPath       string `yaml:"offers_path"`
	RosterPath       string `yaml:"roster_path"`
}

type SourcesConfig struct {
	CheatSheetURL string `yaml:"cheat_sheet_url"`
	StatsBaseURL  string `yaml:"stats_base_url"`
}

type FetchConfig struct {
	// Fixed pause slept after every stats sub-fetch, success or failure.
	PauseBetweenRequests time.Duration `yaml:"pause_between_requests"`
	Timeout              time.Duration `yaml:"timeout"`
}

type WindowConfig struct {
	RecentForm      int `yaml:"recent_form"`
	OpponentHistory int `yaml:"opponent_history"`
}

type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxRequests uint32        `yaml:"max_requests"`
	Timeout     time.Duration `yaml:"timeout"`
	// Minimum requests before the failure ratio is considered.
	MinRequests  uint32  `yaml:"min_requests"`
	FailureRatio float64 `yaml:"failure_ratio"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

type OddsConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Location string `yaml:"location"`
	Origin   string `yaml:"origin"`
}

type APIConfig struct {
	Port            string `yaml:"port"`
	StaticDir       string `yaml:"static_dir"`
	RefreshSchedule string `yaml:"refresh_schedule"`
	Production      bool   `yaml:"production"`
	// Browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string `yaml:"cors_origins"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the stock configuration: current season, public artifact paths and polite fetch pacing.
func Default() *Config {
	return &Config{
		Season: "2024-25",
		Output: OutputConfig{
			FeatureStatsPath: "public/data/nba_feature_stats.json",
			DerivedCSVPath:   "results/derived_features.csv",
			OffersPath:       "results/offers.json",
			RosterPath:       "data/roster.json",
		},
		Sources: SourcesConfig{
			CheatSheetURL: "https://showstone.io/api/cheat-sheet/?format=json",
			StatsBaseURL:  "https://stats.nba.com/stats",
		},
		Fetch: FetchConfig{
			PauseBetweenRequests: 600 * time.Millisecond,
			Timeout:              10 * time.Second,
		},
		Windows: WindowConfig{
			RecentForm:      15,
			OpponentHistory: 3,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MaxRequests:  1,
			Timeout:      60 * time.Second,
			MinRequests:  3,
			FailureRatio: 0.6,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Hour,
		},
		Odds: OddsConfig{
			BaseURL:  "https://api.bettingpros.com/v3",
			Location: "MA",
			Origin:   "https://www.bettingpros.com",
		},
		API: APIConfig{
			Port:        "8080",
			StaticDir:   "./web/dist",
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config over the defaults, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays secrets and deployment settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		c.Odds.APIKey = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.API.Port = v
	}
	if os.Getenv("API_ENV") == "production" {
		c.API.Production = true
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.API.StaticDir = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.API.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	// The response cache is for local development only.
	if os.Getenv("ENABLE_STATS_CACHE") == "true" && !c.API.Production {
		c.Cache.Enabled = true
	}
	if ttl := os.Getenv("STATS_CACHE_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			c.Cache.TTL = parsed
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !validSeason(c.Season) {
		return fmt.Errorf("season %q must look like 2024-25", c.Season)
	}
	if c.Sources.StatsBaseURL == "" {
		return errors.New("sources.stats_base_url is required")
	}
	if c.Output.FeatureStatsPath == "" {
		return errors.New("output.feature_stats_path is required")
	}
	if c.Fetch.PauseBetweenRequests < 0 {
		return errors.New("fetch.pause_between_requests must be >= 0")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be > 0")
	}
	if c.Windows.RecentForm <= 0 {
		return errors.New("windows.recent_form must be > 0")
	}
	if c.Windows.OpponentHistory <= 0 {
		return errors.New("windows.opponent_history must be > 0")
	}
	if c.Breaker.Enabled && (c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1) {
		return errors.New("breaker.failure_ratio must be in (0, 1]")
	}
	return nil
}

// validSeason accepts "YYYY-YY".
func validSeason(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return false
	}
	for _, r := range parts[0] + parts[1] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
