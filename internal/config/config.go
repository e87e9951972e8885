package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"trading-experiment/internal/model"
)

// Config is the on-disk configuration shape (YAML). Durations and amounts
// are kept as strings and parsed by the accessors so the file stays
// readable ("60s", "62771.86").
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Quotes  QuotesConfig  `yaml:"quotes"`
	Log     LogConfig     `yaml:"log"`

	Baseline        string `yaml:"baseline"`
	RefreshInterval string `yaml:"refresh_interval"`
	// Optional: static snapshot used when the backend is unavailable. Relative
	// paths are resolved against the config file directory first.
	FallbackFile string `yaml:"fallback_file"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Mode           string   `yaml:"mode"` // gin mode: debug, release, test
}

// BackendConfig locates the Postgres backend. Credentials belong in the
// environment (BACKEND_ENDPOINT, BACKEND_API_KEY) rather than in the file.
type BackendConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type QuotesConfig struct {
	BaseURL      string            `yaml:"base_url"`
	Tickers      []string          `yaml:"tickers"`
	ManualPrices map[string]string `yaml:"manual_prices"`
	Timeout      string            `yaml:"timeout"`
	CacheTTL     string            `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			StaticDir:      "web",
			AllowedOrigins: []string{"*"},
			Mode:           "release",
		},
		Quotes: QuotesConfig{
			BaseURL:      "https://query1.finance.yahoo.com",
			Tickers:      []string{"AMD", "GOOGL", "AMZN", "PLTR", "BOTZ", "AIAI"},
			ManualPrices: map[string]string{"IWDA": "112.80"},
			Timeout:      "10s",
			CacheTTL:     "30s",
		},
		Log: LogConfig{
			Level: "info",
			File:  "logs/trading-experiment.log",
		},
		Baseline:        "62771.86",
		RefreshInterval: "60s",
	}
}

// Load reads path (optional), applies .env and environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		c = Merge(c, &fileCfg)

		if c.FallbackFile != "" && !filepath.IsAbs(c.FallbackFile) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), c.FallbackFile)
			if _, err := os.Stat(cand); err == nil {
				c.FallbackFile = cand
			}
		}
	}
	applyEnv(c)
	return c, nil
}

// Merge overlays non-zero fields from override onto base.
func Merge(base, override *Config) *Config {
	out := *base
	if override.Server.Port != 0 {
		out.Server.Port = override.Server.Port
	}
	if override.Server.StaticDir != "" {
		out.Server.StaticDir = override.Server.StaticDir
	}
	if len(override.Server.AllowedOrigins) > 0 {
		out.Server.AllowedOrigins = override.Server.AllowedOrigins
	}
	if override.Server.Mode != "" {
		out.Server.Mode = override.Server.Mode
	}
	if override.Backend.Endpoint != "" {
		out.Backend.Endpoint = override.Backend.Endpoint
	}
	if override.Backend.APIKey != "" {
		out.Backend.APIKey = override.Backend.APIKey
	}
	if override.Quotes.BaseURL != "" {
		out.Quotes.BaseURL = override.Quotes.BaseURL
	}
	// Note: an explicit empty list in the file cannot disable fetching; use
	// manual prices for every ticker instead.
	if len(override.Quotes.Tickers) > 0 {
		out.Quotes.Tickers = override.Quotes.Tickers
	}
	if override.Quotes.ManualPrices != nil {
		out.Quotes.ManualPrices = override.Quotes.ManualPrices
	}
	if override.Quotes.Timeout != "" {
		out.Quotes.Timeout = override.Quotes.Timeout
	}
	if override.Quotes.CacheTTL != "" {
		out.Quotes.CacheTTL = override.Quotes.CacheTTL
	}
	if override.Log.Level != "" {
		out.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		out.Log.File = override.Log.File
	}
	if override.Baseline != "" {
		out.Baseline = override.Baseline
	}
	if override.RefreshInterval != "" {
		out.RefreshInterval = override.RefreshInterval
	}
	if override.FallbackFile != "" {
		out.FallbackFile = override.FallbackFile
	}
	return &out
}

func applyEnv(c *Config) {
	c.Backend.Endpoint = getEnvOrDefault("BACKEND_ENDPOINT", c.Backend.Endpoint)
	c.Backend.APIKey = getEnvOrDefault("BACKEND_API_KEY", c.Backend.APIKey)
	c.Server.Port = getEnvIntOrDefault("PORT", c.Server.Port)
	c.Server.StaticDir = getEnvOrDefault("STATIC_DIR", c.Server.StaticDir)
	c.Server.Mode = getEnvOrDefault("GIN_MODE", c.Server.Mode)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	c.Quotes.BaseURL = getEnvOrDefault("QUOTES_BASE_URL", c.Quotes.BaseURL)
	c.Log.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", c.Log.Level))
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)
	c.FallbackFile = getEnvOrDefault("FALLBACK_FILE", c.FallbackFile)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	b, err := c.BaselineValue()
	if err != nil {
		return err
	}
	if !b.IsPositive() {
		return errors.New("baseline must be positive")
	}
	refresh, err := c.Refresh()
	if err != nil {
		return err
	}
	if refresh <= 0 {
		return errors.New("refresh_interval must be positive")
	}
	if _, err := c.Quotes.TimeoutValue(); err != nil {
		return err
	}
	if _, err := c.Quotes.CacheTTLValue(); err != nil {
		return err
	}
	if _, err := c.Quotes.ManualPriceTable(); err != nil {
		return err
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be one of debug, release, test", c.Server.Mode)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// BaselineValue parses the starting portfolio value.
func (c *Config) BaselineValue() (decimal.Decimal, error) {
	b, err := decimal.NewFromString(c.Baseline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("baseline %q: %w", c.Baseline, err)
	}
	return b, nil
}

// Refresh parses refresh_interval.
func (c *Config) Refresh() (time.Duration, error) {
	return parseDuration("refresh_interval", c.RefreshInterval)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func (q QuotesConfig) TimeoutValue() (time.Duration, error) {
	return parseDuration("quotes.timeout", q.Timeout)
}

// CacheTTLValue parses quotes.cache_ttl; an empty value disables caching.
func (q QuotesConfig) CacheTTLValue() (time.Duration, error) {
	if q.CacheTTL == "" {
		return 0, nil
	}
	return parseDuration("quotes.cache_ttl", q.CacheTTL)
}

// TickerList returns the normalized tickers to fetch. Tickers that have a
// manual price are skipped.
func (q QuotesConfig) TickerList() []model.Ticker {
	manual := make(map[model.Ticker]bool, len(q.ManualPrices))
	for raw := range q.ManualPrices {
		manual[model.NormalizeTicker(raw)] = true
	}

	out := make([]model.Ticker, 0, len(q.Tickers))
	seen := make(map[model.Ticker]bool)
	for _, raw := range q.Tickers {
		t := model.NormalizeTicker(raw)
		if t == "" || t.IsCash() || seen[t] || manual[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ManualPriceTable parses manual_prices. Every price must be positive.
func (q QuotesConfig) ManualPriceTable() (model.PriceTable, error) {
	out := make(model.PriceTable, len(q.ManualPrices))
	for raw, s := range q.ManualPrices {
		p, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("quotes.manual_prices.%s: %w", raw, err)
		}
		if !p.IsPositive() {
			return nil, fmt.Errorf("quotes.manual_prices.%s must be positive", raw)
		}
		out[model.NormalizeTicker(raw)] = p
	}
	return out, nil
}

func parseDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
