package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BACKEND_ENDPOINT", "BACKEND_API_KEY", "PORT", "STATIC_DIR", "GIN_MODE",
		"ALLOWED_ORIGINS", "QUOTES_BASE_URL", "LOG_LEVEL", "LOG_FILE", "FALLBACK_FILE",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, _ := c.BaselineValue()
	if !b.Equal(decimal.RequireFromString("62771.86")) {
		t.Errorf("baseline = %s", b)
	}
	if r, _ := c.Refresh(); r != time.Minute {
		t.Errorf("refresh = %v", r)
	}
	if c.Addr() != ":8080" {
		t.Errorf("addr = %q", c.Addr())
	}
	if got := len(c.Quotes.TickerList()); got != 6 {
		t.Errorf("tickers = %d, want 6", got)
	}
	manual, err := c.Quotes.ManualPriceTable()
	if err != nil || !manual["IWDA"].Equal(decimal.RequireFromString("112.80")) {
		t.Errorf("manual = %v, err = %v", manual, err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "snapshot.json", "{}")
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9090
  allowed_origins: ["https://example.org"]
backend:
  endpoint: postgres://localhost/trading
quotes:
  tickers: [amd, IWDA, CASH, AMD]
  cache_ttl: 0s
baseline: "50000"
refresh_interval: 5m
fallback_file: snapshot.json
log:
  level: debug
`)
	t.Setenv("BACKEND_API_KEY", "secret")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Port != 9090 || c.Server.AllowedOrigins[0] != "https://example.org" {
		t.Errorf("server = %+v", c.Server)
	}
	if c.Server.StaticDir != "web" {
		t.Errorf("static dir default lost: %q", c.Server.StaticDir)
	}
	if c.Backend.Endpoint != "postgres://localhost/trading" || c.Backend.APIKey != "secret" {
		t.Errorf("backend = %+v", c.Backend)
	}
	if tl := c.Quotes.TickerList(); len(tl) != 1 || tl[0] != "AMD" {
		t.Errorf("tickers = %v", tl)
	}
	if r, _ := c.Refresh(); r != 5*time.Minute {
		t.Errorf("refresh = %v", r)
	}
	if c.FallbackFile != filepath.Join(dir, "snapshot.json") {
		t.Errorf("fallback file = %q", c.FallbackFile)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", "server:\n  port: 9090\n")
	t.Setenv("PORT", "7000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "WARN")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Port != 7000 || len(c.Server.AllowedOrigins) != 2 || c.Log.Level != "warn" {
		t.Errorf("config = %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"zero baseline", func(c *Config) { c.Baseline = "0" }, "baseline must be positive"},
		{"bad baseline", func(c *Config) { c.Baseline = "abc" }, "baseline"},
		{"bad refresh", func(c *Config) { c.RefreshInterval = "soon" }, "refresh_interval"},
		{"negative refresh", func(c *Config) { c.RefreshInterval = "-1s" }, "refresh_interval must be positive"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"manual price", func(c *Config) { c.Quotes.ManualPrices = map[string]string{"IWDA": "-1"} }, "must be positive"},
		{"gin mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	var nilCfg *Config
	if err := nilCfg.Validate(); err == nil {
		t.Error("nil config should not validate")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTickerListSkipsManualPrices(t *testing.T) {
	q := QuotesConfig{
		Tickers:      []string{"amd", "IWDA", "cash", "AMD", " pltr "},
		ManualPrices: map[string]string{"iwda": "112.80"},
	}
	got := q.TickerList()
	if len(got) != 2 || got[0] != "AMD" || got[1] != "PLTR" {
		t.Errorf("tickers = %v, want [AMD PLTR]", got)
	}
}
