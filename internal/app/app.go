// Package app wires configuration into the running components shared by
// the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trading-experiment/internal/config"
	"trading-experiment/internal/dashboard"
	"trading-experiment/internal/data"
	"trading-experiment/internal/quotes"
	"trading-experiment/internal/store"
)

// App holds the components built from one Config.
type App struct {
	Config    *config.Config
	Store     *store.Store // nil without a backend endpoint
	Quotes    *quotes.Client
	Static    *data.StaticSource
	Collector *data.Collector
	Dashboard *dashboard.Service
	Refresh   time.Duration
}

// Build creates every component. A backend that cannot be reached is
// logged and the app runs on the static snapshot instead.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	baseline, err := cfg.BaselineValue()
	if err != nil {
		return nil, err
	}
	refresh, err := cfg.Refresh()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Quotes.TimeoutValue()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.Quotes.CacheTTLValue()
	if err != nil {
		return nil, err
	}
	manual, err := cfg.Quotes.ManualPriceTable()
	if err != nil {
		return nil, err
	}

	static, err := data.LoadStatic(cfg.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("fallback snapshot: %w", err)
	}

	q := quotes.NewClient(quotes.Options{
		BaseURL:  cfg.Quotes.BaseURL,
		Tickers:  cfg.Quotes.TickerList(),
		Manual:   manual,
		Timeout:  timeout,
		CacheTTL: ttl,
		Logger:   logger,
	})

	a := &App{
		Config:  cfg,
		Quotes:  q,
		Static:  static,
		Refresh: refresh,
	}

	live := &data.LiveSource{Quotes: q, Logger: logger.With("component", "live")}
	if cfg.Backend.Endpoint != "" {
		openCtx, cancel := context.WithTimeout(ctx, timeout)
		st, err := store.Open(openCtx, cfg.Backend.Endpoint, cfg.Backend.APIKey)
		cancel()
		if err != nil {
			logger.Warn("backend unavailable, using fallback snapshot", "component", "store", "error", err)
		} else {
			a.Store = st
			live.Backend = st
		}
	} else {
		logger.Info("no backend endpoint configured, using fallback snapshot", "component", "store")
	}

	a.Collector = data.NewCollector(live, static, logger)
	a.Dashboard = dashboard.NewService(a.Collector, baseline, logger)
	return a, nil
}

// Close releases the backend connection.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}
