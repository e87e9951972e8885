// Package data assembles the snapshot the valuation engine reads: the
// ledger, the price table and the trade log, each from the live backend
// when it answers and from a static snapshot when it does not.
package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trading-experiment/internal/model"
	"trading-experiment/internal/quotes"
)

// ErrNoBackend is returned by a LiveSource without a store for the parts
// only the store can answer.
var ErrNoBackend = errors.New("no live backend configured")

// Source provides the three inputs of a snapshot.
type Source interface {
	Name() string
	Ledger(ctx context.Context) (model.Ledger, error)
	// Prices may return a partial table together with an error.
	Prices(ctx context.Context) (model.PriceTable, error)
	Trades(ctx context.Context) ([]model.TradeRecord, error)
}

// Backend is the part of store.Store a LiveSource uses.
type Backend interface {
	LoadLedger(ctx context.Context) (model.Ledger, error)
	LoadTrades(ctx context.Context) ([]model.TradeRecord, error)
	LatestPrices(ctx context.Context) (model.PriceTable, error)
	RecordPrices(ctx context.Context, prices model.PriceTable, at time.Time) error
}

// PriceFetcher is the part of quotes.Client a LiveSource uses.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) (*quotes.Result, error)
}

// LiveSource reads positions and trades from the backend and prices from
// the quote fetcher, recording every fetched batch into the price history.
// Backend may be nil.
type LiveSource struct {
	Backend Backend
	Quotes  PriceFetcher
	Logger  *slog.Logger
}

func (s *LiveSource) Name() string { return model.SourceLive }

func (s *LiveSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *LiveSource) Ledger(ctx context.Context) (model.Ledger, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	return s.Backend.LoadLedger(ctx)
}

func (s *LiveSource) Trades(ctx context.Context) ([]model.TradeRecord, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	return s.Backend.LoadTrades(ctx)
}

// Prices overlays freshly fetched quotes on the latest recorded history.
// When the fetch fails the history alone is returned with the error.
func (s *LiveSource) Prices(ctx context.Context) (model.PriceTable, error) {
	table := make(model.PriceTable)
	if s.Backend != nil {
		hist, err := s.Backend.LatestPrices(ctx)
		if err != nil {
			s.logger().Warn("price history unavailable", "error", err)
		}
		for t, p := range hist {
			table[t] = p
		}
	}

	if s.Quotes == nil {
		return table, errors.New("no quote fetcher configured")
	}
	res, err := s.Quotes.FetchPrices(ctx)
	if err != nil {
		return table, fmt.Errorf("fetch prices: %w", err)
	}
	for t, p := range res.Prices {
		if p.IsPositive() {
			table[t] = p
		}
	}

	if s.Backend != nil && len(res.Prices) > 0 {
		if err := s.Backend.RecordPrices(ctx, res.Prices, res.Timestamp); err != nil {
			s.logger().Warn("failed to record prices", "error", err)
		}
	}
	return table, nil
}
