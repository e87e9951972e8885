// Package dashboard keeps the latest evaluated snapshot and refreshes it
// periodically.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

// PriceErrorText is shown instead of the update time when the live quote
// fetch of the latest cycle failed.
const PriceErrorText = "Error loading prices"

// RefreshTimeout bounds a refresh that is not tied to the refresh loop,
// such as one requested over HTTP.
const RefreshTimeout = 30 * time.Second

// Collector produces one snapshot per refresh cycle.
type Collector interface {
	Collect(ctx context.Context) *model.Snapshot
}

// State is one evaluated refresh cycle. It is never modified after being
// published.
type State struct {
	Snapshot *model.Snapshot  `json:"-"`
	Report   valuation.Report `json:"report"`
	// PricesUpdatedAt is the last cycle whose live quote fetch succeeded;
	// it survives failed cycles.
	PricesUpdatedAt time.Time `json:"prices_updated_at"`
	StatusText      string    `json:"status_text"`
}

// Service owns the refresh loop and the published State.
type Service struct {
	collector Collector
	baseline  decimal.Decimal
	logger    *slog.Logger

	refreshMu sync.Mutex

	mu      sync.RWMutex
	current *State
}

// NewService returns a Service; nothing is collected until Refresh or
// Start is called.
func NewService(c Collector, baseline decimal.Decimal, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collector: c,
		baseline:  baseline,
		logger:    logger.With("component", "dashboard"),
	}
}

func (s *Service) Baseline() decimal.Decimal { return s.baseline }

// Current returns the latest State, or nil before the first refresh.
func (s *Service) Current() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh collects and evaluates a new snapshot and publishes it.
// Concurrent calls are serialized. A cycle whose ctx ends while collecting
// is discarded and the previous State stays published.
func (s *Service) Refresh(ctx context.Context) *State {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	snap := s.collector.Collect(ctx)
	if err := ctx.Err(); err != nil {
		if prev := s.Current(); prev != nil {
			s.logger.Warn("refresh canceled, keeping previous state", "error", err)
			return prev
		}
	}
	st := &State{
		Snapshot: snap,
		Report:   valuation.EvaluateSnapshot(snap, s.baseline),
	}

	if prev := s.Current(); prev != nil {
		st.PricesUpdatedAt = prev.PricesUpdatedAt
	}
	if snap.Status.PricesOK {
		st.PricesUpdatedAt = snap.FetchedAt
	}
	st.StatusText = StatusText(snap.Status, st.PricesUpdatedAt)

	s.mu.Lock()
	s.current = st
	s.mu.Unlock()

	s.logger.Info("refreshed",
		"positions", snap.Status.PositionsSource,
		"prices", snap.Status.PricesSource,
		"trades", snap.Status.TradesSource,
		"errors", len(snap.Status.Errors),
		"duration", time.Since(start))
	return st
}

// Start refreshes once, then every interval until ctx is done or the
// returned cancel is called. Cycles never overlap.
func (s *Service) Start(ctx context.Context, interval time.Duration) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.Refresh(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// StatusText is "Last updated 02:05 PM", or PriceErrorText when the
// latest live price fetch failed.
func StatusText(status model.Status, updatedAt time.Time) string {
	if !status.PricesOK {
		return PriceErrorText
	}
	return "Last updated " + updatedAt.Local().Format("03:04 PM")
}
