package data

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

// Collector builds snapshots from a live source, falling back per concern
// to a static one.
type Collector struct {
	live     Source
	fallback Source
	logger   *slog.Logger
	now      func() time.Time
}

// NewCollector returns a Collector. live may be nil, in which case every
// snapshot comes from fallback.
func NewCollector(live, fallback Source, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		live:     live,
		fallback: fallback,
		logger:   logger.With("component", "collector"),
		now:      time.Now,
	}
}

// Collect gathers ledger, prices and trades concurrently. It never fails:
// whatever the live source cannot provide is taken from the fallback and
// noted in the snapshot status.
func (c *Collector) Collect(ctx context.Context) *model.Snapshot {
	var (
		ledger        model.Ledger
		trades        []model.TradeRecord
		prices        model.PriceTable
		ledgerSrc     string
		tradesSrc     string
		pricesSrc     string
		pricesOK      bool
		ledgerErr     error
		tradesErr     error
		livePricesErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ledger, ledgerSrc, ledgerErr = collect(gctx, c.live, c.fallback, Source.Ledger)
		return nil
	})
	g.Go(func() error {
		trades, tradesSrc, tradesErr = collect(gctx, c.live, c.fallback, Source.Trades)
		return nil
	})
	g.Go(func() error {
		prices, pricesSrc, pricesOK, livePricesErr = c.collectPrices(gctx)
		return nil
	})
	_ = g.Wait()

	status := model.Status{
		PositionsSource: ledgerSrc,
		PricesSource:    pricesSrc,
		TradesSource:    tradesSrc,
		PricesOK:        pricesOK,
	}
	for _, e := range []struct {
		what string
		err  error
	}{
		{"positions", ledgerErr},
		{"prices", livePricesErr},
		{"trades", tradesErr},
	} {
		if e.err == nil || errors.Is(e.err, ErrNoBackend) {
			continue
		}
		c.logger.Warn("using fallback", "concern", e.what, "error", e.err)
		status.Errors = append(status.Errors, e.what+": "+e.err.Error())
	}

	if missing := valuation.MissingPrices(ledger, prices); len(missing) > 0 {
		c.logger.Info("tickers without price valued at zero", "tickers", missing)
	}

	return &model.Snapshot{
		Prices:    prices,
		Ledger:    ledger,
		Trades:    trades,
		FetchedAt: c.now().UTC(),
		Status:    status,
	}
}

// collect reads one concern from live, or from fallback when live is
// absent or fails. The returned error is the live failure, if any.
func collect[T any](ctx context.Context, live, fallback Source, get func(Source, context.Context) (T, error)) (T, string, error) {
	var liveErr error
	if live != nil {
		v, err := get(live, ctx)
		if err == nil {
			return v, live.Name(), nil
		}
		liveErr = err
	}
	v, err := get(fallback, ctx)
	if err != nil {
		return v, fallback.Name(), errors.Join(liveErr, err)
	}
	return v, fallback.Name(), liveErr
}

func (c *Collector) collectPrices(ctx context.Context) (model.PriceTable, string, bool, error) {
	fb, err := c.fallback.Prices(ctx)
	if err != nil {
		c.logger.Warn("fallback prices unavailable", "error", err)
	}
	if c.live == nil {
		return valuation.MergePrices(nil, fb), c.fallback.Name(), false, nil
	}

	live, err := c.live.Prices(ctx)
	merged := valuation.MergePrices(live, fb)
	if err != nil {
		return merged, c.fallback.Name(), false, err
	}
	return merged, c.live.Name(), true, nil
}
