package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

type fakeCollector struct {
	calls    atomic.Int64
	pricesOK atomic.Bool
	inFlight atomic.Int64
	overlap  atomic.Bool
}

func (f *fakeCollector) Collect(context.Context) *model.Snapshot {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inFlight.Add(-1)
	f.calls.Add(1)
	time.Sleep(time.Millisecond)

	return &model.Snapshot{
		Prices: model.PriceTable{"AMD": decimal.RequireFromString("215")},
		Ledger: model.Ledger{
			model.Wiebe:  {{Ticker: "AMD", Quantity: decimal.RequireFromString("100")}},
			model.Claude: {{Ticker: model.Cash, Quantity: decimal.RequireFromString("62771.86")}},
		},
		FetchedAt: time.Now().UTC(),
		Status:    model.Status{PricesOK: f.pricesOK.Load()},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresh(t *testing.T) {
	c := &fakeCollector{}
	c.pricesOK.Store(true)
	s := NewService(c, valuation.DefaultBaseline, quietLogger())

	if s.Current() != nil {
		t.Fatal("Current() before refresh should be nil")
	}

	st := s.Refresh(context.Background())
	if s.Current() != st {
		t.Error("Current() is not the published state")
	}
	w, _ := st.Report.Trader(model.Wiebe)
	if !w.Total.Equal(decimal.RequireFromString("21500")) {
		t.Errorf("wiebe total = %s", w.Total)
	}
	if st.Report.Gap.Leader != model.Claude {
		t.Errorf("leader = %q", st.Report.Gap.Leader)
	}
	if st.PricesUpdatedAt.IsZero() || st.StatusText == PriceErrorText {
		t.Errorf("state = %+v", st)
	}
}

func TestRefreshKeepsLastPriceUpdate(t *testing.T) {
	c := &fakeCollector{}
	c.pricesOK.Store(true)
	s := NewService(c, valuation.DefaultBaseline, quietLogger())
	first := s.Refresh(context.Background())

	c.pricesOK.Store(false)
	second := s.Refresh(context.Background())
	if second.StatusText != PriceErrorText {
		t.Errorf("status = %q", second.StatusText)
	}
	if !second.PricesUpdatedAt.Equal(first.PricesUpdatedAt) {
		t.Errorf("prices updated at = %v, want %v", second.PricesUpdatedAt, first.PricesUpdatedAt)
	}
}

func TestCanceledRefreshKeepsPublishedState(t *testing.T) {
	c := &fakeCollector{}
	c.pricesOK.Store(true)
	s := NewService(c, valuation.DefaultBaseline, quietLogger())
	good := s.Refresh(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.pricesOK.Store(false)
	got := s.Refresh(ctx)

	if got != good || s.Current() != good {
		t.Fatalf("canceled refresh replaced the published state: %+v", s.Current())
	}
	if s.Current().StatusText == PriceErrorText {
		t.Errorf("status = %q", s.Current().StatusText)
	}
}

func TestCanceledFirstRefreshPublishes(t *testing.T) {
	s := NewService(&fakeCollector{}, valuation.DefaultBaseline, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if st := s.Refresh(ctx); st == nil || s.Current() != st {
		t.Errorf("first refresh not published: %+v", st)
	}
}

func TestStartRefreshesWithoutOverlap(t *testing.T) {
	c := &fakeCollector{}
	s := NewService(c, valuation.DefaultBaseline, quietLogger())

	cancel := s.Start(context.Background(), 2*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Refresh(context.Background())
			_ = s.Current()
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for c.calls.Load() < 8 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if c.calls.Load() < 8 {
		t.Errorf("calls = %d, want at least 8", c.calls.Load())
	}
	if c.overlap.Load() {
		t.Error("refresh cycles overlapped")
	}

	after := c.calls.Load()
	time.Sleep(10 * time.Millisecond)
	if c.calls.Load() != after {
		t.Error("refresh loop still running after cancel")
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(model.Status{}, time.Now()); got != PriceErrorText {
		t.Errorf("got %q", got)
	}
	at := time.Date(2025, 10, 3, 14, 5, 0, 0, time.Local)
	if got := StatusText(model.Status{PricesOK: true}, at); got != "Last updated 02:05 PM" {
		t.Errorf("got %q", got)
	}
}
