package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"trading-experiment/internal/config"
	"trading-experiment/internal/model"
)

func TestBuildWithoutBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":250.0}}]}}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Quotes.BaseURL = srv.URL
	cfg.Quotes.Tickers = []string{"AMD"}

	a, err := Build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if a.Store != nil {
		t.Error("store should be nil without endpoint")
	}

	st := a.Dashboard.Refresh(context.Background())
	if !st.Snapshot.Status.PricesOK {
		t.Errorf("status = %+v", st.Snapshot.Status)
	}
	if st.Snapshot.Status.PositionsSource != model.SourceFallback {
		t.Errorf("positions source = %q", st.Snapshot.Status.PositionsSource)
	}
	if p := st.Snapshot.Prices["AMD"]; p.String() != "250" {
		t.Errorf("AMD = %s", p)
	}
}

func TestBuildRejectsBadFallback(t *testing.T) {
	cfg := config.Default()
	cfg.FallbackFile = "does/not/exist.json"
	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for missing fallback file")
	}
}
