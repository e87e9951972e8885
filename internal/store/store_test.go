package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mockPositions struct {
	rows []PositionRow
	err  error
}

func (m mockPositions) ListPositions(context.Context) ([]PositionRow, error) {
	return m.rows, m.err
}

type mockTrades struct {
	rows []TradeRow
	err  error
}

func (m mockTrades) ListTrades(context.Context) ([]TradeRow, error) {
	return m.rows, m.err
}

type mockPrices struct {
	rows     []PriceRow
	err      error
	inserted []PriceRow
}

func (m *mockPrices) LatestPriceRows(context.Context) ([]PriceRow, error) {
	return m.rows, m.err
}

func (m *mockPrices) InsertPrices(_ context.Context, rows []PriceRow) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, rows...)
	return nil
}

type mockExec struct {
	sql string
}

func (m *mockExec) Exec(_ context.Context, sql string) error {
	m.sql = sql
	return nil
}

func TestStore_LoadLedger(t *testing.T) {
	s := &Store{positions: mockPositions{rows: []PositionRow{
		{ID: 3, Trader: "wiebe", Ticker: "CASH", Quantity: d("10749.07")},
		{ID: 1, Trader: "wiebe", Ticker: "amd", Quantity: d("100")},
		{ID: 2, Trader: "Wiebe", Ticker: "GOOGL", Quantity: d("35")},
		{ID: 4, Trader: "claude", Ticker: "PLTR", Quantity: d("15")},
		{ID: 5, Trader: "wiebe", Ticker: "AMD", Quantity: d("133")},
	}}}

	ledger, err := s.LoadLedger(context.Background())
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}

	w := ledger.Holdings(model.Wiebe)
	want := []struct {
		ticker model.Ticker
		qty    string
	}{{"AMD", "133"}, {"GOOGL", "35"}, {model.Cash, "10749.07"}}
	if len(w) != len(want) {
		t.Fatalf("wiebe holdings = %+v", w)
	}
	for i, e := range want {
		if w[i].Ticker != e.ticker || !w[i].Quantity.Equal(d(e.qty)) {
			t.Errorf("holding %d = %+v, want %s %s", i, w[i], e.ticker, e.qty)
		}
	}
	if len(ledger.Holdings(model.Claude)) != 1 {
		t.Errorf("claude holdings = %+v", ledger.Holdings(model.Claude))
	}
}

func TestStore_LoadLedgerErrors(t *testing.T) {
	tests := []struct {
		name    string
		repo    mockPositions
		wantErr error
	}{
		{"should return ErrNoPositions", mockPositions{}, ErrNoPositions},
		{"should wrap query error", mockPositions{err: context.DeadlineExceeded}, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{positions: tt.repo}
			_, err := s.LoadLedger(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadLedger() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_LoadTrades(t *testing.T) {
	at := "09:35"
	why := "momentum"
	s := &Store{trades: mockTrades{rows: []TradeRow{
		{ID: 1, Trader: "claude", Date: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC), Time: &at, Action: "buy", Ticker: "pltr",
			Quantity: d("15"), Price: d("180.5"), Commission: d("1"), NetAmount: d("-2708.5"), Rationale: &why},
		{ID: 2, Trader: "wiebe", Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), Action: "SELL", Ticker: "AMD",
			Quantity: d("1"), Price: d("215"), Commission: d("1"), NetAmount: d("214")},
	}}}

	got, err := s.LoadTrades(context.Background())
	if err != nil {
		t.Fatalf("LoadTrades() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trades", len(got))
	}
	if got[0].Trader != model.Claude || got[0].Ticker != "PLTR" || got[0].Action != model.ActionBuy {
		t.Errorf("first trade = %+v", got[0])
	}
	if got[0].Time != "09:35" || got[0].Rationale != "momentum" {
		t.Errorf("optional fields = %q %q", got[0].Time, got[0].Rationale)
	}
	if got[1].Time != "" || got[1].Rationale != "" || got[1].Action != model.ActionSell {
		t.Errorf("second trade = %+v", got[1])
	}
}

func TestStore_LatestPrices(t *testing.T) {
	t0 := time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)
	s := &Store{prices: &mockPrices{rows: []PriceRow{
		{Ticker: "AMD", Price: d("210"), Timestamp: t0},
		{Ticker: "AMD", Price: d("215"), Timestamp: t0.Add(time.Minute)},
		{Ticker: "googl", Price: d("192.5"), Timestamp: t0},
	}}}

	got, err := s.LatestPrices(context.Background())
	if err != nil {
		t.Fatalf("LatestPrices() error = %v", err)
	}
	if !got["AMD"].Equal(d("215")) || !got["GOOGL"].Equal(d("192.5")) {
		t.Errorf("got %v", got)
	}
}

func TestStore_RecordPrices(t *testing.T) {
	repo := &mockPrices{}
	s := &Store{prices: repo}
	at := time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)

	err := s.RecordPrices(context.Background(), model.PriceTable{"PLTR": d("180"), "AMD": d("215")}, at)
	if err != nil {
		t.Fatalf("RecordPrices() error = %v", err)
	}
	if len(repo.inserted) != 2 || repo.inserted[0].Ticker != "AMD" || !repo.inserted[1].Timestamp.Equal(at) {
		t.Errorf("inserted = %+v", repo.inserted)
	}
}

func TestStore_Migrate(t *testing.T) {
	ex := &mockExec{}
	s := &Store{exec: ex}
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, table := range []string{"positions", "trades", "price_history"} {
		if !strings.Contains(ex.sql, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}

func TestOpenWithoutEndpoint(t *testing.T) {
	if _, err := Open(context.Background(), "", ""); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("Open() error = %v, want ErrNoEndpoint", err)
	}
}
