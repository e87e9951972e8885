package data

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

//go:embed fallback.json
var embeddedFallback []byte

const dateLayout = "2006-01-02"

// fallbackFile is the on-disk layout of a static snapshot.
type fallbackFile struct {
	UpdatedAt time.Time                       `json:"updated_at"`
	Prices    model.PriceTable                `json:"prices"`
	Positions map[model.Trader]model.Holdings `json:"positions"`
	Trades    []fallbackTrade                 `json:"trades"`
}

type fallbackTrade struct {
	Trader     model.Trader    `json:"trader"`
	Date       string          `json:"date"`
	Time       string          `json:"time,omitempty"`
	Action     string          `json:"action"`
	Ticker     string          `json:"ticker"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	NetAmount  decimal.Decimal `json:"net_amount"`
	Rationale  string          `json:"rationale,omitempty"`
}

// StaticSource serves a fixed snapshot, either the one compiled into the
// binary or one loaded from a file. Every call returns a fresh copy.
type StaticSource struct {
	updatedAt time.Time
	prices    model.PriceTable
	ledger    model.Ledger
	trades    []model.TradeRecord
}

// LoadStatic reads a snapshot from path, or the embedded default when
// path is empty.
func LoadStatic(path string) (*StaticSource, error) {
	if path == "" {
		return ParseStatic(embeddedFallback)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback file: %w", err)
	}
	return ParseStatic(raw)
}

// ParseStatic decodes a snapshot document.
func ParseStatic(raw []byte) (*StaticSource, error) {
	var f fallbackFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fallback file: %w", err)
	}

	s := &StaticSource{
		updatedAt: f.UpdatedAt,
		prices:    make(model.PriceTable, len(f.Prices)),
		ledger:    make(model.Ledger, len(f.Positions)),
		trades:    make([]model.TradeRecord, 0, len(f.Trades)),
	}
	for t, p := range f.Prices {
		s.prices[model.NormalizeTicker(t.String())] = p
	}
	for tr, h := range f.Positions {
		var out model.Holdings
		for _, e := range h {
			out = out.Set(model.NormalizeTicker(e.Ticker.String()), e.Quantity)
		}
		s.ledger[tr] = out
	}
	for i, t := range f.Trades {
		date, err := time.Parse(dateLayout, t.Date)
		if err != nil {
			return nil, fmt.Errorf("trade %d: invalid date %q: %w", i, t.Date, err)
		}
		s.trades = append(s.trades, model.TradeRecord{
			Trader:     t.Trader,
			Date:       date,
			Time:       t.Time,
			Action:     model.ParseAction(t.Action),
			Ticker:     model.NormalizeTicker(t.Ticker),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			NetAmount:  t.NetAmount,
			Rationale:  t.Rationale,
		})
	}
	return s, nil
}

func (s *StaticSource) Name() string { return model.SourceFallback }

// UpdatedAt is when the snapshot was captured.
func (s *StaticSource) UpdatedAt() time.Time { return s.updatedAt }

func (s *StaticSource) Ledger(context.Context) (model.Ledger, error) {
	out := make(model.Ledger, len(s.ledger))
	for t, h := range s.ledger {
		out[t] = append(model.Holdings(nil), h...)
	}
	return out, nil
}

func (s *StaticSource) Prices(context.Context) (model.PriceTable, error) {
	return s.prices.Clone(), nil
}

func (s *StaticSource) Trades(context.Context) ([]model.TradeRecord, error) {
	return append([]model.TradeRecord(nil), s.trades...), nil
}

// SaveSnapshot writes snap in the fallback file layout so it can later be
// served by LoadStatic.
func SaveSnapshot(snap *model.Snapshot, path string) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	f := fallbackFile{
		UpdatedAt: snap.FetchedAt.UTC(),
		Prices:    snap.Prices,
		Positions: map[model.Trader]model.Holdings(snap.Ledger),
		Trades:    make([]fallbackTrade, 0, len(snap.Trades)),
	}
	for _, t := range snap.Trades {
		f.Trades = append(f.Trades, fallbackTrade{
			Trader:     t.Trader,
			Date:       t.Date.Format(dateLayout),
			Time:       t.Time,
			Action:     string(t.Action),
			Ticker:     t.Ticker.String(),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			NetAmount:  t.NetAmount,
			Rationale:  t.Rationale,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}
