// Package store reads the portfolio ledger, the trade log and the price
// history from the Postgres backend.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

//go:embed schema.sql
var schema string

var (
	ErrNoPositions = errors.New("no positions in datasource")
	ErrNoEndpoint  = errors.New("backend endpoint not configured")
)

type positionsRepository interface {
	ListPositions(ctx context.Context) ([]PositionRow, error)
}

type tradesRepository interface {
	ListTrades(ctx context.Context) ([]TradeRow, error)
}

type pricesRepository interface {
	LatestPriceRows(ctx context.Context) ([]PriceRow, error)
	InsertPrices(ctx context.Context, prices []PriceRow) error
}

type execer interface {
	Exec(ctx context.Context, sql string) error
}

// Store is the live backend.
type Store struct {
	positions positionsRepository
	trades    tradesRepository
	prices    pricesRepository
	exec      execer
	pool      *pgxpool.Pool
}

// Open connects to endpoint, a Postgres connection string. A non-empty
// apiKey replaces the password in the connection string.
func Open(ctx context.Context, endpoint, apiKey string) (*Store, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	config, err := pgxpool.ParseConfig(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if apiKey != "" {
		config.ConnConfig.Password = apiKey
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	q := NewQueries(pool)
	return &Store{
		positions: q,
		trades:    q,
		prices:    q,
		exec:      q,
		pool:      pool,
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.exec.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadLedger reads every position. Rows are applied in id order, so a
// later row for the same trader and ticker replaces an earlier one.
func (s *Store) LoadLedger(ctx context.Context) (model.Ledger, error) {
	rows, err := s.positions.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoPositions
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	ledger := make(model.Ledger)
	for _, r := range rows {
		t := model.Trader(strings.ToLower(strings.TrimSpace(r.Trader)))
		ledger[t] = ledger[t].Set(model.NormalizeTicker(r.Ticker), r.Quantity)
	}
	return ledger, nil
}

// LoadTrades reads the trade log, newest first.
func (s *Store) LoadTrades(ctx context.Context) ([]model.TradeRecord, error) {
	rows, err := s.trades.ListTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	out := make([]model.TradeRecord, 0, len(rows))
	for _, r := range rows {
		tr := model.TradeRecord{
			Trader:     model.Trader(strings.ToLower(strings.TrimSpace(r.Trader))),
			Date:       r.Date,
			Action:     model.ParseAction(r.Action),
			Ticker:     model.NormalizeTicker(r.Ticker),
			Quantity:   r.Quantity,
			Price:      r.Price,
			Commission: r.Commission,
			NetAmount:  r.NetAmount,
		}
		if r.Time != nil {
			tr.Time = *r.Time
		}
		if r.Rationale != nil {
			tr.Rationale = *r.Rationale
		}
		out = append(out, tr)
	}
	return out, nil
}

// LatestPrices returns the newest recorded price per ticker.
func (s *Store) LatestPrices(ctx context.Context) (model.PriceTable, error) {
	rows, err := s.prices.LatestPriceRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}
	quotes := make([]model.PriceQuote, 0, len(rows))
	for _, r := range rows {
		quotes = append(quotes, model.PriceQuote{
			Ticker:    model.NormalizeTicker(r.Ticker),
			Price:     r.Price,
			Timestamp: r.Timestamp,
		})
	}
	return valuation.LatestPrices(quotes), nil
}

// RecordPrices appends one price_history row per ticker, all stamped at.
func (s *Store) RecordPrices(ctx context.Context, prices model.PriceTable, at time.Time) error {
	rows := make([]PriceRow, 0, len(prices))
	for t, p := range prices {
		rows = append(rows, PriceRow{Ticker: t.String(), Price: p, Timestamp: at})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })
	if err := s.prices.InsertPrices(ctx, rows); err != nil {
		return fmt.Errorf("record prices: %w", err)
	}
	return nil
}
