package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgxpool.Pool the queries need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Queries runs the fixed SQL statements against a DBTX.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type PositionRow struct {
	ID       int64
	Trader   string
	Ticker   string
	Quantity decimal.Decimal
}

type TradeRow struct {
	ID         int64
	Trader     string
	Date       time.Time
	Time       *string
	Action     string
	Ticker     string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
	NetAmount  decimal.Decimal
	Rationale  *string
}

type PriceRow struct {
	Ticker    string
	Price     decimal.Decimal
	Timestamp time.Time
}

const listPositions = `SELECT id, trader, ticker, quantity FROM positions ORDER BY id`

func (q *Queries) ListPositions(ctx context.Context) ([]PositionRow, error) {
	rows, err := q.db.Query(ctx, listPositions)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PositionRow, error) {
		var r PositionRow
		err := row.Scan(&r.ID, &r.Trader, &r.Ticker, &r.Quantity)
		return r, err
	})
}

const listTrades = `SELECT id, trader, date, time, action, ticker, quantity, price, commission, net_amount, rationale
FROM trades
ORDER BY date DESC, time DESC NULLS LAST, id DESC`

func (q *Queries) ListTrades(ctx context.Context) ([]TradeRow, error) {
	rows, err := q.db.Query(ctx, listTrades)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TradeRow, error) {
		var r TradeRow
		err := row.Scan(&r.ID, &r.Trader, &r.Date, &r.Time, &r.Action, &r.Ticker,
			&r.Quantity, &r.Price, &r.Commission, &r.NetAmount, &r.Rationale)
		return r, err
	})
}

// latestPriceRows returns the newest row per ticker. Ties on timestamp
// resolve to the highest id, i.e. the row inserted last.
const latestPriceRows = `SELECT DISTINCT ON (ticker) ticker, price, timestamp
FROM price_history
WHERE price > 0
ORDER BY ticker, timestamp DESC, id DESC`

func (q *Queries) LatestPriceRows(ctx context.Context) ([]PriceRow, error) {
	rows, err := q.db.Query(ctx, latestPriceRows)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PriceRow, error) {
		var r PriceRow
		err := row.Scan(&r.Ticker, &r.Price, &r.Timestamp)
		return r, err
	})
}

const insertPrice = `INSERT INTO price_history (ticker, price, timestamp) VALUES ($1, $2, $3)`

func (q *Queries) InsertPrices(ctx context.Context, prices []PriceRow) error {
	if len(prices) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, p := range prices {
		b.Queue(insertPrice, p.Ticker, p.Price, p.Timestamp)
	}
	return q.db.SendBatch(ctx, b).Close()
}

func (q *Queries) Exec(ctx context.Context, sql string) error {
	_, err := q.db.Exec(ctx, sql)
	return err
}
