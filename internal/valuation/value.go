// Package valuation turns a price table and a position ledger into the
// numbers shown on the dashboard. Every function is pure: no I/O, no
// package state, safe to call concurrently with different snapshots.
package valuation

import (
	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

// DefaultBaseline is the starting value of both portfolios.
var DefaultBaseline = decimal.RequireFromString("62771.86")

var hundred = decimal.NewFromInt(100)

// ResolvePrice returns 1 for Cash, the table price when present, and 0
// otherwise. A missing price is not an error.
func ResolvePrice(ticker model.Ticker, prices model.PriceTable) decimal.Decimal {
	if ticker.IsCash() {
		return decimal.NewFromInt(1)
	}
	if p, ok := prices[ticker]; ok {
		return p
	}
	return decimal.Zero
}

// PortfolioValue sums quantity times resolved price over all holdings,
// Cash included. Negative inputs are not rejected.
func PortfolioValue(holdings model.Holdings, prices model.PriceTable) decimal.Decimal {
	total := decimal.Zero
	for _, e := range holdings {
		total = total.Add(e.Quantity.Mul(ResolvePrice(e.Ticker, prices)))
	}
	return total
}

// Return is a signed change against the baseline.
type Return struct {
	Absolute decimal.Decimal `json:"absolute"`
	Percent  decimal.Decimal `json:"percent"`
}

// ReturnMetrics computes total-baseline and its percentage of baseline.
// A zero baseline yields a zero percentage.
func ReturnMetrics(total, baseline decimal.Decimal) Return {
	abs := total.Sub(baseline)
	if baseline.IsZero() {
		return Return{Absolute: abs, Percent: decimal.Zero}
	}
	return Return{
		Absolute: abs,
		Percent:  abs.Div(baseline).Mul(hundred),
	}
}

// Gap compares two portfolio totals.
type Gap struct {
	Gap    decimal.Decimal `json:"gap"`
	Leader model.Trader    `json:"leader,omitempty"`
	Tie    bool            `json:"tie"`
}

// ComparativeGap returns |totalA-totalB| and the trader with the strictly
// greater total. Equal totals report Tie with no leader.
func ComparativeGap(a model.Trader, totalA decimal.Decimal, b model.Trader, totalB decimal.Decimal) Gap {
	g := Gap{Gap: totalA.Sub(totalB).Abs()}
	switch totalA.Cmp(totalB) {
	case 1:
		g.Leader = a
	case -1:
		g.Leader = b
	default:
		g.Tie = true
	}
	return g
}
