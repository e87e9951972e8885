package model

import "github.com/shopspring/decimal"

// Trader identifies one of the compared portfolios.
type Trader string

const (
	Wiebe  Trader = "wiebe"
	Claude Trader = "claude"
)

// Traders is the fixed set of compared portfolios, in display order.
var Traders = []Trader{Wiebe, Claude}

// DisplayName capitalizes the trader identifier ("wiebe" -> "Wiebe").
func (t Trader) DisplayName() string {
	if t == "" {
		return ""
	}
	b := []byte(t)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// KnownTrader reports whether t is one of Traders.
func KnownTrader(t Trader) bool {
	for _, k := range Traders {
		if k == t {
			return true
		}
	}
	return false
}

// PositionEntry is a held quantity of one ticker. For Cash the quantity is
// a currency amount.
type PositionEntry struct {
	Ticker   Ticker          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Holdings is one trader's positions in insertion order. Order matters:
// ranking ties are broken by it.
type Holdings []PositionEntry

// Set replaces the quantity of an existing ticker or appends a new entry.
func (h Holdings) Set(ticker Ticker, qty decimal.Decimal) Holdings {
	for i := range h {
		if h[i].Ticker == ticker {
			h[i].Quantity = qty
			return h
		}
	}
	return append(h, PositionEntry{Ticker: ticker, Quantity: qty})
}

// Scale returns a copy with every quantity multiplied by k.
func (h Holdings) Scale(k decimal.Decimal) Holdings {
	out := make(Holdings, len(h))
	for i, e := range h {
		out[i] = PositionEntry{Ticker: e.Ticker, Quantity: e.Quantity.Mul(k)}
	}
	return out
}

// Ledger holds every trader's positions.
type Ledger map[Trader]Holdings

// Holdings returns the trader's positions, or nil when the trader holds
// nothing.
func (l Ledger) Holdings(t Trader) Holdings {
	if l == nil {
		return nil
	}
	return l[t]
}
