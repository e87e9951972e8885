package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one executed trade as stored in the trades table.
// Records are read-only history; nothing in the valuation path mutates them.
type TradeRecord struct {
	Trader     Trader          `json:"trader"`
	Date       time.Time       `json:"date"`
	Time       string          `json:"time,omitempty"` // HH:MM, may be empty
	Action     Action          `json:"action"`
	Ticker     Ticker          `json:"ticker"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	NetAmount  decimal.Decimal `json:"net_amount"`
	Rationale  string          `json:"rationale,omitempty"`
}

// Value is the gross trade value, quantity times unit price.
func (r TradeRecord) Value() decimal.Decimal {
	return r.Quantity.Mul(r.Price)
}

// PriceQuote is one observed price, as stored in price_history.
type PriceQuote struct {
	Ticker    Ticker          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
