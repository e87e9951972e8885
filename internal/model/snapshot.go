package model

import "time"

// Source names for Snapshot.Source and Status fields.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Status describes where each part of a Snapshot came from and what went
// wrong while assembling it.
type Status struct {
	PositionsSource string   `json:"positions_source"`
	PricesSource    string   `json:"prices_source"`
	TradesSource    string   `json:"trades_source"`
	PricesOK        bool     `json:"prices_ok"`
	Errors          []string `json:"errors,omitempty"`
}

// Snapshot is one refresh cycle's input to the valuation engine. It is
// built once and never modified afterwards.
type Snapshot struct {
	Prices    PriceTable    `json:"prices"`
	Ledger    Ledger        `json:"ledger"`
	Trades    []TradeRecord `json:"trades"`
	FetchedAt time.Time     `json:"fetched_at"`
	Status    Status        `json:"status"`
}
