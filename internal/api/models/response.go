package models

import "time"

// Amounts are sent both as numbers and as pre-formatted display strings so
// the browser does no money formatting of its own.

// DashboardResponse is the payload of GET /api/v1/dashboard.
type DashboardResponse struct {
	Baseline        float64         `json:"baseline"`
	BaselineDisplay string          `json:"baseline_display"`
	Traders         []TraderSummary `json:"traders"`
	Gap             GapSummary      `json:"gap"`
	Chart           ChartData       `json:"chart"`
	Status          StatusSummary   `json:"status"`
}

// TraderSummary is one portfolio's headline numbers.
type TraderSummary struct {
	Trader        string  `json:"trader"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
	TotalDisplay  string  `json:"total_display"`
	Absolute      float64 `json:"absolute_return"`
	Percent       float64 `json:"percent_return"`
	ReturnDisplay string  `json:"return_display"`
	Positive      bool    `json:"positive"`
	TradeCount    int     `json:"trade_count"`
}

// GapSummary compares the two portfolios. Leader is empty on a tie.
type GapSummary struct {
	Gap        float64 `json:"gap"`
	GapDisplay string  `json:"gap_display"`
	Leader     string  `json:"leader,omitempty"`
	Tie        bool    `json:"tie"`
	Caption    string  `json:"caption"`
}

// ChartData is the two-point Start/Current series per trader.
type ChartData struct {
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

type ChartSeries struct {
	Label  string    `json:"label"`
	Points []float64 `json:"points"`
}

// StatusSummary says where the data came from.
type StatusSummary struct {
	Text            string    `json:"text"`
	PricesOK        bool      `json:"prices_ok"`
	PricesUpdatedAt time.Time `json:"prices_updated_at,omitempty"`
	FetchedAt       time.Time `json:"fetched_at"`
	PositionsSource string    `json:"positions_source"`
	PricesSource    string    `json:"prices_source"`
	TradesSource    string    `json:"trades_source"`
	Errors          []string  `json:"errors,omitempty"`
}

// PositionsResponse is the payload of GET /api/v1/positions/:trader.
type PositionsResponse struct {
	Trader       string         `json:"trader"`
	Total        float64        `json:"total"`
	TotalDisplay string         `json:"total_display"`
	Positions    []PositionView `json:"positions"`
}

// PositionView is one ranked holding.
type PositionView struct {
	Ticker          string  `json:"ticker"`
	Quantity        float64 `json:"quantity"`
	QuantityDisplay string  `json:"quantity_display"`
	Price           float64 `json:"price"`
	Value           float64 `json:"value"`
	ValueDisplay    string  `json:"value_display"`
	Weight          float64 `json:"weight"`
	WeightDisplay   string  `json:"weight_display"`
}

// TradesResponse is the payload of GET /api/v1/trades.
type TradesResponse struct {
	Trades []TradeView    `json:"trades"`
	Counts map[string]int `json:"counts"`
}

// TradeView is one trade log entry.
type TradeView struct {
	Trader     string  `json:"trader"`
	Date       string  `json:"date"`
	Time       string  `json:"time,omitempty"`
	Action     string  `json:"action"`
	Ticker     string  `json:"ticker"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Commission float64 `json:"commission"`
	NetAmount  float64 `json:"net_amount"`
	Rationale  string  `json:"rationale,omitempty"`
	Headline   string  `json:"headline"`
	When       string  `json:"when"`
	Details    string  `json:"details"`
}

// PricesResponse is the quote endpoint contract.
type PricesResponse struct {
	Prices    map[string]float64 `json:"prices"`
	Timestamp time.Time          `json:"timestamp"`
	Success   bool               `json:"success"`
}

// PricesErrorResponse is returned with HTTP 500 when no prices could be
// produced.
type PricesErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
