package valuation

import (
	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

// Chart labels for the two-point comparison series.
const (
	LabelStart   = "Start"
	LabelCurrent = "Current"
)

// TraderReport is the valuation of one trader's portfolio.
type TraderReport struct {
	Trader    model.Trader     `json:"trader"`
	Total     decimal.Decimal  `json:"total"`
	Return    Return           `json:"return"`
	Positions []RankedPosition `json:"positions"`
}

// ChartSeries is a baseline-to-current line for one trader.
type ChartSeries struct {
	Label  string            `json:"label"`
	Points []decimal.Decimal `json:"points"`
}

// Report is everything the dashboard renders for one snapshot.
type Report struct {
	Baseline    decimal.Decimal `json:"baseline"`
	Traders     []TraderReport  `json:"traders"`
	Gap         Gap             `json:"gap"`
	ChartLabels []string        `json:"chart_labels"`
	Chart       []ChartSeries   `json:"chart"`
}

// Trader returns the report for t.
func (r Report) Trader(t model.Trader) (TraderReport, bool) {
	for _, tr := range r.Traders {
		if tr.Trader == t {
			return tr, true
		}
	}
	return TraderReport{}, false
}

// Evaluate values every trader in traders order and compares the first
// two. The snapshot is only read.
func Evaluate(traders []model.Trader, ledger model.Ledger, prices model.PriceTable, baseline decimal.Decimal) Report {
	r := Report{
		Baseline:    baseline,
		Traders:     make([]TraderReport, 0, len(traders)),
		ChartLabels: []string{LabelStart, LabelCurrent},
		Chart:       make([]ChartSeries, 0, len(traders)),
	}
	for _, t := range traders {
		h := ledger.Holdings(t)
		total := PortfolioValue(h, prices)
		r.Traders = append(r.Traders, TraderReport{
			Trader:    t,
			Total:     total,
			Return:    ReturnMetrics(total, baseline),
			Positions: RankedPositions(h, prices),
		})
		r.Chart = append(r.Chart, ChartSeries{
			Label:  t.DisplayName(),
			Points: []decimal.Decimal{baseline, total},
		})
	}
	if len(r.Traders) >= 2 {
		a, b := r.Traders[0], r.Traders[1]
		r.Gap = ComparativeGap(a.Trader, a.Total, b.Trader, b.Total)
	}
	return r
}

// EvaluateSnapshot is Evaluate over the fixed trader set.
func EvaluateSnapshot(s *model.Snapshot, baseline decimal.Decimal) Report {
	if s == nil {
		return Evaluate(model.Traders, nil, nil, baseline)
	}
	return Evaluate(model.Traders, s.Ledger, s.Prices, baseline)
}
