package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

// RankedPosition is one holding valued against a price table.
type RankedPosition struct {
	Ticker   model.Ticker    `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Value    decimal.Decimal `json:"value"`
	// Weight is Value as a percentage of the trader's total, 0 when the
	// total is 0.
	Weight decimal.Decimal `json:"weight"`
}

// RankedPositions values every holding and sorts descending by value.
// Equal values keep their holdings order.
func RankedPositions(holdings model.Holdings, prices model.PriceTable) []RankedPosition {
	total := PortfolioValue(holdings, prices)
	out := make([]RankedPosition, 0, len(holdings))
	for _, e := range holdings {
		price := ResolvePrice(e.Ticker, prices)
		value := e.Quantity.Mul(price)
		weight := decimal.Zero
		if !total.IsZero() {
			weight = value.Div(total).Mul(hundred)
		}
		out = append(out, RankedPosition{
			Ticker:   e.Ticker,
			Quantity: e.Quantity,
			Price:    price,
			Value:    value,
			Weight:   weight,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
	return out
}
