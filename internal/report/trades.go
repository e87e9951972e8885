package report

import (
	"sort"

	"trading-experiment/internal/model"
)

// TradeLog returns the trades newest first (date, then time, both
// descending). When trader is non-empty only that trader's trades are
// kept. The input slice is not modified.
func TradeLog(trades []model.TradeRecord, trader model.Trader) []model.TradeRecord {
	out := make([]model.TradeRecord, 0, len(trades))
	for _, tr := range trades {
		if trader != "" && tr.Trader != trader {
			continue
		}
		out = append(out, tr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	return out
}

// TradeCounts counts trades per trader. Every known trader is present,
// with zero when it has no trades.
func TradeCounts(trades []model.TradeRecord) map[model.Trader]int {
	out := make(map[model.Trader]int, len(model.Traders))
	for _, t := range model.Traders {
		out[t] = 0
	}
	for _, tr := range trades {
		out[tr.Trader]++
	}
	return out
}

// TradeHeadline renders "Wiebe: BUY 133 AMD @ $215.00".
func TradeHeadline(tr model.TradeRecord) string {
	return tr.Trader.DisplayName() + ": " + string(tr.Action) + " " +
		tr.Quantity.String() + " " + tr.Ticker.String() + " @ " + Currency(tr.Price)
}

// TradeWhen renders the date and, when known, the time of a trade.
func TradeWhen(tr model.TradeRecord) string {
	s := tr.Date.Format("2006-01-02")
	if tr.Time != "" {
		s += " " + tr.Time
	}
	return s
}

// TradeDetails renders "Value: $… | Commission: $… | Net: $…".
func TradeDetails(tr model.TradeRecord) string {
	return "Value: " + Currency(tr.Value()) +
		" | Commission: " + Currency(tr.Commission) +
		" | Net: " + Currency(tr.NetAmount)
}
