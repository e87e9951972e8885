package valuation

import (
	"trading-experiment/internal/model"
)

// LatestPrices reduces a price history to a table. For each ticker the
// quote with the most recent timestamp wins; on equal timestamps the later
// quote in the slice wins. Cash rows are ignored.
func LatestPrices(quotes []model.PriceQuote) model.PriceTable {
	out := make(model.PriceTable)
	seen := make(map[model.Ticker]int, len(quotes))
	for i, q := range quotes {
		if q.Ticker.IsCash() {
			continue
		}
		if j, ok := seen[q.Ticker]; ok && quotes[j].Timestamp.After(q.Timestamp) {
			continue
		}
		seen[q.Ticker] = i
		out[q.Ticker] = q.Price
	}
	return out
}

// MergePrices overlays live prices on a fallback table. Live entries win
// when positive; missing or non-positive live entries are backfilled from
// fallback. Neither input is modified.
func MergePrices(live, fallback model.PriceTable) model.PriceTable {
	out := make(model.PriceTable, len(fallback)+len(live))
	for t, p := range fallback {
		out[t] = p
	}
	for t, p := range live {
		if t.IsCash() || !p.IsPositive() {
			continue
		}
		out[t] = p
	}
	return out
}

// MissingPrices lists the non-cash tickers held in the ledger that have no
// price in the table, in trader then holdings order.
func MissingPrices(ledger model.Ledger, prices model.PriceTable) []model.Ticker {
	var out []model.Ticker
	seen := make(map[model.Ticker]bool)
	for _, tr := range model.Traders {
		for _, e := range ledger.Holdings(tr) {
			if e.Ticker.IsCash() || seen[e.Ticker] {
				continue
			}
			seen[e.Ticker] = true
			if _, ok := prices[e.Ticker]; !ok {
				out = append(out, e.Ticker)
			}
		}
	}
	return out
}
