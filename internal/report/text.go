package report

import (
	"fmt"
	"io"
	"time"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

// WriteDashboard prints the dashboard as plain text tables. When prices
// came from the fallback without a failed live fetch, updated is the
// fallback capture time.
func WriteDashboard(w io.Writer, r valuation.Report, status model.Status, updated time.Time) {
	fmt.Fprintf(w, "Baseline %s", Currency(r.Baseline))
	switch {
	case status.PricesOK:
		fmt.Fprintf(w, "   updated %s\n", updated.Format("15:04"))
	case status.PricesSource == model.SourceFallback && len(status.Errors) == 0:
		fmt.Fprintf(w, "   fallback snapshot from %s\n", updated.Format("2006-01-02 15:04"))
	default:
		fmt.Fprintf(w, "   Error loading prices\n")
	}
	fmt.Fprintln(w)

	for _, tr := range r.Traders {
		fmt.Fprintf(w, "%-8s %14s   %s\n", tr.Trader.DisplayName(), Currency(tr.Total), ReturnLine(tr.Return))
	}
	fmt.Fprintf(w, "%-8s %14s   %s\n\n", "Gap", Currency(r.Gap.Gap), LeaderLine(r.Gap))

	for _, tr := range r.Traders {
		fmt.Fprintf(w, "%s positions\n", tr.Trader.DisplayName())
		fmt.Fprintf(w, "  %-6s %-22s %14s %7s\n", "ticker", "quantity", "value", "weight")
		for _, p := range tr.Positions {
			fmt.Fprintf(w, "  %-6s %-22s %14s %7s\n", p.Ticker, PositionQuantity(p), Currency(p.Value), Weight(p.Weight))
		}
		fmt.Fprintln(w)
	}

	for _, e := range status.Errors {
		fmt.Fprintf(w, "warning: %s\n", e)
	}
}

// WriteTradeLog prints trades newest first with a per-trader count footer.
func WriteTradeLog(w io.Writer, trades []model.TradeRecord, trader model.Trader) {
	for _, tr := range TradeLog(trades, trader) {
		fmt.Fprintf(w, "%s %s   %s\n", TraderIcon(tr.Trader), TradeHeadline(tr), TradeWhen(tr))
		fmt.Fprintf(w, "    %s\n", TradeDetails(tr))
		if tr.Rationale != "" {
			fmt.Fprintf(w, "    %s\n", tr.Rationale)
		}
	}
	counts := TradeCounts(trades)
	fmt.Fprintln(w)
	for _, t := range model.Traders {
		fmt.Fprintf(w, "%s trades: %d\n", t.DisplayName(), counts[t])
	}
}
