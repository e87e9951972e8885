package handlers

import (
	"trading-experiment/internal/api/models"
	"trading-experiment/internal/dashboard"
	"trading-experiment/internal/model"
	"trading-experiment/internal/report"
	"trading-experiment/internal/valuation"
)

func dashboardView(st *dashboard.State) models.DashboardResponse {
	r := st.Report
	counts := report.TradeCounts(st.Snapshot.Trades)

	resp := models.DashboardResponse{
		Baseline:        r.Baseline.InexactFloat64(),
		BaselineDisplay: report.Currency(r.Baseline),
		Traders:         make([]models.TraderSummary, 0, len(r.Traders)),
		Gap: models.GapSummary{
			Gap:        r.Gap.Gap.InexactFloat64(),
			GapDisplay: report.Currency(r.Gap.Gap),
			Leader:     string(r.Gap.Leader),
			Tie:        r.Gap.Tie,
			Caption:    report.LeaderLine(r.Gap),
		},
		Chart: models.ChartData{Labels: r.ChartLabels},
		Status: models.StatusSummary{
			Text:            st.StatusText,
			PricesOK:        st.Snapshot.Status.PricesOK,
			PricesUpdatedAt: st.PricesUpdatedAt,
			FetchedAt:       st.Snapshot.FetchedAt,
			PositionsSource: st.Snapshot.Status.PositionsSource,
			PricesSource:    st.Snapshot.Status.PricesSource,
			TradesSource:    st.Snapshot.Status.TradesSource,
			Errors:          st.Snapshot.Status.Errors,
		},
	}

	for _, tr := range r.Traders {
		resp.Traders = append(resp.Traders, models.TraderSummary{
			Trader:        string(tr.Trader),
			Name:          tr.Trader.DisplayName(),
			Total:         tr.Total.InexactFloat64(),
			TotalDisplay:  report.Currency(tr.Total),
			Absolute:      tr.Return.Absolute.InexactFloat64(),
			Percent:       tr.Return.Percent.Round(2).InexactFloat64(),
			ReturnDisplay: report.ReturnLine(tr.Return),
			Positive:      !tr.Return.Absolute.IsNegative(),
			TradeCount:    counts[tr.Trader],
		})
	}
	for _, s := range r.Chart {
		points := make([]float64, len(s.Points))
		for i, p := range s.Points {
			points[i] = p.InexactFloat64()
		}
		resp.Chart.Series = append(resp.Chart.Series, models.ChartSeries{Label: s.Label, Points: points})
	}
	return resp
}

func positionsView(tr valuation.TraderReport) models.PositionsResponse {
	resp := models.PositionsResponse{
		Trader:       string(tr.Trader),
		Total:        tr.Total.InexactFloat64(),
		TotalDisplay: report.Currency(tr.Total),
		Positions:    make([]models.PositionView, 0, len(tr.Positions)),
	}
	for _, p := range tr.Positions {
		resp.Positions = append(resp.Positions, models.PositionView{
			Ticker:          p.Ticker.String(),
			Quantity:        p.Quantity.InexactFloat64(),
			QuantityDisplay: report.PositionQuantity(p),
			Price:           p.Price.InexactFloat64(),
			Value:           p.Value.InexactFloat64(),
			ValueDisplay:    report.Currency(p.Value),
			Weight:          p.Weight.Round(2).InexactFloat64(),
			WeightDisplay:   report.Weight(p.Weight),
		})
	}
	return resp
}

func tradeView(t model.TradeRecord) models.TradeView {
	return models.TradeView{
		Trader:     string(t.Trader),
		Date:       t.Date.Format("2006-01-02"),
		Time:       t.Time,
		Action:     string(t.Action),
		Ticker:     t.Ticker.String(),
		Quantity:   t.Quantity.InexactFloat64(),
		Price:      t.Price.InexactFloat64(),
		Commission: t.Commission.InexactFloat64(),
		NetAmount:  t.NetAmount.InexactFloat64(),
		Rationale:  t.Rationale,
		Headline:   report.TradeHeadline(t),
		When:       report.TradeWhen(t),
		Details:    report.TradeDetails(t),
	}
}
