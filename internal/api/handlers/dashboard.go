package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trading-experiment/internal/api/models"
	"trading-experiment/internal/dashboard"
	"trading-experiment/internal/model"
	"trading-experiment/internal/report"
)

// Dashboard is the part of dashboard.Service the handlers use.
type Dashboard interface {
	Current() *dashboard.State
	Refresh(ctx context.Context) *dashboard.State
}

// DashboardHandler serves the evaluated snapshot.
type DashboardHandler struct {
	svc Dashboard
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc Dashboard) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// state returns the published state, refreshing once if nothing has been
// published yet.
func (h *DashboardHandler) state(c *gin.Context) *dashboard.State {
	if st := h.svc.Current(); st != nil {
		return st
	}
	return h.refresh(c)
}

// refresh runs a shared refresh that outlives the request; the result is
// published for every viewer.
func (h *DashboardHandler) refresh(c *gin.Context) *dashboard.State {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), dashboard.RefreshTimeout)
	defer cancel()
	return h.svc.Refresh(ctx)
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, dashboardView(h.state(c)))
}

// GetPositions handles GET /api/v1/positions/:trader
func (h *DashboardHandler) GetPositions(c *gin.Context) {
	trader := model.Trader(strings.ToLower(c.Param("trader")))
	if !model.KnownTrader(trader) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNKNOWN_TRADER",
				Message: "unknown trader: " + c.Param("trader"),
				Details: map[string]interface{}{"traders": model.Traders},
			},
		})
		return
	}

	tr, ok := h.state(c).Report.Trader(trader)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNKNOWN_TRADER",
				Message: "no report for trader: " + string(trader),
			},
		})
		return
	}
	c.JSON(http.StatusOK, positionsView(tr))
}

// GetTrades handles GET /api/v1/trades
func (h *DashboardHandler) GetTrades(c *gin.Context) {
	var q models.TradesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	trader := model.Trader(strings.ToLower(q.Trader))
	if trader != "" && !model.KnownTrader(trader) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNKNOWN_TRADER",
				Message: "unknown trader: " + q.Trader,
			},
		})
		return
	}

	all := h.state(c).Snapshot.Trades
	entries := report.TradeLog(all, trader)
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}

	resp := models.TradesResponse{
		Trades: make([]models.TradeView, 0, len(entries)),
		Counts: make(map[string]int),
	}
	for _, t := range entries {
		resp.Trades = append(resp.Trades, tradeView(t))
	}
	for t, n := range report.TradeCounts(all) {
		resp.Counts[string(t)] = n
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	c.JSON(http.StatusOK, dashboardView(h.refresh(c)))
}
