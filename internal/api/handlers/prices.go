package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-experiment/internal/api/models"
	"trading-experiment/internal/data"
)

// PricesHandler exposes the quote fetcher with the response shape the
// browser dashboard expects.
type PricesHandler struct {
	fetcher data.PriceFetcher
}

// NewPricesHandler creates a new prices handler
func NewPricesHandler(fetcher data.PriceFetcher) *PricesHandler {
	return &PricesHandler{fetcher: fetcher}
}

// GetPrices handles GET /api/v1/prices
func (h *PricesHandler) GetPrices(c *gin.Context) {
	res, err := h.fetcher.FetchPrices(c.Request.Context())
	if err != nil {
		slog.Error("price fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.PricesErrorResponse{
			Error:   err.Error(),
			Success: false,
		})
		return
	}

	prices := make(map[string]float64, len(res.Prices))
	for t, p := range res.Prices {
		prices[t.String()] = p.InexactFloat64()
	}
	c.JSON(http.StatusOK, models.PricesResponse{
		Prices:    prices,
		Timestamp: res.Timestamp,
		Success:   true,
	})
}
