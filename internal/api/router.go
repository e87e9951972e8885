// Package api wires the HTTP surface of the dashboard.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"trading-experiment/internal/api/handlers"
	"trading-experiment/internal/api/middleware"
	"trading-experiment/internal/data"
)

// Options configures NewRouter.
type Options struct {
	Dashboard      handlers.Dashboard
	Prices         data.PriceFetcher
	AllowedOrigins []string
	// StaticDir holds the built browser dashboard; skipped when missing.
	StaticDir string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	dashboardHandler := handlers.NewDashboardHandler(opts.Dashboard)
	pricesHandler := handlers.NewPricesHandler(opts.Prices)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/dashboard", dashboardHandler.GetDashboard)
		api.GET("/positions/:trader", dashboardHandler.GetPositions)
		api.GET("/trades", dashboardHandler.GetTrades)
		api.POST("/refresh", dashboardHandler.Refresh)
		api.GET("/prices", pricesHandler.GetPrices)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, staticDir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}

	index := filepath.Join(staticDir, "index.html")
	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(index); err != nil {
		slog.Info("static directory not found, skipping static file serving", "dir", staticDir)
		router.NoRoute(notFound)
		return
	}

	if _, err := os.Stat(filepath.Join(staticDir, "assets")); err == nil {
		router.Static("/assets", filepath.Join(staticDir, "assets"))
	}

	// Serve index.html for all non-API routes (SPA routing)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	slog.Info("serving static files", "dir", staticDir)
}
