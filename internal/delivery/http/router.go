package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	QuoteHandler     *QuoteHandler
	TradeHandler     *TradeHandler
	PortfolioHandler *PortfolioHandler
	AuthMiddleware   echo.MiddlewareFunc
	DBPinger         interface{ Ping(context.Context) error }
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Keep health probes out of the request log
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := config.DBPinger.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "stocksim-api",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Placeholder endpoint, intentionally a stub
	e.GET("/check", config.QuoteHandler.Check)

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	// Ledger routes (protected)
	protected := api.Group("", config.AuthMiddleware)
	{
		protected.GET("/quote/:symbol", config.QuoteHandler.GetQuote)
		protected.POST("/trades/buy", config.TradeHandler.Buy)
		protected.POST("/trades/sell", config.TradeHandler.Sell)
		protected.GET("/portfolio", config.PortfolioHandler.GetPortfolio)
		protected.GET("/history", config.PortfolioHandler.GetHistory)
	}
}
