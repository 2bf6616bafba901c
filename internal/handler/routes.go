package handler

import (
	"github.com/akhand08/adibFin/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, investmentHandler *InvestmentHandler, reportHandler *ReportHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	protected := []echo.MiddlewareFunc{
		authMiddleware.Authenticate(),
		middleware.RateLimitMiddleware(rateLimiter),
	}

	// Category routes (protected)
	categories := api.Group("/categories", protected...)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions", protected...)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Investment routes (protected)
	investments := api.Group("/investments", protected...)
	investments.POST("", investmentHandler.OpenInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.POST("/:id/returns", investmentHandler.AddReturn)
	investments.POST("/:id/close", investmentHandler.CloseInvestment)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	// Report routes (protected)
	reports := api.Group("/reports", protected...)
	reports.GET("/monthly/:year/:month", reportHandler.GetMonthlyReport)
	reports.GET("/yearly/:year", reportHandler.GetYearlyReport)
	reports.GET("/range", reportHandler.GetDateRangeReport)
	reports.GET("/investments", reportHandler.GetInvestmentReport)

	// WebSocket endpoint authenticates via token query parameter
	e.GET("/ws", wsHandler.HandleWS)
}
