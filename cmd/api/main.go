package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"foliotrack/internal/config"
	"foliotrack/internal/database"
	"foliotrack/internal/handlers"
	"foliotrack/internal/logger"
	"foliotrack/internal/middleware"
	"foliotrack/internal/services"
	"foliotrack/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	portfolioService := services.NewPortfolioService(db)
	stockService := services.NewStockService(db)
	transactionService := services.NewTransactionService(db, portfolioService, stockService)
	valuationService := services.NewValuationService(db, portfolioService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	stockHandler := handlers.NewStockHandler(stockService)
	valuationHandler := handlers.NewValuationHandler(valuationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Price feed ingestion, authenticated by shared key rather than a user token
	v1.POST("/stocks/:id/prices", middleware.FeedAuthMiddleware(appConfig.FeedAPIKey), stockHandler.RecordPrices)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Portfolio routes
	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.Create)
	portfolios.GET("", portfolioHandler.List)
	portfolios.GET("/:id", portfolioHandler.Get)
	portfolios.PUT("/:id", portfolioHandler.Update)
	portfolios.DELETE("/:id", portfolioHandler.Delete)
	portfolios.POST("/:id/transactions", transactionHandler.Create)
	portfolios.GET("/:id/transactions", transactionHandler.List)
	portfolios.GET("/:id/holdings", valuationHandler.GetHoldings)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("/:id", transactionHandler.Get)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Stock routes
	stocks := protected.Group("/stocks")
	stocks.GET("", stockHandler.List)
	stocks.GET("/:id", stockHandler.Get)
	stocks.GET("/:id/prices", stockHandler.GetPriceHistory)

	log.Infof("Starting foliotrack API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
