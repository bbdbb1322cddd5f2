package http

import (
	"github.com/gin-gonic/gin"

	"github.com/feedmanager/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", handler.Search)

		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:asin", handler.GetProduct)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", handler.ListCategories)
			categories.POST("", handler.SaveCategory)
			categories.DELETE("/:id", handler.DeleteCategory)
			categories.POST("/:id/sync", handler.SyncCategory)
		}

		v1.GET("/synclogs", handler.SyncLogs)
		v1.PUT("/credentials", handler.UpdateCredentials)
	}

	return router
}
