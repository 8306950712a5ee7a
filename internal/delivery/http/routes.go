package http

import (
	"github.com/gin-gonic/gin"
	"github.com/lookscan/backend/config"
	"github.com/lookscan/backend/internal/infrastructure/cache"
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

	// API v1 routes, rate limited per client
	limiters := cache.NewLimiterStore(cfg.RateLimit.PerIP)
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiters))
	{
		v1.POST("/scan", handler.Scan)
		v1.POST("/resolve", handler.Resolve)

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/estimate", handler.EstimateLandedCost)
		}
	}

	return router
}
