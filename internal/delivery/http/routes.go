package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recipefinder/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/search", handler.Search)
		v1.POST("/filter", handler.FilterRecipes)
		v1.GET("/suggestions", handler.GetSuggestions)

		results := v1.Group("/results")
		{
			results.GET("", handler.GetResults)
			results.DELETE("", handler.ClearResults)
			results.PUT("/query", handler.SetQueryText)
		}

		filters := v1.Group("/filters")
		{
			filters.GET("", handler.GetFilters)
			filters.PUT("", handler.SetFilters)
			filters.DELETE("", handler.ResetFilters)
		}

		v1.GET("/recipes/:id", handler.GetRecipe)

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.ListFavorites)
			favorites.POST("/:id/toggle", handler.ToggleFavorite)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.GetHistory)
			history.DELETE("", handler.ClearHistory)
		}
	}

	return router
}
