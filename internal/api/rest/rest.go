package rest

import "github.com/gin-gonic/gin"

// SetupRoutes configures the REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	eth := router.Group("/api/eth")
	{
		eth.POST("/dead-assets", handler.ScanDeadAssets)
		eth.POST("/verify", handler.VerifyOwnership)
	}
}
