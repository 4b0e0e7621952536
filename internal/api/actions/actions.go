package actions

import "github.com/gin-gonic/gin"

// SetupRoutes configures the Solana Actions routes
func SetupRoutes(router *gin.Engine, handler Handler, actionVersion, chainID string) {
	headers := Headers(actionVersion, chainID)

	router.GET("/actions.json", headers, handler.GetActionRules)

	api := router.Group("/api/actions", headers)
	{
		api.GET("/resurrect", handler.GetResurrectAction)
		api.POST("/resurrect", handler.PostResurrectAction)
	}
}
