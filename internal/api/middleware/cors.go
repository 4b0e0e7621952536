package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS middleware. Blink clients are third-party
// wallets and action explorers, so the surface is fully open and exposes
// the action negotiation headers.
func SetupCORS() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"Content-Encoding", "Accept-Encoding",
			"X-Accept-Action-Version", "X-Accept-Blockchain-Ids",
		},
		ExposeHeaders:    []string{"Content-Length", "X-Action-Version", "X-Blockchain-Ids"},
		AllowCredentials: false,
		MaxAge:           time.Hour,
	}
	return cors.New(config)
}
