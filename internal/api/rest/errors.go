package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/logger"
)

// respondScanError maps a discovery failure to the response body. Invalid
// input and upstream source failures both surface as 400 with the error
// message; anything else is logged and hidden behind a generic message.
func respondScanError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var sourceErr *domain.SourceUnavailableError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &sourceErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to scan dead assets"})
	}
}

// respondVerifyError always reports verified=false with a reason
func respondVerifyError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var verificationErr *domain.VerificationError

	message := "Failed to verify asset"
	switch {
	case errors.As(err, &validationErr), errors.As(err, &verificationErr):
		message = err.Error()
	default:
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	}

	c.JSON(http.StatusBadRequest, gin.H{"verified": false, "error": message})
}
