package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/asset"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/ownership"
	"github.com/graveshift/graveshift/internal/scanner"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ScanDeadAssets discovers economically abandoned holdings for a wallet
	// POST /api/eth/dead-assets
	ScanDeadAssets(c *gin.Context)

	// VerifyOwnership checks on-chain ownership of a single asset
	// POST /api/eth/verify
	VerifyOwnership(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	scanner  scanner.Scanner
	verifier ownership.Verifier
	clock    adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(scan scanner.Scanner, verifier ownership.Verifier, clock adapter.Clock) Handler {
	return &handler{
		scanner:  scan,
		verifier: verifier,
		clock:    clock,
	}
}

// ScanDeadAssets discovers economically abandoned holdings for a wallet
func (h *handler) ScanDeadAssets(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondScanError(c, domain.NewValidationError("body", "must be a JSON object"))
		return
	}

	ethAddress, err := asset.NormalizeAddress(req.EthAddress, "ethAddress")
	if err != nil {
		respondScanError(c, err)
		return
	}

	limit := 0
	if req.Limit != nil {
		limit = *req.Limit
	}

	result, err := h.scanner.ScanDeadAssets(c.Request.Context(), ethAddress, limit)
	if err != nil {
		respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScanResponse{
		EthAddress:    ethAddress,
		ScannedAt:     h.clock.Now().UTC(),
		TotalHoldings: result.TotalHoldings,
		DeadAssets:    result.DeadAssets,
	})
}

// VerifyOwnership checks on-chain ownership of a single asset
func (h *handler) VerifyOwnership(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondVerifyError(c, domain.NewValidationError("body", "must be a JSON object"))
		return
	}

	normalized, err := asset.Normalize(asset.RawAssetInput{
		Chain:           req.Chain,
		EthAddress:      req.EthAddress,
		AssetType:       req.AssetType,
		ContractAddress: req.ContractAddress,
		TokenID:         req.TokenID,
	})
	if err != nil {
		respondVerifyError(c, err)
		return
	}

	check, err := h.verifier.Verify(c.Request.Context(), *normalized)
	if err != nil {
		respondVerifyError(c, err)
		return
	}

	if !check.Verified {
		reason := check.Reason
		if reason == "" {
			reason = "Ownership verification failed"
		}
		respondVerifyError(c, &domain.VerificationError{Reason: reason})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Verified:     true,
		AssetID:      check.AssetID,
		AssetKey:     check.AssetKey,
		Metadata:     check.Metadata,
		TokenBalance: check.TokenBalance,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
