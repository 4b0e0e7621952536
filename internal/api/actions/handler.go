package actions

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/asset"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/migration"
	"github.com/graveshift/graveshift/internal/ownership"
	"github.com/graveshift/graveshift/internal/proof"
)

const resurrectPath = "/api/actions/resurrect"

var ethSignatureRegexp = regexp.MustCompile(asset.EthSignaturePattern)

// Handler serves the Solana Actions (Blinks) surface
type Handler interface {
	// GetResurrectAction returns the parametrized action manifest
	// GET /api/actions/resurrect
	GetResurrectAction(c *gin.Context)

	// PostResurrectAction verifies ownership and proof, then returns the
	// unsigned migration transaction
	// POST /api/actions/resurrect
	PostResurrectAction(c *gin.Context)

	// GetActionRules returns the static actions.json routing table
	// GET /actions.json
	GetActionRules(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	verifier ownership.Verifier
	builder  migration.Builder
}

// NewHandler creates a new Solana Actions handler
func NewHandler(verifier ownership.Verifier, builder migration.Builder) Handler {
	return &handler{
		verifier: verifier,
		builder:  builder,
	}
}

// GetResurrectAction returns the parametrized action manifest
func (h *handler) GetResurrectAction(c *gin.Context) {
	origin := requestOrigin(c)

	payload := ActionGetResponse{
		Type:  "action",
		Title: "GraveShift: Resurrect Your Dead Ethereum Assets",
		Icon:  origin + "/favicon.ico",
		Description: "Verify EVM ownership (Ethereum or Polygon) and write a real on-chain " +
			"migration record on Solana devnet. tokenId is required for ERC-721/ERC-1155.",
		Label: "Verify + Resurrect",
		Links: ActionLinks{
			Actions: []LinkedAction{
				{
					Type:  "transaction",
					Label: "Resurrect Asset",
					Href:  origin + resurrectPath,
					Parameters: []ActionParameter{
						{
							Name:     "ethAddress",
							Label:    "EVM owner (0x...)",
							Required: true,
							Pattern:  asset.EthAddressPattern,
						},
						{
							Type:     "select",
							Name:     "chain",
							Label:    "Source chain",
							Required: true,
							Options: []ActionParameterOption{
								{Label: "Ethereum", Value: "ethereum", Selected: true},
								{Label: "Polygon", Value: "polygon"},
							},
						},
						{
							Type:     "select",
							Name:     "assetType",
							Label:    "Asset type",
							Required: true,
							Options: []ActionParameterOption{
								{Label: "ERC-721 NFT", Value: "erc721", Selected: true},
								{Label: "ERC-20 token", Value: "erc20"},
								{Label: "ERC-1155", Value: "erc1155"},
							},
						},
						{
							Name:     "contractAddress",
							Label:    "Asset contract (0x...)",
							Required: true,
							Pattern:  asset.EthAddressPattern,
						},
						{
							Name:     "tokenId",
							Label:    "Token ID (required for ERC-721/ERC-1155)",
							Required: false,
							Pattern:  asset.TokenIDPattern,
						},
						{
							Type:     "textarea",
							Name:     "ethSignature",
							Label:    "EVM proof signature",
							Required: true,
							Pattern:  asset.EthSignaturePattern,
						},
					},
				},
			},
		},
	}

	c.JSON(http.StatusOK, payload)
}

// PostResurrectAction runs the resurrection pipeline: normalize, verify
// ownership, check the signed proof, then build the migration transaction.
// The record-existence check happens inside the builder, after the
// signature is validated.
func (h *handler) PostResurrectAction(c *gin.Context) {
	var req ActionPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	if _, err := migration.DecodePublicKey(req.Account); err != nil {
		c.String(http.StatusBadRequest, `Invalid "account" provided`)
		return
	}

	ethAddress, err := requiredField(req.Data, "ethAddress")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	assetType, err := requiredField(req.Data, "assetType")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	contractAddress, err := requiredField(req.Data, "contractAddress")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	ethSignature, err := requiredField(req.Data, "ethSignature")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	chain := ""
	if value := optionalField(req.Data, "chain"); value != nil {
		chain = *value
	}
	tokenID := optionalField(req.Data, "tokenId")

	if !ethSignatureRegexp.MatchString(ethSignature) {
		c.String(http.StatusBadRequest, "Invalid EVM signature format")
		return
	}

	normalized, err := asset.Normalize(asset.RawAssetInput{
		Chain:           chain,
		EthAddress:      ethAddress,
		AssetType:       assetType,
		ContractAddress: contractAddress,
		TokenID:         tokenID,
	})
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	check, err := h.verifier.Verify(c.Request.Context(), *normalized)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.String(http.StatusBadRequest, "Ownership verification failed")
		return
	}
	if !check.Verified {
		reason := check.Reason
		if reason == "" {
			reason = "Ownership verification failed"
		}
		c.String(http.StatusBadRequest, reason)
		return
	}

	proofMessage := proof.BuildMessage(*normalized, req.Account)
	if err := proof.VerifySignature(proofMessage, ethSignature, normalized.EthAddress); err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			c.String(http.StatusBadRequest, "EVM signature does not match provided owner address")
			return
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.builder.Build(c.Request.Context(), req.Account, check.AssetKey, check.AssetID)
	if err != nil {
		h.respondBuildError(c, err)
		return
	}

	c.JSON(http.StatusOK, ActionPostResponse{
		Type:        "transaction",
		Transaction: tx.Base64,
		Message: fmt.Sprintf("Resurrection ready. Asset ID %s (%s) will be written on Solana.",
			tx.AssetID, normalized.Chain.DisplayName()),
	})
}

func (h *handler) respondBuildError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrMigrationExists):
		c.String(http.StatusConflict, "This asset has already been resurrected for this Solana wallet")
	case errors.As(err, &validationErr):
		c.String(http.StatusBadRequest, err.Error())
	default:
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.String(http.StatusBadRequest, "Failed to build migration transaction")
	}
}

// GetActionRules returns the static actions.json routing table
func (h *handler) GetActionRules(c *gin.Context) {
	c.JSON(http.StatusOK, ActionRuleSet{
		Rules: []ActionRule{
			{PathPattern: "/*", APIPath: "/api/actions/*"},
			{PathPattern: "/api/actions/**", APIPath: "/api/actions/**"},
		},
	})
}

func requiredField(data map[string]FieldValue, fieldName string) (string, error) {
	value := optionalField(data, fieldName)
	if value == nil || *value == "" {
		return "", fmt.Errorf("Missing required field: %s", fieldName)
	}
	return *value, nil
}

func optionalField(data map[string]FieldValue, fieldName string) *string {
	raw, ok := data[fieldName]
	if !ok {
		return nil
	}

	value := raw.Value()
	if value == "" {
		return nil
	}
	return &value
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
