package rest

import (
	"time"

	"github.com/graveshift/graveshift/internal/domain"
)

// ScanRequest is the discovery request body
type ScanRequest struct {
	EthAddress string `json:"ethAddress"`
	Limit      *int   `json:"limit"`
}

// ScanResponse is the discovery response body
type ScanResponse struct {
	EthAddress    string             `json:"ethAddress"`
	ScannedAt     time.Time          `json:"scannedAt"`
	TotalHoldings int                `json:"totalHoldings"`
	DeadAssets    []domain.DeadAsset `json:"deadAssets"`
}

// VerifyRequest is the ownership verification request body
type VerifyRequest struct {
	Chain           string  `json:"chain"`
	EthAddress      string  `json:"ethAddress"`
	AssetType       string  `json:"assetType"`
	ContractAddress string  `json:"contractAddress"`
	TokenID         *string `json:"tokenId"`
}

// VerifyResponse is the successful verification response body
type VerifyResponse struct {
	Verified     bool                 `json:"verified"`
	AssetID      string               `json:"assetId"`
	AssetKey     string               `json:"assetKey"`
	Metadata     domain.TokenMetadata `json:"metadata"`
	TokenBalance *string              `json:"tokenBalance"`
}
