package asset

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/graveshift/graveshift/internal/domain"
)

const (
	// EthAddressPattern matches a 20-byte hex EVM address
	EthAddressPattern = "^0x[a-fA-F0-9]{40}$"
	// EthSignaturePattern matches a 65-byte hex EVM signature
	EthSignaturePattern = "^0x[a-fA-F0-9]{130}$"
	// TokenIDPattern matches a canonical non-negative decimal token id
	TokenIDPattern = "^[0-9]+$"
)

// RawAssetInput carries the unvalidated request fields for one asset
type RawAssetInput struct {
	Chain           string
	EthAddress      string
	AssetType       string
	ContractAddress string
	TokenID         *string
}

// Normalize validates and canonicalizes a raw asset descriptor. Addresses
// are rewritten to EIP-55 checksum form and token ids to canonical decimal.
// Pure function; fails with a domain.ValidationError naming the field.
func Normalize(input RawAssetInput) (*domain.NormalizedAssetInput, error) {
	chain, err := normalizeChain(input.Chain)
	if err != nil {
		return nil, err
	}

	assetType, err := normalizeAssetType(input.AssetType)
	if err != nil {
		return nil, err
	}

	ethAddress, err := NormalizeAddress(input.EthAddress, "ethAddress")
	if err != nil {
		return nil, err
	}

	contractAddress, err := NormalizeAddress(input.ContractAddress, "contractAddress")
	if err != nil {
		return nil, err
	}

	tokenID, err := NormalizeTokenID(input.TokenID)
	if err != nil {
		return nil, err
	}

	if assetType.RequiresTokenID() && tokenID == nil {
		return nil, domain.NewValidationError("tokenId", "required for ERC-721 and ERC-1155 assets")
	}

	return &domain.NormalizedAssetInput{
		Chain:           chain,
		EthAddress:      ethAddress,
		AssetType:       assetType,
		ContractAddress: contractAddress,
		TokenID:         tokenID,
	}, nil
}

func normalizeChain(value string) (domain.Blockchain, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return domain.BlockchainEthereum, nil
	}

	chain := domain.Blockchain(trimmed)
	if !domain.IsValidBlockchain(chain) {
		return "", domain.NewValidationError("chain", "must be either 'ethereum' or 'polygon'")
	}

	return chain, nil
}

func normalizeAssetType(value string) (domain.AssetType, error) {
	assetType := domain.AssetType(strings.ToLower(strings.TrimSpace(value)))
	if !domain.IsValidAssetType(assetType) {
		return "", domain.NewValidationError("assetType", "must be either 'erc20', 'erc721', or 'erc1155'")
	}

	return assetType, nil
}

// NormalizeAddress validates a 20-byte hex address and rewrites it to EIP-55
// checksum form
func NormalizeAddress(value string, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !common.IsHexAddress(trimmed) {
		return "", domain.NewValidationError(fieldName, "must be a 0x-prefixed 20-byte hex address")
	}

	return common.HexToAddress(trimmed).Hex(), nil
}

// NormalizeTokenID parses a token id as a non-negative integer and
// re-serializes it in canonical decimal form. Absent or blank input yields
// nil.
func NormalizeTokenID(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}

	parsed, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || parsed.Sign() < 0 {
		return nil, domain.NewValidationError("tokenId", "must be a non-negative integer")
	}

	canonical := parsed.String()
	return &canonical, nil
}
