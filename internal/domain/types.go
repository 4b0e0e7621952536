package domain

import "time"

// Blockchain represents the source blockchain name
type Blockchain string

const (
	BlockchainEthereum Blockchain = "ethereum"
	BlockchainPolygon  Blockchain = "polygon"
)

// IsValidBlockchain checks if a blockchain name is supported
func IsValidBlockchain(b Blockchain) bool {
	return b == BlockchainEthereum || b == BlockchainPolygon
}

// Chain returns the CAIP-2 chain identifier for the blockchain
func (b Blockchain) Chain() Chain {
	switch b {
	case BlockchainPolygon:
		return ChainPolygonMainnet
	default:
		return ChainEthereumMainnet
	}
}

// DisplayName returns the human-readable network name used in proof messages
func (b Blockchain) DisplayName() string {
	switch b {
	case BlockchainPolygon:
		return "Polygon PoS"
	default:
		return "Ethereum Mainnet"
	}
}

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainPolygonMainnet  Chain = "eip155:137"
)

// AssetType represents the EVM token standard of an asset
type AssetType string

const (
	AssetTypeERC20   AssetType = "erc20"
	AssetTypeERC721  AssetType = "erc721"
	AssetTypeERC1155 AssetType = "erc1155"
)

// IsValidAssetType checks if an asset type is supported
func IsValidAssetType(t AssetType) bool {
	return t == AssetTypeERC20 || t == AssetTypeERC721 || t == AssetTypeERC1155
}

// RequiresTokenID reports whether the asset type identifies individual tokens
func (t AssetType) RequiresTokenID() bool {
	return t == AssetTypeERC721 || t == AssetTypeERC1155
}

// NormalizedAssetInput is the single canonical shape for a user-supplied
// asset descriptor. Addresses are EIP-55 checksummed; TokenID is a canonical
// base-10 string, nil for ERC-20.
type NormalizedAssetInput struct {
	Chain           Blockchain `json:"chain"`
	EthAddress      string     `json:"ethAddress"`
	AssetType       AssetType  `json:"assetType"`
	ContractAddress string     `json:"contractAddress"`
	TokenID         *string    `json:"tokenId"`
}

// ERC20Holding is one fungible token position reported by the holdings indexer
type ERC20Holding struct {
	ContractAddress string
	Name            *string
	Symbol          *string
	Balance         string // decimal-scaled display value
	HoldersCount    *float64
	MarketCapUSD    *float64
	PriceVolume24h  *float64
	PriceUpdatedAt  *int64 // unix seconds
}

// ERC1155Holding is one multi-unit NFT position reported by the NFT indexer
type ERC1155Holding struct {
	ContractAddress     string
	TokenID             string
	Name                *string
	Symbol              *string
	Balance             string
	Description         *string
	ImageURL            *string
	IsSpam              bool
	SpamClassifications []string
	MetadataError       *string
}

// DexPair is a single exchange pair matched against a holding
type DexPair struct {
	ChainID      string
	BaseToken    string // lowercase contract address
	QuoteToken   string // lowercase contract address
	LiquidityUSD *float64
	Volume24h    *float64
}

// DeadAsset is one scored holding. Purely derived, never persisted.
type DeadAsset struct {
	Chain           Blockchain     `json:"chain"`
	AssetType       AssetType      `json:"assetType"`
	ContractAddress string         `json:"contractAddress"`
	TokenID         *string        `json:"tokenId"`
	Name            *string        `json:"name"`
	Symbol          *string        `json:"symbol"`
	Balance         string         `json:"balance"`
	DeadScore       int            `json:"deadScore"`
	Reasons         []string       `json:"reasons"`
	Metrics         map[string]any `json:"metrics"`
}

// ScanResult is the outcome of one discovery request
type ScanResult struct {
	TotalHoldings int
	DeadAssets    []DeadAsset
}

// TokenMetadata holds best-effort on-chain token metadata
type TokenMetadata struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
}

// OwnershipCheck is the outcome of an ownership verification.
// AssetKey and AssetID are populated on every path, verified or not.
type OwnershipCheck struct {
	Verified     bool
	Reason       string // populated only when not verified
	Metadata     TokenMetadata
	TokenBalance *string
	AssetKey     string
	AssetID      string
}

// MigrationTransaction is an unsigned destination-chain transaction ready to
// be signed by the destination account
type MigrationTransaction struct {
	Base64        string
	RecordAddress string
	AssetID       string
	AssetKey      string
	Blockhash     string
	BuiltAt       time.Time
}
