package alchemy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
)

const PROVIDER_NAME = "alchemy"

// Pagination budget for owner scans. Indexer responses are wallet-influenced
// and unbounded; these caps bound cost and latency deterministically.
const (
	ScanMaxPages = 4
	ScanPageSize = 100
	ScanMaxItems = 350
)

const tokenTypeERC1155 = "ERC1155"

type ownedNFTsResponse struct {
	OwnedNFTs []ownedNFT `json:"ownedNfts"`
	PageKey   string     `json:"pageKey"`
}

type ownedNFT struct {
	TokenType   string        `json:"tokenType"`
	TokenID     string        `json:"tokenId"`
	Balance     string        `json:"balance"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Raw         *nftRawData   `json:"raw"`
	Image       *nftImageData `json:"image"`
	Contract    *nftContract  `json:"contract"`
	// Present in the metadata-less response variant only
	ContractAddress string `json:"contractAddress"`
}

type nftRawData struct {
	Error *string `json:"error"`
}

type nftImageData struct {
	OriginalURL *string `json:"originalUrl"`
	CachedURL   *string `json:"cachedUrl"`
}

type nftContract struct {
	Address             string   `json:"address"`
	Name                *string  `json:"name"`
	Symbol              *string  `json:"symbol"`
	TokenType           string   `json:"tokenType"`
	IsSpam              bool     `json:"isSpam"`
	SpamClassifications []string `json:"spamClassifications"`
}

// Client defines the interface for the Alchemy NFT API to enable mocking
type Client interface {
	// GetERC1155Holdings fetches all ERC-1155 holdings with a positive
	// balance for an owner, bounded by the pagination budget
	GetERC1155Holdings(ctx context.Context, ownerAddress string) ([]domain.ERC1155Holding, error)

	// GetERC1155Balance looks up the owner's balance for one
	// (contract, tokenId) pair via the paginated owner scan. Returns nil
	// when the pair is not found within the budget.
	GetERC1155Balance(ctx context.Context, ownerAddress, contractAddress, tokenID string) (*big.Int, error)
}

// alchemyClient implements the Alchemy NFT API client
type alchemyClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	apiKey     string
}

// NewClient creates a new Alchemy NFT API client
func NewClient(httpClient adapter.HTTPClient, apiURL string, apiKey string) Client {
	return &alchemyClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

func (c *alchemyClient) ownerURL(ownerAddress string, withMetadata bool, pageKey string) string {
	query := url.Values{}
	query.Set("owner", ownerAddress)
	query.Set("withMetadata", strconv.FormatBool(withMetadata))
	query.Set("pageSize", strconv.Itoa(ScanPageSize))
	if pageKey != "" {
		query.Set("pageKey", pageKey)
	}

	return fmt.Sprintf("%s/nft/v3/%s/getNFTsForOwner?%s", c.apiURL, c.apiKey, query.Encode())
}

// GetERC1155Holdings fetches all ERC-1155 holdings with a positive balance
// for an owner. Iterates pages up to the fixed budget; stops early once the
// item cap is reached or the indexer reports no further page cursor.
func (c *alchemyClient) GetERC1155Holdings(ctx context.Context, ownerAddress string) ([]domain.ERC1155Holding, error) {
	var holdings []domain.ERC1155Holding
	pageKey := ""

	for page := 0; page < ScanMaxPages; page++ {
		var payload ownedNFTsResponse
		if err := c.httpClient.Get(ctx, c.ownerURL(ownerAddress, true, pageKey), &payload); err != nil {
			var statusErr *adapter.HTTPStatusError
			if errors.As(err, &statusErr) {
				return nil, &domain.SourceUnavailableError{Source: PROVIDER_NAME, Status: statusErr.Status}
			}
			return nil, fmt.Errorf("failed to call Alchemy NFT API: %w", err)
		}

		for _, nft := range payload.OwnedNFTs {
			holding := parseHolding(nft)
			if holding == nil {
				continue
			}

			holdings = append(holdings, *holding)
			if len(holdings) >= ScanMaxItems {
				return holdings, nil
			}
		}

		if payload.PageKey == "" {
			break
		}
		pageKey = payload.PageKey
	}

	return holdings, nil
}

// GetERC1155Balance looks up one (contract, tokenId) balance using the same
// pagination budget as the holdings scan
func (c *alchemyClient) GetERC1155Balance(ctx context.Context, ownerAddress, contractAddress, tokenID string) (*big.Int, error) {
	wantContract := strings.ToLower(contractAddress)
	pageKey := ""

	for page := 0; page < ScanMaxPages; page++ {
		var payload ownedNFTsResponse
		if err := c.httpClient.Get(ctx, c.ownerURL(ownerAddress, false, pageKey), &payload); err != nil {
			var statusErr *adapter.HTTPStatusError
			if errors.As(err, &statusErr) {
				return nil, &domain.SourceUnavailableError{Source: PROVIDER_NAME, Status: statusErr.Status}
			}
			return nil, fmt.Errorf("failed to call Alchemy NFT API: %w", err)
		}

		for _, nft := range payload.OwnedNFTs {
			if nft.TokenType != "" && !strings.EqualFold(nft.TokenType, tokenTypeERC1155) {
				continue
			}

			nftContract := nft.ContractAddress
			if nftContract == "" && nft.Contract != nil {
				nftContract = nft.Contract.Address
			}
			if strings.ToLower(nftContract) != wantContract {
				continue
			}

			normalizedID := normalizeTokenID(nft.TokenID)
			if normalizedID == nil || *normalizedID != tokenID {
				continue
			}

			return parseBalance(nft.Balance), nil
		}

		if payload.PageKey == "" {
			break
		}
		pageKey = payload.PageKey
	}

	return nil, nil
}

// parseHolding converts one owned-NFT entry into a typed holding. Entries
// of the wrong token type, without a valid contract address, or with a
// non-positive balance are dropped.
func parseHolding(nft ownedNFT) *domain.ERC1155Holding {
	tokenType := nft.TokenType
	if tokenType == "" && nft.Contract != nil {
		tokenType = nft.Contract.TokenType
	}
	if !strings.EqualFold(tokenType, tokenTypeERC1155) {
		return nil
	}

	if nft.Contract == nil || !common.IsHexAddress(nft.Contract.Address) {
		return nil
	}
	contractAddress := common.HexToAddress(nft.Contract.Address).Hex()

	tokenID := normalizeTokenID(nft.TokenID)
	if tokenID == nil {
		return nil
	}

	balance := parseBalance(nft.Balance)
	if balance == nil || balance.Sign() <= 0 {
		return nil
	}

	holding := &domain.ERC1155Holding{
		ContractAddress:     contractAddress,
		TokenID:             *tokenID,
		Name:                nonEmpty(nft.Name),
		Symbol:              nonEmpty(nft.Contract.Symbol),
		Balance:             balance.String(),
		Description:         nonEmpty(nft.Description),
		IsSpam:              nft.Contract.IsSpam,
		SpamClassifications: nft.Contract.SpamClassifications,
	}

	if holding.Name == nil {
		holding.Name = nonEmpty(nft.Contract.Name)
	}
	if nft.Image != nil {
		holding.ImageURL = nonEmpty(nft.Image.OriginalURL)
		if holding.ImageURL == nil {
			holding.ImageURL = nonEmpty(nft.Image.CachedURL)
		}
	}
	if nft.Raw != nil {
		holding.MetadataError = nonEmpty(nft.Raw.Error)
	}

	return holding
}

func normalizeTokenID(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	parsed, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		// Token ids occasionally arrive hex-encoded
		parsed, ok = new(big.Int).SetString(strings.TrimPrefix(trimmed, "0x"), 16)
		if !ok || !strings.HasPrefix(trimmed, "0x") {
			return nil
		}
	}
	if parsed.Sign() < 0 {
		return nil
	}

	canonical := parsed.String()
	return &canonical
}

func parseBalance(value string) *big.Int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	parsed, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil
	}
	return parsed
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
