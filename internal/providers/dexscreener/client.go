package dexscreener

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
)

const PROVIDER_NAME = "dexscreener"

const pairChainEthereum = "ethereum"

type pairResponse struct {
	ChainID    string         `json:"chainId"`
	BaseToken  *pairToken     `json:"baseToken"`
	QuoteToken *pairToken     `json:"quoteToken"`
	Liquidity  *pairLiquidity `json:"liquidity"`
	Volume     *pairVolume    `json:"volume"`
}

type pairToken struct {
	Address string `json:"address"`
}

type pairLiquidity struct {
	USD *float64 `json:"usd"`
}

type pairVolume struct {
	H24 *float64 `json:"h24"`
}

// Client defines the interface for the DexScreener API to enable mocking
type Client interface {
	// GetEthereumPairs fetches exchange pairs for a batch of token contract
	// addresses on Ethereum mainnet. Pairs reported for other chains are
	// dropped.
	GetEthereumPairs(ctx context.Context, tokenAddresses []string) ([]domain.DexPair, error)
}

// dexScreenerClient implements the DexScreener API client
type dexScreenerClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
}

// NewClient creates a new DexScreener API client
func NewClient(httpClient adapter.HTTPClient, apiURL string) Client {
	return &dexScreenerClient{
		httpClient: httpClient,
		apiURL:     apiURL,
	}
}

func (c *dexScreenerClient) GetEthereumPairs(ctx context.Context, tokenAddresses []string) ([]domain.DexPair, error) {
	if len(tokenAddresses) == 0 {
		return nil, nil
	}

	lowered := make([]string, 0, len(tokenAddresses))
	for _, address := range tokenAddresses {
		lowered = append(lowered, strings.ToLower(address))
	}

	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.apiURL, pairChainEthereum, strings.Join(lowered, ","))

	var payload []pairResponse
	if err := c.httpClient.Get(ctx, requestURL, &payload); err != nil {
		var statusErr *adapter.HTTPStatusError
		if errors.As(err, &statusErr) {
			return nil, &domain.SourceUnavailableError{Source: PROVIDER_NAME, Status: statusErr.Status}
		}
		return nil, fmt.Errorf("failed to call DexScreener API: %w", err)
	}

	pairs := make([]domain.DexPair, 0, len(payload))
	for _, entry := range payload {
		if !strings.EqualFold(entry.ChainID, pairChainEthereum) {
			continue
		}

		pair := domain.DexPair{ChainID: pairChainEthereum}
		if entry.BaseToken != nil {
			pair.BaseToken = strings.ToLower(entry.BaseToken.Address)
		}
		if entry.QuoteToken != nil {
			pair.QuoteToken = strings.ToLower(entry.QuoteToken.Address)
		}
		if entry.Liquidity != nil {
			pair.LiquidityUSD = entry.Liquidity.USD
		}
		if entry.Volume != nil {
			pair.Volume24h = entry.Volume.H24
		}

		pairs = append(pairs, pair)
	}

	return pairs, nil
}
