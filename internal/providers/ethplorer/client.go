package ethplorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
)

const PROVIDER_NAME = "ethplorer"

// Decimals outside this range are indexer garbage and clamped before the
// balance is scaled for display.
const (
	minTokenDecimals     = 0
	maxTokenDecimals     = 30
	defaultTokenDecimals = 18
)

// addressInfoResponse mirrors the getAddressInfo payload. Numeric fields
// arrive as numbers or strings depending on the token, so everything noisy
// goes through jsonNumber/jsonString.
type addressInfoResponse struct {
	Tokens []addressInfoToken `json:"tokens"`
}

type addressInfoToken struct {
	TokenInfo  *addressInfoTokenInfo `json:"tokenInfo"`
	RawBalance jsonString            `json:"rawBalance"`
	Balance    jsonString            `json:"balance"`
}

type addressInfoTokenInfo struct {
	Address      string     `json:"address"`
	Name         *string    `json:"name"`
	Symbol       *string    `json:"symbol"`
	Decimals     jsonNumber `json:"decimals"`
	HoldersCount jsonNumber `json:"holdersCount"`
	LastUpdated  jsonNumber `json:"lastUpdated"`
	Price        priceField `json:"price"`
}

type tokenPriceData struct {
	MarketCapUSD jsonNumber `json:"marketCapUsd"`
	Volume24h    jsonNumber `json:"volume24h"`
	Timestamp    jsonNumber `json:"ts"`
}

// priceField is either a price object or the literal false when the token
// has no tracked price.
type priceField struct {
	Data *tokenPriceData
}

func (p *priceField) UnmarshalJSON(data []byte) error {
	p.Data = nil

	var obj tokenPriceData
	if err := json.Unmarshal(data, &obj); err == nil {
		p.Data = &obj
	}
	return nil
}

// Client defines the interface for Ethplorer client operations to enable mocking
type Client interface {
	// GetAddressHoldings fetches all ERC-20 holdings with a positive balance
	// for an address
	GetAddressHoldings(ctx context.Context, ethAddress string) ([]domain.ERC20Holding, error)
}

// ethplorerClient implements the Ethplorer client
type ethplorerClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	apiKey     string
}

// NewClient creates a new Ethplorer client
func NewClient(httpClient adapter.HTTPClient, apiURL string, apiKey string) Client {
	return &ethplorerClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// GetAddressHoldings fetches all ERC-20 holdings with a positive balance for
// an address. Any non-success upstream status aborts the scan with a
// SourceUnavailableError; there is no partial retry.
func (c *ethplorerClient) GetAddressHoldings(ctx context.Context, ethAddress string) ([]domain.ERC20Holding, error) {
	requestURL := fmt.Sprintf("%s/getAddressInfo/%s?apiKey=%s",
		c.apiURL, ethAddress, url.QueryEscape(c.apiKey))

	var payload addressInfoResponse
	if err := c.httpClient.Get(ctx, requestURL, &payload); err != nil {
		var statusErr *adapter.HTTPStatusError
		if errors.As(err, &statusErr) {
			return nil, &domain.SourceUnavailableError{Source: PROVIDER_NAME, Status: statusErr.Status}
		}
		return nil, fmt.Errorf("failed to call Ethplorer API: %w", err)
	}

	holdings := make([]domain.ERC20Holding, 0, len(payload.Tokens))
	for _, token := range payload.Tokens {
		holding := parseHolding(token)
		if holding != nil {
			holdings = append(holdings, *holding)
		}
	}

	return holdings, nil
}

// parseHolding converts one indexer token entry into a typed holding.
// Entries without a valid contract address or positive raw balance are
// dropped rather than surfaced as faults.
func parseHolding(token addressInfoToken) *domain.ERC20Holding {
	info := token.TokenInfo
	if info == nil || info.Address == "" {
		return nil
	}

	if !common.IsHexAddress(info.Address) {
		return nil
	}
	contractAddress := common.HexToAddress(info.Address).Hex()

	rawBalance := parseRawBalance(token.RawBalance, token.Balance)
	if rawBalance == nil || rawBalance.Sign() <= 0 {
		return nil
	}

	decimals := clampDecimals(info.Decimals.Value)
	balance := decimal.NewFromBigInt(rawBalance, -int32(decimals)).String()

	holding := &domain.ERC20Holding{
		ContractAddress: contractAddress,
		Name:            info.Name,
		Symbol:          info.Symbol,
		Balance:         balance,
		HoldersCount:    info.HoldersCount.Value,
	}

	if price := info.Price.Data; price != nil {
		holding.MarketCapUSD = price.MarketCapUSD.Value
		holding.PriceVolume24h = price.Volume24h.Value
		holding.PriceUpdatedAt = toUnixSeconds(price.Timestamp.Value)
	}
	if holding.PriceUpdatedAt == nil {
		holding.PriceUpdatedAt = toUnixSeconds(info.LastUpdated.Value)
	}

	return holding
}

// parseRawBalance picks rawBalance when the indexer sent one, falling back to
// the display balance only when rawBalance is absent. String values must be
// whole base-10 integers; number values get truncated at the decimal point
// since some entries carry a fractional display balance.
func parseRawBalance(rawBalance, displayBalance jsonString) *big.Int {
	candidate := rawBalance
	if candidate.Value == nil {
		candidate = displayBalance
	}
	if candidate.Value == nil {
		return nil
	}

	text := *candidate.Value
	if candidate.FromNumber {
		if dot := strings.IndexByte(text, '.'); dot > 0 {
			text = text[:dot]
		}
	}

	value, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil
	}
	return value
}

func clampDecimals(value *float64) int {
	if value == nil {
		return defaultTokenDecimals
	}

	decimals := int(*value)
	if decimals < minTokenDecimals {
		return minTokenDecimals
	}
	if decimals > maxTokenDecimals {
		return maxTokenDecimals
	}
	return decimals
}

func toUnixSeconds(value *float64) *int64 {
	if value == nil {
		return nil
	}
	seconds := int64(*value)
	return &seconds
}
