package dexscreener_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/providers/dexscreener"
)

func TestGetEthereumPairs(t *testing.T) {
	payload := `[
		{
			"chainId": "ethereum",
			"baseToken": {"address": "0x1111111111111111111111111111111111111111"},
			"quoteToken": {"address": "0xC02AAA39B223FE8D0A0E5C4F27EAD9083C756CC2"},
			"liquidity": {"usd": 125000.5},
			"volume": {"h24": 4300}
		},
		{
			"chainId": "bsc",
			"baseToken": {"address": "0x1111111111111111111111111111111111111111"},
			"liquidity": {"usd": 99999999}
		},
		{
			"chainId": "ethereum",
			"baseToken": {"address": "0x2222222222222222222222222222222222222222"}
		}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Batch goes out as one comma-joined lowercase path segment
		assert.Equal(t, "/tokens/v1/ethereum/0x1111111111111111111111111111111111111111,0x2222222222222222222222222222222222222222", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := dexscreener.NewClient(adapter.NewHTTPClient(5*time.Second), server.URL)

	pairs, err := client.GetEthereumPairs(context.Background(), []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	})
	require.NoError(t, err)

	// The bsc pair is dropped
	require.Len(t, pairs, 2)

	first := pairs[0]
	assert.Equal(t, "0x1111111111111111111111111111111111111111", first.BaseToken)
	assert.Equal(t, "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", first.QuoteToken)
	require.NotNil(t, first.LiquidityUSD)
	assert.Equal(t, 125000.5, *first.LiquidityUSD)
	require.NotNil(t, first.Volume24h)
	assert.Equal(t, float64(4300), *first.Volume24h)

	second := pairs[1]
	assert.Equal(t, "0x2222222222222222222222222222222222222222", second.BaseToken)
	assert.Nil(t, second.LiquidityUSD)
	assert.Nil(t, second.Volume24h)
}

func TestGetEthereumPairs_EmptyBatch(t *testing.T) {
	client := dexscreener.NewClient(adapter.NewHTTPClient(5*time.Second), "http://unused.invalid")

	pairs, err := client.GetEthereumPairs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, pairs)
}

func TestGetEthereumPairs_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := dexscreener.NewClient(adapter.NewHTTPClient(5*time.Second), server.URL)

	_, err := client.GetEthereumPairs(context.Background(), []string{"0x1111111111111111111111111111111111111111"})
	require.Error(t, err)

	var unavailableErr *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "dexscreener", unavailableErr.Source)
	assert.Equal(t, http.StatusTooManyRequests, unavailableErr.Status)
}
