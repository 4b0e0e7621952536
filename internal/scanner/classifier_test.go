package scanner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/scanner"
)

func floatPtr(v float64) *float64 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func healthyERC20(now time.Time) domain.ERC20Holding {
	updatedAt := now.Add(-24 * time.Hour).Unix()
	return domain.ERC20Holding{
		ContractAddress: "0x1111111111111111111111111111111111111111",
		Name:            strPtr("Healthy Token"),
		Symbol:          strPtr("HLT"),
		Balance:         "1000",
		HoldersCount:    floatPtr(50_000),
		MarketCapUSD:    floatPtr(500_000_000),
		PriceVolume24h:  floatPtr(2_000_000),
		PriceUpdatedAt:  &updatedAt,
	}
}

func healthyPairs() []domain.DexPair {
	return []domain.DexPair{
		{
			ChainID:      "ethereum",
			BaseToken:    "0x1111111111111111111111111111111111111111",
			QuoteToken:   "0x2222222222222222222222222222222222222222",
			LiquidityUSD: floatPtr(5_000_000),
			Volume24h:    floatPtr(800_000),
		},
	}
}

func TestEvaluateERC20Holding(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)

	testCases := []struct {
		name            string
		mutateHolding   func(holding *domain.ERC20Holding)
		pairs           []domain.DexPair
		expectedScore   int
		expectedReasons []string
	}{
		{
			name:            "healthy token scores zero",
			pairs:           healthyPairs(),
			expectedScore:   0,
			expectedReasons: []string{},
		},
		{
			name:          "no pairs",
			pairs:         nil,
			expectedScore: 40,
			expectedReasons: []string{
				"No active Ethereum DEX pair found",
			},
		},
		{
			name: "low liquidity and low volume",
			pairs: []domain.DexPair{
				{
					BaseToken:    "0x1111111111111111111111111111111111111111",
					LiquidityUSD: floatPtr(900),
					Volume24h:    floatPtr(12),
				},
			},
			expectedScore: 45,
			expectedReasons: []string{
				"Low DEX liquidity",
				"Low DEX 24h volume",
			},
		},
		{
			name: "pairs without volume data count as zero volume",
			pairs: []domain.DexPair{
				{
					BaseToken:    "0x1111111111111111111111111111111111111111",
					LiquidityUSD: floatPtr(100_000),
				},
			},
			expectedScore: 20,
			expectedReasons: []string{
				"Low DEX 24h volume",
			},
		},
		{
			name: "missing market cap",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.MarketCapUSD = nil
			},
			pairs:         healthyPairs(),
			expectedScore: 15,
			expectedReasons: []string{
				"No tracked market cap data",
			},
		},
		{
			name: "low market cap",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.MarketCapUSD = floatPtr(250_000)
			},
			pairs:         healthyPairs(),
			expectedScore: 10,
			expectedReasons: []string{
				"Low market cap",
			},
		},
		{
			name: "low holder count",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.HoldersCount = floatPtr(12)
			},
			pairs:         healthyPairs(),
			expectedScore: 10,
			expectedReasons: []string{
				"Low holder count",
			},
		},
		{
			name: "unknown holder count does not score",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.HoldersCount = nil
			},
			pairs:           healthyPairs(),
			expectedScore:   0,
			expectedReasons: []string{},
		},
		{
			name: "stale price feed",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.PriceUpdatedAt = int64Ptr(now.Add(-91 * 24 * time.Hour).Unix())
			},
			pairs:         healthyPairs(),
			expectedScore: 10,
			expectedReasons: []string{
				"Price feed is stale",
			},
		},
		{
			name: "everything wrong stacks",
			mutateHolding: func(holding *domain.ERC20Holding) {
				holding.MarketCapUSD = nil
				holding.HoldersCount = floatPtr(3)
				holding.PriceUpdatedAt = int64Ptr(now.Add(-365 * 24 * time.Hour).Unix())
			},
			pairs:         nil,
			expectedScore: 75,
			expectedReasons: []string{
				"No active Ethereum DEX pair found",
				"No tracked market cap data",
				"Low holder count",
				"Price feed is stale",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			holding := healthyERC20(now)
			if tc.mutateHolding != nil {
				tc.mutateHolding(&holding)
			}

			asset := scanner.EvaluateERC20Holding(holding, tc.pairs, now)

			assert.Equal(t, tc.expectedScore, asset.DeadScore)
			assert.Equal(t, tc.expectedReasons, asset.Reasons)
			assert.Equal(t, domain.BlockchainEthereum, asset.Chain)
			assert.Equal(t, domain.AssetTypeERC20, asset.AssetType)
			assert.Nil(t, asset.TokenID)
		})
	}
}

func TestEvaluateERC20Holding_Metrics(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	holding := healthyERC20(now)

	pairs := []domain.DexPair{
		{LiquidityUSD: floatPtr(10_000), Volume24h: floatPtr(100)},
		{LiquidityUSD: floatPtr(50_000), Volume24h: floatPtr(9_000)},
	}

	asset := scanner.EvaluateERC20Holding(holding, pairs, now)

	// The max over matched pairs is reported
	assert.Equal(t, float64(50_000), asset.Metrics["dexLiquidityUsd"])
	assert.Equal(t, float64(9_000), asset.Metrics["dexVolume24h"])
	assert.Equal(t, 2, asset.Metrics["dexPairCount"])
	assert.Equal(t, *holding.HoldersCount, asset.Metrics["holdersCount"])
	assert.Equal(t, *holding.MarketCapUSD, asset.Metrics["marketCapUsd"])
	assert.Equal(t, *holding.PriceUpdatedAt, asset.Metrics["priceUpdatedAt"])
}

func TestEvaluateERC1155Holding(t *testing.T) {
	complete := domain.ERC1155Holding{
		ContractAddress: "0x3333333333333333333333333333333333333333",
		TokenID:         "7",
		Name:            strPtr("Concert Pass"),
		Symbol:          strPtr("PASS"),
		Balance:         "2",
		Description:     strPtr("Commemorative pass from the 2023 tour."),
		ImageURL:        strPtr("ipfs://QmExample/image.png"),
	}

	testCases := []struct {
		name            string
		mutate          func(holding *domain.ERC1155Holding)
		expectedScore   int
		expectedReasons []string
	}{
		{
			name:            "complete non-spam metadata scores zero",
			expectedScore:   0,
			expectedReasons: []string{},
		},
		{
			name: "indexer spam flag alone crosses the threshold",
			mutate: func(holding *domain.ERC1155Holding) {
				holding.IsSpam = true
			},
			expectedScore: 45,
			expectedReasons: []string{
				"Flagged as spam by indexer",
			},
		},
		{
			name: "spam classifications are joined",
			mutate: func(holding *domain.ERC1155Holding) {
				holding.SpamClassifications = []string{"OwnedByMostHoneyPots", "Erc721TooManyOwners"}
			},
			expectedScore: 15,
			expectedReasons: []string{
				"Spam signals: OwnedByMostHoneyPots, Erc721TooManyOwners",
			},
		},
		{
			name: "missing name and image",
			mutate: func(holding *domain.ERC1155Holding) {
				holding.Name = nil
				holding.ImageURL = nil
			},
			expectedScore: 20,
			expectedReasons: []string{
				"Missing token metadata name",
				"Missing NFT image metadata",
			},
		},
		{
			name: "metadata error",
			mutate: func(holding *domain.ERC1155Holding) {
				holding.MetadataError = strPtr("Failed to fetch token uri")
			},
			expectedScore: 20,
			expectedReasons: []string{
				"Broken token metadata URI",
			},
		},
		{
			name: "spam phrase in description is case-insensitive",
			mutate: func(holding *domain.ERC1155Holding) {
				holding.Description = strPtr("Visit HTTPS://evil.example to CLAIM your reward!")
			},
			expectedScore: 25,
			expectedReasons: []string{
				"Spammy claim/airdrop text in metadata",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			holding := complete
			if tc.mutate != nil {
				tc.mutate(&holding)
			}

			asset := scanner.EvaluateERC1155Holding(holding)

			assert.Equal(t, tc.expectedScore, asset.DeadScore)
			assert.Equal(t, tc.expectedReasons, asset.Reasons)
			assert.Equal(t, domain.BlockchainPolygon, asset.Chain)
			assert.Equal(t, domain.AssetTypeERC1155, asset.AssetType)
			require.NotNil(t, asset.TokenID)
			assert.Equal(t, "7", *asset.TokenID)
		})
	}
}

func TestClampLimit(t *testing.T) {
	testCases := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "zero means default", limit: 0, expected: scanner.DefaultScanLimit},
		{name: "negative clamps to one", limit: -5, expected: 1},
		{name: "in range passes through", limit: 33, expected: 33},
		{name: "max clamps to one hundred", limit: 500, expected: scanner.MaxScanLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, scanner.ClampLimit(tc.limit))
		})
	}
}

func TestFinalize(t *testing.T) {
	assets := []domain.DeadAsset{
		{ContractAddress: "0xa", DeadScore: 40},
		{ContractAddress: "0xb", DeadScore: 75},
		{ContractAddress: "0xc", DeadScore: 10},
		{ContractAddress: "0xd", DeadScore: 40},
		{ContractAddress: "0xe", DeadScore: 60},
	}

	result := scanner.Finalize(assets, 0)

	// Below-threshold entries dropped, ties keep input order
	require.Len(t, result, 4)
	assert.Equal(t, "0xb", result[0].ContractAddress)
	assert.Equal(t, "0xe", result[1].ContractAddress)
	assert.Equal(t, "0xa", result[2].ContractAddress)
	assert.Equal(t, "0xd", result[3].ContractAddress)

	truncated := scanner.Finalize(assets, 2)
	require.Len(t, truncated, 2)
	assert.Equal(t, "0xb", truncated[0].ContractAddress)
	assert.Equal(t, "0xe", truncated[1].ContractAddress)
}
