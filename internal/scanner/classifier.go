package scanner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/graveshift/graveshift/internal/domain"
)

// DeadScoreThreshold marks a holding as economically abandoned
const DeadScoreThreshold = 40

const (
	DefaultScanLimit = 20
	MaxScanLimit     = 100
)

// Scoring thresholds for fungible holdings
const (
	MinLiquidityUSD   = 15_000
	MinVolume24hUSD   = 5_000
	MinMarketCapUSD   = 1_000_000
	MinHolderCount    = 300
	StalePriceSeconds = 90 * 24 * 60 * 60
)

// spamPhrases is matched case-insensitively against NFT descriptions
var spamPhrases = []string{
	"airdrop",
	"claim",
	"reward",
	"visit",
	"bonus",
	"voucher",
	"t.me",
	"telegram",
	"http://",
	"https://",
}

// ClampLimit applies the default and bounds for result truncation
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultScanLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxScanLimit {
		return MaxScanLimit
	}
	return limit
}

// EvaluateERC20Holding scores one fungible holding against its matched
// exchange pairs. Each clause adds independently; pair-derived clauses only
// fire when the relevant signal was observed.
func EvaluateERC20Holding(holding domain.ERC20Holding, pairs []domain.DexPair, now time.Time) domain.DeadAsset {
	deadScore := 0
	reasons := []string{}

	dexPairCount := len(pairs)
	dexLiquidityUSD := maxPairValue(pairs, func(pair domain.DexPair) *float64 { return pair.LiquidityUSD })
	dexVolume24h := maxPairValue(pairs, func(pair domain.DexPair) *float64 { return pair.Volume24h })

	if dexPairCount == 0 {
		deadScore += 40
		reasons = append(reasons, "No active Ethereum DEX pair found")
	}

	if dexLiquidityUSD != nil && *dexLiquidityUSD < MinLiquidityUSD {
		deadScore += 25
		reasons = append(reasons, "Low DEX liquidity")
	}

	if dexPairCount > 0 && floatOrZero(dexVolume24h) < MinVolume24hUSD {
		deadScore += 20
		reasons = append(reasons, "Low DEX 24h volume")
	}

	if holding.MarketCapUSD == nil {
		deadScore += 15
		reasons = append(reasons, "No tracked market cap data")
	} else if *holding.MarketCapUSD < MinMarketCapUSD {
		deadScore += 10
		reasons = append(reasons, "Low market cap")
	}

	if holding.HoldersCount != nil && *holding.HoldersCount < MinHolderCount {
		deadScore += 10
		reasons = append(reasons, "Low holder count")
	}

	if holding.PriceUpdatedAt != nil {
		ageSeconds := now.Unix() - *holding.PriceUpdatedAt
		if ageSeconds > StalePriceSeconds {
			deadScore += 10
			reasons = append(reasons, "Price feed is stale")
		}
	}

	return domain.DeadAsset{
		Chain:           domain.BlockchainEthereum,
		AssetType:       domain.AssetTypeERC20,
		ContractAddress: holding.ContractAddress,
		TokenID:         nil,
		Name:            holding.Name,
		Symbol:          holding.Symbol,
		Balance:         holding.Balance,
		DeadScore:       deadScore,
		Reasons:         reasons,
		Metrics: map[string]any{
			"holdersCount":    nullableFloat(holding.HoldersCount),
			"marketCapUsd":    nullableFloat(holding.MarketCapUSD),
			"priceVolume24h":  nullableFloat(holding.PriceVolume24h),
			"dexLiquidityUsd": nullableFloat(dexLiquidityUSD),
			"dexVolume24h":    nullableFloat(dexVolume24h),
			"dexPairCount":    dexPairCount,
			"priceUpdatedAt":  nullableInt(holding.PriceUpdatedAt),
		},
	}
}

// EvaluateERC1155Holding scores one multi-unit NFT holding from indexer
// metadata alone
func EvaluateERC1155Holding(holding domain.ERC1155Holding) domain.DeadAsset {
	deadScore := 0
	reasons := []string{}

	if holding.IsSpam {
		deadScore += 45
		reasons = append(reasons, "Flagged as spam by indexer")
	}

	if len(holding.SpamClassifications) > 0 {
		deadScore += 15
		reasons = append(reasons, fmt.Sprintf("Spam signals: %s", strings.Join(holding.SpamClassifications, ", ")))
	}

	if holding.Name == nil {
		deadScore += 10
		reasons = append(reasons, "Missing token metadata name")
	}

	if holding.ImageURL == nil {
		deadScore += 10
		reasons = append(reasons, "Missing NFT image metadata")
	}

	if holding.MetadataError != nil {
		deadScore += 20
		reasons = append(reasons, "Broken token metadata URI")
	}

	if containsSpamPhrase(holding.Description) {
		deadScore += 25
		reasons = append(reasons, "Spammy claim/airdrop text in metadata")
	}

	tokenID := holding.TokenID
	return domain.DeadAsset{
		Chain:           domain.BlockchainPolygon,
		AssetType:       domain.AssetTypeERC1155,
		ContractAddress: holding.ContractAddress,
		TokenID:         &tokenID,
		Name:            holding.Name,
		Symbol:          holding.Symbol,
		Balance:         holding.Balance,
		DeadScore:       deadScore,
		Reasons:         reasons,
		Metrics: map[string]any{
			"isSpam":           holding.IsSpam,
			"spamSignalCount":  len(holding.SpamClassifications),
			"hasMetadataError": holding.MetadataError != nil,
		},
	}
}

// Finalize filters to the dead threshold, sorts by descending score keeping
// input order among ties, and truncates to the clamped limit
func Finalize(assets []domain.DeadAsset, limit int) []domain.DeadAsset {
	limit = ClampLimit(limit)

	dead := make([]domain.DeadAsset, 0, len(assets))
	for _, asset := range assets {
		if asset.DeadScore >= DeadScoreThreshold {
			dead = append(dead, asset)
		}
	}

	sort.SliceStable(dead, func(i, j int) bool {
		return dead[i].DeadScore > dead[j].DeadScore
	})

	if len(dead) > limit {
		dead = dead[:limit]
	}
	return dead
}

func containsSpamPhrase(description *string) bool {
	if description == nil {
		return false
	}

	lowered := strings.ToLower(*description)
	for _, phrase := range spamPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func maxPairValue(pairs []domain.DexPair, pick func(domain.DexPair) *float64) *float64 {
	var max *float64
	for _, pair := range pairs {
		value := pick(pair)
		if value == nil {
			continue
		}
		if max == nil || *value > *max {
			v := *value
			max = &v
		}
	}
	return max
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
