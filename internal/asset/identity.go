package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/graveshift/graveshift/internal/domain"
)

// WildcardTokenSegment stands in for the token id of fungible assets
const WildcardTokenSegment = "*"

// Key builds the canonical asset identity string:
// <caip2>:<assetType>:<contract-lowercase>:<tokenId-or-*>:<owner-lowercase>
// It is a pure function of the normalized input; equal logical assets always
// map to the same key regardless of request casing.
func Key(input *domain.NormalizedAssetInput) string {
	tokenSegment := WildcardTokenSegment
	if input.TokenID != nil {
		tokenSegment = *input.TokenID
	}

	return fmt.Sprintf("%s:%s:%s:%s:%s",
		input.Chain.Chain(),
		input.AssetType,
		strings.ToLower(input.ContractAddress),
		tokenSegment,
		strings.ToLower(input.EthAddress),
	)
}

// ID derives the compact asset handle from a key: the first 32 hex
// characters of its SHA-256 digest. Short enough to embed in on-chain
// storage, collision-resistant for this purpose.
func ID(key string) string {
	digest := sha256.Sum256([]byte(key))
	return hex.EncodeToString(digest[:])[:32]
}
