// Package proof builds and checks the signed message that ties an EVM owner
// to a destination Solana account. The message text is part of the protocol;
// any change invalidates previously issued signatures.
package proof

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/graveshift/graveshift/internal/asset"
	"github.com/graveshift/graveshift/internal/domain"
)

// BuildMessage returns the canonical resurrection proof message for an asset
// and a destination account. Line order and wording are fixed.
func BuildMessage(input domain.NormalizedAssetInput, solanaAccount string) string {
	tokenSegment := asset.WildcardTokenSegment
	if input.TokenID != nil {
		tokenSegment = *input.TokenID
	}

	lines := []string{
		"GraveShift Resurrection Proof",
		fmt.Sprintf("EVM Owner: %s", input.EthAddress),
		fmt.Sprintf("Solana Recipient: %s", solanaAccount),
		fmt.Sprintf("Network: %s", input.Chain.DisplayName()),
		fmt.Sprintf("Asset Type: %s", input.AssetType),
		fmt.Sprintf("Contract: %s", input.ContractAddress),
		fmt.Sprintf("Token Id: %s", tokenSegment),
		"Action: I authorize this asset resurrection on Solana.",
	}

	return strings.Join(lines, "\n")
}

// RecoverSigner recovers the EVM address that produced an EIP-191
// personal-sign signature over the given message
func RecoverSigner(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", &domain.VerificationError{Reason: "signature is not valid hex"}
	}
	if len(sig) != 65 {
		return "", &domain.VerificationError{Reason: "signature must be 65 bytes"}
	}

	// Accept both legacy (27/28) and canonical (0/1) recovery ids
	recovery := sig[64]
	if recovery >= 27 {
		recovery -= 27
	}
	if recovery > 1 {
		return "", &domain.VerificationError{Reason: "invalid signature recovery id"}
	}

	adjusted := make([]byte, 65)
	copy(adjusted, sig[:64])
	adjusted[64] = recovery

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), adjusted)
	if err != nil {
		return "", &domain.VerificationError{Reason: "signature recovery failed"}
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// VerifySignature checks that the signature over the message was produced by
// the expected address. Address comparison is case-insensitive.
func VerifySignature(message, signature, expectedAddress string) error {
	recovered, err := RecoverSigner(message, signature)
	if err != nil {
		return err
	}

	if !strings.EqualFold(recovered, expectedAddress) {
		return domain.ErrSignatureMismatch
	}
	return nil
}
