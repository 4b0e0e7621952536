package migration

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const migrationSeed = "migration"

const pdaMarker = "ProgramDerivedAddress"

// DecodePublicKey decodes a base58 Solana public key into its 32 raw bytes
func DecodePublicKey(value string) ([]byte, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 public key: %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("public key must be 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

// DeriveMigrationRecordAddress finds the program-derived address of the
// migration record for (account, assetId). The address is deterministic:
// the same tuple always derives the same record, which makes on-chain
// existence the idempotency flag.
func DeriveMigrationRecordAddress(accountPubkey []byte, assetID string, programID []byte) (string, uint8, error) {
	seeds := [][]byte{
		[]byte(migrationSeed),
		accountPubkey,
		[]byte(assetID),
	}
	return derivePDA(seeds, programID)
}

// derivePDA runs the Solana program-derived-address search: hash the seeds
// with a bump byte, the program id, and the PDA domain marker, walking the
// bump down from 255 until the result lands off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) (string, uint8, error) {
	for bump := 255; bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, programID...)
		data = append(data, []byte(pdaMarker)...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), uint8(bump), nil
		}
	}

	return "", 0, fmt.Errorf("no off-curve address found for seeds")
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
