package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureMismatch is returned when the recovered signer does not
	// equal the claimed owner address
	ErrSignatureMismatch = errors.New("signature does not match provided owner address")

	// ErrMigrationExists is returned when a migration record already exists
	// for the (destination account, asset) pair
	ErrMigrationExists = errors.New("asset has already been resurrected for this destination account")
)

// ValidationError reports malformed or missing user input, naming the field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SourceUnavailableError reports a non-success status from an upstream
// indexer or RPC. It aborts the scan that depended on the source.
type SourceUnavailableError struct {
	Source string
	Status int
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s request failed (%d)", e.Source, e.Status)
}

// VerificationError reports that an on-chain check did not confirm
// ownership, with a per-asset-kind reason
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return e.Reason
}
