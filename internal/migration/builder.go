package migration

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/providers/solana"
)

// Builder assembles the unsigned migration transaction for a verified asset
type Builder interface {
	// Build derives the migration record address, refuses if the record
	// already exists, and returns a base64 unsigned transaction wiring
	// initialize, complete, and memo instructions
	Build(ctx context.Context, account string, assetKey, assetID string) (*domain.MigrationTransaction, error)
}

type builder struct {
	rpc           solana.RPCClient
	clock         adapter.Clock
	programID     string
	memoProgramID string
}

// NewBuilder creates a migration transaction builder against the given
// program ids
func NewBuilder(rpc solana.RPCClient, clock adapter.Clock, programID, memoProgramID string) Builder {
	return &builder{
		rpc:           rpc,
		clock:         clock,
		programID:     programID,
		memoProgramID: memoProgramID,
	}
}

// Build is strictly sequential: derive, existence-check, fetch blockhash,
// assemble. No step is retried; the caller re-submits the whole request if
// a transient failure occurs.
func (b *builder) Build(ctx context.Context, account string, assetKey, assetID string) (*domain.MigrationTransaction, error) {
	accountBytes, err := DecodePublicKey(account)
	if err != nil {
		return nil, domain.NewValidationError("account", "must be a base58 Solana public key")
	}

	programBytes, err := DecodePublicKey(b.programID)
	if err != nil {
		return nil, fmt.Errorf("invalid migration program id: %w", err)
	}

	recordAddress, bump, err := DeriveMigrationRecordAddress(accountBytes, assetID, programBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to derive migration record address: %w", err)
	}

	existing, err := b.rpc.GetAccountInfo(ctx, recordAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to check migration record: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrMigrationExists
	}

	blockhash, err := b.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent blockhash: %w", err)
	}

	instructions := []Instruction{
		NewInitializeMigrationInstruction(b.programID, recordAddress, account, assetID),
		NewCompleteMigrationInstruction(b.programID, recordAddress, account),
		NewMemoInstruction(b.memoProgramID, assetKey),
	}

	wire, err := SerializeUnsignedTransaction(account, instructions, blockhash.Blockhash)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	logger.InfoCtx(ctx, "migration transaction built",
		zap.String("record_address", recordAddress),
		zap.Uint8("bump", bump),
		zap.String("asset_id", assetID))

	return &domain.MigrationTransaction{
		Base64:        base64.StdEncoding.EncodeToString(wire),
		RecordAddress: recordAddress,
		AssetID:       assetID,
		AssetKey:      assetKey,
		Blockhash:     blockhash.Blockhash,
		BuiltAt:       b.clock.Now(),
	}, nil
}
