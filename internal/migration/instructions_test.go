package migration_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/migration"
)

const testAssetID = "0123456789abcdef0123456789abcdef"

func TestNewInitializeMigrationInstruction(t *testing.T) {
	instruction := migration.NewInitializeMigrationInstruction(testProgramID, "record", testAccount, testAssetID)

	assert.Equal(t, testProgramID, instruction.ProgramID)

	require.Len(t, instruction.Accounts, 3)
	assert.Equal(t, migration.AccountMeta{Pubkey: "record", IsWritable: true}, instruction.Accounts[0])
	assert.Equal(t, migration.AccountMeta{Pubkey: testAccount, IsSigner: true, IsWritable: true}, instruction.Accounts[1])
	assert.Equal(t, migration.AccountMeta{Pubkey: migration.SystemProgramID}, instruction.Accounts[2])

	// Discriminator, u32 little-endian length, then the raw asset id bytes
	require.Len(t, instruction.Data, 8+4+len(testAssetID))
	assert.Equal(t, []byte{45, 80, 44, 197, 254, 105, 131, 109}, instruction.Data[:8])
	assert.Equal(t, uint32(len(testAssetID)), binary.LittleEndian.Uint32(instruction.Data[8:12]))
	assert.Equal(t, testAssetID, string(instruction.Data[12:]))
}

func TestNewCompleteMigrationInstruction(t *testing.T) {
	instruction := migration.NewCompleteMigrationInstruction(testProgramID, "record", testAccount)

	assert.Equal(t, testProgramID, instruction.ProgramID)

	require.Len(t, instruction.Accounts, 2)
	assert.Equal(t, migration.AccountMeta{Pubkey: "record", IsWritable: true}, instruction.Accounts[0])
	assert.Equal(t, migration.AccountMeta{Pubkey: testAccount, IsSigner: true, IsWritable: true}, instruction.Accounts[1])

	assert.Equal(t, []byte{160, 78, 74, 46, 91, 133, 203, 44}, instruction.Data)
}

func TestNewMemoInstruction(t *testing.T) {
	assetKey := "eip155:1:erc20:0xdac17f958d2ee523a2206206994597c13d831ec7:*:0xd8da6bf26964af9d7eed9e03e53415d37aa96045"

	instruction := migration.NewMemoInstruction(testMemoProgramID, assetKey)

	assert.Equal(t, testMemoProgramID, instruction.ProgramID)
	assert.Empty(t, instruction.Accounts)
	assert.Equal(t, "graveshift:"+assetKey, string(instruction.Data))
}
