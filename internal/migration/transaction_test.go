package migration_test

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/migration"
)

func migrationInstructions(t *testing.T) (string, []migration.Instruction) {
	t.Helper()

	accountBytes, err := migration.DecodePublicKey(testAccount)
	require.NoError(t, err)
	programBytes, err := migration.DecodePublicKey(testProgramID)
	require.NoError(t, err)

	recordAddress, _, err := migration.DeriveMigrationRecordAddress(accountBytes, testAssetID, programBytes)
	require.NoError(t, err)

	return recordAddress, []migration.Instruction{
		migration.NewInitializeMigrationInstruction(testProgramID, recordAddress, testAccount, testAssetID),
		migration.NewCompleteMigrationInstruction(testProgramID, recordAddress, testAccount),
		migration.NewMemoInstruction(testMemoProgramID, "graveshift-key"),
	}
}

func TestSerializeUnsignedTransaction(t *testing.T) {
	recordAddress, instructions := migrationInstructions(t)

	wire, err := migration.SerializeUnsignedTransaction(testAccount, instructions, testBlockhash)
	require.NoError(t, err)

	// One required signer, with an empty 64-byte signature slot
	require.Greater(t, len(wire), 65)
	assert.Equal(t, byte(1), wire[0])
	assert.Equal(t, make([]byte, 64), wire[1:65])

	message := wire[65:]

	// Header: 1 required signature, 0 readonly signed, 3 readonly unsigned
	assert.Equal(t, byte(1), message[0])
	assert.Equal(t, byte(0), message[1])
	assert.Equal(t, byte(3), message[2])

	// Account table: fee payer, then the writable record, then readonly
	// accounts ordered by address
	require.Equal(t, byte(5), message[3])
	keys := make([]string, 5)
	offset := 4
	for i := range keys {
		keys[i] = base58.Encode(message[offset : offset+32])
		offset += 32
	}
	assert.Equal(t, []string{
		testAccount,
		recordAddress,
		migration.SystemProgramID,
		testProgramID,
		testMemoProgramID,
	}, keys)

	blockhash := base58.Encode(message[offset : offset+32])
	assert.Equal(t, testBlockhash, blockhash)
	offset += 32

	// Three compiled instructions
	require.Equal(t, byte(3), message[offset])
	offset++

	// initialize: migration program over [record, account, system]
	assert.Equal(t, byte(3), message[offset])
	require.Equal(t, byte(3), message[offset+1])
	assert.Equal(t, []byte{1, 0, 2}, message[offset+2:offset+5])
	offset += 5
	dataLen := int(message[offset])
	assert.Equal(t, 8+4+len(testAssetID), dataLen)
	offset += 1 + dataLen

	// complete: migration program over [record, account]
	assert.Equal(t, byte(3), message[offset])
	require.Equal(t, byte(2), message[offset+1])
	assert.Equal(t, []byte{1, 0}, message[offset+2:offset+4])
	offset += 4
	dataLen = int(message[offset])
	assert.Equal(t, 8, dataLen)
	offset += 1 + dataLen

	// memo: no accounts, prefixed key as data
	assert.Equal(t, byte(4), message[offset])
	require.Equal(t, byte(0), message[offset+1])
	offset += 2
	dataLen = int(message[offset])
	offset++
	assert.Equal(t, "graveshift:graveshift-key", string(message[offset:offset+dataLen]))
	offset += dataLen

	assert.Equal(t, len(message), offset)
}

func TestSerializeUnsignedTransaction_MergesDuplicateAccounts(t *testing.T) {
	_, instructions := migrationInstructions(t)

	// The fee payer also appears as a signer inside the instructions; the
	// compiled table must carry it once
	wire, err := migration.SerializeUnsignedTransaction(testAccount, instructions, testBlockhash)
	require.NoError(t, err)
	assert.Equal(t, byte(1), wire[0])
}

func TestSerializeUnsignedTransaction_InvalidBlockhash(t *testing.T) {
	_, instructions := migrationInstructions(t)

	_, err := migration.SerializeUnsignedTransaction(testAccount, instructions, "tooshort")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blockhash")
}

func TestSerializeUnsignedTransaction_LongDataUsesMultiByteLength(t *testing.T) {
	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(i)
	}

	instructions := []migration.Instruction{
		{
			ProgramID: testMemoProgramID,
			Data:      data,
		},
	}

	wire, err := migration.SerializeUnsignedTransaction(testAccount, instructions, testBlockhash)
	require.NoError(t, err)

	// Data length 200 takes two shortvec bytes: 0xC8 0x01
	message := wire[65:]
	tail := message[len(message)-len(data)-2:]
	assert.Equal(t, byte(0xc8), tail[0])
	assert.Equal(t, byte(0x01), tail[1])
	assert.Equal(t, data, tail[2:])
}
