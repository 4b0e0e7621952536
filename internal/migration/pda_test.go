package migration_test

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graveshift/graveshift/internal/migration"
)

const (
	testAccount       = "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g"
	testProgramID     = "6hJAy23ndpQii5QzVmXTjGjgmDPhhPEQNvrd5o9S8JWF"
	testMemoProgramID = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	testBlockhash     = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"
)

func TestDecodePublicKey(t *testing.T) {
	decoded, err := migration.DecodePublicKey(testAccount)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	_, err = migration.DecodePublicKey("not-base58-0OIl")
	require.Error(t, err)

	// Valid base58 of the wrong length
	_, err = migration.DecodePublicKey(base58.Encode([]byte("short")))
	require.Error(t, err)
}

func TestDeriveMigrationRecordAddress(t *testing.T) {
	accountBytes, err := migration.DecodePublicKey(testAccount)
	require.NoError(t, err)
	programBytes, err := migration.DecodePublicKey(testProgramID)
	require.NoError(t, err)

	address, bump, err := migration.DeriveMigrationRecordAddress(accountBytes, "0123456789abcdef0123456789abcdef", programBytes)
	require.NoError(t, err)

	decoded, err := base58.Decode(address)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
	assert.GreaterOrEqual(t, bump, uint8(1))

	// Deterministic for the same (account, assetId) tuple
	again, againBump, err := migration.DeriveMigrationRecordAddress(accountBytes, "0123456789abcdef0123456789abcdef", programBytes)
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Equal(t, bump, againBump)

	// Each input changes the derived record
	otherAsset, _, err := migration.DeriveMigrationRecordAddress(accountBytes, "ffffffffffffffffffffffffffffffff", programBytes)
	require.NoError(t, err)
	assert.NotEqual(t, address, otherAsset)

	otherAccountBytes, err := migration.DecodePublicKey(testProgramID)
	require.NoError(t, err)
	otherAccount, _, err := migration.DeriveMigrationRecordAddress(otherAccountBytes, "0123456789abcdef0123456789abcdef", programBytes)
	require.NoError(t, err)
	assert.NotEqual(t, address, otherAccount)
}
