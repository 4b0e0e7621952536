package migration

import "encoding/binary"

// SystemProgramID is the Solana system program, required by the record
// initialization to fund the new account
const SystemProgramID = "11111111111111111111111111111111"

// Anchor discriminators of the migration program's instructions
var (
	initializeMigrationDiscriminator = []byte{45, 80, 44, 197, 254, 105, 131, 109}
	completeMigrationDiscriminator   = []byte{160, 78, 74, 46, 91, 133, 203, 44}
)

const memoPrefix = "graveshift:"

// AccountMeta describes one account referenced by an instruction
type AccountMeta struct {
	Pubkey     string
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single Solana program invocation
type Instruction struct {
	ProgramID string
	Accounts  []AccountMeta
	Data      []byte
}

// NewInitializeMigrationInstruction creates the record account and stores
// the asset id in it
func NewInitializeMigrationInstruction(programID, recordAddress, account, assetID string) Instruction {
	data := make([]byte, 0, len(initializeMigrationDiscriminator)+4+len(assetID))
	data = append(data, initializeMigrationDiscriminator...)
	data = append(data, encodeAnchorString(assetID)...)

	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{Pubkey: recordAddress, IsWritable: true},
			{Pubkey: account, IsSigner: true, IsWritable: true},
			{Pubkey: SystemProgramID},
		},
		Data: data,
	}
}

// NewCompleteMigrationInstruction finalizes the record in the same
// transaction
func NewCompleteMigrationInstruction(programID, recordAddress, account string) Instruction {
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{Pubkey: recordAddress, IsWritable: true},
			{Pubkey: account, IsSigner: true, IsWritable: true},
		},
		Data: completeMigrationDiscriminator,
	}
}

// NewMemoInstruction writes the full asset key into the transaction for
// human-readable provenance
func NewMemoInstruction(memoProgramID, assetKey string) Instruction {
	return Instruction{
		ProgramID: memoProgramID,
		Data:      []byte(memoPrefix + assetKey),
	}
}

// encodeAnchorString encodes a string the way Anchor deserializes it: a
// little-endian u32 length prefix followed by the raw bytes
func encodeAnchorString(value string) []byte {
	encoded := make([]byte, 4+len(value))
	binary.LittleEndian.PutUint32(encoded, uint32(len(value)))
	copy(encoded[4:], value)
	return encoded
}
