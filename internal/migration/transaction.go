package migration

import (
	"fmt"
	"sort"

	"github.com/mr-tron/base58"
)

// compiledKey is one entry of the compiled account table
type compiledKey struct {
	pubkey     string
	isSigner   bool
	isWritable bool
}

// SerializeUnsignedTransaction assembles a legacy Solana transaction wire
// format with an empty signature slot for each required signer. The fee
// payer signs client-side after the caller decodes the payload.
func SerializeUnsignedTransaction(feePayer string, instructions []Instruction, recentBlockhash string) ([]byte, error) {
	keys, err := compileKeys(feePayer, instructions)
	if err != nil {
		return nil, err
	}

	message, err := serializeMessage(keys, instructions, recentBlockhash)
	if err != nil {
		return nil, err
	}

	numRequiredSignatures := 0
	for _, key := range keys {
		if key.isSigner {
			numRequiredSignatures++
		}
	}

	// Wire format: signature count, zeroed 64-byte slot per signer, message
	wire := appendShortvecLength(nil, numRequiredSignatures)
	wire = append(wire, make([]byte, 64*numRequiredSignatures)...)
	wire = append(wire, message...)
	return wire, nil
}

// compileKeys builds the ordered account table: fee payer first, then
// writable signers, readonly signers, writable non-signers, and readonly
// non-signers, with ties broken by address
func compileKeys(feePayer string, instructions []Instruction) ([]compiledKey, error) {
	byPubkey := make(map[string]*compiledKey)
	order := []string{}

	upsert := func(pubkey string, isSigner, isWritable bool) {
		existing, ok := byPubkey[pubkey]
		if !ok {
			byPubkey[pubkey] = &compiledKey{pubkey: pubkey, isSigner: isSigner, isWritable: isWritable}
			order = append(order, pubkey)
			return
		}
		existing.isSigner = existing.isSigner || isSigner
		existing.isWritable = existing.isWritable || isWritable
	}

	upsert(feePayer, true, true)
	for _, instruction := range instructions {
		for _, account := range instruction.Accounts {
			upsert(account.Pubkey, account.IsSigner, account.IsWritable)
		}
		upsert(instruction.ProgramID, false, false)
	}

	keys := make([]compiledKey, 0, len(order))
	for _, pubkey := range order {
		keys = append(keys, *byPubkey[pubkey])
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.pubkey == feePayer || b.pubkey == feePayer {
			return a.pubkey == feePayer
		}
		if a.isSigner != b.isSigner {
			return a.isSigner
		}
		if a.isWritable != b.isWritable {
			return a.isWritable
		}
		return a.pubkey < b.pubkey
	})

	if len(keys) > 255 {
		return nil, fmt.Errorf("too many account keys: %d", len(keys))
	}
	return keys, nil
}

func serializeMessage(keys []compiledKey, instructions []Instruction, recentBlockhash string) ([]byte, error) {
	numRequiredSignatures := 0
	numReadonlySigned := 0
	numReadonlyUnsigned := 0
	for _, key := range keys {
		if key.isSigner {
			numRequiredSignatures++
			if !key.isWritable {
				numReadonlySigned++
			}
		} else if !key.isWritable {
			numReadonlyUnsigned++
		}
	}

	keyIndex := make(map[string]int, len(keys))
	for i, key := range keys {
		keyIndex[key.pubkey] = i
	}

	blockhash, err := base58.Decode(recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash: %w", err)
	}
	if len(blockhash) != 32 {
		return nil, fmt.Errorf("blockhash must be 32 bytes, got %d", len(blockhash))
	}

	message := []byte{
		byte(numRequiredSignatures),
		byte(numReadonlySigned),
		byte(numReadonlyUnsigned),
	}

	message = appendShortvecLength(message, len(keys))
	for _, key := range keys {
		decoded, err := DecodePublicKey(key.pubkey)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", key.pubkey, err)
		}
		message = append(message, decoded...)
	}

	message = append(message, blockhash...)

	message = appendShortvecLength(message, len(instructions))
	for _, instruction := range instructions {
		programIndex, ok := keyIndex[instruction.ProgramID]
		if !ok {
			return nil, fmt.Errorf("program %s missing from account table", instruction.ProgramID)
		}
		message = append(message, byte(programIndex))

		message = appendShortvecLength(message, len(instruction.Accounts))
		for _, account := range instruction.Accounts {
			index, ok := keyIndex[account.Pubkey]
			if !ok {
				return nil, fmt.Errorf("account %s missing from account table", account.Pubkey)
			}
			message = append(message, byte(index))
		}

		message = appendShortvecLength(message, len(instruction.Data))
		message = append(message, instruction.Data...)
	}

	return message, nil
}

// appendShortvecLength appends a compact-u16 length in the Solana shortvec
// encoding: 7 bits per byte, low bits first, high bit as continuation flag
func appendShortvecLength(buf []byte, length int) []byte {
	remaining := length
	for {
		chunk := byte(remaining & 0x7f)
		remaining >>= 7
		if remaining == 0 {
			return append(buf, chunk)
		}
		buf = append(buf, chunk|0x80)
	}
}
