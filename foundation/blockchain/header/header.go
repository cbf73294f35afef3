// Package header defines the block header and its canonical binary encoding.
// The canonical encoding is the only form that participates in consensus:
// the header hash is the hash of the encoded bytes.
package header

import (
	"errors"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
)

// Set of codec constants.
const (
	CodecVersion = 1   // Only recognized codec version.
	MaxExtraData = 256 // Maximum number of extra data bytes.
	PrefixSize   = 165 // Number of bytes before the extra data.
	MaxSize      = PrefixSize + MaxExtraData
)

// Set of frozen genesis constants.
const (
	GenesisTimestamp  = 1609459200
	GenesisDifficulty = 1000
	GenesisNonce      = 0
)

// Set of error variables for header handling.
var (
	ErrDecode        = errors.New("header decode")
	ErrInvalidHeader = errors.New("invalid header")
)

// =============================================================================

// BlockHeader represents the consensus fields of a block.
type BlockHeader struct {
	CodecVersion     uint8     // Version of the canonical encoding.
	BlockIndex       uint64    // Position of the block in the chain, 0 for genesis.
	Timestamp        int64     // Seconds since the unix epoch.
	ParentHash       hash.Hash // Header hash of the preceding block.
	MerkleRoot       hash.Hash // Merkle root over the block's transaction hashes.
	MinerAddress     hash.Hash // Address of the miner.
	Commitment       hash.Hash // Opaque puzzle commitment.
	DifficultyTarget uint64    // Difficulty the block was produced against.
	Nonce            uint64    // Value identified by the block producer.
	ExtraData        []byte    // Bounded free form data.
}

// Genesis returns the frozen genesis header.
func Genesis() BlockHeader {
	return BlockHeader{
		CodecVersion:     CodecVersion,
		BlockIndex:       0,
		Timestamp:        GenesisTimestamp,
		DifficultyTarget: GenesisDifficulty,
		Nonce:            GenesisNonce,
	}
}

// Validate checks the header invariants.
func (h BlockHeader) Validate() error {
	if h.CodecVersion != CodecVersion {
		return fmt.Errorf("%w: unknown codec version %d", ErrInvalidHeader, h.CodecVersion)
	}

	if len(h.ExtraData) > MaxExtraData {
		return fmt.Errorf("%w: extra data length %d exceeds %d", ErrInvalidHeader, len(h.ExtraData), MaxExtraData)
	}

	if h.BlockIndex == 0 {
		switch {
		case h.Timestamp != GenesisTimestamp:
			return fmt.Errorf("%w: genesis timestamp %d, exp %d", ErrInvalidHeader, h.Timestamp, GenesisTimestamp)
		case h.DifficultyTarget != GenesisDifficulty:
			return fmt.Errorf("%w: genesis difficulty %d, exp %d", ErrInvalidHeader, h.DifficultyTarget, GenesisDifficulty)
		case h.Nonce != GenesisNonce:
			return fmt.Errorf("%w: genesis nonce %d, exp %d", ErrInvalidHeader, h.Nonce, GenesisNonce)
		}
	}

	return nil
}

// IsGenesis reports whether the header is at block index 0.
func (h BlockHeader) IsGenesis() bool {
	return h.BlockIndex == 0
}

// Hash returns the header hash.
func (h BlockHeader) Hash() (hash.Hash, error) {
	return Hash(h)
}

// WithNonce returns a copy of the header with the specified nonce.
func (h BlockHeader) WithNonce(nonce uint64) BlockHeader {
	nh := h.clone()
	nh.Nonce = nonce
	return nh
}

// WithExtraData returns a copy of the header carrying a copy of the
// specified extra data.
func (h BlockHeader) WithExtraData(data []byte) BlockHeader {
	nh := h.clone()
	nh.ExtraData = copyBytes(data)
	return nh
}

// clone copies the header so the new value shares no memory with h.
func (h BlockHeader) clone() BlockHeader {
	nh := h
	nh.ExtraData = copyBytes(h.ExtraData)
	return nh
}

func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// =============================================================================

// Hash returns the header hash, which is the hash of the canonical encoding.
func Hash(h BlockHeader) (hash.Hash, error) {
	data, err := Encode(h)
	if err != nil {
		return hash.Hash{}, err
	}

	return hash.Sum(data), nil
}
