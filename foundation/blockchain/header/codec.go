package header

import (
	"encoding/binary"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
)

// Field offsets in the canonical encoding. Every scalar is little endian.
const (
	offVersion    = 0
	offIndex      = 1
	offTimestamp  = 9
	offParent     = 17
	offMerkle     = 49
	offMiner      = 81
	offCommitment = 113
	offDifficulty = 145
	offNonce      = 153
	offExtraLen   = 161
)

// EncodedLen returns the number of bytes the canonical encoding of the
// header occupies.
func (h BlockHeader) EncodedLen() int {
	return PrefixSize + len(h.ExtraData)
}

// Encode validates the header and returns its canonical encoding.
func Encode(h BlockHeader) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	b := make([]byte, h.EncodedLen())

	b[offVersion] = h.CodecVersion
	binary.LittleEndian.PutUint64(b[offIndex:], h.BlockIndex)
	binary.LittleEndian.PutUint64(b[offTimestamp:], uint64(h.Timestamp))
	copy(b[offParent:], h.ParentHash[:])
	copy(b[offMerkle:], h.MerkleRoot[:])
	copy(b[offMiner:], h.MinerAddress[:])
	copy(b[offCommitment:], h.Commitment[:])
	binary.LittleEndian.PutUint64(b[offDifficulty:], h.DifficultyTarget)
	binary.LittleEndian.PutUint64(b[offNonce:], h.Nonce)
	binary.LittleEndian.PutUint32(b[offExtraLen:], uint32(len(h.ExtraData)))
	copy(b[PrefixSize:], h.ExtraData)

	return b, nil
}

// Decode parses a canonical encoding. Any input that is not exactly the
// encoding of a valid header is rejected with an error wrapping ErrDecode.
func Decode(b []byte) (BlockHeader, error) {
	if len(b) < PrefixSize {
		return BlockHeader{}, fmt.Errorf("%w: truncated header, got %d bytes, need at least %d", ErrDecode, len(b), PrefixSize)
	}

	if v := b[offVersion]; v != CodecVersion {
		return BlockHeader{}, fmt.Errorf("%w: unknown codec version %d", ErrDecode, v)
	}

	// The declared length is checked before anything is allocated for it.
	extraLen := binary.LittleEndian.Uint32(b[offExtraLen:])
	if extraLen > MaxExtraData {
		return BlockHeader{}, fmt.Errorf("%w: declared extra data length %d exceeds %d", ErrDecode, extraLen, MaxExtraData)
	}

	if remaining := len(b) - PrefixSize; int(extraLen) != remaining {
		return BlockHeader{}, fmt.Errorf("%w: declared extra data length %d, remaining bytes %d", ErrDecode, extraLen, remaining)
	}

	h := BlockHeader{
		CodecVersion:     b[offVersion],
		BlockIndex:       binary.LittleEndian.Uint64(b[offIndex:]),
		Timestamp:        int64(binary.LittleEndian.Uint64(b[offTimestamp:])),
		ParentHash:       hash.Hash(b[offParent : offParent+hash.Size]),
		MerkleRoot:       hash.Hash(b[offMerkle : offMerkle+hash.Size]),
		MinerAddress:     hash.Hash(b[offMiner : offMiner+hash.Size]),
		Commitment:       hash.Hash(b[offCommitment : offCommitment+hash.Size]),
		DifficultyTarget: binary.LittleEndian.Uint64(b[offDifficulty:]),
		Nonce:            binary.LittleEndian.Uint64(b[offNonce:]),
		ExtraData:        copyBytes(b[PrefixSize:]),
	}

	if err := h.Validate(); err != nil {
		return BlockHeader{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return h, nil
}
