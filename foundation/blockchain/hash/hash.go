// Package hash provides the hashing primitive every consensus value is
// built on. The algorithm is SHA-256 with no padding or truncation so any
// independent implementation produces the same 32 bytes.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the number of bytes in a hash.
const Size = 32

// Hash represents a 32 byte SHA-256 digest.
type Hash [Size]byte

// ZeroHash represents a hash code of zeros. It is the merkle root of a block
// with no transactions and the parent hash of the genesis block.
var ZeroHash Hash

// =============================================================================

// Sum returns the SHA-256 digest of the data. It is defined for every input,
// including an empty or nil slice.
func Sum(data []byte) Hash {
	return sha256.Sum256(data)
}

// Concat returns the hash of the 64 byte concatenation of a and b.
func Concat(a, b Hash) Hash {
	var buf [2 * Size]byte
	copy(buf[:Size], a[:])
	copy(buf[Size:], b[:])

	return sha256.Sum256(buf[:])
}

// EpochSalt binds a parent hash and a block index into a single value used
// to salt puzzle commitments. Different parents or different indexes always
// produce different salts.
func EpochSalt(parent Hash, blockIndex uint64) Hash {
	var buf [Size + 8]byte
	copy(buf[:Size], parent[:])
	binary.LittleEndian.PutUint64(buf[Size:], blockIndex)

	return sha256.Sum256(buf[:])
}

// FromBytes converts a slice into a hash. The slice must be exactly 32 bytes.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, fmt.Errorf("invalid hash length %d, exp %d", len(b), Size)
	}

	copy(h[:], b)
	return h, nil
}

// FromHex parses a 0x prefixed hex string into a hash.
func FromHex(s string) (Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("decoding hash %q: %w", s, err)
	}

	return FromBytes(b)
}

// =============================================================================

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Hex converts the hash to a 0x prefixed hex encoded string.
func (h Hash) Hex() string {
	return hexutil.Encode(h[:])
}

// String implements the fmt.Stringer interface.
func (h Hash) String() string {
	return h.Hex()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface. Only a
// 0x prefixed string holding exactly 32 bytes is accepted.
func (h *Hash) UnmarshalText(text []byte) error {
	v, err := FromHex(string(text))
	if err != nil {
		return err
	}

	*h = v
	return nil
}
