// Package ffi provides the flat call surface shared with foreign callers.
// Every call takes fixed width scalars and caller owned buffers, reports a
// Result code and never retains a buffer past its return. A panic inside a
// call is reported as Internal.
package ffi

import (
	"errors"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
)

// version is reported by Version.
const version = "4.5.0"

// MaxMerkleLeaves is the largest number of leaves a merkle call accepts.
const MaxMerkleLeaves = 1 << 20

// Result is the code every call reports.
type Result uint32

// Set of result codes.
const (
	Ok                 Result = 0
	InvalidInput       Result = 1
	OutOfMemory        Result = 2
	VerificationFailed Result = 3
	Encoding           Result = 4
	Internal           Result = 5
)

// String implements the fmt.Stringer interface.
func (r Result) String() string {
	switch r {
	case Ok:
		return "OK"
	case InvalidInput:
		return "INVALID_INPUT"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case VerificationFailed:
		return "VERIFICATION_FAILED"
	case Encoding:
		return "ENCODING"
	case Internal:
		return "INTERNAL"
	}

	return fmt.Sprintf("RESULT(%d)", uint32(r))
}

// Err converts a non Ok result into an error.
func (r Result) Err() error {
	if r == Ok {
		return nil
	}

	return fmt.Errorf("ffi: %s", r)
}

// =============================================================================

// Header is the flat form of a block header.
type Header struct {
	CodecVersion     uint32
	BlockIndex       uint64
	Timestamp        int64
	ParentHash       [32]byte
	MerkleRoot       [32]byte
	MinerAddress     [32]byte
	Commitment       [32]byte
	DifficultyTarget uint64
	Nonce            uint64
	ExtraData        []byte
}

// Problem is the flat form of a subset-sum problem.
type Problem struct {
	ProblemType uint32
	Tier        uint32
	Elements    []int64
	Target      int64
	Timestamp   int64
}

// Solution is the flat form of a subset-sum solution.
type Solution struct {
	Indices   []uint32
	Timestamp int64
}

// Budget is the flat form of a verification budget.
type Budget struct {
	MaxOps         uint64
	MaxDurationMs  uint64
	MaxMemoryBytes uint64
}

// VerifyOutput receives the verdict of a verify call. Valid is 1 for a valid
// solution and 0 otherwise.
type VerifyOutput struct {
	Valid   int32
	OpsUsed uint64
}

// =============================================================================

// Hash writes the hash of input into out, which must be exactly 32 bytes.
func Hash(input []byte, out []byte) (res Result) {
	defer recoverInternal(&res)

	if len(out) != hash.Size {
		return InvalidInput
	}

	h := hash.Sum(input)
	copy(out, h[:])

	return Ok
}

// HeaderHash writes the header hash into out, which must be exactly 32
// bytes. A header that cannot be canonically encoded reports Encoding.
func HeaderHash(h *Header, out []byte) (res Result) {
	defer recoverInternal(&res)

	if h == nil || len(out) != hash.Size {
		return InvalidInput
	}

	if h.CodecVersion > 0xff {
		return Encoding
	}

	bh := header.BlockHeader{
		CodecVersion:     uint8(h.CodecVersion),
		BlockIndex:       h.BlockIndex,
		Timestamp:        h.Timestamp,
		ParentHash:       h.ParentHash,
		MerkleRoot:       h.MerkleRoot,
		MinerAddress:     h.MinerAddress,
		Commitment:       h.Commitment,
		DifficultyTarget: h.DifficultyTarget,
		Nonce:            h.Nonce,
		ExtraData:        h.ExtraData,
	}

	hh, err := header.Hash(bh)
	if err != nil {
		return Encoding
	}

	copy(out, hh[:])
	return Ok
}

// MerkleRoot writes the merkle root of count packed 32 byte leaves into out,
// which must be exactly 32 bytes. The leaves buffer must hold exactly
// count*32 bytes.
func MerkleRoot(leaves []byte, count uint32, out []byte) (res Result) {
	defer recoverInternal(&res)

	if len(out) != hash.Size {
		return InvalidInput
	}

	if count > MaxMerkleLeaves {
		return OutOfMemory
	}

	if uint64(len(leaves)) != uint64(count)*hash.Size {
		return InvalidInput
	}

	hs := make([]hash.Hash, count)
	for i := range hs {
		copy(hs[i][:], leaves[i*hash.Size:])
	}

	root := merkle.Root(hs)
	copy(out, root[:])

	return Ok
}

// Verify checks the solution against the problem within the budget and
// writes the verdict into out. An invalid solution is a successful call
// with out.Valid set to 0. Malformed problems report InvalidInput and an
// exhausted budget reports VerificationFailed.
func Verify(p *Problem, s *Solution, b *Budget, out *VerifyOutput) (res Result) {
	defer recoverInternal(&res)

	if p == nil || s == nil || b == nil || out == nil {
		return InvalidInput
	}

	if p.ProblemType > 0xff || p.Tier > 0xff || len(p.Elements) == 0 {
		return InvalidInput
	}

	problem := verifier.Problem{
		Type:      verifier.ProblemType(p.ProblemType),
		Tier:      verifier.HardwareTier(p.Tier),
		Elements:  p.Elements,
		Target:    p.Target,
		Timestamp: p.Timestamp,
	}

	solution := verifier.Solution{
		Indices:   s.Indices,
		Timestamp: s.Timestamp,
	}

	budget := verifier.Budget{
		MaxOps:         b.MaxOps,
		MaxDurationMs:  b.MaxDurationMs,
		MaxMemoryBytes: b.MaxMemoryBytes,
	}

	vr, err := verifier.Verify(problem, solution, budget)
	if err != nil {
		return resultOf(err)
	}

	out.Valid = 0
	if vr.Valid {
		out.Valid = 1
	}
	out.OpsUsed = vr.OpsUsed

	return Ok
}

// Version returns the version of the core library.
func Version() string {
	return version
}

// CodecVersion returns the canonical header codec version.
func CodecVersion() uint32 {
	return header.CodecVersion
}

// =============================================================================

// resultOf maps a core error onto a result code.
func resultOf(err error) Result {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, verifier.ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, verifier.ErrBudgetExceeded):
		return VerificationFailed
	case errors.Is(err, header.ErrInvalidHeader), errors.Is(err, header.ErrDecode):
		return Encoding
	}

	return Internal
}

// recoverInternal converts a panic into the Internal result.
func recoverInternal(res *Result) {
	if r := recover(); r != nil {
		*res = Internal
	}
}
