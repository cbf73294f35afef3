package main

import (
	"unsafe"

	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"github.com/coinjecture/core/foundation/blockchain/hash"
)

// bytesAt views n bytes at p. A nil pointer is only valid with a zero length.
func bytesAt(p unsafe.Pointer, n uint32) ([]byte, bool) {
	if p == nil {
		return nil, n == 0
	}

	return unsafe.Slice((*byte)(p), n), true
}

// int64sAt views n int64 values at p.
func int64sAt(p unsafe.Pointer, n uint32) ([]int64, bool) {
	if p == nil {
		return nil, n == 0
	}

	return unsafe.Slice((*int64)(p), n), true
}

// uint32sAt views n uint32 values at p.
func uint32sAt(p unsafe.Pointer, n uint32) ([]uint32, bool) {
	if p == nil {
		return nil, n == 0
	}

	return unsafe.Slice((*uint32)(p), n), true
}

// sha256Hash backs the hash export.
func sha256Hash(input unsafe.Pointer, n uint32, outHash unsafe.Pointer) ffi.Result {
	if outHash == nil {
		return ffi.InvalidInput
	}

	data, ok := bytesAt(input, n)
	if !ok {
		return ffi.InvalidInput
	}

	out, _ := bytesAt(outHash, hash.Size)

	return ffi.Hash(data, out)
}

// merkleRoot backs the merkle export. The leaves are count packed 32 byte
// hashes.
func merkleRoot(leaves unsafe.Pointer, count uint32, outRoot unsafe.Pointer) ffi.Result {
	if outRoot == nil {
		return ffi.InvalidInput
	}

	if count > ffi.MaxMerkleLeaves {
		return ffi.OutOfMemory
	}

	data, ok := bytesAt(leaves, count*hash.Size)
	if !ok {
		return ffi.InvalidInput
	}

	out, _ := bytesAt(outRoot, hash.Size)

	return ffi.MerkleRoot(data, count, out)
}

// headerArgs carries the fields of a C header. ExtraData points at
// ExtraDataLen bytes.
type headerArgs struct {
	CodecVersion     uint32
	BlockIndex       uint64
	Timestamp        int64
	ParentHash       [32]byte
	MerkleRoot       [32]byte
	MinerAddress     [32]byte
	Commitment       [32]byte
	DifficultyTarget uint64
	Nonce            uint64
	ExtraData        unsafe.Pointer
	ExtraDataLen     uint32
}

// problemArgs carries the fields of a C problem. Elements points at
// ElementsLen values.
type problemArgs struct {
	ProblemType uint32
	Tier        uint32
	Elements    unsafe.Pointer
	ElementsLen uint32
	Target      int64
	Timestamp   int64
}

// solutionArgs carries the fields of a C solution. Indices points at
// IndicesLen values.
type solutionArgs struct {
	Indices    unsafe.Pointer
	IndicesLen uint32
	Timestamp  int64
}

// headerHash backs the header export.
func headerHash(h *headerArgs, outHash unsafe.Pointer) ffi.Result {
	if h == nil || outHash == nil {
		return ffi.InvalidInput
	}

	extra, ok := bytesAt(h.ExtraData, h.ExtraDataLen)
	if !ok {
		return ffi.InvalidInput
	}

	fh := ffi.Header{
		CodecVersion:     h.CodecVersion,
		BlockIndex:       h.BlockIndex,
		Timestamp:        h.Timestamp,
		ParentHash:       h.ParentHash,
		MerkleRoot:       h.MerkleRoot,
		MinerAddress:     h.MinerAddress,
		Commitment:       h.Commitment,
		DifficultyTarget: h.DifficultyTarget,
		Nonce:            h.Nonce,
		ExtraData:        extra,
	}

	out, _ := bytesAt(outHash, hash.Size)

	return ffi.HeaderHash(&fh, out)
}

// verifySubsetSum backs the verify export. The verdict is written only when
// the call succeeds. outOpsUsed may be nil.
func verifySubsetSum(p *problemArgs, s *solutionArgs, b *ffi.Budget, outValid *int32, outOpsUsed *uint64) ffi.Result {
	if p == nil || s == nil || b == nil || outValid == nil {
		return ffi.InvalidInput
	}

	elements, ok := int64sAt(p.Elements, p.ElementsLen)
	if !ok {
		return ffi.InvalidInput
	}

	indices, ok := uint32sAt(s.Indices, s.IndicesLen)
	if !ok {
		return ffi.InvalidInput
	}

	problem := ffi.Problem{
		ProblemType: p.ProblemType,
		Tier:        p.Tier,
		Elements:    elements,
		Target:      p.Target,
		Timestamp:   p.Timestamp,
	}

	solution := ffi.Solution{
		Indices:   indices,
		Timestamp: s.Timestamp,
	}

	var out ffi.VerifyOutput
	if res := ffi.Verify(&problem, &solution, b, &out); res != ffi.Ok {
		return res
	}

	*outValid = out.Valid
	if outOpsUsed != nil {
		*outOpsUsed = out.OpsUsed
	}

	return ffi.Ok
}
