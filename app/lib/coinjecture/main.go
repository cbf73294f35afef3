// This program builds the consensus core as a C shared library:
//
//	go build -buildmode=c-shared -o libcoinjecture.so ./app/lib/coinjecture
//
// Every export reports a result code. A NULL buffer is accepted only with a
// zero length. Buffers are read during the call and never retained.
package main

/*
#include <stdint.h>
#include <stddef.h>

typedef struct {
    uint32_t codec_version;
    uint64_t block_index;
    int64_t timestamp;
    uint8_t parent_hash[32];
    uint8_t merkle_root[32];
    uint8_t miner_address[32];
    uint8_t commitment[32];
    uint64_t difficulty_target;
    uint64_t nonce;
    uint32_t extra_data_len;
    const uint8_t *extra_data;
} BlockHeaderFFI;

typedef struct {
    uint32_t problem_type;
    uint32_t tier;
    const int64_t *elements;
    uint32_t elements_len;
    int64_t target;
    int64_t timestamp;
} SubsetSumProblemFFI;

typedef struct {
    const uint32_t *indices;
    uint32_t indices_len;
    int64_t timestamp;
} SubsetSumSolutionFFI;

typedef struct {
    uint64_t max_ops;
    uint64_t max_duration_ms;
    uint64_t max_memory_bytes;
} VerifyBudgetFFI;
*/
import "C"

import (
	"unsafe"

	"github.com/coinjecture/core/foundation/blockchain/ffi"
)

// version is handed out to every caller and lives for the whole process.
var version = C.CString(ffi.Version())

func main() {}

//export coinjecture_sha256_hash
func coinjecture_sha256_hash(input *C.uint8_t, inputLen C.uint32_t, outHash *C.uint8_t) C.uint32_t {
	return C.uint32_t(sha256Hash(unsafe.Pointer(input), uint32(inputLen), unsafe.Pointer(outHash)))
}

//export coinjecture_compute_header_hash
func coinjecture_compute_header_hash(h *C.BlockHeaderFFI, outHash *C.uint8_t) C.uint32_t {
	if h == nil {
		return C.uint32_t(headerHash(nil, unsafe.Pointer(outHash)))
	}

	args := headerArgs{
		CodecVersion:     uint32(h.codec_version),
		BlockIndex:       uint64(h.block_index),
		Timestamp:        int64(h.timestamp),
		ParentHash:       *(*[32]byte)(unsafe.Pointer(&h.parent_hash)),
		MerkleRoot:       *(*[32]byte)(unsafe.Pointer(&h.merkle_root)),
		MinerAddress:     *(*[32]byte)(unsafe.Pointer(&h.miner_address)),
		Commitment:       *(*[32]byte)(unsafe.Pointer(&h.commitment)),
		DifficultyTarget: uint64(h.difficulty_target),
		Nonce:            uint64(h.nonce),
		ExtraData:        unsafe.Pointer(h.extra_data),
		ExtraDataLen:     uint32(h.extra_data_len),
	}

	return C.uint32_t(headerHash(&args, unsafe.Pointer(outHash)))
}

//export coinjecture_compute_merkle_root
func coinjecture_compute_merkle_root(txHashes *C.uint8_t, txCount C.uint32_t, outRoot *C.uint8_t) C.uint32_t {
	return C.uint32_t(merkleRoot(unsafe.Pointer(txHashes), uint32(txCount), unsafe.Pointer(outRoot)))
}

//export coinjecture_verify_subset_sum
func coinjecture_verify_subset_sum(p *C.SubsetSumProblemFFI, s *C.SubsetSumSolutionFFI, b *C.VerifyBudgetFFI, outValid *C.int32_t, outOpsUsed *C.uint64_t) C.uint32_t {
	var pa *problemArgs
	if p != nil {
		pa = &problemArgs{
			ProblemType: uint32(p.problem_type),
			Tier:        uint32(p.tier),
			Elements:    unsafe.Pointer(p.elements),
			ElementsLen: uint32(p.elements_len),
			Target:      int64(p.target),
			Timestamp:   int64(p.timestamp),
		}
	}

	var sa *solutionArgs
	if s != nil {
		sa = &solutionArgs{
			Indices:    unsafe.Pointer(s.indices),
			IndicesLen: uint32(s.indices_len),
			Timestamp:  int64(s.timestamp),
		}
	}

	var ba *ffi.Budget
	if b != nil {
		ba = &ffi.Budget{
			MaxOps:         uint64(b.max_ops),
			MaxDurationMs:  uint64(b.max_duration_ms),
			MaxMemoryBytes: uint64(b.max_memory_bytes),
		}
	}

	res := verifySubsetSum(pa, sa, ba, (*int32)(unsafe.Pointer(outValid)), (*uint64)(unsafe.Pointer(outOpsUsed)))

	return C.uint32_t(res)
}

//export coinjecture_version
func coinjecture_version() *C.char {
	return version
}

//export coinjecture_codec_version
func coinjecture_codec_version() C.uint32_t {
	return C.uint32_t(ffi.CodecVersion())
}
