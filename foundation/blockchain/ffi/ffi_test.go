package ffi_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"github.com/stretchr/testify/require"
)

func hexOf(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func TestHash(t *testing.T) {
	out := make([]byte, 32)

	require.Equal(t, ffi.Ok, ffi.Hash([]byte("COINjecture"), out))
	require.Equal(t, "0xbeb92758be066c61bc9af742fe707d7dd252c3e22c1bc1dd5028fcb454bfc63e", hexOf(out))

	require.Equal(t, ffi.Ok, ffi.Hash(nil, out))
	require.Equal(t, "0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hexOf(out))

	require.Equal(t, ffi.InvalidInput, ffi.Hash([]byte("x"), nil))
	require.Equal(t, ffi.InvalidInput, ffi.Hash([]byte("x"), make([]byte, 31)))
	require.Equal(t, ffi.InvalidInput, ffi.Hash([]byte("x"), make([]byte, 33)))
}

func TestHeaderHash(t *testing.T) {
	out := make([]byte, 32)

	genesis := ffi.Header{
		CodecVersion:     1,
		Timestamp:        1609459200,
		DifficultyTarget: 1000,
	}

	require.Equal(t, ffi.Ok, ffi.HeaderHash(&genesis, out))
	require.Equal(t, "0x013cc06c55b2c30c19c38d57a625275f029ffb7e21844ee4b686152ed20db649", hexOf(out))

	require.Equal(t, ffi.InvalidInput, ffi.HeaderHash(nil, out))
	require.Equal(t, ffi.InvalidInput, ffi.HeaderHash(&genesis, make([]byte, 16)))

	bad := genesis
	bad.CodecVersion = 257
	require.Equal(t, ffi.Encoding, ffi.HeaderHash(&bad, out))

	bad = genesis
	bad.Nonce = 1
	require.Equal(t, ffi.Encoding, ffi.HeaderHash(&bad, out))

	bad = genesis
	bad.BlockIndex = 1
	bad.ExtraData = make([]byte, 257)
	require.Equal(t, ffi.Encoding, ffi.HeaderHash(&bad, out))

	// Large indexes and difficulties are carried at full width.
	wide := ffi.Header{CodecVersion: 1, BlockIndex: 1<<32 + 1, DifficultyTarget: 1<<32 + 7}
	narrow := ffi.Header{CodecVersion: 1, BlockIndex: 1, DifficultyTarget: 7}
	wideOut, narrowOut := make([]byte, 32), make([]byte, 32)
	require.Equal(t, ffi.Ok, ffi.HeaderHash(&wide, wideOut))
	require.Equal(t, ffi.Ok, ffi.HeaderHash(&narrow, narrowOut))
	require.NotEqual(t, wideOut, narrowOut)
}

func TestMerkleRoot(t *testing.T) {
	out := make([]byte, 32)

	leaves := append(bytes.Repeat([]byte{0x11}, 32), bytes.Repeat([]byte{0x22}, 32)...)
	require.Equal(t, ffi.Ok, ffi.MerkleRoot(leaves, 2, out))
	require.Equal(t, "0x5189c77d29fe5d546a045ec46986852785fea5c13ac7da9c115ff5fb6edf817c", hexOf(out))

	require.Equal(t, ffi.Ok, ffi.MerkleRoot(nil, 0, out))
	require.Equal(t, make([]byte, 32), out)

	require.Equal(t, ffi.InvalidInput, ffi.MerkleRoot(leaves, 3, out))
	require.Equal(t, ffi.InvalidInput, ffi.MerkleRoot(leaves[:40], 1, out))
	require.Equal(t, ffi.InvalidInput, ffi.MerkleRoot(leaves, 2, nil))
	require.Equal(t, ffi.OutOfMemory, ffi.MerkleRoot(nil, ffi.MaxMerkleLeaves+1, out))
}

func TestVerify(t *testing.T) {
	problem := ffi.Problem{
		Tier:     0,
		Elements: []int64{3, 7, 11},
		Target:   18,
	}
	budget := ffi.Budget{MaxOps: 100}

	var out ffi.VerifyOutput
	require.Equal(t, ffi.Ok, ffi.Verify(&problem, &ffi.Solution{Indices: []uint32{1, 2}}, &budget, &out))
	require.Equal(t, int32(1), out.Valid)
	require.Equal(t, uint64(2), out.OpsUsed)

	require.Equal(t, ffi.Ok, ffi.Verify(&problem, &ffi.Solution{Indices: []uint32{0, 0}}, &budget, &out))
	require.Equal(t, int32(0), out.Valid)

	small := ffi.Budget{MaxOps: 1}
	require.Equal(t, ffi.VerificationFailed, ffi.Verify(&problem, &ffi.Solution{Indices: []uint32{1, 2}}, &small, &out))

	badTier := problem
	badTier.Tier = 5
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&badTier, &ffi.Solution{}, &budget, &out))

	wrapTier := problem
	wrapTier.Tier = 256
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&wrapTier, &ffi.Solution{}, &budget, &out))

	empty := problem
	empty.Elements = nil
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&empty, &ffi.Solution{}, &budget, &out))

	require.Equal(t, ffi.InvalidInput, ffi.Verify(nil, &ffi.Solution{}, &budget, &out))
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&problem, nil, &budget, &out))
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&problem, &ffi.Solution{}, nil, &out))
	require.Equal(t, ffi.InvalidInput, ffi.Verify(&problem, &ffi.Solution{}, &budget, nil))

	// Budgets beyond 32 bits are honoured.
	huge := ffi.Budget{MaxOps: 1 << 33}
	require.Equal(t, ffi.Ok, ffi.Verify(&problem, &ffi.Solution{Indices: []uint32{1}}, &huge, &out))
}

func TestVersion(t *testing.T) {
	require.NotEmpty(t, ffi.Version())
	require.Equal(t, uint32(1), ffi.CodecVersion())
	require.NoError(t, ffi.Ok.Err())
	require.Error(t, ffi.Internal.Err())
	require.Equal(t, "VERIFICATION_FAILED", ffi.VerificationFailed.String())
}
