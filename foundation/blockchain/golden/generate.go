package golden

import (
	"bytes"
	"fmt"
	"math"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
)

// Generate builds the vector set from its inputs by running them through
// the core. The result must equal the frozen set, a difference means the
// behavior of the core has drifted.
func Generate() (Set, error) {
	headers, err := headerVectors()
	if err != nil {
		return Set{}, err
	}

	set := Set{
		Version:   Version,
		SHA256:    hashVectors(),
		Merkle:    merkleVectors(),
		Headers:   headers,
		SubsetSum: verifyVectors(),
	}

	return set, nil
}

func sum(s string) hash.Hash {
	return hash.Sum([]byte(s))
}

func fill(b byte) hash.Hash {
	var h hash.Hash
	copy(h[:], bytes.Repeat([]byte{b}, hash.Size))
	return h
}

func hashVectors() []HashVector {
	seq := make([]byte, 256)
	for i := range seq {
		seq[i] = byte(i)
	}

	inputs := []struct {
		name string
		data []byte
	}{
		{"sha256_empty_input", []byte{}},
		{"sha256_hello_world", []byte("hello world")},
		{"sha256_coinjecture", []byte("COINjecture")},
		{"sha256_zeros_32", make([]byte, 32)},
		{"sha256_ones_32", bytes.Repeat([]byte{0xff}, 32)},
		{"sha256_sequential_256", seq},
		{"sha256_json_data", []byte(`{"block_number":1337,"validator":"alice","amount":1000000}`)},
		{"sha256_btc_genesis", []byte("The Times 03/Jan/2009 Chancellor on brink of second bailout for banks")},
		{"sha256_unicode", []byte("Hello 世界 🚀")},
	}

	vs := make([]HashVector, len(inputs))
	for i, in := range inputs {
		vs[i] = HashVector{Name: in.name, Input: in.data, Expected: hash.Sum(in.data)}
	}

	return vs
}

func merkleVectors() []MerkleVector {
	txs := func(n int) []hash.Hash {
		leaves := make([]hash.Hash, n)
		for i := range leaves {
			leaves[i] = sum(fmt.Sprintf("tx%d", i+1))
		}
		return leaves
	}

	listed := []struct {
		name   string
		leaves []hash.Hash
	}{
		{"merkle_empty", nil},
		{"merkle_single_tx", []hash.Hash{fill(0x42)}},
		{"merkle_two_txs", []hash.Hash{fill(0x11), fill(0x22)}},
		{"merkle_three_txs", []hash.Hash{fill(0xaa), fill(0xbb), fill(0xcc)}},
		{"merkle_four_txs", txs(4)},
		{"merkle_eight_txs", txs(8)},
	}

	var vs []MerkleVector
	for _, l := range listed {
		vs = append(vs, MerkleVector{Name: l.name, Leaves: l.leaves, Expected: merkle.Root(l.leaves)})
	}

	derived := []struct {
		name   string
		format string
		count  int
	}{
		{"merkle_hundred_txs", "transaction_%d", 100},
		{"merkle_thousand_txs", "tx_%04d", 1000},
	}

	for _, d := range derived {
		vs = append(vs, MerkleVector{Name: d.name, Derive: d.format, Count: d.count, Expected: merkle.Root(Derive(d.format, d.count))})
	}

	return vs
}

func headerVectors() ([]HeaderVector, error) {
	genesis := header.Genesis()

	genesisHash, err := header.Hash(genesis)
	if err != nil {
		return nil, err
	}

	hs := []struct {
		name string
		h    header.BlockHeader
	}{
		{"block_header_genesis", genesis},
		{"block_header_1", header.BlockHeader{
			CodecVersion:     header.CodecVersion,
			BlockIndex:       1,
			Timestamp:        1704067202,
			ParentHash:       genesisHash,
			MerkleRoot:       merkle.Root([]hash.Hash{sum("tx1"), sum("tx2")}),
			MinerAddress:     sum("validator1_pubkey"),
			Commitment:       fill(0xff),
			DifficultyTarget: 100,
			Nonce:            42,
		}},
		{"block_header_with_extra_data", header.BlockHeader{
			CodecVersion:     header.CodecVersion,
			BlockIndex:       100,
			Timestamp:        1704067400,
			ParentHash:       sum("parent_block_99"),
			MerkleRoot:       sum("merkle_root_100"),
			MinerAddress:     sum("miner_alice"),
			Commitment:       sum("commitment_100"),
			DifficultyTarget: 1000,
			Nonce:            1337,
			ExtraData:        []byte("Network B Migration - v4.5.0+"),
		}},
		{"block_header_checkpoint_1000", header.BlockHeader{
			CodecVersion:     header.CodecVersion,
			BlockIndex:       1000,
			Timestamp:        1704069200,
			ParentHash:       sum("block_999"),
			MerkleRoot:       merkle.Root(Derive("tx_%d", 50)),
			MinerAddress:     sum("validator_checkpoint"),
			Commitment:       sum("checkpoint_1000"),
			DifficultyTarget: 10000,
			Nonce:            999999,
			ExtraData:        []byte("CHECKPOINT"),
		}},
		{"block_header_max_extra_data", header.BlockHeader{
			CodecVersion:     header.CodecVersion,
			BlockIndex:       2,
			Timestamp:        1704067204,
			ParentHash:       sum("parent_max"),
			MerkleRoot:       sum("merkle_max"),
			MinerAddress:     sum("miner_max"),
			Commitment:       sum("commit_max"),
			DifficultyTarget: math.MaxUint64,
			Nonce:            math.MaxUint64,
			ExtraData:        bytes.Repeat([]byte{0xab}, header.MaxExtraData),
		}},
	}

	vs := make([]HeaderVector, len(hs))
	for i, v := range hs {
		data, err := header.Encode(v.h)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.name, err)
		}

		vs[i] = HeaderVector{Name: v.name, Header: v.h, EncodedLen: len(data), Expected: hash.Sum(data)}
	}

	return vs, nil
}

func verifyVectors() []VerifyVector {
	mobile, _ := verifier.BudgetForTier(verifier.Mobile)

	problem := func(tier verifier.HardwareTier, elements []int64, target int64) verifier.Problem {
		return verifier.Problem{Type: verifier.SubsetSum, Tier: tier, Elements: elements, Target: target}
	}

	base := problem(verifier.Mobile, []int64{3, 7, 11}, 18)

	vs := []VerifyVector{
		{Name: "subset_sum_valid", Problem: base, Solution: verifier.Solution{Indices: []uint32{1, 2}}, Budget: mobile},
		{Name: "subset_sum_wrong_sum", Problem: base, Solution: verifier.Solution{Indices: []uint32{0, 1}}, Budget: mobile},
		{Name: "subset_sum_duplicate_index", Problem: base, Solution: verifier.Solution{Indices: []uint32{0, 0}}, Budget: mobile},
		{Name: "subset_sum_index_out_of_range", Problem: base, Solution: verifier.Solution{Indices: []uint32{0, 5}}, Budget: mobile},
		{Name: "subset_sum_overflow", Problem: problem(verifier.Mobile, []int64{math.MaxInt64, 1}, math.MaxInt64), Solution: verifier.Solution{Indices: []uint32{0, 1}}, Budget: mobile},
		{Name: "subset_sum_empty_solution", Problem: problem(verifier.Mobile, []int64{1, 2}, 0), Solution: verifier.Solution{Indices: []uint32{}}, Budget: mobile},
		{Name: "subset_sum_budget_exceeded", Problem: base, Solution: verifier.Solution{Indices: []uint32{1, 2}}, Budget: verifier.Budget{MaxOps: 1}},
		{Name: "subset_sum_tier_range", Problem: problem(verifier.Cluster, []int64{3, 7, 11}, 18), Solution: verifier.Solution{Indices: []uint32{1, 2}}, Budget: mobile},
	}

	for i := range vs {
		res, err := verifier.Verify(vs[i].Problem, vs[i].Solution, vs[i].Budget)
		if err != nil {
			vs[i].Error = errKind(err)
			continue
		}
		vs[i].Expected = &res
	}

	return vs
}
