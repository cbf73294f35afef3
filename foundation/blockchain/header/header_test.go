package header_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"testing"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/stretchr/testify/require"
)

// Success and failed markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func mustHash(t *testing.T, s string) hash.Hash {
	t.Helper()

	h, err := hash.FromHex(s)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to parse hash %q: %v", failed, s, err)
	}
	return h
}

func blockOne(t *testing.T) header.BlockHeader {
	return header.BlockHeader{
		CodecVersion:     header.CodecVersion,
		BlockIndex:       1,
		Timestamp:        1704067202,
		ParentHash:       mustHash(t, "0x013cc06c55b2c30c19c38d57a625275f029ffb7e21844ee4b686152ed20db649"),
		MerkleRoot:       mustHash(t, "0xbbea820f07f7f89aeea1ab4a354ecea39f2f72accd05c64371522ee371cd0c48"),
		MinerAddress:     hash.Sum([]byte("validator1_pubkey")),
		Commitment:       mustHash(t, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		DifficultyTarget: 100,
		Nonce:            42,
	}
}

// =============================================================================

func Test_FrozenHashes(t *testing.T) {
	type table struct {
		name   string
		header func(t *testing.T) header.BlockHeader
		len    int
		exp    string
	}

	tt := []table{
		{
			name:   "genesis",
			header: func(t *testing.T) header.BlockHeader { return header.Genesis() },
			len:    165,
			exp:    "0x013cc06c55b2c30c19c38d57a625275f029ffb7e21844ee4b686152ed20db649",
		},
		{
			name:   "block1",
			header: blockOne,
			len:    165,
			exp:    "0xc112c160a4c043a24a17ca9c08ccb12aaab900da829025a0b5d9f9ef15182a9e",
		},
		{
			name: "extradata",
			header: func(t *testing.T) header.BlockHeader {
				return header.BlockHeader{
					CodecVersion:     header.CodecVersion,
					BlockIndex:       100,
					Timestamp:        1704067400,
					ParentHash:       hash.Sum([]byte("parent_block_99")),
					MerkleRoot:       hash.Sum([]byte("merkle_root_100")),
					MinerAddress:     hash.Sum([]byte("miner_alice")),
					Commitment:       hash.Sum([]byte("commitment_100")),
					DifficultyTarget: 1000,
					Nonce:            1337,
					ExtraData:        []byte("Network B Migration - v4.5.0+"),
				}
			},
			len: 194,
			exp: "0x9c0ab3b421a0dd516c5f414367069bdd4b98c70032acf91d3a74dc95095930c3",
		},
		{
			name: "maxextradata",
			header: func(t *testing.T) header.BlockHeader {
				return header.BlockHeader{
					CodecVersion:     header.CodecVersion,
					BlockIndex:       2,
					Timestamp:        1704067204,
					ParentHash:       hash.Sum([]byte("parent_max")),
					MerkleRoot:       hash.Sum([]byte("merkle_max")),
					MinerAddress:     hash.Sum([]byte("miner_max")),
					Commitment:       hash.Sum([]byte("commit_max")),
					DifficultyTarget: ^uint64(0),
					Nonce:            ^uint64(0),
					ExtraData:        bytes.Repeat([]byte{0xab}, header.MaxExtraData),
				}
			},
			len: 421,
			exp: "0xf72ad89292f3d2b2b57161e25669ffc0f509f347c1d5a7f4597a075e40ffffad",
		},
	}

	t.Log("Given the need to produce frozen header hashes.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				h := tst.header(t)

				data, err := header.Encode(h)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to encode the header: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to encode the header.", success, testID)

				if len(data) != tst.len {
					t.Fatalf("\t%s\tTest %d:\tShould get %d encoded bytes, got %d.", failed, testID, tst.len, len(data))
				}
				t.Logf("\t%s\tTest %d:\tShould get %d encoded bytes.", success, testID, tst.len)

				got, err := header.Hash(h)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to hash the header: %v", failed, testID, err)
				}

				if got.Hex() != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got.Hex())
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get the frozen header hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the frozen header hash.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Layout(t *testing.T) {
	h := blockOne(t).WithExtraData([]byte{0xde, 0xad})

	data, err := header.Encode(h)
	require.NoError(t, err)

	require.Equal(t, byte(1), data[0])
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(data[1:]))
	require.Equal(t, uint64(1704067202), binary.LittleEndian.Uint64(data[9:]))
	require.Equal(t, h.ParentHash[:], data[17:49])
	require.Equal(t, h.MerkleRoot[:], data[49:81])
	require.Equal(t, h.MinerAddress[:], data[81:113])
	require.Equal(t, h.Commitment[:], data[113:145])
	require.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[145:]))
	require.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[153:]))
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[161:]))
	require.Equal(t, []byte{0xde, 0xad}, data[165:])
}

func Test_RoundTrip(t *testing.T) {
	tt := map[string][]byte{
		"empty": nil,
		"small": []byte("CHECKPOINT"),
		"max":   bytes.Repeat([]byte{0x01}, header.MaxExtraData),
	}

	t.Log("Given the need to decode what was encoded.")
	{
		for name, extra := range tt {
			f := func(t *testing.T) {
				h := blockOne(t).WithExtraData(extra)

				data, err := header.Encode(h)
				require.NoError(t, err)

				got, err := header.Decode(data)
				require.NoError(t, err)
				require.Equal(t, h, got)

				t.Logf("\t%s\tShould get back the same header with %d extra bytes.", success, len(extra))
			}

			t.Run(name, f)
		}
	}
}

func Test_StrictDecode(t *testing.T) {
	valid, err := header.Encode(blockOne(t).WithExtraData([]byte("abc")))
	require.NoError(t, err)

	mutate := func(fn func(b []byte) []byte) []byte {
		b := make([]byte, len(valid))
		copy(b, valid)
		return fn(b)
	}

	genesis, err := header.Encode(header.Genesis())
	require.NoError(t, err)

	tt := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"truncatedprefix", valid[:header.PrefixSize-1]},
		{"truncatedextra", valid[:len(valid)-1]},
		{"trailing", append(mutate(func(b []byte) []byte { return b }), 0x00)},
		{"version0", mutate(func(b []byte) []byte { b[0] = 0; return b })},
		{"version2", mutate(func(b []byte) []byte { b[0] = 2; return b })},
		{"lengthoverflow", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[161:], 0xffffffff)
			return b
		})},
		{"lengthovermax", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[161:], header.MaxExtraData+1)
			return b
		})},
		{"badgenesisnonce", func() []byte {
			b := make([]byte, len(genesis))
			copy(b, genesis)
			b[153] = 1
			return b
		}()},
	}

	t.Log("Given the need to reject anything that is not a canonical header.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				_, err := header.Decode(tst.data)
				if !errors.Is(err, header.ErrDecode) {
					t.Fatalf("\t%s\tTest %d:\tShould get a decode error, got %v.", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get a decode error: %v", success, testID, err)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Validate(t *testing.T) {
	tt := []struct {
		name string
		fn   func(h header.BlockHeader) header.BlockHeader
	}{
		{"version", func(h header.BlockHeader) header.BlockHeader { h.CodecVersion = 2; return h }},
		{"extradata", func(h header.BlockHeader) header.BlockHeader {
			return h.WithExtraData(make([]byte, header.MaxExtraData+1))
		}},
		{"genesistimestamp", func(h header.BlockHeader) header.BlockHeader { h.BlockIndex = 0; h.Timestamp = 1; return h }},
		{"genesisdifficulty", func(h header.BlockHeader) header.BlockHeader {
			h = header.Genesis()
			h.DifficultyTarget = 999
			return h
		}},
		{"genesisnonce", func(h header.BlockHeader) header.BlockHeader { return header.Genesis().WithNonce(7) }},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			h := tst.fn(blockOne(t))

			err := h.Validate()
			require.ErrorIs(t, err, header.ErrInvalidHeader)

			_, err = header.Encode(h)
			require.ErrorIs(t, err, header.ErrInvalidHeader)

			_, err = header.Hash(h)
			require.ErrorIs(t, err, header.ErrInvalidHeader)
		})
	}
}

func Test_FieldMutation(t *testing.T) {
	base := blockOne(t)
	baseHash, err := base.Hash()
	require.NoError(t, err)

	mutations := map[string]func(h *header.BlockHeader){
		"index":      func(h *header.BlockHeader) { h.BlockIndex++ },
		"timestamp":  func(h *header.BlockHeader) { h.Timestamp++ },
		"parent":     func(h *header.BlockHeader) { h.ParentHash[0] ^= 1 },
		"merkle":     func(h *header.BlockHeader) { h.MerkleRoot[31] ^= 1 },
		"miner":      func(h *header.BlockHeader) { h.MinerAddress[5] ^= 1 },
		"commitment": func(h *header.BlockHeader) { h.Commitment[0] ^= 0x80 },
		"difficulty": func(h *header.BlockHeader) { h.DifficultyTarget++ },
		"nonce":      func(h *header.BlockHeader) { h.Nonce++ },
		"extra":      func(h *header.BlockHeader) { h.ExtraData = []byte{0} },
	}

	for name, fn := range mutations {
		t.Run(name, func(t *testing.T) {
			h := base
			fn(&h)

			got, err := h.Hash()
			require.NoError(t, err)
			require.NotEqual(t, baseHash, got)
		})
	}
}

func Test_Immutability(t *testing.T) {
	extra := []byte("abc")
	h := blockOne(t).WithExtraData(extra)
	extra[0] = 'z'

	require.Equal(t, []byte("abc"), h.ExtraData)

	nh := h.WithNonce(99)
	nh.ExtraData[0] = 'q'

	require.Equal(t, uint64(42), h.Nonce)
	require.Equal(t, []byte("abc"), h.ExtraData)
}

func Test_JSON(t *testing.T) {
	h := blockOne(t).WithExtraData([]byte("CHECKPOINT"))

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var got header.BlockHeader
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, h, got)

	exp, err := h.Hash()
	require.NoError(t, err)

	gotHash, err := got.Hash()
	require.NoError(t, err)
	require.Equal(t, exp, gotHash)

	doc := `{
		"codec_version": 1,
		"block_index": 0,
		"timestamp": 1609459200,
		"parent_hash": "0x0000000000000000000000000000000000000000000000000000000000000000",
		"merkle_root": "0x0000000000000000000000000000000000000000000000000000000000000000",
		"miner_address": "0x0000000000000000000000000000000000000000000000000000000000000000",
		"commitment": "0x0000000000000000000000000000000000000000000000000000000000000000",
		"difficulty_target": 1000,
		"nonce": 0,
		"extra_data": "0x"
	}`

	var genesis header.BlockHeader
	require.NoError(t, json.Unmarshal([]byte(doc), &genesis))
	require.Equal(t, header.Genesis(), genesis)
}

func Test_JSONRejects(t *testing.T) {
	docs := map[string]string{
		"missinghash": `{"codec_version":1,"block_index":5,"timestamp":1,"merkle_root":"0x0000000000000000000000000000000000000000000000000000000000000000","miner_address":"0x0000000000000000000000000000000000000000000000000000000000000000","commitment":"0x0000000000000000000000000000000000000000000000000000000000000000","difficulty_target":1,"nonce":1,"extra_data":"0x"}`,
		"shorthash":   `{"codec_version":1,"block_index":5,"timestamp":1,"parent_hash":"0x00","merkle_root":"0x0000000000000000000000000000000000000000000000000000000000000000","miner_address":"0x0000000000000000000000000000000000000000000000000000000000000000","commitment":"0x0000000000000000000000000000000000000000000000000000000000000000","difficulty_target":1,"nonce":1,"extra_data":"0x"}`,
		"badversion":  `{"codec_version":3,"block_index":5,"timestamp":1,"parent_hash":"0x0000000000000000000000000000000000000000000000000000000000000000","merkle_root":"0x0000000000000000000000000000000000000000000000000000000000000000","miner_address":"0x0000000000000000000000000000000000000000000000000000000000000000","commitment":"0x0000000000000000000000000000000000000000000000000000000000000000","difficulty_target":1,"nonce":1,"extra_data":"0x"}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			var h header.BlockHeader
			err := json.Unmarshal([]byte(doc), &h)
			require.ErrorIs(t, err, header.ErrInvalidHeader)
		})
	}
}

func Test_JSONRequiresEveryField(t *testing.T) {
	zero := "0x0000000000000000000000000000000000000000000000000000000000000000"

	full := func() map[string]any {
		return map[string]any{
			"codec_version":     1,
			"block_index":       5,
			"timestamp":         1704067202,
			"parent_hash":       zero,
			"merkle_root":       zero,
			"miner_address":     zero,
			"commitment":        zero,
			"difficulty_target": 100,
			"nonce":             42,
			"extra_data":        "0x",
		}
	}

	t.Log("Given the need to reject headers with absent fields.")
	{
		data, err := json.Marshal(full())
		require.NoError(t, err)

		var h header.BlockHeader
		if err := json.Unmarshal(data, &h); err != nil {
			t.Fatalf("\t%s\tShould accept a complete header: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete header.", success)

		for field := range full() {
			f := func(t *testing.T) {
				doc := full()
				delete(doc, field)

				data, err := json.Marshal(doc)
				require.NoError(t, err)

				var h header.BlockHeader
				err = json.Unmarshal(data, &h)
				if !errors.Is(err, header.ErrInvalidHeader) {
					t.Fatalf("\t%s\tShould reject a header without %s: %v", failed, field, err)
				}
				t.Logf("\t%s\tShould reject a header without %s.", success, field)
			}

			t.Run(field, f)
		}

		doc := full()
		doc["extra_data"] = nil

		data, err = json.Marshal(doc)
		require.NoError(t, err)

		err = json.Unmarshal(data, &h)
		if !errors.Is(err, header.ErrInvalidHeader) {
			t.Fatalf("\t%s\tShould reject a null extra_data: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a null extra_data.", success)
	}
}

func Test_ValidateSuccessor(t *testing.T) {
	genesis := header.Genesis()
	child := blockOne(t)
	child.DifficultyTarget = genesis.DifficultyTarget

	ev := func(v string, args ...any) {
		t.Logf(v, args...)
	}

	t.Log("Given the need to validate a header follows its parent.")
	{
		if err := header.ValidateSuccessor(genesis, child, ev); err != nil {
			t.Fatalf("\t%s\tShould accept block 1 after genesis: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept block 1 after genesis.", success)

		bad := map[string]header.BlockHeader{
			"index":     func() header.BlockHeader { h := child; h.BlockIndex = 2; return h }(),
			"parent":    func() header.BlockHeader { h := child; h.ParentHash = hash.ZeroHash; return h }(),
			"timestamp": func() header.BlockHeader { h := child; h.Timestamp = genesis.Timestamp; return h }(),
		}

		for name, h := range bad {
			err := header.ValidateSuccessor(genesis, h, ev)
			if !errors.Is(err, header.ErrInvalidHeader) {
				t.Fatalf("\t%s\tShould reject a bad %s: %v", failed, name, err)
			}
			t.Logf("\t%s\tShould reject a bad %s.", success, name)
		}

		next := child.WithNonce(0)
		next.BlockIndex = 2
		next.Timestamp = child.Timestamp + 1
		next.ParentHash, _ = child.Hash()
		next.DifficultyTarget = child.DifficultyTarget - 1
		if err := header.ValidateSuccessor(child, next, ev); !errors.Is(err, header.ErrInvalidHeader) {
			t.Fatalf("\t%s\tShould reject a decreasing difficulty: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a decreasing difficulty.", success)
	}
}

func Test_MatchesTxs(t *testing.T) {
	txs := []hash.Hash{hash.Sum([]byte("tx1")), hash.Sum([]byte("tx2"))}

	require.NoError(t, blockOne(t).MatchesTxs(txs))
	require.ErrorIs(t, blockOne(t).MatchesTxs(txs[:1]), header.ErrInvalidHeader)
}
