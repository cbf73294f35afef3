// Package golden maintains the frozen vector set that pins the behavior of
// the consensus core. Any implementation of the core must reproduce every
// expected value in the set.
package golden

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Version is the version of the vector set this package produces.
const Version = 1

// Set of verification error kinds recorded in vectors.
const (
	ErrKindInvalidInput   = "invalid_input"
	ErrKindBudgetExceeded = "budget_exceeded"
)

//go:embed testdata/vectors_v1.json
var frozen []byte

// =============================================================================

// HashVector pins the hash of a byte sequence.
type HashVector struct {
	Name     string        `json:"name"`
	Input    hexutil.Bytes `json:"input"`
	Expected hash.Hash     `json:"expected"`
}

// MerkleVector pins the merkle root of a set of leaves. The leaves are
// either listed or derived by hashing Derive formatted with each position
// in [0, Count).
type MerkleVector struct {
	Name     string      `json:"name"`
	Leaves   []hash.Hash `json:"leaves,omitempty"`
	Derive   string      `json:"derive,omitempty"`
	Count    int         `json:"count,omitempty"`
	Expected hash.Hash   `json:"expected"`
}

// HeaderVector pins the canonical encoding length and hash of a header.
type HeaderVector struct {
	Name       string             `json:"name"`
	Header     header.BlockHeader `json:"header"`
	EncodedLen int                `json:"encoded_len"`
	Expected   hash.Hash          `json:"expected"`
}

// VerifyVector pins the verdict of a verification. Exactly one of Expected
// and Error is set.
type VerifyVector struct {
	Name     string            `json:"name"`
	Problem  verifier.Problem  `json:"problem"`
	Solution verifier.Solution `json:"solution"`
	Budget   verifier.Budget   `json:"budget"`
	Expected *verifier.Result  `json:"expected,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Set represents a complete versioned vector set.
type Set struct {
	Version   int            `json:"version"`
	SHA256    []HashVector   `json:"sha256"`
	Merkle    []MerkleVector `json:"merkle"`
	Headers   []HeaderVector `json:"headers"`
	SubsetSum []VerifyVector `json:"subset_sum"`
}

// Mismatch describes a vector the core does not reproduce.
type Mismatch struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Got  string `json:"got"`
	Exp  string `json:"exp"`
}

// String implements the fmt.Stringer interface.
func (m Mismatch) String() string {
	return fmt.Sprintf("%s[%s]: got %s, exp %s", m.Kind, m.Name, m.Got, m.Exp)
}

// =============================================================================

// Frozen returns the vector set compiled into the package.
func Frozen() (Set, error) {
	return parse(frozen)
}

// Load opens and consumes a vector set file.
func Load(path string) (Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}

	return parse(content)
}

// Write stores the vector set in a human readable form.
func Write(path string, set Set) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

func parse(content []byte) (Set, error) {
	var set Set
	if err := json.Unmarshal(content, &set); err != nil {
		return Set{}, fmt.Errorf("parsing vector set: %w", err)
	}

	if set.Version != Version {
		return Set{}, fmt.Errorf("unsupported vector set version %d, exp %d", set.Version, Version)
	}

	return set, nil
}

// =============================================================================

// Check runs every vector in the set through the core and returns the
// vectors whose expected value is not reproduced.
func Check(set Set) []Mismatch {
	var mm []Mismatch

	for _, v := range set.SHA256 {
		if got := hash.Sum(v.Input); got != v.Expected {
			mm = append(mm, Mismatch{Kind: "sha256", Name: v.Name, Got: got.Hex(), Exp: v.Expected.Hex()})
		}
	}

	for _, v := range set.Merkle {
		leaves, err := v.leaves()
		if err != nil {
			mm = append(mm, Mismatch{Kind: "merkle", Name: v.Name, Got: err.Error(), Exp: v.Expected.Hex()})
			continue
		}

		if got := merkle.Root(leaves); got != v.Expected {
			mm = append(mm, Mismatch{Kind: "merkle", Name: v.Name, Got: got.Hex(), Exp: v.Expected.Hex()})
		}
	}

	for _, v := range set.Headers {
		mm = append(mm, checkHeader(v)...)
	}

	for _, v := range set.SubsetSum {
		if m, ok := checkVerify(v); !ok {
			mm = append(mm, m)
		}
	}

	return mm
}

// leaves returns the leaves of the vector, deriving them when required.
func (v MerkleVector) leaves() ([]hash.Hash, error) {
	if v.Derive == "" {
		return v.Leaves, nil
	}

	if len(v.Leaves) > 0 {
		return nil, errors.New("vector lists and derives leaves")
	}

	if v.Count < 0 || v.Count > merkleDeriveLimit {
		return nil, fmt.Errorf("derive count %d out of range", v.Count)
	}

	return Derive(v.Derive, v.Count), nil
}

const merkleDeriveLimit = 1 << 16

// Derive returns count leaves where leaf i is the hash of format applied
// to i.
func Derive(format string, count int) []hash.Hash {
	leaves := make([]hash.Hash, count)
	for i := range leaves {
		leaves[i] = hash.Sum([]byte(fmt.Sprintf(format, i)))
	}

	return leaves
}

func checkHeader(v HeaderVector) []Mismatch {
	data, err := header.Encode(v.Header)
	if err != nil {
		return []Mismatch{{Kind: "header", Name: v.Name, Got: err.Error(), Exp: v.Expected.Hex()}}
	}

	var mm []Mismatch

	if len(data) != v.EncodedLen {
		mm = append(mm, Mismatch{Kind: "header_len", Name: v.Name, Got: fmt.Sprint(len(data)), Exp: fmt.Sprint(v.EncodedLen)})
	}

	if got := hash.Sum(data); got != v.Expected {
		mm = append(mm, Mismatch{Kind: "header", Name: v.Name, Got: got.Hex(), Exp: v.Expected.Hex()})
	}

	decoded, err := header.Decode(data)
	if err != nil {
		mm = append(mm, Mismatch{Kind: "header_decode", Name: v.Name, Got: err.Error(), Exp: "round trip"})
		return mm
	}

	again, err := header.Encode(decoded)
	if err != nil || hexutil.Encode(again) != hexutil.Encode(data) {
		mm = append(mm, Mismatch{Kind: "header_decode", Name: v.Name, Got: hexutil.Encode(again), Exp: hexutil.Encode(data)})
	}

	return mm
}

func checkVerify(v VerifyVector) (Mismatch, bool) {
	res, err := verifier.Verify(v.Problem, v.Solution, v.Budget)

	exp := v.Error
	if v.Expected != nil {
		exp = fmt.Sprintf("valid=%t ops=%d", v.Expected.Valid, v.Expected.OpsUsed)
	}

	got := errKind(err)
	if err == nil {
		got = fmt.Sprintf("valid=%t ops=%d", res.Valid, res.OpsUsed)
	}

	if got != exp {
		return Mismatch{Kind: "subset_sum", Name: v.Name, Got: got, Exp: exp}, false
	}

	return Mismatch{}, true
}

// errKind maps a verification error onto the kind recorded in vectors.
func errKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, verifier.ErrInvalidInput):
		return ErrKindInvalidInput
	case errors.Is(err, verifier.ErrBudgetExceeded):
		return ErrKindBudgetExceeded
	}

	return err.Error()
}
