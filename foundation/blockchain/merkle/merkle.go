// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been reworked to operate on fixed size consensus hashes.

// Package merkle provides the merkle commitment used in block headers. The
// policy must be reproduced exactly by every implementation: an empty set of
// leaves commits to the zero hash, a single leaf is its own root and an odd
// level pairs its last entry with itself.
package merkle

import (
	"errors"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
)

// Side identifies where a proof hash is placed when it is concatenated with
// the running hash.
type Side int

// Set of proof sides.
const (
	Left  Side = 0 // Proof hash comes first.
	Right Side = 1 // Proof hash comes second.
)

// Proof represents the set of hashes and the order of concatenating those
// hashes for proving a leaf is in the tree.
type Proof struct {
	Hashes []hash.Hash
	Order  []Side
}

// =============================================================================

// Root computes the merkle root of the ordered set of leaf hashes. It is
// defined for every finite input.
func Root(leaves []hash.Hash) hash.Hash {
	switch len(leaves) {
	case 0:
		return hash.ZeroHash
	case 1:
		return leaves[0]
	}

	level := make([]hash.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		level = reduce(level)
	}

	return level[0]
}

// reduce pairs adjacent entries of the level and replaces each pair with the
// hash of their concatenation. An odd last entry is paired with itself. The
// reduction happens in place since entry i/2 is never read again once i has
// been processed.
func reduce(level []hash.Hash) []hash.Hash {
	n := len(level)

	for i := 0; i < n; i += 2 {
		left, right := i, i+1
		if right == n {
			right = i
		}

		level[i/2] = hash.Concat(level[left], level[right])
	}

	return level[:(n+1)/2]
}

// =============================================================================

// Tree represents a merkle tree that retains every level so proofs can be
// produced for the leaves.
type Tree struct {
	levels [][]hash.Hash
}

// NewTree constructs a tree from the ordered set of leaf hashes. The root of
// the tree is always equal to Root(leaves).
func NewTree(leaves []hash.Hash) *Tree {
	first := make([]hash.Hash, len(leaves))
	copy(first, leaves)

	t := Tree{
		levels: [][]hash.Hash{first},
	}

	level := first
	for len(level) > 1 {
		next := make([]hash.Hash, len(level))
		copy(next, level)
		level = reduce(next)
		t.levels = append(t.levels, level)
	}

	return &t
}

// Len returns the number of leaves in the tree.
func (t *Tree) Len() int {
	return len(t.levels[0])
}

// Root returns the merkle root of the tree.
func (t *Tree) Root() hash.Hash {
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return hash.ZeroHash
	}

	return top[0]
}

// RootHex converts the merkle root to a hex encoded string.
func (t *Tree) RootHex() string {
	return t.Root().Hex()
}

// Leaves returns a copy of the leaf hashes in their original order.
func (t *Tree) Leaves() []hash.Hash {
	leaves := make([]hash.Hash, len(t.levels[0]))
	copy(leaves, t.levels[0])
	return leaves
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving the leaf at the specified index is in the tree.
//
// Process the leaf hash against the proof like this.
//
//	h = leaf
//	for i := range proof.Hashes {
//		if proof.Order[i] == Left {
//			h = sha256(proof.Hashes[i] || h)
//		} else {
//			h = sha256(h || proof.Hashes[i])
//		}
//	}
//
// The calculated h should match the merkle root.
func (t *Tree) Proof(index int) (Proof, error) {
	if index < 0 || index >= t.Len() {
		return Proof{}, fmt.Errorf("leaf index %d out of range [0, %d)", index, t.Len())
	}

	var proof Proof
	for _, level := range t.levels[:len(t.levels)-1] {
		switch {
		case index%2 == 1:
			proof.Hashes = append(proof.Hashes, level[index-1])
			proof.Order = append(proof.Order, Left)

		case index+1 < len(level):
			proof.Hashes = append(proof.Hashes, level[index+1])
			proof.Order = append(proof.Order, Right)

		default:
			proof.Hashes = append(proof.Hashes, level[index])
			proof.Order = append(proof.Order, Right)
		}

		index /= 2
	}

	return proof, nil
}

// Verify recalculates every level of the tree from the leaves and checks the
// result against the stored root.
func (t *Tree) Verify() error {
	if Root(t.levels[0]) != t.Root() {
		return errors.New("merkle root is not equivalent to the calculated root")
	}

	return nil
}

// =============================================================================

// VerifyProof indicates whether the leaf combined with the proof produces
// the specified root.
func VerifyProof(leaf hash.Hash, proof Proof, root hash.Hash) bool {
	if len(proof.Hashes) != len(proof.Order) {
		return false
	}

	h := leaf
	for i, p := range proof.Hashes {
		switch proof.Order[i] {
		case Left:
			h = hash.Concat(p, h)
		case Right:
			h = hash.Concat(h, p)
		default:
			return false
		}
	}

	return h == root
}
