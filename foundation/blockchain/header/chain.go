package header

import (
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
)

// ValidateSuccessor takes a header and validates it can follow the parent
// header in the chain.
func ValidateSuccessor(parent BlockHeader, child BlockHeader, evHandler func(v string, args ...any)) error {
	evHandler("header: ValidateSuccessor: validate: blk[%d]: check: header invariants", child.BlockIndex)

	if err := child.Validate(); err != nil {
		return err
	}

	evHandler("header: ValidateSuccessor: validate: blk[%d]: check: block index is the next index", child.BlockIndex)

	nextIndex := parent.BlockIndex + 1
	if child.BlockIndex != nextIndex {
		return fmt.Errorf("%w: this block is not the next index, got %d, exp %d", ErrInvalidHeader, child.BlockIndex, nextIndex)
	}

	evHandler("header: ValidateSuccessor: validate: blk[%d]: check: parent hash does match parent header", child.BlockIndex)

	parentHash, err := Hash(parent)
	if err != nil {
		return fmt.Errorf("parent header: %w", err)
	}

	if child.ParentHash != parentHash {
		return fmt.Errorf("%w: parent hash doesn't match our known parent, got %s, exp %s", ErrInvalidHeader, child.ParentHash, parentHash)
	}

	evHandler("header: ValidateSuccessor: validate: blk[%d]: check: difficulty is the same or greater than parent difficulty", child.BlockIndex)

	if child.DifficultyTarget < parent.DifficultyTarget {
		return fmt.Errorf("%w: block difficulty is less than parent difficulty, parent %d, block %d", ErrInvalidHeader, parent.DifficultyTarget, child.DifficultyTarget)
	}

	evHandler("header: ValidateSuccessor: validate: blk[%d]: check: timestamp is greater than parent timestamp", child.BlockIndex)

	if child.Timestamp <= parent.Timestamp {
		return fmt.Errorf("%w: block timestamp is not after parent, parent %d, block %d", ErrInvalidHeader, parent.Timestamp, child.Timestamp)
	}

	return nil
}

// MatchesTxs recomputes the merkle root from the transaction hashes and
// compares it with the root carried by the header.
func (h BlockHeader) MatchesTxs(txHashes []hash.Hash) error {
	root := merkle.Root(txHashes)
	if h.MerkleRoot != root {
		return fmt.Errorf("%w: merkle root does not match transactions, got %s, exp %s", ErrInvalidHeader, root, h.MerkleRoot)
	}

	return nil
}
