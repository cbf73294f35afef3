package header

import (
	"encoding/json"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/validate"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// headerJSON is the interchange form of a header. It never participates in
// hashing: it decodes into a BlockHeader which is then encoded canonically.
// Every field is a pointer so an absent field is told apart from a zero one.
type headerJSON struct {
	CodecVersion     *uint8         `json:"codec_version" validate:"required"`
	BlockIndex       *uint64        `json:"block_index" validate:"required"`
	Timestamp        *int64         `json:"timestamp" validate:"required"`
	ParentHash       *hash.Hash     `json:"parent_hash" validate:"required"`
	MerkleRoot       *hash.Hash     `json:"merkle_root" validate:"required"`
	MinerAddress     *hash.Hash     `json:"miner_address" validate:"required"`
	Commitment       *hash.Hash     `json:"commitment" validate:"required"`
	DifficultyTarget *uint64        `json:"difficulty_target" validate:"required"`
	Nonce            *uint64        `json:"nonce" validate:"required"`
	ExtraData        *hexutil.Bytes `json:"extra_data" validate:"required,max=256"`
}

// MarshalJSON implements the json.Marshaler interface.
func (h BlockHeader) MarshalJSON() ([]byte, error) {
	extra := hexutil.Bytes(h.ExtraData)
	if extra == nil {
		extra = hexutil.Bytes{}
	}

	hj := headerJSON{
		CodecVersion:     &h.CodecVersion,
		BlockIndex:       &h.BlockIndex,
		Timestamp:        &h.Timestamp,
		ParentHash:       &h.ParentHash,
		MerkleRoot:       &h.MerkleRoot,
		MinerAddress:     &h.MinerAddress,
		Commitment:       &h.Commitment,
		DifficultyTarget: &h.DifficultyTarget,
		Nonce:            &h.Nonce,
		ExtraData:        &extra,
	}

	return json.Marshal(hj)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The document must
// carry every field and describe a valid header.
func (h *BlockHeader) UnmarshalJSON(data []byte) error {
	var hj headerJSON
	if err := json.Unmarshal(data, &hj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if err := validate.Check(hj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	nh := BlockHeader{
		CodecVersion:     *hj.CodecVersion,
		BlockIndex:       *hj.BlockIndex,
		Timestamp:        *hj.Timestamp,
		ParentHash:       *hj.ParentHash,
		MerkleRoot:       *hj.MerkleRoot,
		MinerAddress:     *hj.MinerAddress,
		Commitment:       *hj.Commitment,
		DifficultyTarget: *hj.DifficultyTarget,
		Nonce:            *hj.Nonce,
		ExtraData:        copyBytes(*hj.ExtraData),
	}

	if err := nh.Validate(); err != nil {
		return err
	}

	*h = nh
	return nil
}
