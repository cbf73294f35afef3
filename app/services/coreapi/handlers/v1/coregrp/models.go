package coregrp

import (
	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type hashRequest struct {
	Data hexutil.Bytes `json:"data"`
}

type hashResponse struct {
	Hash hash.Hash `json:"hash"`
}

type merkleRequest struct {
	Leaves []hash.Hash `json:"leaves" validate:"max=1048576"`
}

type merkleResponse struct {
	Root  hash.Hash `json:"root"`
	Count int       `json:"count"`
}

type proofRequest struct {
	Leaves []hash.Hash `json:"leaves" validate:"required,min=1,max=1048576"`
	Index  int         `json:"index" validate:"gte=0"`
}

type proofResponse struct {
	Root   hash.Hash     `json:"root"`
	Leaf   hash.Hash     `json:"leaf"`
	Hashes []hash.Hash   `json:"hashes"`
	Order  []merkle.Side `json:"order"`
}

type headerResponse struct {
	Header     header.BlockHeader `json:"header"`
	Hash       hash.Hash          `json:"hash"`
	Encoded    hexutil.Bytes      `json:"encoded"`
	EncodedLen int                `json:"encoded_len"`
}

type decodeRequest struct {
	Encoded hexutil.Bytes `json:"encoded" validate:"required"`
}

type successorRequest struct {
	Parent   header.BlockHeader `json:"parent"`
	Child    header.BlockHeader `json:"child"`
	TxHashes []hash.Hash        `json:"tx_hashes,omitempty"`
}

type successorResponse struct {
	Valid      bool      `json:"valid"`
	ParentHash hash.Hash `json:"parent_hash"`
	ChildHash  hash.Hash `json:"child_hash"`
}

type verifyRequest struct {
	Problem  verifier.Problem  `json:"problem"`
	Solution verifier.Solution `json:"solution"`
	Budget   *verifier.Budget  `json:"budget,omitempty"`
}

type verifyResponse struct {
	verifier.Result
	Budget verifier.Budget `json:"budget"`
}

type tierInfo struct {
	Tier        verifier.HardwareTier `json:"tier"`
	MinElements int                   `json:"min_elements"`
	MaxElements int                   `json:"max_elements"`
	Budget      verifier.Budget       `json:"budget"`
}

type versionResponse struct {
	Version        string `json:"version"`
	CodecVersion   uint32 `json:"codec_version"`
	VectorsVersion int    `json:"vectors_version"`
}
