package corerpc

// HashRequest carries the bytes to hash.
type HashRequest struct {
	Data []byte `cramberry:"1"`
}

// HashResponse carries a 32 byte digest.
type HashResponse struct {
	Hash [32]byte `cramberry:"1"`
}

// MerkleRootRequest carries Count leaves packed back to back, 32 bytes each.
type MerkleRootRequest struct {
	Leaves []byte `cramberry:"1"`
	Count  uint32 `cramberry:"2"`
}

// Header is the wire form of a block header.
type Header struct {
	CodecVersion     uint32   `cramberry:"1"`
	BlockIndex       uint64   `cramberry:"2"`
	Timestamp        int64    `cramberry:"3"`
	ParentHash       [32]byte `cramberry:"4"`
	MerkleRoot       [32]byte `cramberry:"5"`
	MinerAddress     [32]byte `cramberry:"6"`
	Commitment       [32]byte `cramberry:"7"`
	DifficultyTarget uint64   `cramberry:"8"`
	Nonce            uint64   `cramberry:"9"`
	ExtraData        []byte   `cramberry:"10"`
}

// HeaderHashRequest carries the header to hash.
type HeaderHashRequest struct {
	Header Header `cramberry:"1"`
}

// Problem is the wire form of a subset-sum problem.
type Problem struct {
	ProblemType uint32  `cramberry:"1"`
	Tier        uint32  `cramberry:"2"`
	Elements    []int64 `cramberry:"3"`
	Target      int64   `cramberry:"4"`
	Timestamp   int64   `cramberry:"5"`
}

// Solution is the wire form of a subset-sum solution.
type Solution struct {
	Indices   []uint32 `cramberry:"1"`
	Timestamp int64    `cramberry:"2"`
}

// Budget is the wire form of a verification budget.
type Budget struct {
	MaxOps         uint64 `cramberry:"1"`
	MaxDurationMs  uint64 `cramberry:"2"`
	MaxMemoryBytes uint64 `cramberry:"3"`
}

// VerifyRequest carries everything a verification needs.
type VerifyRequest struct {
	Problem  Problem  `cramberry:"1"`
	Solution Solution `cramberry:"2"`
	Budget   Budget   `cramberry:"3"`
}

// VerifyResponse carries the verdict of a verification.
type VerifyResponse struct {
	Valid   bool   `cramberry:"1"`
	OpsUsed uint64 `cramberry:"2"`
}

// VersionRequest is the (empty) request for Version.
type VersionRequest struct{}

// VersionResponse carries the library and codec versions.
type VersionResponse struct {
	Version      string `cramberry:"1"`
	CodecVersion uint32 `cramberry:"2"`
}
