package corerpc

import (
	"context"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"google.golang.org/grpc"
)

// Client calls a remote core over gRPC using cramberry serialization.
type Client struct {
	cc *grpc.ClientConn
}

// Dial constructs a client for the core listening on addr. The connection
// is established lazily on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))

	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("corerpc client: dial %s: %w", addr, err)
	}

	return &Client{cc: cc}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.cc.Close()
}

// Hash returns the hash of data computed by the remote core.
func (c *Client) Hash(ctx context.Context, data []byte) (hash.Hash, error) {
	resp := new(HashResponse)
	if err := c.cc.Invoke(ctx, fullMethod("Hash"), &HashRequest{Data: data}, resp); err != nil {
		return hash.ZeroHash, err
	}

	return resp.Hash, nil
}

// MerkleRoot returns the merkle root of the leaves computed by the remote
// core.
func (c *Client) MerkleRoot(ctx context.Context, leaves []hash.Hash) (hash.Hash, error) {
	req := MerkleRootRequest{
		Leaves: make([]byte, 0, len(leaves)*hash.Size),
		Count:  uint32(len(leaves)),
	}
	for _, l := range leaves {
		req.Leaves = append(req.Leaves, l[:]...)
	}

	resp := new(HashResponse)
	if err := c.cc.Invoke(ctx, fullMethod("MerkleRoot"), &req, resp); err != nil {
		return hash.ZeroHash, err
	}

	return resp.Hash, nil
}

// HeaderHash returns the header hash computed by the remote core.
func (c *Client) HeaderHash(ctx context.Context, h header.BlockHeader) (hash.Hash, error) {
	req := HeaderHashRequest{
		Header: Header{
			CodecVersion:     uint32(h.CodecVersion),
			BlockIndex:       h.BlockIndex,
			Timestamp:        h.Timestamp,
			ParentHash:       h.ParentHash,
			MerkleRoot:       h.MerkleRoot,
			MinerAddress:     h.MinerAddress,
			Commitment:       h.Commitment,
			DifficultyTarget: h.DifficultyTarget,
			Nonce:            h.Nonce,
			ExtraData:        h.ExtraData,
		},
	}

	resp := new(HashResponse)
	if err := c.cc.Invoke(ctx, fullMethod("HeaderHash"), &req, resp); err != nil {
		return hash.ZeroHash, err
	}

	return resp.Hash, nil
}

// Verify asks the remote core for the verdict on the solution.
func (c *Client) Verify(ctx context.Context, p verifier.Problem, s verifier.Solution, b verifier.Budget) (verifier.Result, error) {
	req := VerifyRequest{
		Problem: Problem{
			ProblemType: uint32(p.Type),
			Tier:        uint32(p.Tier),
			Elements:    p.Elements,
			Target:      p.Target,
			Timestamp:   p.Timestamp,
		},
		Solution: Solution{
			Indices:   s.Indices,
			Timestamp: s.Timestamp,
		},
		Budget: Budget{
			MaxOps:         b.MaxOps,
			MaxDurationMs:  b.MaxDurationMs,
			MaxMemoryBytes: b.MaxMemoryBytes,
		},
	}

	resp := new(VerifyResponse)
	if err := c.cc.Invoke(ctx, fullMethod("Verify"), &req, resp); err != nil {
		return verifier.Result{}, err
	}

	return verifier.Result{Valid: resp.Valid, OpsUsed: resp.OpsUsed}, nil
}

// Version returns the library and codec versions of the remote core.
func (c *Client) Version(ctx context.Context) (string, uint32, error) {
	resp := new(VersionResponse)
	if err := c.cc.Invoke(ctx, fullMethod("Version"), &VersionRequest{}, resp); err != nil {
		return "", 0, err
	}

	return resp.Version, resp.CodecVersion, nil
}
