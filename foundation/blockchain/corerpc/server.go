package corerpc

import (
	"context"
	"net"
	"time"

	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// EventHandler defines a function that is called when events occur in the
// processing of calls.
type EventHandler func(v string, args ...any)

// Compile-time interface check.
var _ CoreServer = (*Server)(nil)

// Server exposes the flat call surface of the core as a gRPC service.
type Server struct {
	evHandler EventHandler
}

// NewServer constructs a server. The event handler may be nil.
func NewServer(ev EventHandler) *Server {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Server{
		evHandler: ev,
	}
}

// Register adds the core service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	RegisterCoreServer(gs, s)
}

// Serve starts a gRPC server on the given listener.
func (s *Server) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// =============================================================================

// Hash returns the hash of the request data.
func (s *Server) Hash(ctx context.Context, req *HashRequest) (*HashResponse, error) {
	var resp HashResponse
	if res := ffi.Hash(req.Data, resp.Hash[:]); res != ffi.Ok {
		return nil, statusOf(res)
	}

	return &resp, nil
}

// MerkleRoot returns the merkle root of the packed leaves.
func (s *Server) MerkleRoot(ctx context.Context, req *MerkleRootRequest) (*HashResponse, error) {
	var resp HashResponse
	if res := ffi.MerkleRoot(req.Leaves, req.Count, resp.Hash[:]); res != ffi.Ok {
		return nil, statusOf(res)
	}

	return &resp, nil
}

// HeaderHash returns the hash of the canonical encoding of the header.
func (s *Server) HeaderHash(ctx context.Context, req *HeaderHashRequest) (*HashResponse, error) {
	h := ffi.Header(req.Header)

	var resp HashResponse
	if res := ffi.HeaderHash(&h, resp.Hash[:]); res != ffi.Ok {
		s.evHandler("corerpc: HeaderHash: rejected: blk[%d]: %s", h.BlockIndex, res)
		return nil, statusOf(res)
	}

	return &resp, nil
}

// Verify checks the solution against the problem within the budget.
func (s *Server) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	p := ffi.Problem(req.Problem)
	sol := ffi.Solution(req.Solution)
	b := ffi.Budget(req.Budget)

	var out ffi.VerifyOutput
	if res := ffi.Verify(&p, &sol, &b, &out); res != ffi.Ok {
		s.evHandler("corerpc: Verify: failed: tier[%d]: elements[%d]: %s", p.Tier, len(p.Elements), res)
		return nil, statusOf(res)
	}

	s.evHandler("corerpc: Verify: completed: tier[%d]: valid[%t]: ops[%d]", p.Tier, out.Valid == 1, out.OpsUsed)

	resp := VerifyResponse{
		Valid:   out.Valid == 1,
		OpsUsed: out.OpsUsed,
	}

	return &resp, nil
}

// Version returns the library and codec versions.
func (s *Server) Version(ctx context.Context, req *VersionRequest) (*VersionResponse, error) {
	resp := VersionResponse{
		Version:      ffi.Version(),
		CodecVersion: ffi.CodecVersion(),
	}

	return &resp, nil
}

// =============================================================================

// UnaryLogger returns an interceptor that logs every call with its latency
// and status code.
func UnaryLogger(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		now := time.Now()
		log.Infow("grpc started", "method", info.FullMethod)

		resp, err := handler(ctx, req)

		log.Infow("grpc completed", "method", info.FullMethod, "code", status.Code(err), "since", time.Since(now))

		return resp, err
	}
}

// =============================================================================

// codeOf maps result codes onto gRPC status codes and back.
var codeOf = map[ffi.Result]codes.Code{
	ffi.InvalidInput:       codes.InvalidArgument,
	ffi.OutOfMemory:        codes.ResourceExhausted,
	ffi.VerificationFailed: codes.Aborted,
	ffi.Encoding:           codes.FailedPrecondition,
	ffi.Internal:           codes.Internal,
}

func statusOf(res ffi.Result) error {
	code, exists := codeOf[res]
	if !exists {
		code = codes.Unknown
	}

	return status.Error(code, res.String())
}

// ResultOf maps an error returned by a call back onto the result code the
// flat call surface would have reported.
func ResultOf(err error) ffi.Result {
	if err == nil {
		return ffi.Ok
	}

	code := status.Code(err)
	for res, c := range codeOf {
		if c == code {
			return res
		}
	}

	return ffi.Internal
}
