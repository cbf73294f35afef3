package corerpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "coinjecture.v1.Core"

// CoreServer is the server-side interface for the core gRPC service.
type CoreServer interface {
	Hash(context.Context, *HashRequest) (*HashResponse, error)
	MerkleRoot(context.Context, *MerkleRootRequest) (*HashResponse, error)
	HeaderHash(context.Context, *HeaderHashRequest) (*HashResponse, error)
	Verify(context.Context, *VerifyRequest) (*VerifyResponse, error)
	Version(context.Context, *VersionRequest) (*VersionResponse, error)
}

// RegisterCoreServer registers the CoreServer on a gRPC server.
func RegisterCoreServer(s *grpc.Server, srv CoreServer) {
	s.RegisterService(&serviceDesc, srv)
}

// unary builds the method descriptor for a unary call, honoring any
// interceptor installed on the server.
func unary[Req, Resp any](name string, call func(CoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	h := func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(CoreServer), ctx, req)
		}

		info := grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CoreServer), ctx, req.(*Req))
		}

		return interceptor(ctx, req, &info, handler)
	}

	return grpc.MethodDesc{MethodName: name, Handler: h}
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for the core.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CoreServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Hash", CoreServer.Hash),
		unary("MerkleRoot", CoreServer.MerkleRoot),
		unary("HeaderHash", CoreServer.HeaderHash),
		unary("Verify", CoreServer.Verify),
		unary("Version", CoreServer.Version),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "coinjecture/v1/core.cram",
}
