// Package corerpc serves the consensus core over gRPC, using cramberry for
// deterministic binary serialization of the flat call surface.
//
// No protobuf code generation is required. The wire types in this package
// carry cramberry struct tags and are serialized directly.
package corerpc

import (
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"google.golang.org/grpc/encoding"
)

const codecName = "cramberry"

// CramberryCodec implements grpc/encoding.Codec using cramberry.
type CramberryCodec struct{}

// Marshal implements the encoding.Codec interface.
func (CramberryCodec) Marshal(v any) ([]byte, error) {
	data, err := cramberry.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cramberry marshal: %w", err)
	}
	return data, nil
}

// Unmarshal implements the encoding.Codec interface.
func (CramberryCodec) Unmarshal(data []byte, v any) error {
	if err := cramberry.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cramberry unmarshal: %w", err)
	}
	return nil
}

// Name implements the encoding.Codec interface.
func (CramberryCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(CramberryCodec{})
}
