package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully qualified names of the scoring service.
const (
	ServiceName        = "sustainability.v1.Scorer"
	ScoreFullMethod    = "/" + ServiceName + "/Score"
	AssessFullMethod   = "/" + ServiceName + "/Assess"
	serviceMetadataKey = "sustainability/v1/scorer.proto"
)

// #region service-interfaces
// ScorerServer is the server API. Payloads are JSON-shaped structs.
type ScorerServer interface {
	Score(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Assess(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ScorerClient is the client API for the scoring service.
type ScorerClient interface {
	Score(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Assess(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// #endregion service-interfaces

// #region service-desc
// ServiceDesc describes the scoring service for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScorerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
		{MethodName: "Assess", Handler: assessHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceMetadataKey,
}

// RegisterScorerServer registers srv on s.
func RegisterScorerServer(s grpc.ServiceRegistrar, srv ScorerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScorerServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScoreFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScorerServer).Score(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func assessHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScorerServer).Assess(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AssessFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScorerServer).Assess(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc

// #region client-stub
type scorerClient struct {
	cc grpc.ClientConnInterface
}

// NewScorerClient binds the client API to a connection.
func NewScorerClient(cc grpc.ClientConnInterface) ScorerClient {
	return &scorerClient{cc: cc}
}

func (c *scorerClient) Score(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScoreFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scorerClient) Assess(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AssessFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion client-stub
