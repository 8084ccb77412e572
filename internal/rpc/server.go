package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/sustainability-index/internal/assess"
	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// errBadRequest marks payloads that do not decode into a request.
var errBadRequest = errors.New("bad request")

// #region server
// Server implements ScorerServer on top of an Assessor.
type Server struct {
	assessor *assess.Assessor
	logger   *slog.Logger
}

// NewServer creates a scoring server. A nil logger discards output.
func NewServer(a *assess.Assessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{assessor: a, logger: logger}
}

// Score evaluates one pipeline.
func (s *Server) Score(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ScoreRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, toStatus(fmt.Errorf("%w: %v", errBadRequest, err))
	}
	p, err := pillar.ParsePipeline(req.Pipeline)
	if err != nil {
		return nil, toStatus(fmt.Errorf("%w: %v", errBadRequest, err))
	}
	score, err := s.assessor.Scorer().Score(p, req.Inputs)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := toStruct(score)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Assess runs a full farm assessment, persisting it when requested.
func (s *Server) Assess(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AssessRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, toStatus(fmt.Errorf("%w: %v", errBadRequest, err))
	}
	var a assess.Assessment
	var err error
	if req.Save {
		a, err = s.assessor.AssessAndSave(req.Profile)
	} else {
		a, err = s.assessor.Assess(req.Profile)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := toStruct(a)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// #endregion server

// #region status
// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, errBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, assess.ErrNoStore):
		code = codes.FailedPrecondition
	default:
		switch logging.ErrorKind(err) {
		case "out_of_range", "missing_input", "unknown_term", "unregistered_variable",
			"invalid_input", "invalid_profile", "unknown_region":
			code = codes.InvalidArgument
		case "no_rule_fired":
			code = codes.FailedPrecondition
		}
	}
	return status.Error(code, err.Error())
}

// #endregion status

// #region serve
// NewGRPCServer builds a grpc.Server with the scoring service registered
// and every call logged.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.UnaryInterceptor(logCalls(srv.logger))}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterScorerServer(gs, srv)
	return gs
}

func logCalls(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("rpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// Serve listens on addr until ctx is cancelled, then stops gracefully.
func Serve(ctx context.Context, addr string, srv *Server) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := NewGRPCServer(srv)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			gs.GracefulStop()
		case <-done:
		}
	}()
	defer close(done)

	srv.logger.Info("serving", "addr", lis.Addr().String(), "service", ServiceName)
	if err := gs.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// #endregion serve
