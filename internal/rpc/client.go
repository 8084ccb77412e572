package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/danielpatrickdp/sustainability-index/internal/assess"
	"github.com/danielpatrickdp/sustainability-index/internal/indicators"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// #region client-struct
// Client wraps the gRPC connection to a scoring server.
type Client struct {
	conn   *grpc.ClientConn
	client ScorerClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to a scoring server. Extra options are applied after
// the default insecure transport credentials.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewScorerClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service
// implementation. Used for testing without a real gRPC connection.
func NewClientWithService(svc ScorerClient) *Client {
	return &Client{client: svc}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region score
// Score evaluates one pipeline remotely.
func (c *Client) Score(ctx context.Context, p pillar.Pipeline, inputs map[string]float64) (pillar.Score, error) {
	req, err := toStruct(ScoreRequest{Pipeline: string(p), Inputs: inputs})
	if err != nil {
		return pillar.Score{}, err
	}
	resp, err := c.client.Score(ctx, req)
	if err != nil {
		return pillar.Score{}, fmt.Errorf("score rpc: %w", err)
	}
	var score pillar.Score
	if err := fromStruct(resp, &score); err != nil {
		return pillar.Score{}, err
	}
	return score, nil
}

// #endregion score

// #region assess
// Assess runs a full farm assessment remotely.
func (c *Client) Assess(ctx context.Context, profile indicators.FarmProfile, save bool) (assess.Assessment, error) {
	req, err := toStruct(AssessRequest{Profile: profile, Save: save})
	if err != nil {
		return assess.Assessment{}, err
	}
	resp, err := c.client.Assess(ctx, req)
	if err != nil {
		return assess.Assessment{}, fmt.Errorf("assess rpc: %w", err)
	}
	var a assess.Assessment
	if err := fromStruct(resp, &a); err != nil {
		return assess.Assessment{}, err
	}
	return a, nil
}

// #endregion assess
