// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     rpc
// Description: Typed client for rechenwerk.v1.Calculator
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package rpc

import (
	"context"
	"time"

	"github.com/msto63/rechenwerk/internal/service"
	coreGrpc "github.com/msto63/rechenwerk/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote calculator. Errors carrying an error code are
// returned as *mdwerror.Error.
type Client struct {
	conn    *grpc.ClientConn
	owned   bool
	timeout time.Duration
}

// Dial connects to the calculator at target.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	cfg := coreGrpc.DefaultClientConfig(target)
	conn, err := coreGrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, owned: true, timeout: cfg.Timeout}, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn, timeout: coreGrpc.DefaultClientConfig("").Timeout}
}

// Close closes the connection if the client created it.
func (c *Client) Close() error {
	if c.owned {
		return c.conn.Close()
	}
	return nil
}

// Solve calls Calculator.Solve.
func (c *Client) Solve(ctx context.Context, req *service.SolveRequest) (*service.SolveResponse, error) {
	return invoke[service.SolveResponse](ctx, c, MethodSolve, req)
}

// Statistics calls Calculator.Statistics.
func (c *Client) Statistics(ctx context.Context, req *service.StatsRequest) (*service.StatsResponse, error) {
	return invoke[service.StatsResponse](ctx, c, MethodStatistics, req)
}

// Convert calls Calculator.Convert.
func (c *Client) Convert(ctx context.Context, req *service.ConvertRequest) (*service.ConvertResponse, error) {
	return invoke[service.ConvertResponse](ctx, c, MethodConvert, req)
}

// Format calls Calculator.Format.
func (c *Client) Format(ctx context.Context, req *service.FormatRequest) (*service.FormatResponse, error) {
	return invoke[service.FormatResponse](ctx, c, MethodFormat, req)
}

// Evaluate calls Calculator.Evaluate.
func (c *Client) Evaluate(ctx context.Context, req *service.EvaluateRequest) (*service.EvaluateResponse, error) {
	return invoke[service.EvaluateResponse](ctx, c, MethodEvaluate, req)
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req interface{}) (*Resp, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}

	resp := new(Resp)
	if err := fromStruct(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
