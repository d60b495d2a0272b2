// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     rpc
// Description: gRPC server exposing the calculator service
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package rpc

import (
	"context"
	"net"

	"github.com/msto63/rechenwerk/internal/service"
	coreGrpc "github.com/msto63/rechenwerk/pkg/core/grpc"
	"github.com/msto63/rechenwerk/pkg/core/health"
	"github.com/msto63/rechenwerk/pkg/core/logging"
	"github.com/msto63/rechenwerk/pkg/core/version"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Ensure Server implements CalculatorServer
var _ CalculatorServer = (*Server)(nil)

// Config holds server configuration
type Config struct {
	Host             string
	Port             int
	EnableReflection bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             9090,
		EnableReflection: true,
	}
}

// Server is the calculator gRPC server
type Server struct {
	service *service.Service
	grpc    *coreGrpc.Server
	status  *grpchealth.Server
	health  *health.Registry
	logger  *logging.Logger
	config  Config
}

// New creates a gRPC server for svc. Extra health checks, e.g. the store,
// can be added through HealthRegistry.
func New(cfg Config, svc *service.Service) *Server {
	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.EnableReflection

	s := &Server{
		service: svc,
		grpc:    coreGrpc.NewServer(grpcCfg),
		status:  grpchealth.NewServer(),
		health:  health.NewRegistry("rpc", version.RPC),
		logger:  logging.New("rpc-server"),
		config:  cfg,
	}

	RegisterCalculatorServer(s.grpc.GRPCServer(), s)
	healthpb.RegisterHealthServer(s.grpc.GRPCServer(), s.status)
	s.status.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Solve implements CalculatorServer.Solve
func (s *Server) Solve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.SolveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.service.Solve(ctx, &req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// Statistics implements CalculatorServer.Statistics
func (s *Server) Statistics(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.StatsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.service.Statistics(ctx, &req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// Convert implements CalculatorServer.Convert
func (s *Server) Convert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.ConvertRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.service.Convert(ctx, &req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// Format implements CalculatorServer.Format
func (s *Server) Format(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.FormatRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.service.Format(ctx, &req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// Evaluate implements CalculatorServer.Evaluate
func (s *Server) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.EvaluateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.service.Evaluate(ctx, &req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting calculator gRPC server", "host", s.config.Host, "port", s.config.Port)
	return s.grpc.Start()
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	s.logger.Info("Starting calculator gRPC server (async)", "host", s.config.Host, "port", s.config.Port)
	return s.grpc.StartAsync()
}

// Serve serves on lis until the server stops.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop stops the server, forcing it when ctx expires.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping calculator gRPC server")
	s.status.Shutdown()
	s.grpc.StopWithTimeout(ctx)
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.grpc.Address()
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
