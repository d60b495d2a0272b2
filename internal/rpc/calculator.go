// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     rpc
// Description: rechenwerk.v1.Calculator service description. Requests and
//              responses travel as google.protobuf.Struct documents whose
//              fields mirror the JSON shape of the service package types.
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package rpc

import (
	"context"
	"encoding/json"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rechenwerk.v1.Calculator"

// Method names.
const (
	MethodSolve      = "Solve"
	MethodStatistics = "Statistics"
	MethodConvert    = "Convert"
	MethodFormat     = "Format"
	MethodEvaluate   = "Evaluate"
)

// FullMethod returns "/rechenwerk.v1.Calculator/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CalculatorServer is the server API for rechenwerk.v1.Calculator.
type CalculatorServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Statistics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Convert(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Format(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(CalculatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// CalculatorServiceDesc describes rechenwerk.v1.Calculator for
// grpc.ServiceRegistrar.
var CalculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSolve, Handler: unaryHandler(MethodSolve, CalculatorServer.Solve)},
		{MethodName: MethodStatistics, Handler: unaryHandler(MethodStatistics, CalculatorServer.Statistics)},
		{MethodName: MethodConvert, Handler: unaryHandler(MethodConvert, CalculatorServer.Convert)},
		{MethodName: MethodFormat, Handler: unaryHandler(MethodFormat, CalculatorServer.Format)},
		{MethodName: MethodEvaluate, Handler: unaryHandler(MethodEvaluate, CalculatorServer.Evaluate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rechenwerk/v1/calculator.proto",
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&CalculatorServiceDesc, srv)
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CalculatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// toStruct converts a JSON-tagged value into a Struct document.
func toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewErrorBuilder(errors.ModuleRPC).
			Operation("encode").
			Message("failed to encode payload").
			Cause(err).
			Build()
	}
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, errors.NewErrorBuilder(errors.ModuleRPC).
			Operation("encode").
			Message("payload is not a JSON object").
			Cause(err).
			Build()
	}
	return s, nil
}

// fromStruct decodes a Struct document into a JSON-tagged value.
func fromStruct(s *structpb.Struct, v interface{}) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return errors.InvalidInput(errors.ModuleRPC, "decode", "struct", "JSON object")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.InvalidInput(errors.ModuleRPC, "decode", string(b), err.Error())
	}
	return nil
}
