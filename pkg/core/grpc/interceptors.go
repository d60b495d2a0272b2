// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     grpc
// Description: Server and client interceptors, error to status mapping
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var interceptorLogger = logging.New("grpc")

// Context keys for request metadata
type contextKey string

const (
	RequestIDKey    contextKey = "request_id"
	RequestIDHeader string     = "x-request-id"
	// ErrorCodeHeader carries the mdwerror code in the status trailer.
	ErrorCodeHeader string = "x-error-code"
)

// RecoveryInterceptor recovers from panics in gRPC handlers
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				interceptorLogger.Error("gRPC panic recovered",
					"method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor recovers from panics in streaming gRPC handlers
func StreamRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				interceptorLogger.Error("gRPC stream panic recovered",
					"method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		interceptorLogger.WithRequest(GetRequestID(ctx)).Info("gRPC request",
			"method", info.FullMethod,
			"status", status.Code(toStatusError(err)).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// StreamLoggingInterceptor logs gRPC streaming requests
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)

		interceptorLogger.WithRequest(GetRequestID(ss.Context())).Info("gRPC stream request",
			"method", info.FullMethod,
			"status", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return err
	}
}

// ErrorInterceptor converts *mdwerror.Error results into gRPC status errors.
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if e, ok := mdwerror.As(err); ok {
			_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorCodeHeader, string(e.Code())))
		}
		return nil, toStatusError(err)
	}
}

// RequestIDInterceptor adds a request ID to the context
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := extractRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		return handler(ctx, req)
	}
}

// ClientRequestIDInterceptor propagates request ID to outgoing requests
func ClientRequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		requestID := GetRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, requestID)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientLoggingInterceptor logs outgoing gRPC requests
func ClientLoggingInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		interceptorLogger.Debug("gRPC client request",
			"method", method,
			"status", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return err
	}
}

// ClientErrorInterceptor turns status errors carrying an error code back into
// *mdwerror.Error values.
func ClientErrorInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var trailer metadata.MD
		opts = append(opts, grpc.Trailer(&trailer))
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err == nil {
			return nil
		}
		return FromStatus(err, trailer)
	}
}

// StatusCode maps an error code to the gRPC code reported to clients.
func StatusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeDomainError, mdwerror.CodeDivisionByZero,
		mdwerror.CodeUnknownUnit, mdwerror.CodeUnknownOperation, mdwerror.CodeInvalidBase,
		mdwerror.CodeDegenerateEquation:
		return codes.InvalidArgument
	case mdwerror.CodeValueOutOfRange:
		return codes.OutOfRange
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeServiceUnavailable, mdwerror.CodeConnectionFailed, mdwerror.CodeNetworkError:
		return codes.Unavailable
	case mdwerror.CodeConfigError, mdwerror.CodeMissingConfig, mdwerror.CodeInvalidConfig:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	e, ok := mdwerror.As(err)
	if !ok {
		return status.Error(codes.Unknown, err.Error())
	}
	return status.Error(StatusCode(e.Code()), e.Message())
}

// FromStatus rebuilds an *mdwerror.Error from a status error and the
// response trailer. Errors without a code trailer are returned unchanged.
func FromStatus(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	values := trailer.Get(ErrorCodeHeader)
	if len(values) == 0 {
		return err
	}
	return mdwerror.New(st.Message()).
		WithCode(mdwerror.Code(values[0])).
		WithDetail("grpc_code", st.Code().String())
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return extractRequestID(ctx)
}

func extractRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(RequestIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
