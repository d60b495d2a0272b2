package grpc

import (
	"context"
	"errors"
	"testing"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/rechenwerk.v1.Calculator/Test"}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code mdwerror.Code
		want codes.Code
	}{
		{mdwerror.CodeInvalidInput, codes.InvalidArgument},
		{mdwerror.CodeDivisionByZero, codes.InvalidArgument},
		{mdwerror.CodeUnknownUnit, codes.InvalidArgument},
		{mdwerror.CodeValueOutOfRange, codes.OutOfRange},
		{mdwerror.CodeNotFound, codes.NotFound},
		{mdwerror.CodeTimeout, codes.DeadlineExceeded},
		{mdwerror.CodeServiceUnavailable, codes.Unavailable},
		{mdwerror.CodeInvalidConfig, codes.FailedPrecondition},
		{mdwerror.CodeDatabaseError, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := StatusCode(tt.code); got != tt.want {
				t.Errorf("StatusCode(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestErrorInterceptor(t *testing.T) {
	interceptor := ErrorInterceptor()

	t.Run("mdwerror", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, mdwerror.New("bad unit").WithCode(mdwerror.CodeUnknownUnit)
		})
		st, ok := status.FromError(err)
		if !ok {
			t.Fatalf("ErrorInterceptor() error = %v, want status error", err)
		}
		if st.Code() != codes.InvalidArgument {
			t.Errorf("code = %v, want %v", st.Code(), codes.InvalidArgument)
		}
		if st.Message() != "bad unit" {
			t.Errorf("message = %q, want %q", st.Message(), "bad unit")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		})
		if status.Code(err) != codes.Unknown {
			t.Errorf("code = %v, want %v", status.Code(err), codes.Unknown)
		}
	})

	t.Run("success", func(t *testing.T) {
		resp, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "ok", nil
		})
		if err != nil || resp != "ok" {
			t.Errorf("ErrorInterceptor() = %v, %v, want ok, nil", resp, err)
		}
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	_, err := RecoveryInterceptor()(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("kaputt")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("RecoveryInterceptor() code = %v, want %v", status.Code(err), codes.Internal)
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()

	t.Run("from metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-1"))
		var got string
		_, _ = interceptor(ctx, nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			got = GetRequestID(ctx)
			return nil, nil
		})
		if got != "req-1" {
			t.Errorf("GetRequestID() = %q, want %q", got, "req-1")
		}
	})

	t.Run("generated", func(t *testing.T) {
		var got string
		_, _ = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			got = GetRequestID(ctx)
			return nil, nil
		})
		if len(got) != 36 {
			t.Errorf("GetRequestID() = %q, want a uuid", got)
		}
	})
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q, want %q", got, "abc")
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}

func TestFromStatus(t *testing.T) {
	err := status.Error(codes.InvalidArgument, "unknown unit: parsec")

	t.Run("with code trailer", func(t *testing.T) {
		got := FromStatus(err, metadata.Pairs(ErrorCodeHeader, string(mdwerror.CodeUnknownUnit)))
		if !mdwerror.HasCode(got, mdwerror.CodeUnknownUnit) {
			t.Errorf("FromStatus() code = %v, want %v", mdwerror.GetCode(got), mdwerror.CodeUnknownUnit)
		}
		e, _ := mdwerror.As(got)
		if e.Message() != "unknown unit: parsec" {
			t.Errorf("FromStatus() message = %q", e.Message())
		}
	})

	t.Run("without trailer", func(t *testing.T) {
		if got := FromStatus(err, nil); got != err {
			t.Errorf("FromStatus() = %v, want original error", got)
		}
	})
}

func TestServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	cfg.Host = "127.0.0.1"
	if got := cfg.Address(); got != "127.0.0.1:9090" {
		t.Errorf("Address() = %q, want %q", got, "127.0.0.1:9090")
	}
	srv := NewServer(cfg)
	if got := srv.Address(); got != "127.0.0.1:9090" {
		t.Errorf("Server.Address() = %q before start", got)
	}
}
