package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/service"
)

// listen starts a calculator server on an in-memory listener and returns
// the dial option that reaches it.
func listen(t *testing.T) grpc.DialOption {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	cfg := DefaultConfig()
	cfg.EnableReflection = false
	srv := New(cfg, service.New(service.DefaultConfig()))
	go func() { _ = srv.Serve(lis) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	conn, err := grpc.NewClient("passthrough:///bufnet", listen(t),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func startClient(t *testing.T) *Client {
	t.Helper()

	client, err := Dial("passthrough:///bufnet", listen(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientSolve(t *testing.T) {
	client := startClient(t)
	ctx := context.Background()

	resp, err := client.Solve(ctx, &service.SolveRequest{
		Equation:     "quadratic",
		Coefficients: []service.Field{"1", "0", "-4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "two_real", resp.Kind)
	require.NotNil(t, resp.Discriminant)
	assert.Equal(t, 16.0, *resp.Discriminant)
	assert.Equal(t, []string{"x₁ = 2", "x₂ = -2", "Δ = 16"}, resp.Lines)
}

func TestClientStatisticsConvertFormat(t *testing.T) {
	client := startClient(t)
	ctx := context.Background()

	st, err := client.Statistics(ctx, &service.StatsRequest{Input: "1 2 3 4"})
	require.NoError(t, err)
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, []float64{1, 2, 3, 4}, st.Values)

	conv, err := client.Convert(ctx, &service.ConvertRequest{Kind: "base", Value: "255", From: "dec", To: "hex"})
	require.NoError(t, err)
	assert.Equal(t, "FF", conv.Result)
	require.NotNil(t, conv.Bases)
	assert.Equal(t, "11111111", conv.Bases.Binary)

	f, err := client.Format(ctx, &service.FormatRequest{Value: "1234567.5", Group: true})
	require.NoError(t, err)
	assert.Equal(t, "1,234,567.5", f.Text)
}

func TestClientEvaluate(t *testing.T) {
	client := startClient(t)

	resp, err := client.Evaluate(context.Background(), &service.EvaluateRequest{Keys: "2 ^ 10 ="})
	require.NoError(t, err)
	assert.Equal(t, "1,024", resp.Snapshot.Display)
	assert.Equal(t, "1024", resp.Snapshot.Raw)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "1024", resp.History[0].Result)
	assert.False(t, resp.History[0].Timestamp.IsZero())
}

func TestClientErrorCodes(t *testing.T) {
	client := startClient(t)
	ctx := context.Background()

	_, err := client.Convert(ctx, &service.ConvertRequest{Kind: "unit", Category: "length", Value: "1", From: "parsec", To: "m"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeUnknownUnit), "code = %v", mdwerror.GetCode(err))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Solve(ctx, &service.SolveRequest{Equation: "quartic"})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeUnknownOperation))
}

func TestRawStructCall(t *testing.T) {
	conn := startServer(t)

	in, err := structpb.NewStruct(map[string]interface{}{
		"equation":     "linear",
		"coefficients": []interface{}{2, "-4"},
	})
	require.NoError(t, err)

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), FullMethod(MethodSolve), in, out))
	assert.Equal(t, "unique", out.Fields["kind"].GetStringValue())
	assert.Equal(t, "x = 2", out.Fields["lines"].GetListValue().Values[0].GetStringValue())

	bad, err := structpb.NewStruct(map[string]interface{}{"equation": 42})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), FullMethod(MethodSolve), bad, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealthService(t *testing.T) {
	conn := startServer(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/rechenwerk.v1.Calculator/Evaluate", FullMethod(MethodEvaluate))
}
