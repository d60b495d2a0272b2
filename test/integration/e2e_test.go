package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/msto63/rechenwerk/internal/gateway"
	"github.com/msto63/rechenwerk/internal/rpc"
	"github.com/msto63/rechenwerk/internal/service"
)

func TestGatewayHealth(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.HTTPAddr, "gateway")

	resp, err := httpClient.Get("http://" + cfg.HTTPAddr + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", resp.StatusCode)
	}
}

func TestGatewaySolve(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.HTTPAddr, "gateway")

	status, body := postJSON(t, cfg.HTTPAddr, "/api/v1/solve/quadratic", map[string]interface{}{
		"coefficients": []interface{}{1, 0, -4},
	})
	if status != http.StatusOK {
		t.Fatalf("solve status = %d, body = %v", status, body)
	}
	if body["kind"] != "two_real" {
		t.Errorf("kind = %v, want two_real", body["kind"])
	}

	status, body = postJSON(t, cfg.HTTPAddr, "/api/v1/solve/quartic", map[string]interface{}{})
	if status != http.StatusUnprocessableEntity {
		t.Errorf("unknown equation status = %d, want 422", status)
	}
	if body["code"] != "UNKNOWN_OPERATION" {
		t.Errorf("code = %v, want UNKNOWN_OPERATION", body["code"])
	}
}

func TestGatewayWebSocketSession(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.HTTPAddr, "gateway")

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+cfg.HTTPAddr+"/api/v1/session/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var initial gateway.WSResponse
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if initial.Type != "state" {
		t.Fatalf("first message type = %q, want state", initial.Type)
	}

	msg := gateway.WSMessage{Type: "keys", Payload: []byte(`{"keys":"clear 6 * 7 ="}`)}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var state struct {
		Type    string `json:"type"`
		Payload struct {
			Display string `json:"display"`
		} `json:"payload"`
	}
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if state.Payload.Display != "42" {
		t.Errorf("display = %q, want 42", state.Payload.Display)
	}
}

func TestRPCCalculator(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.GRPCAddr, "gRPC server")

	client, err := rpc.Dial(cfg.GRPCAddr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Solve(ctx, &service.SolveRequest{
		Equation:     service.EquationCubic,
		Coefficients: []service.Field{"1", "-6", "11", "-6"},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if resp.Kind != "three_real" {
		t.Errorf("Solve().Kind = %q, want three_real", resp.Kind)
	}

	eval, err := client.Evaluate(ctx, &service.EvaluateRequest{Keys: "2 ^ 10 ="})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if eval.Snapshot.Raw != "1024" {
		t.Errorf("Evaluate().Snapshot.Raw = %q, want 1024", eval.Snapshot.Raw)
	}
}

func TestRPCHealth(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.GRPCAddr, "gRPC server")

	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Check().Status = %v, want SERVING", resp.Status)
	}
}
