package integration

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"testing"
	"time"
)

// Test configuration from environment or defaults
type TestConfig struct {
	HTTPAddr string
	GRPCAddr string
}

func getTestConfig() TestConfig {
	return TestConfig{
		HTTPAddr: getEnv("TEST_MRW_HTTP_ADDR", "localhost:8080"),
		GRPCAddr: getEnv("TEST_MRW_GRPC_ADDR", "localhost:9090"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// skipIfServiceUnavailable skips the test if the server is not reachable
func skipIfServiceUnavailable(t *testing.T, addr string, serviceName string) {
	t.Helper()
	if !isServiceAvailable(addr) {
		t.Skipf("Skipping: %s not available at %s (start it with: mrw serve)", serviceName, addr)
	}
}

// isServiceAvailable checks if a TCP connection can be established
func isServiceAvailable(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// postJSON sends body to the gateway and decodes the JSON answer.
func postJSON(t *testing.T, addr, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	resp, err := httpClient.Post("http://"+addr+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s error = %v", path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("POST %s: decode error = %v", path, err)
	}
	return resp.StatusCode, out
}
