package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/health"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

type fixture struct {
	server  *Server
	http    *httptest.Server
	history *history.Log
	prefs   *session.MemoryPreferences
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := history.New(history.DefaultCapacity)
	prefs := session.NewMemoryPreferences()
	srv := New(DefaultConfig(), service.New(service.DefaultConfig()), log, session.WithPreferences(prefs))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{server: srv, http: ts, history: log, prefs: prefs}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(method, f.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Len(t, body["checks"], 2)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestHealthUnhealthy(t *testing.T) {
	f := newFixture(t)
	f.server.HealthRegistry().Register(health.FuncCheck("store", time.Second, func(ctx context.Context) error {
		return assert.AnError
	}))

	resp, body := f.do(t, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestSolve(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/v1/solve/quadratic", `{"coefficients":[1,0,-4]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "two_real", body["kind"])
	assert.Equal(t, 16.0, body["discriminant"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/solve/system", `{"coefficients":["1","1","3","2","-1","0"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["x"])
	assert.Equal(t, 2.0, body["y"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/solve/linear", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "infinite", body["kind"])
}

func TestSolveErrors(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/v1/solve/quartic", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_OPERATION", body["code"])
	assert.NotEmpty(t, body["error"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/solve/linear", `{"coefficients":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	resp, _ = f.do(t, http.MethodGet, "/api/v1/solve/linear", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST", resp.Header.Get("Allow"))
}

func TestStatsConvertFormat(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/v1/stats", `{"input":"1, 2, 3, 4"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4.0, body["count"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/convert/base", `{"value":"ff","from":"hex"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "255", body["result"])
	assert.Equal(t, "11111111", body["bases"].(map[string]interface{})["bin"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/convert/temperature", `{"value":0,"from":"c","to":"k"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "273.15", body["result"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/convert/unit", `{"category":"mass","value":1,"from":"kg","to":"furlong"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_UNIT", body["code"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/format", `{"value":"1e13"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.000000e+13", body["text"])
}

func TestNonFiniteResults(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"quadratic overflow", "/api/v1/solve/quadratic", `{"coefficients":[1e200,1e200,1]}`},
		{"linear infinity", "/api/v1/solve/linear", `{"coefficients":[1,"Infinity"]}`},
		{"unit overflow", "/api/v1/convert/unit", `{"category":"length","value":1e308,"from":"km","to":"mm"}`},
		{"temperature infinity", "/api/v1/convert/temperature", `{"value":"Infinity","from":"c","to":"f"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, "DOMAIN_ERROR", body["code"])
		})
	}

	resp, body := f.do(t, http.MethodPost, "/api/v1/stats", `{"input":"1 Infinity"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, []interface{}{1.0}, body["values"])

	resp, body = f.do(t, http.MethodPost, "/api/v1/format", `{"value":"Infinity","mode":"exponential","digits":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Error", body["text"])
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	h := NewHandler("test", service.New(service.DefaultConfig()), history.New(1), health.NewRegistry("test", "0.0.0"))
	rec := httptest.NewRecorder()

	h.writeJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.history.Add(ctx, "1 + 1", "2")
	require.NoError(t, err)
	_, err = f.history.Add(ctx, "2 × 3", "6")
	require.NoError(t, err)

	resp, body := f.do(t, http.MethodGet, "/api/v1/history?limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["total"])
	assert.Equal(t, 30.0, body["capacity"])
	entries := body["entries"].([]interface{})
	assert.Equal(t, "6", entries[0].(map[string]interface{})["result"])

	resp, body = f.do(t, http.MethodGet, "/api/v1/history/"+first.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1 + 1", body["expression"])

	resp, body = f.do(t, http.MethodGet, "/api/v1/history/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, _ = f.do(t, http.MethodGet, "/api/v1/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/v1/history", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, f.history.Len())
}

func TestCORSAndNotFound(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.http.URL+"/api/v1/stats", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body := f.do(t, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRequestIDPropagation(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodGet, f.http.URL+"/api/v1/", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func dialSession(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/api/v1/session/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func exchange(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) wsReply {
	t.Helper()

	msg := map[string]interface{}{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, conn.WriteJSON(msg))

	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func snapshotOf(t *testing.T, reply wsReply) session.Snapshot {
	t.Helper()
	require.Equal(t, "state", reply.Type, "payload: %s", reply.Payload)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(reply.Payload, &snap))
	return snap
}

func TestWebSocketSession(t *testing.T) {
	f := newFixture(t)
	conn := dialSession(t, f)

	var hello wsReply
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "0", snapshotOf(t, hello).Display)

	snap := snapshotOf(t, exchange(t, conn, "keys", map[string]string{"keys": "1234 * 2"}))
	assert.Equal(t, "1234 ×", snap.Expression)

	snap = snapshotOf(t, exchange(t, conn, "key", map[string]string{"key": "="}))
	assert.Equal(t, "2,468", snap.Display)
	assert.Equal(t, "2468", snap.Raw)
	assert.Equal(t, 1, f.history.Len(), "sessions record into the shared history")

	snap = snapshotOf(t, exchange(t, conn, "angle", map[string]string{"mode": "deg"}))
	assert.Equal(t, "DEG", snap.AngleMode)
	stored, ok, err := f.prefs.GetPreference(context.Background(), session.PrefAngleMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "DEG", stored)

	snap = snapshotOf(t, exchange(t, conn, "angle", nil))
	assert.Equal(t, "RAD", snap.AngleMode)

	snap = snapshotOf(t, exchange(t, conn, "key", map[string]string{"key": "c"}))
	assert.Equal(t, "0", snap.Display)

	snap = snapshotOf(t, exchange(t, conn, "recall", map[string]int{"index": 0}))
	assert.Equal(t, "2,468", snap.Display)

	hist := exchange(t, conn, "history", nil)
	assert.Equal(t, "history", hist.Type)

	pong := exchange(t, conn, "ping", nil)
	assert.Equal(t, "pong", pong.Type)

	assert.Equal(t, 1, f.server.Sessions().ActiveSessions())
}

func TestWebSocketErrors(t *testing.T) {
	f := newFixture(t)
	conn := dialSession(t, f)

	var hello wsReply
	require.NoError(t, conn.ReadJSON(&hello))

	tests := []struct {
		name    string
		msgType string
		payload interface{}
		code    string
	}{
		{"unknown key", "key", map[string]string{"key": "?"}, "INVALID_INPUT"},
		{"unknown type", "launch", nil, "UNKNOWN_TYPE"},
		{"bad payload", "key", "not an object", "INVALID_INPUT"},
		{"bad angle", "angle", map[string]string{"mode": "grad"}, "INVALID_INPUT"},
		{"recall missing", "recall", map[string]string{"id": "nope"}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := exchange(t, conn, tt.msgType, tt.payload)
			require.Equal(t, "error", reply.Type)
			var payload WSErrorPayload
			require.NoError(t, json.Unmarshal(reply.Payload, &payload))
			assert.Equal(t, tt.code, payload.Code)
		})
	}

	snap := snapshotOf(t, exchange(t, conn, "state", nil))
	assert.Equal(t, "0", snap.Display)
}

// lockedBuffer collects log output written by server goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failingPrefs struct{}

func (failingPrefs) GetPreference(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (failingPrefs) SetPreference(context.Context, string, string) error {
	return assert.AnError
}

func TestErrorsAreLogged(t *testing.T) {
	logs := &lockedBuffer{}
	logging.SetDefaults("", "", logs)
	t.Cleanup(func() { logging.SetDefaults("", "", os.Stderr) })

	log := history.New(history.DefaultCapacity)
	srv := New(DefaultConfig(), service.New(service.DefaultConfig()), log, session.WithPreferences(failingPrefs{}))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	f := &fixture{server: srv, http: ts, history: log}

	resp, _ := f.do(t, http.MethodPost, "/api/v1/solve/quartic", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, logs.String(), "error_code=UNKNOWN_OPERATION")

	conn := dialSession(t, f)
	var hello wsReply
	require.NoError(t, conn.ReadJSON(&hello))
	id := snapshotOf(t, hello).SessionID

	snap := snapshotOf(t, exchange(t, conn, "angle", map[string]string{"mode": "deg"}))
	assert.Equal(t, "DEG", snap.AngleMode)

	reply := exchange(t, conn, "angle", map[string]string{"mode": "grad"})
	assert.Equal(t, "error", reply.Type)

	var sessionLines []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "session="+id) {
			sessionLines = append(sessionLines, line)
		}
	}
	joined := strings.Join(sessionLines, "\n")
	assert.Contains(t, joined, "error_code=DATABASE_ERROR")
	assert.Contains(t, joined, "unknown angle mode grad")
}
