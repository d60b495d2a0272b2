// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     gateway
// Description: WebSocket key-press sessions
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// readTimeout closes idle connections.
const readTimeout = 120 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "key", "keys", "ping", "angle", "state", "recall", "history"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSKeyPayload carries a single key ("7", "+", "fn:sqrt") or a key sequence.
type WSKeyPayload struct {
	Key  string `json:"key,omitempty"`
	Keys string `json:"keys,omitempty"`
}

func (p WSKeyPayload) parse() ([]session.Key, error) {
	if p.Key != "" {
		k, err := session.ParseKey(p.Key)
		if err != nil {
			return nil, err
		}
		return []session.Key{k}, nil
	}
	return session.ParseKeys(p.Keys)
}

// WSAnglePayload selects an angle mode; an empty mode toggles.
type WSAnglePayload struct {
	Mode string `json:"mode,omitempty"`
}

// WSRecallPayload selects a history entry by id or by index (0 = newest).
type WSRecallPayload struct {
	ID    string `json:"id,omitempty"`
	Index int    `json:"index,omitempty"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "state", "history", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionFactory creates the session for a new connection.
type SessionFactory func(ctx context.Context) *session.Session

// WebSocketHandler runs one calculator session per connection.
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	newSession SessionFactory
	logger     *logging.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// NewWebSocketHandler creates a new WebSocket handler. allowedOrigins
// restricts browser origins; empty or "*" allows all.
func NewWebSocketHandler(factory SessionFactory, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		newSession: factory,
		logger:     logging.New("gateway-websocket"),
		sessions:   make(map[string]*session.Session),
	}
}

// ActiveSessions returns the number of open connections.
func (h *WebSocketHandler) ActiveSessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	sess := h.newSession(context.WithoutCancel(ctx))
	h.register(sess)
	defer h.unregister(sess)

	logger := h.logger.WithSession(sess.ID())
	logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	h.send(conn, WSResponse{Type: "state", Payload: sess.Snapshot()})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		h.dispatch(ctx, conn, logger, sess, msg)
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, conn *websocket.Conn, logger *logging.Logger, sess *session.Session, msg WSMessage) {
	switch msg.Type {
	case "ping":
		h.send(conn, WSResponse{Type: "pong"})

	case "state":
		h.send(conn, WSResponse{Type: "state", Payload: sess.Snapshot()})

	case "key", "keys":
		var payload WSKeyPayload
		if !h.unmarshal(conn, msg.Payload, &payload) {
			return
		}
		keys, err := payload.parse()
		if err != nil {
			h.sendError(conn, logger, err)
			return
		}
		h.send(conn, WSResponse{Type: "state", Payload: sess.PressAll(keys)})

	case "angle":
		var payload WSAnglePayload
		if !h.unmarshal(conn, msg.Payload, &payload) {
			return
		}
		mode := sess.AngleMode().Toggle()
		if payload.Mode != "" {
			m, ok := accumulator.ParseAngleMode(payload.Mode)
			if !ok {
				h.sendError(conn, logger, mdwerror.New("unknown angle mode "+payload.Mode).WithCode(mdwerror.CodeInvalidInput))
				return
			}
			mode = m
		}
		if err := sess.SetAngleMode(ctx, mode); err != nil {
			logger.LogError(err)
		}
		h.send(conn, WSResponse{Type: "state", Payload: sess.Snapshot()})

	case "recall":
		var payload WSRecallPayload
		if !h.unmarshal(conn, msg.Payload, &payload) {
			return
		}
		var (
			snap session.Snapshot
			err  error
		)
		if payload.ID != "" {
			snap, err = sess.Recall(payload.ID)
		} else {
			snap, err = sess.RecallIndex(payload.Index)
		}
		if err != nil {
			h.sendError(conn, logger, err)
			return
		}
		h.send(conn, WSResponse{Type: "state", Payload: snap})

	case "history":
		h.send(conn, WSResponse{Type: "history", Payload: sess.History().Entries()})

	default:
		h.send(conn, WSResponse{Type: "error", Payload: WSErrorPayload{
			Code:    "UNKNOWN_TYPE",
			Message: "Unknown message type: " + msg.Type,
		}})
	}
}

// unmarshal decodes an optional payload and reports failures to the client.
func (h *WebSocketHandler) unmarshal(conn *websocket.Conn, raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	if err := json.Unmarshal(raw, v); err != nil {
		h.send(conn, WSResponse{Type: "error", Payload: WSErrorPayload{
			Code:    string(mdwerror.CodeInvalidInput),
			Message: "Invalid payload: " + err.Error(),
		}})
		return false
	}
	return true
}

func (h *WebSocketHandler) register(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sess.ID()] = sess
}

func (h *WebSocketHandler) unregister(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sess.ID())
}

func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Warn("WebSocket write failed", "error", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, logger *logging.Logger, err error) {
	logger.LogError(err)
	payload := WSErrorPayload{Code: string(mdwerror.CodeInternal), Message: err.Error()}
	if e, ok := mdwerror.As(err); ok {
		payload = WSErrorPayload{Code: string(e.Code()), Message: e.Message()}
	}
	h.send(conn, WSResponse{Type: "error", Payload: payload})
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
