// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     gateway
// Description: HTTP server, middleware and health checks
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package gateway

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/health"
	"github.com/msto63/rechenwerk/pkg/core/logging"
	"github.com/msto63/rechenwerk/pkg/core/version"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Server is the calculator HTTP gateway
type Server struct {
	httpServer *http.Server
	handler    *Handler
	ws         *WebSocketHandler
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host         string
	HTTPPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string

	CORSEnabled    bool
	AllowedOrigins []string
	AllowedMethods []string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		HTTPPort:       8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		Version:        version.Gateway,
		CORSEnabled:    true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
	}
}

// New creates the gateway. log is the shared history; sessionOpts are
// applied to every WebSocket session after the history option, e.g. to add
// a preference store.
func New(cfg Config, svc *service.Service, log *history.Log, sessionOpts ...session.Option) *Server {
	logger := logging.New("gateway-server")
	registry := health.NewRegistry("gateway", cfg.Version)

	h := NewHandler(cfg.Version, svc, log, registry)
	ws := NewWebSocketHandler(func(ctx context.Context) *session.Session {
		opts := append([]session.Option{session.WithHistory(log)}, sessionOpts...)
		return session.New(ctx, opts...)
	}, cfg.AllowedOrigins)

	registry.Register(health.FuncCheck("engine", time.Second, func(ctx context.Context) error {
		resp, err := svc.Evaluate(ctx, &service.EvaluateRequest{Keys: "6 * 7 ="})
		if err != nil {
			return err
		}
		if resp.Snapshot.Raw != "42" {
			return mdwerror.New("engine self-check returned " + resp.Snapshot.Raw).WithCode(mdwerror.CodeInternal)
		}
		return nil
	}))
	registry.RegisterFunc("sessions", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{
			Name:    "sessions",
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d active", ws.ActiveSessions()),
			Details: map[string]interface{}{"active": ws.ActiveSessions()},
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/api/v1/session/ws", ws)
	mux.Handle("/", h)

	var root http.Handler = mux
	if cfg.CORSEnabled {
		root = corsMiddleware(cfg, root)
	}
	root = loggingMiddleware(logger, root)
	root = requestIDMiddleware(root)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
			Handler:      root,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: h,
		ws:      ws,
		health:  registry,
		logger:  logger,
		config:  cfg,
	}
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the request id assigned by the gateway.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// corsMiddleware adds CORS headers and answers preflight requests.
func corsMiddleware(cfg Config, next http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	allowAll := len(cfg.AllowedOrigins) == 0
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.WithRequest(RequestID(r.Context())).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("Starting calculator gateway", "host", s.config.Host, "port", s.config.HTTPPort)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Serve serves on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	s.logger.Info("Starting calculator gateway (async)", "host", s.config.Host, "port", s.config.HTTPPort)

	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("gateway.StartAsync")
	}
	go func() {
		if err := s.Serve(lis); err != nil {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping calculator gateway")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// Sessions returns the WebSocket handler, e.g. to inspect active sessions.
func (s *Server) Sessions() *WebSocketHandler {
	return s.ws
}
