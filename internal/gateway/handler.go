// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     gateway
// Description: HTTP/JSON API for the calculator
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/health"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HistoryResponse represents a list of history entries
type HistoryResponse struct {
	Entries  []history.Entry `json:"entries"`
	Total    int             `json:"total"`
	Capacity int             `json:"capacity"`
}

// Handler handles HTTP requests for the calculator API
type Handler struct {
	service   *service.Service
	history   *history.Log
	health    *health.Registry
	logger    *logging.Logger
	startTime time.Time
	version   string
}

// NewHandler creates a new API handler. log is the shared calculation
// history listed by /history.
func NewHandler(version string, svc *service.Service, log *history.Log, registry *health.Registry) *Handler {
	return &Handler{
		service:   svc,
		history:   log,
		health:    registry,
		logger:    logging.New("gateway-handler"),
		startTime: time.Now(),
		version:   version,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "health":
		h.handleHealth(w, r)
	case strings.HasPrefix(path, "solve/"):
		h.handleSolve(w, r, strings.TrimPrefix(path, "solve/"))
	case path == "stats":
		h.handleStats(w, r)
	case strings.HasPrefix(path, "convert/"):
		h.handleConvert(w, r, strings.TrimPrefix(path, "convert/"))
	case path == "format":
		h.handleFormat(w, r)
	case path == "evaluate":
		h.handleEvaluate(w, r)
	case path == "history":
		h.handleHistory(w, r)
	case strings.HasPrefix(path, "history/"):
		h.handleHistoryEntry(w, r, strings.TrimPrefix(path, "history/"))
	default:
		h.writeError(w, http.StatusNotFound, string(mdwerror.CodeNotFound), "Endpoint not found", r.URL.Path)
	}
}

// handleRoot handles the root endpoint
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "meinRECHENWERK API",
		"version": h.version,
		"endpoints": []string{
			"GET    /api/v1/health",
			"POST   /api/v1/solve/{linear|quadratic|cubic|system}",
			"POST   /api/v1/stats",
			"POST   /api/v1/convert/{base|unit|temperature}",
			"POST   /api/v1/format",
			"POST   /api/v1/evaluate",
			"GET    /api/v1/history",
			"DELETE /api/v1/history",
			"GET    /api/v1/history/{id}",
			"WS     /api/v1/session/ws",
		},
	})
}

// handleHealth reports the registry status; unhealthy reports use 503.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, map[string]interface{}{
		"status":  report.Status,
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"checks":  report.Checks,
	})
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request, equation string) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req service.SolveRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Equation = equation

	resp, err := h.service.Solve(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req service.StatsRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Statistics(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request, kind string) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req service.ConvertRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Kind = kind

	resp, err := h.service.Convert(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req service.FormatRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Format(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req service.EvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Evaluate(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleHistory lists (GET ?limit=n) or clears (DELETE) the shared history.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.history.Entries()
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				h.writeServiceError(w, errors.InvalidInput(errors.ModuleGateway, "history", raw, "non-negative integer"))
				return
			}
			if limit < len(entries) {
				entries = entries[:limit]
			}
		}
		h.writeJSON(w, http.StatusOK, HistoryResponse{
			Entries:  entries,
			Total:    len(entries),
			Capacity: h.history.Capacity(),
		})

	case http.MethodDelete:
		if err := h.history.Clear(r.Context()); err != nil {
			h.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		h.methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (h *Handler) handleHistoryEntry(w http.ResponseWriter, r *http.Request, id string) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	entry, err := h.history.Find(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// allow writes 405 unless r uses method.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	h.methodNotAllowed(w, r, method)
	return false
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Method %s not allowed", r.Method), r.URL.Path)
}

// decode reads a JSON body. An empty body decodes as the zero request.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.writeError(w, http.StatusRequestEntityTooLarge, string(mdwerror.CodeInvalidInput), "Request body too large", err.Error())
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid JSON body", err.Error())
		return false
	}
	return true
}

// writeJSON encodes v before the status line is written, so an encoding
// failure still reaches the client as an error envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("Encoding response failed", "error", err)
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(ErrorResponse{
			Error:   "Encoding response failed",
			Code:    string(mdwerror.CodeInternal),
			Details: err.Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("Writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// writeServiceError maps an error code to its HTTP status.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	h.logger.LogError(err)
	e, ok := mdwerror.As(err)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, string(mdwerror.CodeInternal), "Internal error", err.Error())
		return
	}
	h.writeError(w, e.Code().HTTPStatus(), string(e.Code()), e.Message(), e.Operation())
}
