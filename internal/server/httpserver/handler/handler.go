// Package handler provides HTTP request handlers for the relay API.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/core/service"
	"github.com/redrabbit/vaultrelay/internal/telemetry/logger"
)

// Sweeper runs an on-demand sweep pass.
type Sweeper interface {
	RunOnce(ctx context.Context) (domain.SweepResult, error)
}

// Handler serves the relay API. Each exported method is an
// http.HandlerFunc; the router decides which paths reach which method.
type Handler struct {
	relaySvc *service.RelayService
	sweeper  Sweeper
	logger   *slog.Logger
}

// New creates a new Handler. sweeper may be nil, in which case
// POST /admin/sweep reports an internal error.
func New(relaySvc *service.RelayService, sweeper Sweeper, logger *slog.Logger) *Handler {
	return &Handler{
		relaySvc: relaySvc,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// writeJSON writes body as a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes a failure envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("X-Error-Code", code)
	h.writeJSON(w, r, status, NewErrorResponse(code, message))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		h.writeError(w, r, ErrorCodeToHTTPStatus(de.Code), de.Code, de.PublicMessage())
		return
	}

	// Generic internal error
	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, "internal server error")
}

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes. Argument
// errors are 400; otherwise the first three digits of the numeric part
// name the status.
func ErrorCodeToHTTPStatus(code string) int {
	if strings.HasPrefix(code, "VR-ARG-") {
		return http.StatusBadRequest
	}

	idx := strings.LastIndexByte(code, '-')
	if idx < 0 || len(code)-idx-1 < 3 {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(code[idx+1 : idx+4])
	if err != nil || status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// decodeBody reads a JSON object from the request into dst.
func decodeBody(r *http.Request, dst any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	return decodeBytes(body, dst)
}

// readBody reads the whole request body. Bodies cut off by the server's
// size limit report ErrPayloadTooLarge.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrPayloadTooLarge.WithDetails("Request body too large")
		}
		return nil, domain.ErrBadRequest.WithDetails("invalid request body").WithCause(err)
	}
	return body, nil
}

// decodeBytes unmarshals a JSON body. An empty body decodes as {}.
func decodeBytes(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.ErrBadRequest.WithDetails("invalid request body").WithCause(err)
	}
	return nil
}
