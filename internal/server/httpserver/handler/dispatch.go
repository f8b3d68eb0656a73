package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// RequestTypes lists the values POST /api accepts in its type field. Each
// maps to the route /api/{type}.
var RequestTypes = []string{
	"vault_create",
	"vault_join",
	"vault_leave",
	"message",
	"get_messages",
	"ack_messages",
	"get_participant_count",
	"nuke_user",
}

func isRequestType(t string) bool {
	for _, known := range RequestTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Dispatch returns the handler for POST /api. It reads the type field and
// replays the request, body intact, through api as if it had been sent to
// /{type}. api must be the router mounted at /api, so the target route's
// own middleware runs as usual.
func (h *Handler) Dispatch(api http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		var req DispatchRequest
		if err := decodeBytes(body, &req); err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		typ := string(req.Type)
		if typ == "" {
			h.handleServiceError(w, r, domain.ErrMissingArgument.WithDetails("missing type"))
			return
		}
		if !isRequestType(typ) {
			h.handleServiceError(w, r, domain.ErrInvalidArgument.WithDetails("unknown type: "+typ))
			return
		}

		rctx := chi.NewRouteContext()
		rctx.RoutePath = "/" + typ
		target := r.Clone(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		target.Body = io.NopCloser(bytes.NewReader(body))
		target.ContentLength = int64(len(body))
		api.ServeHTTP(w, target)
	}
}
