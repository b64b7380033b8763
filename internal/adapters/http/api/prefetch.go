// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// PrefetchDependencies defines the interface for prefetch submissions.
type PrefetchDependencies interface {
	Prefetch(ctx context.Context, profileID string, gigIDs []string) (queued, duplicates int, err error)
}

// PrefetchHandler handles cache-warming submissions.
type PrefetchHandler struct {
	deps PrefetchDependencies
}

// NewPrefetchHandler creates a new prefetch handler.
func NewPrefetchHandler(deps PrefetchDependencies) *PrefetchHandler {
	return &PrefetchHandler{deps: deps}
}

// prefetchRequest is the POST /prefetch payload.
type prefetchRequest struct {
	ProfileID string   `json:"profile_id"`
	GigIDs    []string `json:"gig_ids"`
}

func (p prefetchRequest) validate() error {
	if strings.TrimSpace(p.ProfileID) == "" {
		return errors.New("missing profile_id")
	}
	if len(p.GigIDs) == 0 {
		return errors.New("missing gig_ids")
	}
	for _, id := range p.GigIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("empty gig id")
		}
	}
	return nil
}

// HandlePrefetch handles POST /prefetch requests.
func (h *PrefetchHandler) HandlePrefetch(w http.ResponseWriter, r *http.Request) {
	const op = "api.prefetch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req prefetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	queued, duplicates, err := h.deps.Prefetch(r.Context(), req.ProfileID, req.GigIDs)
	if err != nil {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	status := "accepted"
	if queued == 0 && duplicates > 0 {
		status = "duplicate"
	}
	writeJSON(w, http.StatusAccepted, ackResponse{
		Status:     status,
		Queued:     queued,
		Duplicates: duplicates,
	})
}
