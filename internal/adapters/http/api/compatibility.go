// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/internal/domain/types"
)

// CompatibilityDependencies defines the interface for pair scoring.
type CompatibilityDependencies interface {
	Compatibility(ctx context.Context, profileID, gigID string) (compat.Data, error)
	InvalidateCompatibility(ctx context.Context, profileID, gigID string) error
}

// CompatibilityHandler handles single-pair compatibility requests.
type CompatibilityHandler struct {
	deps CompatibilityDependencies
	auth *authorizer
}

// NewCompatibilityHandler creates a new compatibility handler.
func NewCompatibilityHandler(deps CompatibilityDependencies, auth *authorizer) *CompatibilityHandler {
	return &CompatibilityHandler{deps: deps, auth: auth}
}

// compatibilityResponse is the read shape for a scored pair.
type compatibilityResponse struct {
	ProfileID string           `json:"profile_id"`
	GigID     string           `json:"gig_id"`
	Score     float64          `json:"compatibility_score"`
	Breakdown compat.Breakdown `json:"compatibility_breakdown"`
	Reason    string           `json:"reason"`
	Priority  types.Priority   `json:"priority"`
}

// HandleCompatibility handles GET and DELETE on
// /compatibility/{profile_id}/{gig_id}.
func (h *CompatibilityHandler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.compatibility"

	path := strings.TrimPrefix(r.URL.Path, "/compatibility/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	profileID, gigID := parts[0], parts[1]

	switch r.Method {
	case http.MethodGet:
		data, err := h.deps.Compatibility(r.Context(), profileID, gigID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, compatibilityResponse{
			ProfileID: profileID,
			GigID:     gigID,
			Score:     data.Score,
			Breakdown: data.Breakdown,
			Reason:    compat.Reason(data.Breakdown),
			Priority:  types.PriorityForScore(data.Score),
		})

	case http.MethodDelete:
		if !h.auth.allow(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
			return
		}
		if err := h.deps.InvalidateCompatibility(r.Context(), profileID, gigID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}
