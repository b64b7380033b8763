// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/preset-app/matchmaking/internal/domain/filters"
)

// FilterDependencies defines the interface for filter preferences.
type FilterDependencies interface {
	Filters(profileID string) filters.Filters
	UpdateFilters(ctx context.Context, profileID string, f filters.Filters) error
}

// FiltersHandler handles filter preference requests.
type FiltersHandler struct {
	deps FilterDependencies
	auth *authorizer
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FilterDependencies, auth *authorizer) *FiltersHandler {
	return &FiltersHandler{deps: deps, auth: auth}
}

// filtersResponse wraps a profile's filter set with its active count.
type filtersResponse struct {
	ProfileID   string          `json:"profile_id"`
	Filters     filters.Filters `json:"filters"`
	ActiveCount int             `json:"active_count"`
}

// HandleFilters handles GET and PUT on /filters/{profile_id}.
// Writes require a bearer token; the check runs before any state
// changes so an unauthorized request leaves filters untouched.
func (h *FiltersHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.filters"

	profileID := strings.TrimPrefix(r.URL.Path, "/filters/")
	if profileID == "" || strings.Contains(profileID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		f := h.deps.Filters(profileID)
		writeJSON(w, http.StatusOK, filtersResponse{
			ProfileID:   profileID,
			Filters:     f,
			ActiveCount: f.ActiveCount(),
		})

	case http.MethodPut:
		if !h.auth.allow(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
			return
		}

		var f filters.Filters
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.UpdateFilters(r.Context(), profileID, f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filters", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, filtersResponse{
			ProfileID:   profileID,
			Filters:     f,
			ActiveCount: f.ActiveCount(),
		})

	default:
		http.NotFound(w, r)
	}
}
