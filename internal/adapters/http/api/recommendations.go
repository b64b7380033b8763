// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/preset-app/matchmaking/internal/domain/model"
)

const defaultPageLimit = 20

// RecommendationDependencies defines the interface for recommendation reads.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, profileID string, limit int) ([]model.Recommendation, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps     RecommendationDependencies
	maxLimit int
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies, maxLimit int) *RecommendationsHandler {
	return &RecommendationsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// recommendationsResponse is the paginated read shape.
type recommendationsResponse struct {
	Data       []model.Recommendation `json:"data"`
	Pagination pagination             `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// HandleGetRecommendations handles GET /recommendations/{profile_id}?limit=N&page=M.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	profileID := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if profileID == "" || strings.Contains(profileID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		page = n
	}

	// Fetch through the requested page, then slice out the window.
	fetch := page * limit
	if fetch > h.maxLimit {
		fetch = h.maxLimit
	}
	recs, err := h.deps.Recommendations(r.Context(), profileID, fetch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	total := len(recs)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Data: recs[start:end],
		Pagination: pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}
