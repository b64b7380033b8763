// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/internal/domain/filters"
	"github.com/preset-app/matchmaking/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Compatibility resolves a single profile/gig pair.
	Compatibility(ctx context.Context, profileID, gigID string) (compat.Data, error)

	// Recommendations returns ranked gig recommendations for a profile.
	Recommendations(ctx context.Context, profileID string, limit int) ([]model.Recommendation, error)

	// Filters reads and writes a profile's matchmaking preferences.
	Filters(profileID string) filters.Filters
	UpdateFilters(ctx context.Context, profileID string, f filters.Filters) error

	// Prefetch submits pairs for background cache warming.
	// Returns ErrBacklogged-style errors on queue backpressure.
	Prefetch(ctx context.Context, profileID string, gigIDs []string) (queued, duplicates int, err error)

	// Cache maintenance.
	InvalidateCompatibility(ctx context.Context, profileID, gigID string) error
	ClearCache(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	compatibilityHandler   *CompatibilityHandler
	filtersHandler         *FiltersHandler
	prefetchHandler        *PrefetchHandler
	cacheHandler           *CacheHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	authToken string
	maxLimit  int
}

// WithAuthToken sets the bearer token required by mutating endpoints.
// Empty keeps the default: any non-empty bearer token is accepted.
func WithAuthToken(token string) ServerOption {
	return func(c *serverConfig) {
		c.authToken = token
	}
}

// WithMaxLimit caps the per-request recommendation limit.
func WithMaxLimit(limit int) ServerOption {
	return func(c *serverConfig) {
		if limit > 0 {
			c.maxLimit = limit
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := &serverConfig{maxLimit: 100}
	for _, opt := range opts {
		opt(cfg)
	}

	auth := newAuthorizer(cfg.authToken)
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		recommendationsHandler: NewRecommendationsHandler(deps, cfg.maxLimit),
		compatibilityHandler:   NewCompatibilityHandler(deps, auth),
		filtersHandler:         NewFiltersHandler(deps, auth),
		prefetchHandler:        NewPrefetchHandler(deps),
		cacheHandler:           NewCacheHandler(deps, auth),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/prefetch", MetricsMiddleware(s.prefetchHandler.HandlePrefetch, "prefetch"))
	mux.HandleFunc("/cache", MetricsMiddleware(s.cacheHandler.HandleCache, "cache"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/compatibility/", MetricsMiddleware(s.compatibilityHandler.HandleCompatibility, "compatibility"))
	mux.HandleFunc("/filters/", MetricsMiddleware(s.filtersHandler.HandleFilters, "filters"))
}

// ackResponse acknowledges accepted prefetch submissions.
type ackResponse struct {
	Status     string `json:"status"`
	Queued     int    `json:"queued"`
	Duplicates int    `json:"duplicates"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
