// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// CacheDependencies defines the interface for cache maintenance.
type CacheDependencies interface {
	ClearCache(ctx context.Context) error
}

// CacheHandler handles cache maintenance requests.
type CacheHandler struct {
	deps CacheDependencies
	auth *authorizer
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps CacheDependencies, auth *authorizer) *CacheHandler {
	return &CacheHandler{deps: deps, auth: auth}
}

// HandleCache handles DELETE /cache requests.
func (h *CacheHandler) HandleCache(w http.ResponseWriter, r *http.Request) {
	const op = "api.cache"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !h.auth.allow(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	if err := h.deps.ClearCache(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
