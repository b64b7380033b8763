package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound = errors.New("pair not cached")
	ErrEncoding = errors.New("cache entry encoding failed")
)
