package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMissingOracle = errors.New("no oracle configured")
	ErrBacklogged    = errors.New("prefetch queue full")
)
