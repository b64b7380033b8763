package filters

import "errors"

// ErrInvalidFilters flags a filter set that fails validation.
var ErrInvalidFilters = errors.New("invalid filters")
