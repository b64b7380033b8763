// Package filters defines the matchmaking filter set and its default,
// counting, and toggle semantics.
package filters

import (
	"fmt"
	"time"

	"github.com/preset-app/matchmaking/internal/domain/types"
)

// Default filter values.
const (
	DefaultCompatibilityMin = 60
	DefaultCompatibilityMax = 100
	DefaultLocationRadiusKm = 50

	minScore = 0
	maxScore = 100
)

// Known experience levels selectable as filter values.
var ExperienceLevels = []string{ //nolint:gochecknoglobals // fixed vocabulary
	"beginner",
	"intermediate",
	"advanced",
	"professional",
	"expert",
}

// Known availability statuses selectable as filter values.
var AvailabilityStatuses = []string{ //nolint:gochecknoglobals // fixed vocabulary
	"available",
	"busy",
	"unavailable",
	"limited",
	"weekends_only",
	"weekdays_only",
}

// Known compensation types selectable as filter values.
var CompensationTypes = []string{ //nolint:gochecknoglobals // fixed vocabulary
	types.CompTFP,
	types.CompPaid,
	types.CompExpensesOnly,
}

// DateRange bounds gig start times. Either side may be open.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Filters is the user-editable matchmaking filter set. It is replaced
// wholesale on every edit; the string collections carry set semantics.
type Filters struct {
	CompatibilityMin   int       `json:"compatibility_min"`
	CompatibilityMax   int       `json:"compatibility_max"`
	LocationRadiusKm   int       `json:"location_radius"`
	DateRange          DateRange `json:"date_range"`
	CompensationTypes  []string  `json:"compensation_types"`
	Specializations    []string  `json:"specializations"`
	ExperienceLevels   []string  `json:"experience_levels"`
	AvailabilityStatus []string  `json:"availability_status"`
}

// Default returns the initial filter set.
func Default() Filters {
	return Filters{
		CompatibilityMin:   DefaultCompatibilityMin,
		CompatibilityMax:   DefaultCompatibilityMax,
		LocationRadiusKm:   DefaultLocationRadiusKm,
		DateRange:          DateRange{},
		CompensationTypes:  []string{},
		Specializations:    []string{},
		ExperienceLevels:   []string{},
		AvailabilityStatus: []string{},
	}
}

// ActiveCount returns the number of filter dimensions that differ from
// their defaults. Each dimension counts once regardless of how many
// values it holds.
func (f Filters) ActiveCount() int {
	count := 0
	if f.CompatibilityMin != DefaultCompatibilityMin || f.CompatibilityMax != DefaultCompatibilityMax {
		count++
	}
	if f.LocationRadiusKm != DefaultLocationRadiusKm {
		count++
	}
	if f.DateRange.Start != nil || f.DateRange.End != nil {
		count++
	}
	if len(f.CompensationTypes) > 0 {
		count++
	}
	if len(f.Specializations) > 0 {
		count++
	}
	if len(f.ExperienceLevels) > 0 {
		count++
	}
	if len(f.AvailabilityStatus) > 0 {
		count++
	}
	return count
}

// Validate rejects malformed filter sets before they reach storage or
// any external call.
func (f Filters) Validate() error {
	if f.CompatibilityMin < minScore || f.CompatibilityMin > maxScore {
		return fmt.Errorf("%w: compatibility_min out of range", ErrInvalidFilters)
	}
	if f.CompatibilityMax < minScore || f.CompatibilityMax > maxScore {
		return fmt.Errorf("%w: compatibility_max out of range", ErrInvalidFilters)
	}
	if f.CompatibilityMin > f.CompatibilityMax {
		return fmt.Errorf("%w: compatibility_min above compatibility_max", ErrInvalidFilters)
	}
	if f.LocationRadiusKm < 0 {
		return fmt.Errorf("%w: negative location_radius", ErrInvalidFilters)
	}
	if f.DateRange.Start != nil && f.DateRange.End != nil && f.DateRange.End.Before(*f.DateRange.Start) {
		return fmt.Errorf("%w: date_range end before start", ErrInvalidFilters)
	}
	for _, ct := range f.CompensationTypes {
		if !Contains(CompensationTypes, ct) {
			return fmt.Errorf("%w: unknown compensation type %q", ErrInvalidFilters, ct)
		}
	}
	for _, lvl := range f.ExperienceLevels {
		if !Contains(ExperienceLevels, lvl) {
			return fmt.Errorf("%w: unknown experience level %q", ErrInvalidFilters, lvl)
		}
	}
	for _, st := range f.AvailabilityStatus {
		if !Contains(AvailabilityStatuses, st) {
			return fmt.Errorf("%w: unknown availability status %q", ErrInvalidFilters, st)
		}
	}
	return nil
}

// Toggle returns a new set with value added if absent or removed if
// present. The input set is never mutated.
func Toggle(set []string, value string) []string {
	if Contains(set, value) {
		out := make([]string, 0, len(set)-1)
		for _, v := range set {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	return append(out, value)
}

// Contains reports whether set holds value.
func Contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
