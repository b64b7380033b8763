// Package rank filters, orders, and deduplicates recommendation lists.
// All operations are pure: inputs are never mutated.
package rank

import (
	"sort"

	"github.com/preset-app/matchmaking/internal/domain/filters"
	"github.com/preset-app/matchmaking/internal/domain/model"
	"github.com/preset-app/matchmaking/internal/domain/types"
)

// MinViableScore is the floor below which a scored pair is never
// surfaced, regardless of the user's configured score band.
const MinViableScore = 30

// Apply returns the recommendations that satisfy every active filter
// dimension. Score bounds are inclusive; an empty criterion set passes
// everything; criteria that do not apply to a recommendation's payload
// kind are skipped. Relative order is preserved.
func Apply(recs []model.Recommendation, f filters.Filters) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if matches(rec, f) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec model.Recommendation, f filters.Filters) bool {
	score := rec.CompatibilityScore
	if score < float64(f.CompatibilityMin) || score > float64(f.CompatibilityMax) {
		return false
	}

	switch rec.Kind {
	case types.KindGig:
		return matchesGig(rec.Gig, f)
	case types.KindUser:
		return matchesUser(rec.User, f)
	default:
		return false
	}
}

func matchesGig(gig *model.GigSummary, f filters.Filters) bool {
	if gig == nil {
		return false
	}
	if len(f.CompensationTypes) > 0 && !filters.Contains(f.CompensationTypes, gig.CompType) {
		return false
	}
	if len(f.Specializations) > 0 && !overlaps(f.Specializations, gig.LookingFor) {
		return false
	}
	// Distance is only known when the listing carries coordinates;
	// unknown distances pass rather than silently dropping gigs.
	if gig.DistanceKm != nil && *gig.DistanceKm > float64(f.LocationRadiusKm) {
		return false
	}
	if f.DateRange.Start != nil || f.DateRange.End != nil {
		if gig.StartTime == nil {
			return false
		}
		if f.DateRange.Start != nil && gig.StartTime.Before(*f.DateRange.Start) {
			return false
		}
		if f.DateRange.End != nil && gig.StartTime.After(*f.DateRange.End) {
			return false
		}
	}
	return true
}

func matchesUser(user *model.UserSummary, f filters.Filters) bool {
	if user == nil {
		return false
	}
	if len(f.Specializations) > 0 && !overlaps(f.Specializations, user.Specializations) {
		return false
	}
	if len(f.ExperienceLevels) > 0 && !filters.Contains(f.ExperienceLevels, user.ExperienceLevel) {
		return false
	}
	if len(f.AvailabilityStatus) > 0 && !filters.Contains(f.AvailabilityStatus, user.Availability) {
		return false
	}
	return true
}

func overlaps(criteria, values []string) bool {
	for _, v := range values {
		if filters.Contains(criteria, v) {
			return true
		}
	}
	return false
}

// SortByScore returns a new slice ordered by descending compatibility
// score. Equal scores keep their relative input order.
func SortByScore(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompatibilityScore > out[j].CompatibilityScore
	})
	return out
}

// DedupeByID drops recommendations whose ID was already seen, keeping
// the first occurrence.
func DedupeByID(recs []model.Recommendation) []model.Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// Viable drops recommendations below the minimum viable score.
func Viable(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.CompatibilityScore >= MinViableScore {
			out = append(out, rec)
		}
	}
	return out
}
