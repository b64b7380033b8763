// Package types contains common types used across the application.
package types

// Priority buckets a recommendation by compatibility score.
type Priority string

// Priority values, derived from score thresholds.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Score thresholds for priority derivation.
const (
	highPriorityMinScore   = 80
	mediumPriorityMinScore = 60
)

// PriorityForScore derives a priority from a compatibility score.
// score >= 80 is high, score >= 60 is medium, everything else is low.
func PriorityForScore(score float64) Priority {
	switch {
	case score >= highPriorityMinScore:
		return PriorityHigh
	case score >= mediumPriorityMinScore:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Kind discriminates the payload carried by a recommendation.
type Kind string

// Recommendation payload kinds.
const (
	KindGig  Kind = "gig"
	KindUser Kind = "user"
)

// Compensation types offered by gigs.
const (
	CompTFP          = "TFP"
	CompPaid         = "PAID"
	CompExpensesOnly = "EXPENSES_ONLY"
)
