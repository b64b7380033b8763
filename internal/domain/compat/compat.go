// Package compat normalizes raw oracle output into the fixed
// compatibility breakdown shape used across the service.
package compat

import "strings"

// Fixed point values assigned to boolean match factors. The overall
// score is authoritative; these only drive the presentational breakdown.
const (
	genderPoints         = 20
	agePoints            = 20
	heightPoints         = 15
	experiencePoints     = 25
	specializationPoints = 20
)

// Default breakdown served when the oracle is unavailable and listings
// fall back to an unscored view.
const (
	DefaultScore                = 75
	defaultGenderPoints         = 15
	defaultAgePoints            = 15
	defaultHeightPoints         = 10
	defaultExperiencePoints     = 20
	defaultSpecializationPoints = 15
)

// Factor names returned by the oracle.
const (
	FactorGender         = "gender_match"
	FactorAge            = "age_match"
	FactorHeight         = "height_match"
	FactorExperience     = "experience_match"
	FactorSpecialization = "specialization_match"
)

// Factors is the opaque map of match indicators returned by the oracle.
// Values are booleans except specialization_match, which may also be a
// numeric percentage.
type Factors map[string]interface{}

// Breakdown is the five-dimension sub-score decomposition presented
// alongside the overall score. Sub-scores do not necessarily sum to Total.
type Breakdown struct {
	Gender         float64 `json:"gender"`
	Age            float64 `json:"age"`
	Height         float64 `json:"height"`
	Experience     float64 `json:"experience"`
	Specialization float64 `json:"specialization"`
	Total          float64 `json:"total"`
}

// Data is a normalized compatibility result for a (profile, gig) pair.
// It is immutable once cached.
type Data struct {
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Factors   Factors   `json:"factors,omitempty"`
}

// Normalize maps an oracle score and raw match factors into Data.
// Boolean factors map to their fixed point values when true;
// specialization_match is used directly when numeric.
func Normalize(score float64, factors Factors) Data {
	return Data{
		Score: score,
		Breakdown: Breakdown{
			Gender:         boolPoints(factors[FactorGender], genderPoints),
			Age:            boolPoints(factors[FactorAge], agePoints),
			Height:         boolPoints(factors[FactorHeight], heightPoints),
			Experience:     boolPoints(factors[FactorExperience], experiencePoints),
			Specialization: specializationScore(factors[FactorSpecialization]),
			Total:          score,
		},
		Factors: factors,
	}
}

// Default returns the unscored-fallback compatibility data: a fixed
// score of 75 with the breakdown distributed proportionally.
func Default() Data {
	return Data{
		Score: DefaultScore,
		Breakdown: Breakdown{
			Gender:         defaultGenderPoints,
			Age:            defaultAgePoints,
			Height:         defaultHeightPoints,
			Experience:     defaultExperiencePoints,
			Specialization: defaultSpecializationPoints,
			Total:          DefaultScore,
		},
	}
}

// Reason builds the human-readable compatibility summary from a breakdown.
func Reason(b Breakdown) string {
	var reasons []string
	if b.Gender > 0 {
		reasons = append(reasons, "Gender requirements match")
	}
	if b.Age > 0 {
		reasons = append(reasons, "Age requirements match")
	}
	if b.Height > 0 {
		reasons = append(reasons, "Height requirements match")
	}
	if b.Experience > 0 {
		reasons = append(reasons, "Experience level matches")
	}
	if b.Specialization > 0 {
		reasons = append(reasons, "Specializations align")
	}
	if len(reasons) == 0 {
		return "Basic compatibility match"
	}
	return strings.Join(reasons, ", ")
}

// boolPoints maps a truthy factor value to its fixed point value.
// Oracle JSON may carry booleans or numbers here.
func boolPoints(v interface{}, points float64) float64 {
	if truthy(v) {
		return points
	}
	return 0
}

// specializationScore handles the heterogeneous specialization_match
// field: numeric values pass through, booleans map to 20/0.
func specializationScore(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	default:
		return boolPoints(v, specializationPoints)
	}
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}
