// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/internal/domain/types"
)

// GigSummary is the projection of a gig row carried on recommendations.
type GigSummary struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	LocationText    string     `json:"location_text"`
	DistanceKm      *float64   `json:"distance_km,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	CompType        string     `json:"comp_type"`
	LookingFor      []string   `json:"looking_for,omitempty"`
	LookingForTypes []string   `json:"looking_for_types,omitempty"`
	OwnerUserID     string     `json:"owner_user_id"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserSummary is the projection of a talent profile carried on
// recommendations made to gig owners.
type UserSummary struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name"`
	City            string   `json:"city,omitempty"`
	Country         string   `json:"country,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Availability    string   `json:"availability_status,omitempty"`
}

// Recommendation is a scored, prioritized, display-ready wrapper around
// a gig or user entity. Exactly one of Gig/User is set, discriminated
// by Kind.
type Recommendation struct {
	ID   string       `json:"id"`
	Kind types.Kind   `json:"type"`
	Gig  *GigSummary  `json:"gig,omitempty"`
	User *UserSummary `json:"user,omitempty"`

	CompatibilityScore     float64          `json:"compatibility_score"`
	CompatibilityBreakdown compat.Breakdown `json:"compatibility_breakdown"`
	Reason                 string           `json:"reason"`
	Priority               types.Priority   `json:"priority"`
}

// NewGigRecommendation builds a gig recommendation from a summary and
// its compatibility data, deriving reason and priority.
func NewGigRecommendation(gig GigSummary, data compat.Data) Recommendation {
	return Recommendation{
		ID:                     gig.ID,
		Kind:                   types.KindGig,
		Gig:                    &gig,
		CompatibilityScore:     data.Score,
		CompatibilityBreakdown: data.Breakdown,
		Reason:                 compat.Reason(data.Breakdown),
		Priority:               types.PriorityForScore(data.Score),
	}
}

// NewUserRecommendation builds a user recommendation from a summary and
// its compatibility data, deriving reason and priority.
func NewUserRecommendation(user UserSummary, data compat.Data) Recommendation {
	return Recommendation{
		ID:                     user.ID,
		Kind:                   types.KindUser,
		User:                   &user,
		CompatibilityScore:     data.Score,
		CompatibilityBreakdown: data.Breakdown,
		Reason:                 compat.Reason(data.Breakdown),
		Priority:               types.PriorityForScore(data.Score),
	}
}

// ScoreRequest is a cache-warming unit queued by the prefetch API.
type ScoreRequest struct {
	RequestID string // unique id for idempotency
	ProfileID string // subject profile identifier
	GigID     string // target gig identifier
}

// PairKey is the cache key for a (profile, gig) pair.
func (r ScoreRequest) PairKey() string {
	return PairKey(r.ProfileID, r.GigID)
}

// PairKey computes the canonical cache key for a (profile, gig) pair.
func PairKey(profileID, gigID string) string {
	return fmt.Sprintf("%s-%s", profileID, gigID)
}
