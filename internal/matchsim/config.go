package matchsim

import "time"

// Config holds configuration for the matchmaking simulation.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumProfiles int           // Number of profiles to simulate
	NumGigs     int           // Number of gigs to simulate
	BatchSize   int           // Gig IDs per prefetch request
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for simulation output
	Verbose     bool          // Enable verbose logging
}

// AckResponse represents the response from prefetch submission.
type AckResponse struct {
	Status     string `json:"status"`
	Queued     int    `json:"queued"`
	Duplicates int    `json:"duplicates"`
}

// CompatibilityResponse represents a scored pair read.
type CompatibilityResponse struct {
	ProfileID string  `json:"profile_id"`
	GigID     string  `json:"gig_id"`
	Score     float64 `json:"compatibility_score"`
	Reason    string  `json:"reason"`
	Priority  string  `json:"priority"`
}

// RecommendationsResponse represents the paginated recommendation read.
type RecommendationsResponse struct {
	Data []struct {
		ID    string  `json:"id"`
		Score float64 `json:"compatibility_score"`
	} `json:"data"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	} `json:"pagination"`
}

// Stats holds simulation statistics.
type Stats struct {
	PairsSubmitted      int
	PairsQueued         int
	PairsDuplicate      int
	PrefetchFailed      int
	PairsVerified       int
	PairsInconsistent   int
	RecommendationReads int
	RankingViolations   int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
