package matchsim

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/preset-app/matchmaking/pkg/logger"
)

// Pair is a single profile/gig combination to prefetch and verify.
type Pair struct {
	ProfileID string
	GigID     string
}

// generateIDs produces the profile and gig identifier sets for the run.
func generateIDs(ctx context.Context, config *Config) (profiles, gigs []string) {
	log.Printf("🎲 Generating %d profiles and %d gigs...", config.NumProfiles, config.NumGigs)

	profiles = make([]string, config.NumProfiles)
	for i := range profiles {
		profiles[i] = uuid.New().String()
	}

	gigs = make([]string, config.NumGigs)
	for i := range gigs {
		gigs[i] = uuid.New().String()
	}

	logger.Get().Info(ctx, "identifiers generated",
		logger.Int("profiles", len(profiles)),
		logger.Int("gigs", len(gigs)))
	return profiles, gigs
}

// batchGigs splits the gig set into prefetch-sized batches.
func batchGigs(gigs []string, batchSize int) [][]string {
	if batchSize <= 0 {
		batchSize = len(gigs)
	}
	var batches [][]string
	for start := 0; start < len(gigs); start += batchSize {
		end := start + batchSize
		if end > len(gigs) {
			end = len(gigs)
		}
		batches = append(batches, gigs[start:end])
	}
	return batches
}

// samplePairs picks one gig per profile to verify scores against.
func samplePairs(profiles, gigs []string) []Pair {
	if len(gigs) == 0 {
		return nil
	}
	pairs := make([]Pair, 0, len(profiles))
	for i, profileID := range profiles {
		pairs = append(pairs, Pair{
			ProfileID: profileID,
			GigID:     gigs[i%len(gigs)],
		})
	}
	return pairs
}
