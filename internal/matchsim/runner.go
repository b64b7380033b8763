package matchsim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/preset-app/matchmaking/pkg/logger"
)

// Run executes the complete matchmaking simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting matchmaking simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("profiles", config.NumProfiles),
		logger.Int("gigs", config.NumGigs),
		logger.Int("batch", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate identifiers
	profiles, gigs := generateIDs(ctx, config)

	// Step 3: Submit prefetch batches concurrently
	if err := submitPrefetches(ctx, config, profiles, gigs, stats); err != nil {
		return fmt.Errorf("prefetch submission failed: %w", err)
	}

	// Step 4: Wait for the scoring queue to drain
	if err := waitForDrain(ctx, config); err != nil {
		return fmt.Errorf("queue drain failed: %w", err)
	}

	// Step 5: Verify scored pairs
	pairs := samplePairs(profiles, gigs)
	if err := verifyPairs(ctx, config, pairs, stats); err != nil {
		return fmt.Errorf("pair verification failed: %w", err)
	}

	// Step 6: Verify recommendation rankings
	if err := verifyRecommendations(ctx, config, profiles, stats); err != nil {
		return fmt.Errorf("recommendation verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// waitForDrain polls /stats until the prefetch queue is empty.
func waitForDrain(ctx context.Context, config *Config) error {
	log.Println("⏳ Waiting for scoring queue to drain...")

	client := newHTTPClient(config.Timeout)
	deadline := time.Now().Add(DrainTimeout)

	for {
		serviceStats, err := fetchStats(ctx, client, config.BaseURL)
		if err == nil {
			if length, ok := serviceStats["queueLength"].(float64); ok && length == 0 {
				log.Println("✅ Scoring queue drained")
				return nil
			}
		} else if config.Verbose {
			log.Printf("⚠️  Stats poll failed: %v", err)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("queue did not drain within %s", DrainTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DrainPollInterval):
		}
	}
}

// displayFinalStats prints the summary of the simulation run.
func displayFinalStats(stats *Stats) {
	log.Println("📊 Final statistics:")
	log.Printf("   Prefetch requests: %d (queued %d pairs, %d duplicates, %d failed)",
		stats.PairsSubmitted, stats.PairsQueued, stats.PairsDuplicate, stats.PrefetchFailed)
	log.Printf("   Pairs verified: %d (%d inconsistent)", stats.PairsVerified, stats.PairsInconsistent)
	log.Printf("   Recommendation reads: %d (%d ranking violations)",
		stats.RecommendationReads, stats.RankingViolations)
	log.Printf("   Duration: %s", stats.Duration.Round(time.Millisecond))

	if stats.Duration > 0 && stats.PairsQueued > 0 {
		rate := float64(stats.PairsQueued) / stats.Duration.Seconds()
		log.Printf("   Throughput: %.1f pairs/second", rate)
	}
}
