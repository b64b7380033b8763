package matchsim

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// verifyPairs reads every sampled pair twice and checks that the score
// is stable, which holds only when the pair is served from cache.
func verifyPairs(ctx context.Context, config *Config, pairs []Pair, stats *Stats) error {
	log.Printf("🔍 Verifying %d scored pairs with %d workers...", len(pairs), config.Workers)

	if len(pairs) == 0 {
		return fmt.Errorf("no pairs to verify")
	}

	client := newHTTPClient(config.Timeout)

	var (
		verified     int64
		inconsistent int64
	)

	pairChan := make(chan Pair, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pair := range pairChan {
				select {
				case <-ctx.Done():
					return
				default:
					first, err := fetchCompatibility(ctx, client, config.BaseURL, pair)
					if err != nil {
						atomic.AddInt64(&inconsistent, 1)
						if config.Verbose {
							log.Printf("⚠️  Read failed for %s/%s: %v", pair.ProfileID, pair.GigID, err)
						}
						continue
					}

					second, err := fetchCompatibility(ctx, client, config.BaseURL, pair)
					if err != nil || first.Score != second.Score {
						atomic.AddInt64(&inconsistent, 1)
						if config.Verbose {
							log.Printf("⚠️  Unstable score for %s/%s: %.1f vs %v",
								pair.ProfileID, pair.GigID, first.Score, second)
						}
						continue
					}

					if first.Score < 0 || first.Score > 100 {
						atomic.AddInt64(&inconsistent, 1)
						log.Printf("⚠️  Score out of range for %s/%s: %.1f",
							pair.ProfileID, pair.GigID, first.Score)
						continue
					}

					atomic.AddInt64(&verified, 1)
				}
			}
		}()
	}

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			close(pairChan)
			wg.Wait()
			return ctx.Err()
		case pairChan <- pair:
		}
	}
	close(pairChan)
	wg.Wait()

	stats.PairsVerified = int(atomic.LoadInt64(&verified))
	stats.PairsInconsistent = int(atomic.LoadInt64(&inconsistent))

	if stats.PairsInconsistent > 0 {
		log.Printf("⚠️  %d of %d pairs were inconsistent", stats.PairsInconsistent, len(pairs))
	} else {
		log.Printf("✅ All %d pairs verified", stats.PairsVerified)
	}
	return nil
}

// verifyRecommendations reads each profile's listing and checks the
// ordering and uniqueness guarantees.
func verifyRecommendations(ctx context.Context, config *Config, profiles []string, stats *Stats) error {
	log.Printf("🔍 Verifying recommendations for %d profiles...", len(profiles))

	client := newHTTPClient(config.Timeout)

	reads := 0
	violations := 0
	for _, profileID := range profiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		recs, err := fetchRecommendations(ctx, client, config.BaseURL, profileID, 20)
		if err != nil {
			violations++
			if config.Verbose {
				log.Printf("⚠️  Recommendations read failed for %s: %v", profileID, err)
			}
			continue
		}
		reads++

		if err := checkRanking(recs); err != nil {
			violations++
			log.Printf("⚠️  Ranking violation for %s: %v", profileID, err)
		}
	}

	stats.RecommendationReads = reads
	stats.RankingViolations = violations

	if violations > 0 {
		log.Printf("⚠️  %d ranking violations across %d reads", violations, reads)
	} else {
		log.Printf("✅ Recommendations verified across %d reads", reads)
	}
	return nil
}

// checkRanking validates descending score order and unique entry IDs.
func checkRanking(recs *RecommendationsResponse) error {
	seen := make(map[string]struct{}, len(recs.Data))
	for i, entry := range recs.Data {
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("duplicate entry %s at position %d", entry.ID, i)
		}
		seen[entry.ID] = struct{}{}

		if i > 0 && entry.Score > recs.Data[i-1].Score {
			return fmt.Errorf("entry %d has higher score (%.1f) than entry %d (%.1f)",
				i, entry.Score, i-1, recs.Data[i-1].Score)
		}
	}
	return nil
}
