package matchsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// prefetchJob is one prefetch request for a single profile.
type prefetchJob struct {
	ProfileID string
	GigIDs    []string
}

// submitPrefetches submits prefetch batches concurrently using a worker pool.
func submitPrefetches(ctx context.Context, config *Config, profiles, gigs []string, stats *Stats) error {
	batches := batchGigs(gigs, config.BatchSize)
	total := len(profiles) * len(batches)
	log.Printf("📤 Submitting %d prefetch requests with %d workers...", total, config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/prefetch"

	// Counters for statistics
	var (
		queued     int64
		duplicate  int64
		failed     int64
		submitted  int64
		lastReport atomic.Int64
	)
	lastReport.Store(time.Now().UnixNano())

	jobChan := make(chan prefetchJob, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					ack, err := submitSinglePrefetch(ctx, client, url, job)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Prefetch failed for profile %s: %v", job.ProfileID, err)
						}
					} else {
						atomic.AddInt64(&queued, int64(ack.Queued))
						atomic.AddInt64(&duplicate, int64(ack.Duplicates))
					}

					done := atomic.AddInt64(&submitted, 1)
					last := lastReport.Load()
					if time.Since(time.Unix(0, last)) >= time.Second && lastReport.CompareAndSwap(last, time.Now().UnixNano()) {
						log.Printf("progress: %d/%d requests (%.1f%%), queued=%d duplicates=%d failed=%d",
							done, total, float64(done)/float64(total)*PercentageMultiplier,
							atomic.LoadInt64(&queued), atomic.LoadInt64(&duplicate), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	for _, profileID := range profiles {
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				close(jobChan)
				wg.Wait()
				return ctx.Err()
			case jobChan <- prefetchJob{ProfileID: profileID, GigIDs: batch}:
			}
		}
	}
	close(jobChan)
	wg.Wait()

	stats.PairsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.PairsQueued = int(atomic.LoadInt64(&queued))
	stats.PairsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.PrefetchFailed = int(atomic.LoadInt64(&failed))

	log.Printf("✅ Prefetch complete: %d requests, %d pairs queued, %d duplicates, %d failed",
		stats.PairsSubmitted, stats.PairsQueued, stats.PairsDuplicate, stats.PrefetchFailed)
	return nil
}

// submitSinglePrefetch posts one prefetch batch and decodes the ack.
func submitSinglePrefetch(ctx context.Context, client *HTTPClient, url string, job prefetchJob) (*AckResponse, error) {
	body := map[string]interface{}{
		"profile_id": job.ProfileID,
		"gig_ids":    job.GigIDs,
	}

	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return nil, err
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusAccepted {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var ack AckResponse
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, fmt.Errorf("failed to decode ack: %w", err)
	}
	return &ack, nil
}

// fetchCompatibility reads the cached score for a single pair.
func fetchCompatibility(ctx context.Context, client *HTTPClient, baseURL string, pair Pair) (*CompatibilityResponse, error) {
	url := fmt.Sprintf("%s/compatibility/%s/%s", baseURL, pair.ProfileID, pair.GigID)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var out CompatibilityResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode compatibility: %w", err)
	}
	return &out, nil
}

// fetchRecommendations reads the ranked listing for a profile.
func fetchRecommendations(ctx context.Context, client *HTTPClient, baseURL, profileID string, limit int) (*RecommendationsResponse, error) {
	url := fmt.Sprintf("%s/recommendations/%s?limit=%d", baseURL, profileID, limit)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var out RecommendationsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return &out, nil
}

// fetchStats reads the service statistics endpoint.
func fetchStats(ctx context.Context, client *HTTPClient, baseURL string) (map[string]interface{}, error) {
	resp, err := client.Get(ctx, baseURL+"/stats")
	if err != nil {
		return nil, err
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return out, nil
}
