// Package service provides the core matchmaking service that
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/preset-app/matchmaking/internal/adapters/cache"
	scorequeue "github.com/preset-app/matchmaking/internal/adapters/mq/queue"
	workerpool "github.com/preset-app/matchmaking/internal/adapters/mq/worker"
	"github.com/preset-app/matchmaking/internal/adapters/oracle"
	"github.com/preset-app/matchmaking/internal/domain/compat"
	"github.com/preset-app/matchmaking/internal/domain/dedupe"
	"github.com/preset-app/matchmaking/internal/domain/filters"
	"github.com/preset-app/matchmaking/internal/domain/model"
	"github.com/preset-app/matchmaking/internal/domain/rank"
	"github.com/preset-app/matchmaking/pkg/logger"
	"github.com/preset-app/matchmaking/pkg/metrics"
)

// fallbackReason annotates recommendations served from the unscored
// listing path while the matching RPC is broken.
const fallbackReason = "Available gigs (matchmaking temporarily unavailable)"

// Default service configuration.
const (
	defaultQueueSize  = 10000
	defaultDedupeSize = 50000
	defaultRecLimit   = 20
	maxRecLimit       = 100
)

// Oracle is the scoring backend the service consults on cache misses.
type Oracle interface {
	CalculateCompatibility(ctx context.Context, profileID, gigID string) (compat.Data, error)
	FindCompatibleGigs(ctx context.Context, profileID string, limit int) ([]oracle.GigMatch, error)
	ListPublishedGigs(ctx context.Context, limit int) ([]model.GigSummary, error)
}

// inflight tracks a single in-progress oracle call so concurrent
// misses for the same pair collapse into one request.
type inflight struct {
	done chan struct{}
	data compat.Data
	err  error
}

// Service implements the API dependencies for the matchmaking system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      cache.Store
	oracle     Oracle
	deduper    dedupe.Deduper
	queue      scorequeue.Queue
	workerPool *workerpool.Pool

	// In-flight coalescing for cache misses
	flightMu sync.Mutex
	flight   map[string]*inflight

	// Per-profile filter preferences
	filtersMu      sync.RWMutex
	profileFilters map[string]filters.Filters

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the cache store implementation.
func WithStore(store cache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithOracle sets the scoring oracle client.
func WithOracle(o Oracle) Option {
	return func(s *Service) {
		if o != nil {
			s.oracle = o
		}
	}
}

// WithWorkerCount sets the number of cache-warming workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the prefetch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the prefetch deduplication window.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		flight:         make(map[string]*inflight),
		profileFilters: make(map[string]filters.Filters),
		stopCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.oracle == nil {
		return ErrMissingOracle
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matchmaking service...")

	if s.store == nil {
		s.store = cache.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory cache store")
	}
	s.deduper = dedupe.NewInMemory(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = scorequeue.NewInMemoryQueue(
		scorequeue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, warmAdapter{s})
	s.workerPool.Start(ctx)
	s.workerCount = s.workerPool.Size()

	s.started = true
	s.logger.Info(ctx, "matchmaking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matchmaking service...")

	if q, ok := s.queue.(*scorequeue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "matchmaking service stopped")
}

// Compatibility returns the compatibility data for a profile/gig pair,
// scoring it through the oracle at most once. A structurally broken
// oracle yields the default result without being cached; other oracle
// failures surface to the caller.
func (s *Service) Compatibility(ctx context.Context, profileID, gigID string) (compat.Data, error) {
	key := model.PairKey(profileID, gigID)

	data, err := s.store.Get(ctx, key)
	if err == nil {
		metrics.RecordCacheHit()
		return data, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		// Store trouble degrades to a miss, not an outage.
		s.logger.Warn(ctx, "cache read failed",
			logger.String("pair", key),
			logger.Error(err),
		)
	}
	metrics.RecordCacheMiss()

	data, err = s.fetchAndCache(ctx, profileID, gigID)
	if err != nil {
		if oracle.IsSchemaError(err) {
			s.logger.Warn(ctx, "serving default compatibility",
				logger.String("pair", key),
				logger.Error(err),
			)
			metrics.RecordFallbackServed()
			return compat.Default(), nil
		}
		return compat.Data{}, fmt.Errorf("calculate compatibility for %s: %w", key, err)
	}
	return data, nil
}

// fetchAndCache resolves a pair through the oracle with in-flight
// coalescing: only one oracle call runs per pair at a time; late
// arrivals wait for its result.
func (s *Service) fetchAndCache(ctx context.Context, profileID, gigID string) (compat.Data, error) {
	key := model.PairKey(profileID, gigID)

	s.flightMu.Lock()
	if call, ok := s.flight[key]; ok {
		s.flightMu.Unlock()
		metrics.RecordCoalescedCall()
		select {
		case <-call.done:
			return call.data, call.err
		case <-ctx.Done():
			return compat.Data{}, ctx.Err()
		}
	}
	call := &inflight{done: make(chan struct{})}
	s.flight[key] = call
	s.flightMu.Unlock()

	defer func() {
		s.flightMu.Lock()
		delete(s.flight, key)
		s.flightMu.Unlock()
		close(call.done)
	}()

	call.data, call.err = s.oracle.CalculateCompatibility(ctx, profileID, gigID)
	if call.err != nil {
		return compat.Data{}, call.err
	}

	metrics.RecordPairScored()
	if err := s.store.Set(ctx, key, call.data); err != nil {
		metrics.RecordCacheWriteFailure()
		s.logger.Warn(ctx, "cache write failed",
			logger.String("pair", key),
			logger.Error(err),
		)
	}
	return call.data, nil
}

// warmAdapter exposes the service's warming path as a worker.Warmer.
type warmAdapter struct {
	s *Service
}

func (a warmAdapter) Warm(ctx context.Context, req workerpool.Request) error {
	return a.s.warm(ctx, req)
}

// warm resolves and caches a prefetched pair, skipping pairs that are
// already cached.
func (s *Service) warm(ctx context.Context, req model.ScoreRequest) error {
	key := req.PairKey()
	if _, err := s.store.Get(ctx, key); err == nil {
		return nil
	}

	if _, err := s.fetchAndCache(ctx, req.ProfileID, req.GigID); err != nil {
		return err
	}
	if s.workerPool != nil {
		s.workerPool.RecordProcessedPair()
	}
	return nil
}

// Prefetch submits profile/gig pairs for background cache warming.
// Pairs already seen in the current window count as duplicates. When
// the queue rejects a pair, its dedupe record is rolled back and
// ErrBacklogged is returned so the caller can retry later.
func (s *Service) Prefetch(ctx context.Context, profileID string, gigIDs []string) (queued, duplicates int, err error) {
	for _, gigID := range gigIDs {
		key := model.PairKey(profileID, gigID)
		if s.deduper.SeenAndRecord(ctx, key) {
			duplicates++
			continue
		}

		req := model.ScoreRequest{
			RequestID: uuid.NewString(),
			ProfileID: profileID,
			GigID:     gigID,
		}
		if !s.queue.Enqueue(ctx, req) {
			s.deduper.Unrecord(ctx, key)
			return queued, duplicates, ErrBacklogged
		}
		queued++
	}
	return queued, duplicates, nil
}

// Recommendations returns scored gig recommendations for a profile:
// filtered by the profile's stored preferences, floored at the minimum
// viable score, sorted by descending score, and deduplicated.
func (s *Service) Recommendations(ctx context.Context, profileID string, limit int) ([]model.Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecLimit
	}
	if limit > maxRecLimit {
		limit = maxRecLimit
	}

	matches, err := s.oracle.FindCompatibleGigs(ctx, profileID, limit)
	if err != nil {
		if oracle.IsSchemaError(err) {
			return s.fallbackRecommendations(ctx, profileID, limit)
		}
		return nil, err
	}

	recs := make([]model.Recommendation, 0, len(matches))
	for i := range matches {
		match := matches[i]
		key := model.PairKey(profileID, match.Gig.ID)
		if serr := s.store.Set(ctx, key, match.Data); serr != nil {
			metrics.RecordCacheWriteFailure()
			s.logger.Warn(ctx, "cache write failed",
				logger.String("pair", key),
				logger.Error(serr),
			)
		}
		metrics.RecordPairScored()
		recs = append(recs, model.NewGigRecommendation(match.Gig, match.Data))
	}

	recs = rank.Viable(recs)
	recs = rank.Apply(recs, s.Filters(profileID))
	recs = rank.SortByScore(recs)
	recs = rank.DedupeByID(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// fallbackRecommendations serves published gigs without scoring when
// the matching RPC is structurally broken. Every entry carries the
// default score so ordering stays stable and nothing is cached.
func (s *Service) fallbackRecommendations(ctx context.Context, profileID string, limit int) ([]model.Recommendation, error) {
	s.logger.Warn(ctx, "matching unavailable, serving published gigs",
		logger.String("profileID", profileID),
	)
	metrics.RecordFallbackServed()

	gigs, err := s.oracle.ListPublishedGigs(ctx, limit)
	if err != nil {
		return nil, err
	}

	recs := make([]model.Recommendation, 0, len(gigs))
	for i := range gigs {
		rec := model.NewGigRecommendation(gigs[i], compat.Default())
		rec.Reason = fallbackReason
		recs = append(recs, rec)
	}

	recs = rank.DedupeByID(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Filters returns the stored filter set for a profile, or the default
// set when the profile has never saved one.
func (s *Service) Filters(profileID string) filters.Filters {
	s.filtersMu.RLock()
	defer s.filtersMu.RUnlock()

	if f, ok := s.profileFilters[profileID]; ok {
		return f
	}
	return filters.Default()
}

// UpdateFilters validates and replaces a profile's filter set.
func (s *Service) UpdateFilters(ctx context.Context, profileID string, f filters.Filters) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.filtersMu.Lock()
	s.profileFilters[profileID] = f
	count := len(s.profileFilters)
	s.filtersMu.Unlock()

	metrics.UpdateProfilesWithFilters(count)
	s.logger.Debug(ctx, "filters updated",
		logger.String("profileID", profileID),
		logger.Int("active", f.ActiveCount()),
	)
	return nil
}

// InvalidateCompatibility drops a single cached pair.
func (s *Service) InvalidateCompatibility(ctx context.Context, profileID, gigID string) error {
	return s.store.Invalidate(ctx, model.PairKey(profileID, gigID))
}

// ClearCache drops every cached pair.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()

		if cached, err := s.store.Len(ctx); err == nil {
			stats["cachedPairs"] = cached
			metrics.UpdateCacheSize(cached)
		}

		s.filtersMu.RLock()
		stats["profilesWithFilters"] = len(s.profileFilters)
		s.filtersMu.RUnlock()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
