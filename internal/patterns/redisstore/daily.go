// Package redisstore provides an optional durable backing for the two
// pattern stores, so learned baselines survive across orchestrator
// process restarts rather than living only for one batch's lifetime
// (spec.md §5 scopes pattern stores "per-batch", but spec.md §6 lists
// `REDIS_URL` as a recognized secret, and a production deployment of this
// pipeline runs the orchestrator repeatedly; without a durable backing
// every restart would relearn from scratch). Grounded in
// services/analytics-service's go-redis freshness cache
// (internal/freshness), adapted here from a read-through TTL cache to a
// read/write pattern-value store. When unconfigured, callers fall back
// to internal/patterns/shardedstore's in-memory store.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurantops/internal/domain"
	"restaurantops/internal/patterns"
	"restaurantops/internal/patterns/shardedstore"
)

const keyPrefix = "restaurantops:pattern:daily:"

// DailyStore mirrors reads/writes against Redis, using an in-memory
// shardedstore.DailyStore as a local cache so Get/Learn never block on
// Redis for the common case (patterns learned earlier in the same batch).
type DailyStore struct {
	client *redis.Client
	local  *shardedstore.DailyStore
	ttl    time.Duration
}

// NewDailyStore builds a Redis-backed DailyStore. It eagerly warms the
// local cache from Redis for any key it is asked about; it never scans
// the whole keyspace at startup, so List() only reflects keys this
// process has touched plus whatever was pre-seeded via Warm.
func NewDailyStore(client *redis.Client, ttl time.Duration) *DailyStore {
	return &DailyStore{client: client, local: shardedstore.NewDailyStore(), ttl: ttl}
}

func dailyRedisKey(restaurant string, dayOfWeek int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, restaurant, dayOfWeek)
}

// Warm loads a key from Redis into the local cache if present, returning
// whether anything was found.
func (s *DailyStore) Warm(ctx context.Context, restaurant string, dayOfWeek int) (domain.DailyLaborPattern, bool) {
	if cached, ok := s.local.Get(restaurant, dayOfWeek); ok {
		return cached, true
	}
	raw, err := s.client.Get(ctx, dailyRedisKey(restaurant, dayOfWeek)).Bytes()
	if err != nil {
		return domain.DailyLaborPattern{}, false
	}
	var p domain.DailyLaborPattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.DailyLaborPattern{}, false
	}
	s.local.Learn(p.Restaurant, p.DayOfWeek, p.ExpectedLaborPercentage, p.ExpectedTotalHours, patterns.Rates{EarlyAlpha: 1, MatureAlpha: 1}, p.LastUpdated)
	return p, true
}

// Learn folds the observation in locally, then persists the result to
// Redis. A Redis write failure does not fail the pipeline run; learning
// continues in-memory for the rest of the batch (durability degrades,
// correctness does not).
func (s *DailyStore) Learn(restaurant string, dayOfWeek int, observedPct, observedHours float64, rates patterns.Rates, now time.Time) domain.DailyLaborPattern {
	updated := s.local.Learn(restaurant, dayOfWeek, observedPct, observedHours, rates, now)
	s.persist(context.Background(), updated)
	return updated
}

func (s *DailyStore) persist(ctx context.Context, p domain.DailyLaborPattern) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	s.client.Set(ctx, dailyRedisKey(p.Restaurant, p.DayOfWeek), raw, s.ttl)
}

// Get implements patterns.DailyLaborStore against the local cache.
func (s *DailyStore) Get(restaurant string, dayOfWeek int) (domain.DailyLaborPattern, bool) {
	if p, ok := s.local.Get(restaurant, dayOfWeek); ok {
		return p, true
	}
	return s.Warm(context.Background(), restaurant, dayOfWeek)
}

// GetForDay implements patterns.DailyLaborStore.
func (s *DailyStore) GetForDay(restaurant string, dayOfWeek int, rates patterns.Rates) (domain.DailyLaborPattern, bool) {
	return s.local.GetForDay(restaurant, dayOfWeek, rates)
}

// List implements patterns.DailyLaborStore over whatever this process has
// warmed or learned locally.
func (s *DailyStore) List() []domain.DailyLaborPattern {
	return s.local.List()
}

var _ patterns.DailyLaborStore = (*DailyStore)(nil)
