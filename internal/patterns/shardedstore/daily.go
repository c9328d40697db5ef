// Package shardedstore is the in-memory, shard-locked implementation of
// internal/patterns' two store interfaces. It is the default backing for
// a batch run: a fixed set of 32 mutex-guarded shards, each key hashed to
// one shard's lock rather than one lock for the whole store, matching spec.md §9's
// guidance to avoid a single global mutex under concurrent orchestrator
// workers. Grounded in the teacher pack's sharded-map style used by
// shared/go's concurrency-sensitive caches, adapted here to the two
// pattern shapes this spec defines.
package shardedstore

import (
	"sync"
	"time"

	"restaurantops/internal/domain"
	"restaurantops/internal/patterns"
)

const shardCount = 32

type dailyKey struct {
	restaurant string
	dayOfWeek  int
}

// DailyStore is a sharded-mutex map of domain.DailyLaborPattern keyed by
// (restaurant, dayOfWeek).
type DailyStore struct {
	shards [shardCount]*dailyShard
}

type dailyShard struct {
	mu       sync.Mutex
	patterns map[dailyKey]domain.DailyLaborPattern
}

// NewDailyStore builds an empty DailyStore.
func NewDailyStore() *DailyStore {
	s := &DailyStore{}
	for i := range s.shards {
		s.shards[i] = &dailyShard{patterns: make(map[dailyKey]domain.DailyLaborPattern)}
	}
	return s
}

func (s *DailyStore) shardFor(k dailyKey) *dailyShard {
	h := uint32(len(k.restaurant))*31 + uint32(k.dayOfWeek)
	for i := 0; i < len(k.restaurant); i++ {
		h = h*31 + uint32(k.restaurant[i])
	}
	return s.shards[h%shardCount]
}

// Learn implements patterns.DailyLaborStore.
func (s *DailyStore) Learn(restaurant string, dayOfWeek int, observedPct, observedHours float64, rates patterns.Rates, now time.Time) domain.DailyLaborPattern {
	k := dailyKey{restaurant, dayOfWeek}
	shard := s.shardFor(k)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, ok := shard.patterns[k]
	observations := 0
	if ok {
		observations = existing.Observations
	}
	alpha := patterns.DailyAlpha(observations, rates)

	updated := domain.DailyLaborPattern{
		Restaurant:              restaurant,
		DayOfWeek:               dayOfWeek,
		ExpectedLaborPercentage: patterns.DailyEMA(existing.ExpectedLaborPercentage, observedPct, alpha),
		ExpectedTotalHours:      patterns.DailyEMA(existing.ExpectedTotalHours, observedHours, alpha),
		Observations:            observations + 1,
		LastUpdated:             now,
	}
	updated.Confidence = patterns.DailyConfidence(updated.Observations)
	shard.patterns[k] = updated
	return updated
}

// Get implements patterns.DailyLaborStore.
func (s *DailyStore) Get(restaurant string, dayOfWeek int) (domain.DailyLaborPattern, bool) {
	k := dailyKey{restaurant, dayOfWeek}
	shard := s.shardFor(k)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	p, ok := shard.patterns[k]
	return p, ok
}

// GetForDay implements patterns.DailyLaborStore's fallback-retrieval rule:
// exact pattern if reliable; else an averaged synthetic fallback over all
// of this restaurant's reliable patterns; else not found. Callers must
// never feed a fallback pattern back into Learn (spec.md §9).
func (s *DailyStore) GetForDay(restaurant string, dayOfWeek int, rates patterns.Rates) (domain.DailyLaborPattern, bool) {
	if exact, ok := s.Get(restaurant, dayOfWeek); ok && exact.Reliable(rates.MinConfidence, rates.MinObservations) {
		return exact, true
	}

	var sumPct, sumHours float64
	var n int
	for _, p := range s.List() {
		if p.Restaurant != restaurant {
			continue
		}
		if !p.Reliable(rates.MinConfidence, rates.MinObservations) {
			continue
		}
		sumPct += p.ExpectedLaborPercentage
		sumHours += p.ExpectedTotalHours
		n++
	}
	if n == 0 {
		return domain.DailyLaborPattern{}, false
	}
	return domain.DailyLaborPattern{
		Restaurant:              restaurant,
		DayOfWeek:                dayOfWeek,
		ExpectedLaborPercentage: sumPct / float64(n),
		ExpectedTotalHours:      sumHours / float64(n),
		IsFallback:              true,
		DaysAveraged:            n,
	}, true
}

// List implements patterns.DailyLaborStore.
func (s *DailyStore) List() []domain.DailyLaborPattern {
	var out []domain.DailyLaborPattern
	for _, shard := range s.shards {
		shard.mu.Lock()
		for _, p := range shard.patterns {
			out = append(out, p)
		}
		shard.mu.Unlock()
	}
	return out
}

var _ patterns.DailyLaborStore = (*DailyStore)(nil)
