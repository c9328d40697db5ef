package shardedstore

import (
	"sync"
	"time"

	"restaurantops/internal/domain"
	"restaurantops/internal/patterns"
)

// TimeslotStore is a sharded-mutex map of domain.TimeslotPattern keyed by
// the 5-tuple (restaurant, day name, shift, window, category).
type TimeslotStore struct {
	shards [shardCount]*timeslotShard
}

type timeslotShard struct {
	mu       sync.Mutex
	patterns map[patterns.TimeslotKey]domain.TimeslotPattern
}

// NewTimeslotStore builds an empty TimeslotStore.
func NewTimeslotStore() *TimeslotStore {
	s := &TimeslotStore{}
	for i := range s.shards {
		s.shards[i] = &timeslotShard{patterns: make(map[patterns.TimeslotKey]domain.TimeslotPattern)}
	}
	return s
}

func (s *TimeslotStore) shardFor(k patterns.TimeslotKey) *timeslotShard {
	h := uint32(k.Window)*7 + uint32(len(k.Restaurant))
	for i := 0; i < len(k.Restaurant); i++ {
		h = h*31 + uint32(k.Restaurant[i])
	}
	for i := 0; i < len(k.DayName); i++ {
		h = h*31 + uint32(k.DayName[i])
	}
	return s.shards[h%shardCount]
}

// Learn implements patterns.TimeslotStore.
func (s *TimeslotStore) Learn(key patterns.TimeslotKey, observed float64, rates patterns.Rates, now time.Time) domain.TimeslotPattern {
	shard := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, ok := shard.patterns[key]
	observations := 0
	if ok {
		observations = existing.Observations
	}

	updated := domain.TimeslotPattern{
		Restaurant:   key.Restaurant,
		DayOfWeek:    key.DayName,
		Shift:        key.Shift,
		Window:       key.Window,
		Category:     key.Category,
		BaselineTime: patterns.TimeslotBaselineEMA(existing.BaselineTime, observed),
		Variance:     patterns.TimeslotVarianceEMA(existing.Variance, observed, existing.BaselineTime),
		Confidence:   patterns.TimeslotConfidence(existing.Confidence, observations),
		Observations: observations + 1,
		LastUpdated:  now,
	}
	shard.patterns[key] = updated
	return updated
}

// Get implements patterns.TimeslotStore.
func (s *TimeslotStore) Get(key patterns.TimeslotKey) (domain.TimeslotPattern, bool) {
	shard := s.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	p, ok := shard.patterns[key]
	return p, ok
}

// List implements patterns.TimeslotStore.
func (s *TimeslotStore) List() []domain.TimeslotPattern {
	var out []domain.TimeslotPattern
	for _, shard := range s.shards {
		shard.mu.Lock()
		for _, p := range shard.patterns {
			out = append(out, p)
		}
		shard.mu.Unlock()
	}
	return out
}

var _ patterns.TimeslotStore = (*TimeslotStore)(nil)
