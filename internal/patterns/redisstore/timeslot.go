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

const timeslotKeyPrefix = "restaurantops:pattern:timeslot:"

// TimeslotStore is the Redis-backed counterpart to DailyStore for
// timeslot patterns.
type TimeslotStore struct {
	client *redis.Client
	local  *shardedstore.TimeslotStore
	ttl    time.Duration
}

// NewTimeslotStore builds a Redis-backed TimeslotStore.
func NewTimeslotStore(client *redis.Client, ttl time.Duration) *TimeslotStore {
	return &TimeslotStore{client: client, local: shardedstore.NewTimeslotStore(), ttl: ttl}
}

func timeslotRedisKey(k patterns.TimeslotKey) string {
	return fmt.Sprintf("%s%s:%s:%s:%d:%s", timeslotKeyPrefix, k.Restaurant, k.DayName, k.Shift, k.Window, k.Category)
}

// Learn folds the observation in locally, then persists to Redis
// best-effort.
func (s *TimeslotStore) Learn(key patterns.TimeslotKey, observed float64, rates patterns.Rates, now time.Time) domain.TimeslotPattern {
	updated := s.local.Learn(key, observed, rates, now)
	raw, err := json.Marshal(updated)
	if err == nil {
		s.client.Set(context.Background(), timeslotRedisKey(key), raw, s.ttl)
	}
	return updated
}

// Get implements patterns.TimeslotStore, reading through to Redis on a
// local cache miss; the value read from Redis is not cached locally.
func (s *TimeslotStore) Get(key patterns.TimeslotKey) (domain.TimeslotPattern, bool) {
	if p, ok := s.local.Get(key); ok {
		return p, true
	}
	raw, err := s.client.Get(context.Background(), timeslotRedisKey(key)).Bytes()
	if err != nil {
		return domain.TimeslotPattern{}, false
	}
	var p domain.TimeslotPattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.TimeslotPattern{}, false
	}
	return p, true
}

// List implements patterns.TimeslotStore over the local cache.
func (s *TimeslotStore) List() []domain.TimeslotPattern {
	return s.local.List()
}

var _ patterns.TimeslotStore = (*TimeslotStore)(nil)
