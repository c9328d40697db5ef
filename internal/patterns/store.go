// Package patterns defines the contracts and pure update math for the two
// EMA pattern learners of spec.md §4.7: daily labor patterns keyed by
// (restaurant, day_of_week), and timeslot patterns keyed by (restaurant,
// day_of_week name, shift, window, category). Concrete storage
// (in-memory sharded map, Redis-backed) lives in the shardedstore and
// redisstore subpackages; this package only defines the interfaces every
// store must satisfy and the learning-rate math shared by all of them.
package patterns

import (
	"time"

	"restaurantops/internal/domain"
)

// TimeslotKey is the 5-tuple that uniquely identifies a timeslot pattern
// cell, per spec.md §3's TimeslotPattern invariant.
type TimeslotKey struct {
	Restaurant string
	DayName    string
	Shift      domain.Shift
	Window     int
	Category   domain.Category
}

// Rates controls the EMA learners' adaptation speed and reliability bar,
// read from internal/config's PatternLearning section. Stores never read
// config directly; the caller (the pattern-learning stage) passes Rates
// into every Learn call so the store itself stays config-agnostic.
type Rates struct {
	EarlyAlpha      float64 // applied when observations < 5
	MatureAlpha     float64 // applied otherwise
	MinConfidence   float64
	MinObservations int
}

// DailyLaborStore is the per-batch, concurrency-safe store for daily
// labor patterns. Implementations must make Learn/Get atomic at the key
// granularity (spec.md §5).
type DailyLaborStore interface {
	// Learn folds one observation into the (restaurant, dayOfWeek) pattern
	// and returns the updated pattern.
	Learn(restaurant string, dayOfWeek int, observedPct, observedHours float64, rates Rates, now time.Time) domain.DailyLaborPattern

	// Get returns the exact pattern for (restaurant, dayOfWeek) if one
	// exists, regardless of reliability.
	Get(restaurant string, dayOfWeek int) (domain.DailyLaborPattern, bool)

	// GetForDay returns the best available pattern for (restaurant,
	// dayOfWeek): the exact pattern if reliable, else a synthetic
	// fallback averaged across all reliable patterns for that restaurant
	// (annotated IsFallback=true), else ok=false.
	GetForDay(restaurant string, dayOfWeek int, rates Rates) (domain.DailyLaborPattern, bool)

	// List returns every stored pattern, for batch-level statistics.
	List() []domain.DailyLaborPattern
}

// TimeslotStore is the per-batch, concurrency-safe store for timeslot
// patterns.
type TimeslotStore interface {
	// Learn folds one observation into the pattern for key. Callers must
	// only call this for timeslots whose PassedStandards is true
	// (spec.md §4.7: "do not learn from poor performance").
	Learn(key TimeslotKey, observedFulfillmentMinutes float64, rates Rates, now time.Time) domain.TimeslotPattern

	// Get returns the pattern for key if one exists, regardless of
	// reliability.
	Get(key TimeslotKey) (domain.TimeslotPattern, bool)

	// List returns every stored pattern, for batch-level statistics.
	List() []domain.TimeslotPattern
}

// Statistics summarizes a store's contents for operator visibility.
type Statistics struct {
	TotalKeys      int
	ReliableKeys   int
	TotalObservations int
}
