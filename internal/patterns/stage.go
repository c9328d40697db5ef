package patterns

import (
	"context"
	"time"

	"restaurantops/internal/config"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "pattern_learning"

// Stage is the pipeline.Stage implementation for spec.md §4.7: folding this
// run's observed labor percentage and per-window fulfillment times into the
// two EMA pattern stores. Either store may be nil, in which case that half
// of learning is skipped for this run.
type Stage struct {
	Daily    DailyLaborStore
	Timeslot TimeslotStore
	Rates    Rates
}

// NewStage builds the Pattern Learning stage from the merged
// pattern-learning configuration.
func NewStage(daily DailyLaborStore, timeslot TimeslotStore, cfg config.PatternLearning) Stage {
	return Stage{
		Daily:    daily,
		Timeslot: timeslot,
		Rates: Rates{
			EarlyAlpha:      cfg.LearningRates.EarlyObservations,
			MatureAlpha:     cfg.LearningRates.MatureObservations,
			MinConfidence:   cfg.ReliabilityThresholds.MinConfidence,
			MinObservations: cfg.ReliabilityThresholds.MinObservations,
		},
	}
}

func (Stage) Name() string { return stageName }

func (s Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	date, err := time.Parse("2006-01-02", pc.Date)
	if err != nil {
		return pipelineerr.New(pipelineerr.PatternError, "unparseable run date",
			pipelineerr.WithStage(stageName), pipelineerr.WithCause(err))
	}
	dayOfWeek := mondayIndexed(date.Weekday())
	dayName := date.Weekday().String()

	now := time.Now().UTC()
	learned := 0

	if s.Daily != nil {
		labor := pc.LaborMetrics()
		totalHours := 0.0
		for _, e := range pc.TimeEntries() {
			totalHours += e.PayableHours
		}
		s.Daily.Learn(pc.Restaurant, dayOfWeek, labor.LaborPercentage, totalHours, s.Rates, now)
		learned++
	}

	if s.Timeslot != nil {
		windows := pc.Timeslots()
		for _, w := range windows {
			if w.TotalOrders == 0 || !w.PassedStandards {
				continue
			}
			for category, avg := range w.AvgFulfillment {
				key := TimeslotKey{
					Restaurant: pc.Restaurant,
					DayName:    dayName,
					Shift:      w.Shift,
					Window:     w.Index,
					Category:   category,
				}
				s.Timeslot.Learn(key, avg, s.Rates, now)
				learned++
			}
		}
	}

	pc.SetLearnedPatternCount(learned)
	return nil
}

// mondayIndexed converts Go's Sunday=0..Saturday=6 weekday numbering to
// spec.md's Monday=0..Sunday=6 numbering used by DailyLaborPattern.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}
