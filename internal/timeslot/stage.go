package timeslot

import (
	"context"
	"time"

	"restaurantops/internal/patterns"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "timeslot_grading"

// Stage is the pipeline.Stage implementation for timeslot windowing and
// grading. It reads categorized orders and an optional reliable-baseline
// reader, and writes the 64 graded windows plus the per-shift rollup.
type Stage struct {
	Patterns patterns.TimeslotStore // may be nil: grading then uses fixed standards only
}

// NewStage builds the Timeslot Grading stage. reader may be nil if no
// pattern store is available for this batch.
func NewStage(reader patterns.TimeslotStore) Stage {
	return Stage{Patterns: reader}
}

func (Stage) Name() string { return stageName }

func (s Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	orders := pc.CategorizedOrders()

	date, err := time.Parse("2006-01-02", pc.Date)
	if err != nil {
		return pipelineerr.New(pipelineerr.GradingError, "unparseable run date",
			pipelineerr.WithStage(stageName), pipelineerr.WithCause(err))
	}
	dayName := DayName(date)

	windows, shiftStats := Grade(orders, pc.Restaurant, dayName, s.Patterns)

	for idx, w := range windows {
		if w.Index != idx {
			return pipelineerr.New(pipelineerr.GradingError, "window index out of range",
				pipelineerr.WithStage(stageName))
		}
	}

	pc.SetTimeslots(windows)
	pc.SetShiftCategoryStats(shiftStats)
	return nil
}
