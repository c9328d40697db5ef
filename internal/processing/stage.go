package processing

import (
	"context"
	"time"

	"restaurantops/internal/config"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "processing"

// Stage is the pipeline.Stage implementation for spec.md §4.5: daily labor
// metrics, shift split, auto-clockout analysis, and weekly overtime.
type Stage struct {
	Config config.Config
}

// NewStage builds the Processing stage from the merged configuration tree.
func NewStage(cfg config.Config) Stage { return Stage{Config: cfg} }

func (Stage) Name() string { return stageName }

func (s Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	date, err := time.Parse("2006-01-02", pc.Date)
	if err != nil {
		return pipelineerr.New(pipelineerr.ValidationError, "unparseable run date",
			pipelineerr.WithStage(stageName), pipelineerr.WithCause(err))
	}

	sales := pc.Sales()
	laborCost, _ := pc.TotalPayrollCost()
	entries := pc.TimeEntries()
	orders := pc.CategorizedOrders()

	pc.SetLaborMetrics(ComputeLaborMetrics(sales, laborCost, s.Config.Thresholds))
	pc.SetShiftMetrics(SplitShifts(orders, sales, laborCost, entries, s.Config.Shifts))

	isSunday := date.Weekday() == time.Sunday
	pc.SetAutoClockoutSummary(ComputeAutoClockout(entries, pc.Restaurant, isSunday, s.Config.AutoClockout))

	pc.SetOvertimeRecords(ComputeOvertime(entries, pc.WeeklyHours, s.Config.Overtime, s.Config.AutoClockout.DefaultHourlyRate))

	return nil
}
