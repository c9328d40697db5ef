// Package orchestrator implements spec.md §5's batch concurrency model: a
// bounded worker pool that runs many (restaurant, date) pipelines
// concurrently, each owning its own pipeline.Context, while keeping a
// per-restaurant rolling weekly-hours accumulator so overtime stays
// correct across sequential same-week runs.
package orchestrator

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"restaurantops/internal/cashflow"
	"restaurantops/internal/categorization"
	"restaurantops/internal/config"
	"restaurantops/internal/domain"
	"restaurantops/internal/ingestion"
	"restaurantops/internal/patterns"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
	"restaurantops/internal/processing"
	"restaurantops/internal/storage"
	"restaurantops/internal/timeslot"
)

// Job identifies one (restaurant, date) pipeline run to schedule.
type Job struct {
	Restaurant string
	Date       string // YYYY-MM-DD
}

// Orchestrator owns the shared collaborators every worker's pipeline needs:
// pattern stores (concurrently updated across workers), the database
// client, and the per-restaurant weekly-hours accumulators.
type Orchestrator struct {
	BaseDir         string
	Config          config.Config
	DailyPatterns   patterns.DailyLaborStore
	TimeslotPatterns patterns.TimeslotStore
	DBClient        storage.DatabaseClient
	Logger          *zap.Logger
	RunTimeout      time.Duration // soft per-run timeout; default 60s

	weeklyMu sync.Mutex
	weekly   map[string]*weeklyAccumulator // restaurant -> accumulator
}

// New builds an Orchestrator. RunTimeout defaults to 60s (spec.md §5) if
// zero.
func New(baseDir string, cfg config.Config, daily patterns.DailyLaborStore, ts patterns.TimeslotStore, db storage.DatabaseClient, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		BaseDir:          baseDir,
		Config:           cfg,
		DailyPatterns:    daily,
		TimeslotPatterns: ts,
		DBClient:         db,
		Logger:           logger,
		RunTimeout:       60 * time.Second,
		weekly:           make(map[string]*weeklyAccumulator),
	}
}

// RunBatch executes every job, up to Config.Orchestrator.MaxWorkers at a
// time, grouping jobs by restaurant so each restaurant's dates run in
// ascending order on a single worker (required for weekly-hours
// correctness) while distinct restaurants run concurrently. It returns one
// domain.PipelineRunResult per job, sorted by (date, restaurant), and an
// aggregated error (via go.uber.org/multierr) of every fatal run failure;
// a non-nil error here never means a job was skipped — every job still
// produces a result.
func (o *Orchestrator) RunBatch(ctx context.Context, jobs []Job) ([]domain.PipelineRunResult, error) {
	groups := groupByRestaurant(jobs)

	maxWorkers := o.Config.Orchestrator.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	restaurantCh := make(chan []Job)
	resultsCh := make(chan domain.PipelineRunResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range restaurantCh {
				for _, job := range group {
					resultsCh <- o.runOne(ctx, job)
				}
			}
		}()
	}

	for _, group := range groups {
		restaurantCh <- group
	}
	close(restaurantCh)
	wg.Wait()
	close(resultsCh)

	results := make([]domain.PipelineRunResult, 0, len(jobs))
	var errs error
	for r := range resultsCh {
		results = append(results, r)
		if !r.Success && r.Error != nil {
			errs = multierr.Append(errs, runError{r})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].Restaurant < results[j].Restaurant
	})

	return results, errs
}

// runOne executes a single (restaurant, date) pipeline under the soft
// per-run timeout, and converts the outcome into a PipelineRunResult. It
// never returns an error directly: failures are captured in the result's
// Success/Error fields so the batch artifact always has one record per
// attempted run, per spec.md §7.
func (o *Orchestrator) runOne(ctx context.Context, job Job) domain.PipelineRunResult {
	start := time.Now()
	runID := uuid.NewString()

	runCtx, cancel := context.WithTimeout(ctx, o.effectiveTimeout())
	defer cancel()

	date, dateErr := time.Parse("2006-01-02", job.Date)
	if dateErr != nil {
		return domain.PipelineRunResult{
			RunID:      runID,
			Restaurant: job.Restaurant, Date: job.Date, Success: false,
			Error: &domain.RunError{Stage: "orchestrator", Kind: string(pipelineerr.ValidationError), Message: dateErr.Error()},
			DurationMillis: time.Since(start).Milliseconds(),
		}
	}

	acc := o.accumulatorFor(job.Restaurant)
	weekly := acc.forDate(date)

	source := ingestion.NewFileSource(filepath.Join(o.BaseDir, job.Restaurant, job.Date), job.Date)
	pc := pipeline.NewContext(job.Restaurant, job.Date, o.BaseDir, source)
	pc.WeeklyHours = weekly

	runner := pipeline.NewRunner(
		ingestion.NewStage(),
		categorization.NewStage(),
		timeslot.NewStage(o.TimeslotPatterns),
		processing.NewStage(o.Config),
		cashflow.NewStage(),
		patterns.NewStage(o.DailyPatterns, o.TimeslotPatterns, o.Config.PatternLearning),
		storage.NewStage(o.DBClient, o.Config.CashFlow.VendorPayoutsAsCOGS),
	)

	runErr := runner.Run(runCtx, pc)
	elapsed := time.Since(start)

	if runErr != nil {
		o.Logger.Error("pipeline run failed",
			zap.String("run_id", runID),
			zap.String("restaurant", job.Restaurant),
			zap.String("date", job.Date),
			zap.String("stage", runErr.Stage),
			zap.String("kind", string(runErr.Kind)),
			zap.Error(runErr),
		)
		return domain.PipelineRunResult{
			RunID:      runID,
			Restaurant: job.Restaurant, Date: job.Date, Success: false,
			Error:          &domain.RunError{Stage: runErr.Stage, Kind: string(runErr.Kind), Message: runErr.Message},
			DurationMillis: elapsed.Milliseconds(),
		}
	}

	entries := pc.TimeEntries()
	acc.fold(entries)

	totalLaborCost, _ := pc.TotalPayrollCost()
	result := domain.PipelineRunResult{
		RunID:               runID,
		Restaurant:          job.Restaurant,
		Date:                job.Date,
		Success:             true,
		LaborMetrics:        pc.LaborMetrics(),
		ShiftMetrics:        pc.ShiftMetrics(),
		ServiceMix:          pc.ServiceMix(),
		Timeslots:           pc.Timeslots(),
		ShiftCategoryStats:  pc.ShiftCategoryStats(),
		CashFlow:            pc.CashFlow(),
		AutoClockout:        pc.AutoClockoutSummary(),
		OvertimeRecords:     pc.OvertimeRecords(),
		LearnedPatternCount: pc.LearnedPatternCount(),
		DurationMillis:      elapsed.Milliseconds(),
		TotalSales:          pc.Sales(),
		TotalLaborCost:      totalLaborCost,
		EmployeeCount:       len(entries),
	}
	return result
}

func (o *Orchestrator) effectiveTimeout() time.Duration {
	if o.RunTimeout <= 0 {
		return 60 * time.Second
	}
	return o.RunTimeout
}

func (o *Orchestrator) accumulatorFor(restaurant string) *weeklyAccumulator {
	o.weeklyMu.Lock()
	defer o.weeklyMu.Unlock()
	acc, ok := o.weekly[restaurant]
	if !ok {
		acc = newWeeklyAccumulator()
		o.weekly[restaurant] = acc
	}
	return acc
}

func groupByRestaurant(jobs []Job) [][]Job {
	byRestaurant := make(map[string][]Job)
	var order []string
	for _, j := range jobs {
		if _, ok := byRestaurant[j.Restaurant]; !ok {
			order = append(order, j.Restaurant)
		}
		byRestaurant[j.Restaurant] = append(byRestaurant[j.Restaurant], j)
	}
	groups := make([][]Job, 0, len(order))
	for _, r := range order {
		group := byRestaurant[r]
		sort.Slice(group, func(i, j int) bool { return group[i].Date < group[j].Date })
		groups = append(groups, group)
	}
	return groups
}

// runError adapts a failed PipelineRunResult to the error interface so it
// can be folded with go.uber.org/multierr.
type runError struct {
	result domain.PipelineRunResult
}

func (e runError) Error() string {
	return e.result.Restaurant + " " + e.result.Date + ": " + e.result.Error.Stage + "/" + e.result.Error.Kind + ": " + e.result.Error.Message
}
