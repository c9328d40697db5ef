package cashflow

import (
	"context"

	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "cash_flow"

// Stage is the pipeline.Stage implementation for the cash-flow extractor.
// A missing or empty cash-management table is not fatal: the run simply
// reports a zero-valued CashFlow.
type Stage struct{}

// NewStage builds the Cash Flow Extractor stage.
func NewStage() Stage { return Stage{} }

func (Stage) Name() string { return stageName }

func (Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	tables := pc.RawTables()
	rows := tables["cash_mgmt"]
	if rows == nil {
		rows = tables["cash_activity"]
	}

	pc.SetCashFlow(Extract(rows))
	return nil
}
