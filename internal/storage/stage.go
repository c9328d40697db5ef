package storage

import (
	"context"

	"restaurantops/internal/domain"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
	"restaurantops/internal/timeslot"
)

const stageName = "storage"

// Stage is the pipeline.Stage implementation for spec.md §4.8: assembling
// the daily/shift/timeslot rows for this run and writing them through one
// DatabaseClient.WriteRun transaction.
type Stage struct {
	Client              DatabaseClient
	VendorPayoutsAsCOGS bool
}

// NewStage builds the Storage stage around a DatabaseClient.
func NewStage(client DatabaseClient, vendorPayoutsAsCOGS bool) Stage {
	return Stage{Client: client, VendorPayoutsAsCOGS: vendorPayoutsAsCOGS}
}

func (Stage) Name() string { return stageName }

func (s Stage) Run(ctx context.Context, pc *pipeline.Context) *pipelineerr.Error {
	labor := pc.LaborMetrics()
	shifts := pc.ShiftMetrics()
	cash := pc.CashFlow()
	sales := pc.Sales()
	laborCost, _ := pc.TotalPayrollCost()
	employeeCount := len(pc.TimeEntries())

	cogs := 0.0
	if s.VendorPayoutsAsCOGS {
		cogs = cash.Total().VendorPayouts
	}
	netProfit := sales - laborCost - cogs
	profitMargin := 0.0
	if sales != 0 {
		profitMargin = 100 * netProfit / sales
	}

	totalHours := 0.0
	for _, e := range pc.TimeEntries() {
		totalHours += e.PayableHours
	}

	run := RunRecord{
		Daily: DailyOperationsRow{
			BusinessDate:   pc.Date,
			RestaurantCode: pc.Restaurant,
			TotalSales:     sales,
			LaborCost:      laborCost,
			LaborPercent:   labor.LaborPercentage,
			LaborHours:     totalHours,
			EmployeeCount:  employeeCount,
			NetProfit:      netProfit,
			ProfitMargin:   profitMargin,
		},
		Shifts: [2]ShiftOperationsRow{
			shiftRow(pc, "Morning", shifts.Morning, cash.Morning),
			shiftRow(pc, "Evening", shifts.Evening, cash.Evening),
		},
	}

	windows := pc.Timeslots()
	totalOrders := 0
	for _, w := range windows {
		totalOrders += w.TotalOrders
	}
	for i, w := range windows {
		share := 0.0
		if totalOrders > 0 {
			share = float64(w.TotalOrders) / float64(totalOrders)
		}
		run.Timeslots[i] = TimeslotResultRow{
			BusinessDate:    pc.Date,
			RestaurantCode:  pc.Restaurant,
			TimeslotIndex:   w.Index,
			TimeslotLabel:   timeslot.WindowLabel(w.Index),
			ShiftName:       shiftName(w.Shift),
			Orders:          w.TotalOrders,
			Sales:           sales * share,
			LaborCost:       laborCost * share,
			EfficiencyScore: w.PassRate,
			Grade:           w.Grade,
			PassFail:        w.PassedStandards,
			CategoryStats:   w.CategoryStats,
		}
	}

	if err := s.Client.WriteRun(ctx, run); err != nil {
		return pipelineerr.New(pipelineerr.StorageError, "failed to write run",
			pipelineerr.WithStage(stageName), pipelineerr.WithCause(err))
	}
	return nil
}

func shiftRow(pc *pipeline.Context, name string, half domain.ShiftHalf, cash domain.ShiftCashFlow) ShiftOperationsRow {
	stats := pc.ShiftCategoryStats()[shiftFromName(name)]
	return ShiftOperationsRow{
		BusinessDate:    pc.Date,
		RestaurantCode:  pc.Restaurant,
		ShiftName:       name,
		Sales:           half.Sales,
		LaborCost:       half.Labor,
		OrderCount:      half.OrderCount,
		CategoryStats:   stats,
		Manager:         half.Manager,
		Voids:           0, // void extraction is out of scope; see spec.md §9 open question 4
		CashCollected:   cash.CashCollected,
		TipsDistributed: cash.TipsDistributed,
		VendorPayouts:   cash.VendorPayouts,
		NetCash:         cash.NetCash,
	}
}

func shiftName(s domain.Shift) string {
	if s == domain.ShiftEvening {
		return "Evening"
	}
	return "Morning"
}

func shiftFromName(name string) domain.Shift {
	if name == "Evening" {
		return domain.ShiftEvening
	}
	return domain.ShiftMorning
}
