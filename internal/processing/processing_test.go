package processing

import (
	"math"
	"testing"
	"time"

	"restaurantops/internal/config"
	"restaurantops/internal/domain"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func testThresholds() config.Thresholds {
	var th config.Thresholds
	th.Labor.Status = []config.Bound{
		{Bound: 20, Label: "EXCELLENT"},
		{Bound: 25, Label: "GOOD"},
		{Bound: 30, Label: "WARNING"},
		{Bound: 35, Label: "CRITICAL"},
		{Bound: 40, Label: "SEVERE"},
	}
	th.Labor.Grade = []config.Bound{
		{Bound: 18, Label: "A+"},
		{Bound: 20, Label: "A"},
		{Bound: 23, Label: "B+"},
		{Bound: 25, Label: "B"},
		{Bound: 28, Label: "C+"},
		{Bound: 30, Label: "C"},
		{Bound: 33, Label: "D+"},
		{Bound: 35, Label: "D"},
		{Bound: 1e9, Label: "F"},
	}
	return th
}

func TestComputeLaborMetricsSevereAboveForty(t *testing.T) {
	th := testThresholds()
	m := ComputeLaborMetrics(1000, 450, th)
	if !almostEqual(m.LaborPercentage, 45) {
		t.Fatalf("expected 45%%, got %f", m.LaborPercentage)
	}
	if m.Status != "SEVERE" {
		t.Fatalf("expected SEVERE status, got %s", m.Status)
	}
	if m.Grade != "F" {
		t.Fatalf("expected F grade, got %s", m.Grade)
	}
	if len(m.Warnings) == 0 || len(m.Recommendations) == 0 {
		t.Fatalf("expected warnings and recommendations for SEVERE status")
	}
}

func TestComputeLaborMetricsZeroSalesForcesSevere(t *testing.T) {
	th := testThresholds()
	m := ComputeLaborMetrics(0, 0, th)
	if m.LaborPercentage != 0 {
		t.Fatalf("expected 0%% labor percentage for zero sales, got %f", m.LaborPercentage)
	}
	if m.Status != "SEVERE" || m.Grade != "F" {
		t.Fatalf("expected SEVERE/F for zero sales, got %s/%s", m.Status, m.Grade)
	}
}

func TestComputeLaborMetricsExcellent(t *testing.T) {
	th := testThresholds()
	m := ComputeLaborMetrics(1000, 150, th)
	if m.Status != "EXCELLENT" || m.Grade != "A+" {
		t.Fatalf("expected EXCELLENT/A+, got %s/%s", m.Status, m.Grade)
	}
	if len(m.Warnings) != 0 || len(m.Recommendations) != 0 {
		t.Fatalf("expected no warnings/recommendations for EXCELLENT status")
	}
}

func mustParse(t *testing.T, layout, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(layout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tm
}

func TestComputeAutoClockoutScenario(t *testing.T) {
	clockIn := mustParse(t, "2006-01-02 15:04", "2026-03-02 07:00")
	clockOut := mustParse(t, "2006-01-02 15:04", "2026-03-02 19:00")
	entries := []domain.TimeEntry{
		{
			EmployeeName: "Jordan",
			JobTitle:     "Server",
			ClockIn:      clockIn,
			ClockOut:     clockOut,
			TotalHours:   12.0,
			AutoClockout: true,
		},
	}
	cfg := config.AutoClockout{
		DefaultHourlyRate: 15.0,
		ShiftSchedules: map[string]map[string]config.ShiftSchedule{
			"SDR": {
				"FOH": {Weekday: "14:00", Sunday: "13:00"},
			},
		},
		BOHJobKeywords:      []string{"cook", "kitchen"},
		ExcludedJobKeywords: []string{"cashier", "system"},
	}

	summary := ComputeAutoClockout(entries, "SDR", false, cfg)
	if len(summary.Alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(summary.Alerts))
	}
	a := summary.Alerts[0]
	if a.Role != "FOH" {
		t.Fatalf("expected FOH role, got %s", a.Role)
	}
	if !almostEqual(a.SuggestedHours, 7.0) {
		t.Fatalf("expected suggested_hours=7.0, got %f", a.SuggestedHours)
	}
	if !almostEqual(a.HoursDifference, 5.0) {
		t.Fatalf("expected hours_difference=5.0, got %f", a.HoursDifference)
	}
	if !almostEqual(a.CostImpact, 75.0) {
		t.Fatalf("expected cost_impact=75.0, got %f", a.CostImpact)
	}
}

func TestComputeAutoClockoutExcludesSystemAndCashier(t *testing.T) {
	clockIn := mustParse(t, "2006-01-02 15:04", "2026-03-02 07:00")
	entries := []domain.TimeEntry{
		{EmployeeName: "Register", JobTitle: "Cashier", ClockIn: clockIn, TotalHours: 12, AutoClockout: true},
	}
	cfg := config.AutoClockout{
		DefaultHourlyRate: 15.0,
		ShiftSchedules: map[string]map[string]config.ShiftSchedule{
			"SDR": {"FOH": {Weekday: "14:00"}},
		},
		ExcludedJobKeywords: []string{"cashier", "system"},
	}
	summary := ComputeAutoClockout(entries, "SDR", false, cfg)
	if len(summary.Alerts) != 0 {
		t.Fatalf("expected cashier entry to be excluded, got %d alerts", len(summary.Alerts))
	}
}

type fixedWeeklyHours map[string]float64

func (f fixedWeeklyHours) PriorHours(employee string) float64 { return f[employee] }

func TestComputeOvertimeBoundaryAtFortyIsNoRecord(t *testing.T) {
	entries := []domain.TimeEntry{
		{EmployeeName: "Alex", PayableHours: 8.0, HourlyRate: 20, HasRate: true},
	}
	weekly := fixedWeeklyHours{"Alex": 32.0}
	cfg := config.Overtime{WeeklyThresholdHours: 40, Multiplier: 1.5}
	records := ComputeOvertime(entries, weekly, cfg, 15.0)
	if len(records) != 0 {
		t.Fatalf("expected no overtime record at exactly 40 hours, got %d", len(records))
	}
}

func TestComputeOvertimeSeverityBands(t *testing.T) {
	entries := []domain.TimeEntry{
		{EmployeeName: "Casey", PayableHours: 14.0, HourlyRate: 20, HasRate: true},
	}
	weekly := fixedWeeklyHours{"Casey": 40.0} // total 54 -> 14 OT hours -> warning band
	cfg := config.Overtime{WeeklyThresholdHours: 40, Multiplier: 1.5}
	records := ComputeOvertime(entries, weekly, cfg, 15.0)
	if len(records) != 1 {
		t.Fatalf("expected 1 overtime record, got %d", len(records))
	}
	r := records[0]
	if !almostEqual(r.OvertimeHours, 14.0) {
		t.Fatalf("expected 14 overtime hours, got %f", r.OvertimeHours)
	}
	if r.Severity != domain.OvertimeWarning {
		t.Fatalf("expected warning severity, got %s", r.Severity)
	}
	if !almostEqual(r.OvertimeCost, 14.0*20*1.5) {
		t.Fatalf("expected overtime cost %f, got %f", 14.0*20*1.5, r.OvertimeCost)
	}
}

func TestComputeOvertimeNoWeeklyLookupUsesSingleDay(t *testing.T) {
	entries := []domain.TimeEntry{
		{EmployeeName: "Sam", PayableHours: 9.0},
	}
	cfg := config.Overtime{WeeklyThresholdHours: 40, Multiplier: 1.5}
	records := ComputeOvertime(entries, nil, cfg, 15.0)
	if len(records) != 0 {
		t.Fatalf("expected no overtime record from a single 9-hour day, got %d", len(records))
	}
}

func TestSplitShiftsFallbackRatioWithoutTimestamps(t *testing.T) {
	orders := []domain.OrderRecord{{}, {}, {}}
	cfg := config.Shifts{CutoffHour: 14, ManagerJobKeywords: []string{"manager"}}
	metrics := SplitShifts(orders, 1000, 300, nil, cfg)
	if metrics.SplitMethod != "fixed_ratio" {
		t.Fatalf("expected fixed_ratio split method, got %s", metrics.SplitMethod)
	}
	if !almostEqual(metrics.Morning.Sales, 350) || !almostEqual(metrics.Evening.Sales, 650) {
		t.Fatalf("expected 0.35/0.65 split, got morning=%f evening=%f", metrics.Morning.Sales, metrics.Evening.Sales)
	}
}
