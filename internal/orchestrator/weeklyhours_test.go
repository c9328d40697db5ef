package orchestrator

import (
	"testing"
	"time"

	"restaurantops/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestWeeklyAccumulatorFoldsAcrossSameWeek(t *testing.T) {
	acc := newWeeklyAccumulator()

	monday := mustDate(t, "2026-03-02")
	lookup := acc.forDate(monday)
	if got := lookup.PriorHours("Alex"); got != 0 {
		t.Fatalf("expected 0 prior hours on the first day of a week, got %f", got)
	}
	acc.fold([]domain.TimeEntry{{EmployeeName: "Alex", PayableHours: 8}})

	tuesday := mustDate(t, "2026-03-03")
	lookup = acc.forDate(tuesday)
	if got := lookup.PriorHours("Alex"); got != 8 {
		t.Fatalf("expected 8 prior hours carried into Tuesday, got %f", got)
	}
	acc.fold([]domain.TimeEntry{{EmployeeName: "Alex", PayableHours: 9}})

	sunday := mustDate(t, "2026-03-08")
	lookup = acc.forDate(sunday)
	if got := lookup.PriorHours("Alex"); got != 17 {
		t.Fatalf("expected 17 prior hours carried into Sunday of the same week, got %f", got)
	}
}

func TestWeeklyAccumulatorResetsOnNewWeek(t *testing.T) {
	acc := newWeeklyAccumulator()

	sunday := mustDate(t, "2026-03-08")
	acc.forDate(sunday)
	acc.fold([]domain.TimeEntry{{EmployeeName: "Alex", PayableHours: 8}})

	nextMonday := mustDate(t, "2026-03-09")
	lookup := acc.forDate(nextMonday)
	if got := lookup.PriorHours("Alex"); got != 0 {
		t.Fatalf("expected the accumulator to reset for a new Monday-anchored week, got %f", got)
	}
}

func TestGroupByRestaurantOrdersDatesAscending(t *testing.T) {
	jobs := []Job{
		{Restaurant: "SDR", Date: "2026-03-03"},
		{Restaurant: "LKW", Date: "2026-03-01"},
		{Restaurant: "SDR", Date: "2026-03-01"},
	}
	groups := groupByRestaurant(jobs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 restaurant groups, got %d", len(groups))
	}
	for _, g := range groups {
		if g[0].Restaurant == "SDR" {
			if g[0].Date != "2026-03-01" || g[1].Date != "2026-03-03" {
				t.Fatalf("expected SDR dates in ascending order, got %+v", g)
			}
		}
	}
}
