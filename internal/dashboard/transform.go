// Package dashboard implements spec.md §6's dashboard artifact: a
// transformer that reads the batch artifact (the collected
// domain.PipelineRunResult list) and emits a v4Data structure grouped into
// Monday-anchored ISO weeks, ready to be serialized as a JavaScript module.
package dashboard

import (
	"sort"
	"strconv"
	"time"

	"restaurantops/internal/domain"
)

// ShiftBreakdown is one shift's metrics within a day's breakdown, using the
// lowercase JSON keys the existing dashboard JS expects.
type ShiftBreakdown struct {
	Sales      float64 `json:"sales"`
	Labor      float64 `json:"labor"`
	Manager    string  `json:"manager"`
	Voids      float64 `json:"voids"`
	OrderCount int     `json:"orderCount"`
}

// DailyBreakdown is one (restaurant, date) run's metrics as rendered into
// the dashboard artifact.
type DailyBreakdown struct {
	Date            string                    `json:"date"`
	TotalSales      float64                   `json:"totalSales"`
	LaborCost       float64                   `json:"laborCost"`
	LaborPercentage float64                   `json:"laborPercentage"`
	LaborStatus     string                    `json:"laborStatus"`
	LaborGrade      string                    `json:"laborGrade"`
	ServiceMix      map[string]float64        `json:"serviceMix"`
	NetCash         float64                   `json:"netCash"`
	Shifts          map[string]ShiftBreakdown `json:"shifts"` // keys: "morning", "evening"
}

// AutoClockoutAlert is one flattened alert in the dashboard artifact,
// carrying its restaurant/date context since alerts are pooled per week.
type AutoClockoutAlert struct {
	Restaurant      string  `json:"restaurant"`
	Date            string  `json:"date"`
	EmployeeName    string  `json:"employeeName"`
	Role            string  `json:"role"`
	RecordedHours   float64 `json:"recordedHours"`
	SuggestedHours  float64 `json:"suggestedHours"`
	HoursDifference float64 `json:"hoursDifference"`
	CostImpact      float64 `json:"costImpact"`
}

// RestaurantWeek is one restaurant's rollup within a week.
type RestaurantWeek struct {
	Restaurant     string           `json:"restaurant"`
	DailyBreakdown []DailyBreakdown `json:"dailyBreakdown"`
}

// Overview summarizes a week across all restaurants.
type Overview struct {
	WeekStart     string  `json:"weekStart"`
	TotalSales    float64 `json:"totalSales"`
	TotalLabor    float64 `json:"totalLabor"`
	RunCount      int     `json:"runCount"`
	SuccessCount  int     `json:"successCount"`
	FailureCount  int     `json:"failureCount"`
}

// Week is one Monday-anchored ISO week's worth of dashboard content.
type Week struct {
	Overview            Overview            `json:"overview"`
	Restaurants         []RestaurantWeek    `json:"restaurants"`
	AutoClockoutAlerts  []AutoClockoutAlert `json:"autoClockoutAlerts"`
}

// V4Data is the top-level structure assigned to the v4Data JS constant:
// week1, week2, ... in chronological order.
type V4Data map[string]Week

// Transform groups runs into Monday-anchored ISO weeks and builds the
// v4Data structure spec.md §6 describes. Failed runs (success=false)
// contribute to Overview counts but are excluded from dailyBreakdown and
// autoClockoutAlerts, since they carry no metrics to render.
func Transform(runs []domain.PipelineRunResult) V4Data {
	type weekBucket struct {
		start time.Time
		runs  []domain.PipelineRunResult
	}
	buckets := make(map[string]*weekBucket)

	for _, r := range runs {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		start := mondayOf(date)
		key := start.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &weekBucket{start: start}
			buckets[key] = b
		}
		b.runs = append(b.runs, r)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(V4Data, len(keys))
	for i, k := range keys {
		label := weekLabel(i + 1)
		out[label] = buildWeek(buckets[k].start, buckets[k].runs)
	}
	return out
}

func buildWeek(start time.Time, runs []domain.PipelineRunResult) Week {
	byRestaurant := make(map[string][]domain.PipelineRunResult)
	var restaurantOrder []string
	overview := Overview{WeekStart: start.Format("2006-01-02")}
	var alerts []AutoClockoutAlert

	for _, r := range runs {
		overview.RunCount++
		if r.Success {
			overview.SuccessCount++
		} else {
			overview.FailureCount++
			continue
		}
		overview.TotalSales += r.TotalSales
		overview.TotalLabor += r.TotalLaborCost

		if _, ok := byRestaurant[r.Restaurant]; !ok {
			restaurantOrder = append(restaurantOrder, r.Restaurant)
		}
		byRestaurant[r.Restaurant] = append(byRestaurant[r.Restaurant], r)

		for _, a := range r.AutoClockout.Alerts {
			alerts = append(alerts, AutoClockoutAlert{
				Restaurant:      r.Restaurant,
				Date:            r.Date,
				EmployeeName:    a.EmployeeName,
				Role:            a.Role,
				RecordedHours:   a.RecordedHours,
				SuggestedHours:  a.SuggestedHours,
				HoursDifference: a.HoursDifference,
				CostImpact:      a.CostImpact,
			})
		}
	}

	sort.Strings(restaurantOrder)
	restaurants := make([]RestaurantWeek, 0, len(restaurantOrder))
	for _, name := range restaurantOrder {
		runsForRestaurant := byRestaurant[name]
		sort.Slice(runsForRestaurant, func(i, j int) bool {
			return runsForRestaurant[i].Date < runsForRestaurant[j].Date
		})
		var daily []DailyBreakdown
		for _, r := range runsForRestaurant {
			daily = append(daily, buildDailyBreakdown(r))
		}
		restaurants = append(restaurants, RestaurantWeek{Restaurant: name, DailyBreakdown: daily})
	}

	return Week{Overview: overview, Restaurants: restaurants, AutoClockoutAlerts: alerts}
}

func buildDailyBreakdown(r domain.PipelineRunResult) DailyBreakdown {
	serviceMix := make(map[string]float64, len(r.ServiceMix))
	for cat, pct := range r.ServiceMix {
		serviceMix[string(cat)] = pct
	}

	cash := r.CashFlow.Total()

	return DailyBreakdown{
		Date:            r.Date,
		TotalSales:      r.TotalSales,
		LaborCost:       r.TotalLaborCost,
		LaborPercentage: r.LaborMetrics.LaborPercentage,
		LaborStatus:     r.LaborMetrics.Status,
		LaborGrade:      r.LaborMetrics.Grade,
		ServiceMix:      serviceMix,
		NetCash:         cash.NetCash,
		Shifts: map[string]ShiftBreakdown{
			"morning": shiftBreakdownFrom(r.ShiftMetrics.Morning),
			"evening": shiftBreakdownFrom(r.ShiftMetrics.Evening),
		},
	}
}

func shiftBreakdownFrom(h domain.ShiftHalf) ShiftBreakdown {
	return ShiftBreakdown{
		Sales:      h.Sales,
		Labor:      h.Labor,
		Manager:    h.Manager,
		Voids:      h.Voids,
		OrderCount: h.OrderCount,
	}
}

func weekLabel(n int) string {
	return "week" + strconv.Itoa(n)
}

func mondayOf(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).AddDate(0, 0, -offset)
}
