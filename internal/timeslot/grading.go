package timeslot

import (
	"time"

	"restaurantops/internal/domain"
	"restaurantops/internal/patterns"
)

// Reliability is the fixed bar spec.md §4.4 pins for trusting a learned
// timeslot baseline: confidence >= 0.6 and observations >= 4.
const (
	ReliabilityMinConfidence   = 0.6
	ReliabilityMinObservations = 4
)

// historicalTarget returns the learned target for (restaurant, dayName,
// shift, window, category) if a reliable pattern exists for it.
func historicalTarget(reader patterns.TimeslotStore, key patterns.TimeslotKey) (float64, bool) {
	p, ok := reader.Get(key)
	if !ok {
		return 0, false
	}
	if !p.Reliable(ReliabilityMinConfidence, ReliabilityMinObservations) {
		return 0, false
	}
	return p.BaselineTime + p.Variance, true
}

// gradeFromPassRate derives the letter grade from an overall pass rate,
// per spec.md §4.4's threshold table.
func gradeFromPassRate(passRate float64) string {
	switch {
	case passRate >= 0.95:
		return "A+"
	case passRate >= 0.90:
		return "A"
	case passRate >= 0.85:
		return "B+"
	case passRate >= 0.80:
		return "B"
	case passRate >= 0.70:
		return "C+"
	case passRate >= 0.60:
		return "C"
	case passRate >= 0.50:
		return "D"
	default:
		return "F"
	}
}

// Grade buckets all categorized orders into the 64 fixed windows and
// grades each one, and rolls per-window category stats up into the
// per-shift aggregate spec.md §4.4 describes.
func Grade(orders []domain.OrderRecord, restaurant string, dayName string, reader patterns.TimeslotStore) ([WindowCount]domain.Timeslot, map[domain.Shift]map[domain.Category]domain.CategoryCount) {
	var windows [WindowCount]domain.Timeslot
	for i := range windows {
		windows[i] = newEmptyWindow(i)
	}

	byWindow := make(map[int][]domain.OrderRecord, WindowCount)
	for _, o := range orders {
		if !o.HasOrderTime {
			continue
		}
		idx, ok := WindowIndex(o.OrderTime)
		if !ok {
			continue
		}
		byWindow[idx] = append(byWindow[idx], o)
	}

	for idx := 0; idx < WindowCount; idx++ {
		windows[idx] = gradeWindow(idx, byWindow[idx], restaurant, dayName, reader)
	}

	shiftStats := make(map[domain.Shift]map[domain.Category]domain.CategoryCount, 2)
	shiftStats[domain.ShiftMorning] = make(map[domain.Category]domain.CategoryCount, len(domain.Categories))
	shiftStats[domain.ShiftEvening] = make(map[domain.Category]domain.CategoryCount, len(domain.Categories))
	for idx, w := range windows {
		shift := ShiftForWindow(idx)
		agg := shiftStats[shift]
		for _, cat := range domain.Categories {
			cc := agg[cat]
			wc := w.CategoryStats[cat]
			cc.Total += wc.Total
			cc.Passed += wc.Passed
			cc.Failed += wc.Failed
			agg[cat] = cc
		}
	}

	return windows, shiftStats
}

func newEmptyWindow(idx int) domain.Timeslot {
	stats := make(map[domain.Category]domain.CategoryCount, len(domain.Categories))
	avg := make(map[domain.Category]float64, len(domain.Categories))
	for _, cat := range domain.Categories {
		stats[cat] = domain.CategoryCount{}
		avg[cat] = 0
	}
	return domain.Timeslot{
		Index:         idx,
		TimeWindow:    WindowLabel(idx),
		Shift:         ShiftForWindow(idx),
		CategoryStats: stats,
		AvgFulfillment: avg,
		Grade:         "N/A",
	}
}

func gradeWindow(idx int, orders []domain.OrderRecord, restaurant, dayName string, reader patterns.TimeslotStore) domain.Timeslot {
	w := newEmptyWindow(idx)
	if len(orders) == 0 {
		return w
	}

	sums := make(map[domain.Category]float64, len(domain.Categories))
	counts := make(map[domain.Category]int, len(domain.Categories))
	strictPass := true
	var totalPassed, totalOrders int

	for _, o := range orders {
		cc := w.CategoryStats[o.Category]
		cc.Total++
		totalOrders++

		standard, hasStandard := Standards[o.Category]
		var historical float64
		var hasHistorical bool
		if reader != nil {
			if target, ok := historicalTarget(reader, patterns.TimeslotKey{
				Restaurant: restaurant, DayName: dayName, Shift: w.Shift, Window: idx, Category: o.Category,
			}); ok {
				historical, hasHistorical = target, true
			}
		}

		valid := o.FulfillmentMinutes > 0
		passes := valid && hasStandard && o.FulfillmentMinutes <= standard
		if passes && hasHistorical && o.FulfillmentMinutes > historical {
			passes = false
		}

		if passes {
			cc.Passed++
			totalPassed++
		} else {
			cc.Failed++
			strictPass = false
		}
		w.CategoryStats[o.Category] = cc

		if valid {
			sums[o.Category] += o.FulfillmentMinutes
			counts[o.Category]++
		}
	}

	for _, cat := range domain.Categories {
		if counts[cat] > 0 {
			w.AvgFulfillment[cat] = sums[cat] / float64(counts[cat])
		}
	}

	w.TotalOrders = totalOrders
	if totalOrders > 0 {
		w.PassRate = float64(totalPassed) / float64(totalOrders)
	}
	w.PassedStandards = strictPass
	w.Grade = gradeFromPassRate(w.PassRate)
	return w
}

// DayName returns the weekday name ("Monday".."Sunday") matching the
// convention spec.md §9 fixes: Monday=0..Sunday=6.
func DayName(date time.Time) string {
	// Only the name is returned, so time.Weekday's Sunday=0 numbering
	// does not leak out of this function.
	return date.Weekday().String()
}
