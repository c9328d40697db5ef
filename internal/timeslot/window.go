// Package timeslot implements the 15-minute windowing and grading machine
// of spec.md §4.4: 64 fixed windows covering 06:00-22:00, each graded
// against fixed per-category standards and, when a reliable learned
// baseline exists, against that baseline too.
package timeslot

import (
	"fmt"
	"time"

	"restaurantops/internal/domain"
)

// WindowCount is the fixed number of 15-minute windows per business day.
const WindowCount = 64

// windowsPerShift is half of WindowCount: windows 0-31 are the morning
// shift, 32-63 the evening shift.
const windowsPerShift = WindowCount / 2

const dayStartHour = 6
const dayEndHour = 22

// Standards are the fixed pass thresholds on fulfillment_minutes used for
// grading, per spec.md §4.4. Note these differ from the categorization
// cascade's Drive-Thru detection threshold (strict < 7 there; <= 7 here).
var Standards = map[domain.Category]float64{
	domain.CategoryLobby:     15.0,
	domain.CategoryDriveThru: 7.0,
	domain.CategoryToGo:      10.0,
}

// WindowIndex maps a timestamp to its 15-minute window index in [0,64),
// or ok=false if the timestamp falls outside 06:00-22:00.
func WindowIndex(t time.Time) (index int, ok bool) {
	hour, min := t.Hour(), t.Minute()
	if hour < dayStartHour || hour >= dayEndHour {
		return 0, false
	}
	minutesSinceStart := (hour-dayStartHour)*60 + min
	idx := minutesSinceStart / 15
	if idx < 0 || idx >= WindowCount {
		return 0, false
	}
	return idx, true
}

// ShiftForWindow reports which shift a window index belongs to.
func ShiftForWindow(index int) domain.Shift {
	if index < windowsPerShift {
		return domain.ShiftMorning
	}
	return domain.ShiftEvening
}

// WindowLabel renders a window index as its "HH:MM-HH:MM" time-window
// string.
func WindowLabel(index int) string {
	startMinutes := dayStartHour*60 + index*15
	endMinutes := startMinutes + 15
	return fmt.Sprintf("%s-%s", formatHHMM(startMinutes), formatHHMM(endMinutes))
}

func formatHHMM(totalMinutes int) string {
	h := (totalMinutes / 60) % 24
	m := totalMinutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
