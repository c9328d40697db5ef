package categorization

import (
	"context"
	"testing"

	"restaurantops/internal/domain"
	"restaurantops/internal/pipeline"
)

type fakeDataSource struct{}

func (fakeDataSource) ReadCSV(string) ([]map[string]string, bool, error) { return nil, false, nil }
func (fakeDataSource) ListAvailable() []string                          { return nil }

func TestStagePrefersKitchenFireTimeOverOrderOpened(t *testing.T) {
	pc := pipeline.NewContext("SDR", "2026-03-02", "", fakeDataSource{})
	pc.SetTimeEntries(nil)
	pc.SetRawTables(map[string][]map[string]string{
		"kitchen": {
			{
				"Check #":          "100",
				"Table":            "0",
				"Fulfillment Time": "5 minutes",
				// Fire Time is evening (after the 14:00 cutoff).
				"Fire Time": "2026-03-02 15:30:00",
			},
		},
		"orders": {
			{
				"Check #":  "100",
				"Table":    "0",
				"Duration": "5 minutes",
				// Opened is morning (before the 14:00 cutoff); must lose
				// to the kitchen row's Fire Time per spec.md §4.5.
				"Opened": "2026-03-02 08:00:00",
			},
		},
	})

	if err := (Stage{}).Run(context.Background(), pc); err != nil {
		t.Fatalf("unexpected stage error: %v", err)
	}

	orders := pc.CategorizedOrders()
	if len(orders) != 1 {
		t.Fatalf("expected 1 categorized order, got %d", len(orders))
	}

	rec := orders[0]
	if !rec.HasOrderTime {
		t.Fatalf("expected a parsed order time")
	}
	if rec.OrderTime.Hour() != 15 {
		t.Fatalf("expected kitchen Fire Time (hour 15) to win over order Opened (hour 8), got hour %d", rec.OrderTime.Hour())
	}
	if rec.Shift != domain.ShiftEvening {
		t.Fatalf("expected evening shift from Fire Time, got %s", rec.Shift)
	}
}
