package categorization

import (
	"math"
	"testing"

	"restaurantops/internal/domain"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestClassifyDriveThruByCashDrawer(t *testing.T) {
	s := signals{
		tableCount:       0,
		cashDrawer:       "drive thru 1",
		employeePosition: "",
		kitchenDuration:  3.2,
		orderDuration:    6 + 23.0/60,
	}
	if got := classify(s); got != domain.CategoryDriveThru {
		t.Fatalf("expected Drive-Thru, got %s", got)
	}
}

func TestClassifyLobbyByTwoOfThreeTables(t *testing.T) {
	s := signals{
		tableCount:      2,
		kitchenDuration: 18.75,
		orderDuration:   25.17,
	}
	if got := classify(s); got != domain.CategoryLobby {
		t.Fatalf("expected Lobby, got %s", got)
	}
}

func TestClassifyToGoDefault(t *testing.T) {
	s := signals{
		tableCount:      0,
		kitchenDuration: 12.5,
		orderDuration:   15.33,
	}
	if got := classify(s); got != domain.CategoryToGo {
		t.Fatalf("expected ToGo, got %s", got)
	}
}

func TestClassifyDriveThruBoundaryDoesNotFireAtSeven(t *testing.T) {
	s := signals{
		tableCount:      0,
		kitchenDuration: 7.0,
		orderDuration:   0,
	}
	if got := classify(s); got == domain.CategoryDriveThru {
		t.Fatalf("the < 7 rule must not fire at exactly 7.0, got %s", got)
	}
}

func TestComputeServiceMixSumsToHundred(t *testing.T) {
	orders := []domain.OrderRecord{
		{Category: domain.CategoryLobby},
		{Category: domain.CategoryDriveThru},
		{Category: domain.CategoryDriveThru},
		{Category: domain.CategoryToGo},
	}
	mix := computeServiceMix(orders)
	var total float64
	for _, pct := range mix {
		total += pct
	}
	if !almostEqual(total, 100) {
		t.Fatalf("service mix should sum to ~100, got %f", total)
	}
}
