package storage

import (
	"context"
	"errors"
	"testing"

	"restaurantops/internal/domain"
	"restaurantops/internal/pipeline"
)

type fakeDataSource struct{}

func (fakeDataSource) ReadCSV(string) ([]map[string]string, bool, error) { return nil, false, nil }
func (fakeDataSource) ListAvailable() []string                          { return nil }

type recordingClient struct {
	got RunRecord
	err error
}

func (c *recordingClient) WriteRun(_ context.Context, run RunRecord) error {
	c.got = run
	return c.err
}

func buildContext(t *testing.T) *pipeline.Context {
	t.Helper()
	pc := pipeline.NewContext("SDR", "2026-03-02", "", fakeDataSource{})
	pc.SetSales(1000)
	pc.SetTotalPayrollCost(250)
	pc.SetTimeEntries(nil)
	pc.SetCategorizedOrders(nil)
	pc.SetLaborMetrics(domain.LaborMetrics{LaborPercentage: 25, Status: "GOOD", Grade: "B"})
	pc.SetShiftMetrics(domain.ShiftMetrics{
		SplitMethod: "fixed_ratio",
		Morning:     domain.ShiftHalf{Sales: 350, Labor: 87.5, Manager: "Not Assigned", OrderCount: 3},
		Evening:     domain.ShiftHalf{Sales: 650, Labor: 162.5, Manager: "Not Assigned", OrderCount: 5},
	})
	pc.SetCashFlow(domain.CashFlow{
		Morning: domain.ShiftCashFlow{CashCollected: 500, TipsDistributed: 50, VendorPayouts: 120, NetCash: 330},
		Evening: domain.ShiftCashFlow{CashCollected: 400, TipsDistributed: 40, VendorPayouts: 60, NetCash: 300},
	})
	pc.SetShiftCategoryStats(map[domain.Shift]map[domain.Category]domain.CategoryCount{
		domain.ShiftMorning: {domain.CategoryLobby: {Total: 3, Passed: 3}},
		domain.ShiftEvening: {domain.CategoryLobby: {Total: 5, Passed: 4, Failed: 1}},
	})
	var windows [64]domain.Timeslot
	for i := range windows {
		windows[i] = domain.Timeslot{Index: i, Grade: "N/A"}
	}
	windows[10].TotalOrders = 8
	windows[10].PassRate = 1.0
	windows[10].Grade = "A+"
	windows[10].PassedStandards = true
	pc.SetTimeslots(windows)
	return pc
}

func TestStageWritesAssembledRun(t *testing.T) {
	client := &recordingClient{}
	stage := NewStage(client, true)
	pc := buildContext(t)

	if err := stage.Run(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.got.Daily.RestaurantCode != "SDR" || client.got.Daily.BusinessDate != "2026-03-02" {
		t.Fatalf("unexpected daily row identity: %+v", client.got.Daily)
	}
	if client.got.Daily.TotalSales != 1000 {
		t.Fatalf("expected total sales 1000, got %f", client.got.Daily.TotalSales)
	}
	wantCOGS := 180.0 // morning 120 + evening 60
	wantNetProfit := 1000 - 250 - wantCOGS
	if client.got.Daily.NetProfit != wantNetProfit {
		t.Fatalf("expected net profit %f, got %f", wantNetProfit, client.got.Daily.NetProfit)
	}

	if client.got.Shifts[0].ShiftName != "Morning" || client.got.Shifts[1].ShiftName != "Evening" {
		t.Fatalf("unexpected shift ordering: %+v", client.got.Shifts)
	}

	if client.got.Timeslots[10].Orders != 8 || client.got.Timeslots[10].Grade != "A+" {
		t.Fatalf("unexpected timeslot[10] row: %+v", client.got.Timeslots[10])
	}
}

func TestStageSurfacesStorageError(t *testing.T) {
	client := &recordingClient{err: errors.New("connection reset")}
	stage := NewStage(client, true)
	pc := buildContext(t)

	err := stage.Run(context.Background(), pc)
	if err == nil {
		t.Fatal("expected a storage error")
	}
	if !err.Fatal() {
		t.Fatal("expected StorageError to be fatal")
	}
}
