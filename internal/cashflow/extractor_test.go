package cashflow

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestExtractScenario7Rollup(t *testing.T) {
	rows := []map[string]string{
		{"Action": "CASH_PAYMENT", "Amount": "500", "Created Date": "2026-03-02 09:00:00", "Cash Drawer": "1", "Employee": "Jordan"},
		{"Action": "TIP_OUT", "Amount": "-50", "Created Date": "2026-03-02 10:00:00", "Cash Drawer": "1", "Employee": "Jordan"},
		{"Action": "PAY_OUT", "Amount": "-120", "Created Date": "2026-03-02 11:00:00", "Payout Reason": "Sysco delivery", "Cash Drawer": "1", "Employee": "Morgan"},

		{"Action": "CASH_PAYMENT", "Amount": "400", "Created Date": "2026-03-02 18:00:00", "Cash Drawer": "2", "Employee": "Riley"},
		{"Action": "TIP_OUT", "Amount": "-40", "Created Date": "2026-03-02 19:00:00", "Cash Drawer": "2", "Employee": "Riley"},
		{"Action": "PAY_OUT", "Amount": "-60", "Created Date": "2026-03-02 20:00:00", "Payout Reason": "Produce delivery", "Cash Drawer": "2", "Employee": "Morgan"},
	}

	flow := Extract(rows)

	if !almostEqual(flow.Morning.CashCollected, 500) || !almostEqual(flow.Morning.TipsDistributed, 50) || !almostEqual(flow.Morning.VendorPayouts, 120) {
		t.Fatalf("unexpected morning totals: %+v", flow.Morning)
	}
	if !almostEqual(flow.Morning.NetCash, 330) {
		t.Fatalf("expected morning net_cash=330, got %f", flow.Morning.NetCash)
	}

	if !almostEqual(flow.Evening.CashCollected, 400) || !almostEqual(flow.Evening.TipsDistributed, 40) || !almostEqual(flow.Evening.VendorPayouts, 60) {
		t.Fatalf("unexpected evening totals: %+v", flow.Evening)
	}
	if !almostEqual(flow.Evening.NetCash, 300) {
		t.Fatalf("expected evening net_cash=300, got %f", flow.Evening.NetCash)
	}

	total := flow.Total()
	if !almostEqual(total.CashCollected, 900) || !almostEqual(total.TipsDistributed, 90) || !almostEqual(total.VendorPayouts, 180) {
		t.Fatalf("unexpected day totals: %+v", total)
	}
	if !almostEqual(total.NetCash, 630) {
		t.Fatalf("expected day net_cash=630, got %f", total.NetCash)
	}
}

func TestDeriveVendorPriorityOrder(t *testing.T) {
	cases := map[string]string{
		"SYSCO Foods weekly order":  "Sysco Food Services",
		"US Foods restock":          "US Foods",
		"Labatt beer delivery":      "Labatt (Beverage)",
		"Restaurant Depot run":      "Restaurant Depot",
		"fresh produce delivery":    "Produce Supplier",
		"ACME Linen Service":        "Acme",
		"":                          "Other Vendor",
	}
	for reason, want := range cases {
		if got := deriveVendor(reason); got != want {
			t.Errorf("deriveVendor(%q) = %q, want %q", reason, got, want)
		}
	}
}

func TestExtractIgnoresUnrecognizedAction(t *testing.T) {
	rows := []map[string]string{
		{"Action": "REFUND", "Amount": "-20", "Created Date": "2026-03-02 09:00:00"},
	}
	flow := Extract(rows)
	total := flow.Total()
	if total.CashCollected != 0 || total.TipsDistributed != 0 || total.VendorPayouts != 0 {
		t.Fatalf("expected unrecognized action to contribute nothing, got %+v", total)
	}
}
