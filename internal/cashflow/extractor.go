// Package cashflow implements spec.md §4.6: extracting and aggregating
// cash-management transactions (payouts, tip-outs, cash payments/collections)
// into a per-shift rollup. Each payout records its cash drawer, but no
// per-drawer totals are computed.
package cashflow

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"restaurantops/internal/domain"
	"restaurantops/internal/ingestion"
)

var vendorTitleCaser = cases.Title(language.English)

// Action is one of the four recognized cash-management transaction kinds.
type Action string

const (
	ActionPayOut        Action = "PAY_OUT"
	ActionTipOut        Action = "TIP_OUT"
	ActionCashPayment   Action = "CASH_PAYMENT"
	ActionCashCollected Action = "CASH_COLLECTED"
)

// vendorRule is one entry of the fixed, ordered keyword-to-vendor priority
// list spec.md §4.6 describes; rules are tried in order and the first match
// wins.
type vendorRule struct {
	keywords []string
	vendor   string
}

var vendorRules = []vendorRule{
	{[]string{"sysco"}, "Sysco Food Services"},
	{[]string{"us foods", "usf", "us food"}, "US Foods"},
	{[]string{"labatt", "beer", "beverage", "drink"}, "Labatt (Beverage)"},
	{[]string{"depot", "restaurant depot"}, "Restaurant Depot"},
	{[]string{"produce", "fresh", "vegetable", "fruit"}, "Produce Supplier"},
}

// deriveVendor applies the fixed priority list to a Payout Reason string,
// falling back to a title-cased first word or "Other Vendor" if the reason
// is empty.
func deriveVendor(reason string) string {
	lower := strings.ToLower(reason)
	for _, rule := range vendorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.vendor
			}
		}
	}
	fields := strings.Fields(strings.TrimSpace(reason))
	if len(fields) == 0 {
		return "Other Vendor"
	}
	return vendorTitleCaser.String(strings.ToLower(fields[0]))
}

// Extract builds the per-transaction VendorPayout/shift assignment and the
// CashFlow rollup from the raw cash-management rows. Rows with an
// unrecognized Action are ignored.
func Extract(rows []map[string]string) domain.CashFlow {
	var morning, evening accumulator

	for _, row := range rows {
		action := Action(strings.ToUpper(strings.TrimSpace(firstNonEmpty(row["Action"], row["Action Type"]))))
		amount := parseAmount(row["Amount"])
		magnitude := amount
		if magnitude < 0 {
			magnitude = -magnitude
		}

		createdAt, _ := ingestion.ParseTimestamp(row["Created Date"])
		shift := domain.ShiftMorning
		if createdAt.Hour() >= 14 {
			shift = domain.ShiftEvening
		}

		target := &morning
		if shift == domain.ShiftEvening {
			target = &evening
		}

		switch action {
		case ActionCashPayment:
			target.cashCollected += magnitude
		case ActionCashCollected:
			target.cashCollected += magnitude
		case ActionTipOut:
			target.tipsDistributed += magnitude
		case ActionPayOut:
			target.vendorPayouts += magnitude
			target.payouts = append(target.payouts, domain.VendorPayout{
				Amount:     magnitude,
				Reason:     row["Payout Reason"],
				VendorName: deriveVendor(row["Payout Reason"]),
				Manager:    row["Employee"],
				Drawer:     row["Cash Drawer"],
				Shift:      shift,
				Time:       createdAt,
			})
		default:
			continue
		}
	}

	return domain.CashFlow{
		Morning: morning.rollup(),
		Evening: evening.rollup(),
	}
}

// accumulator collects one shift's running totals before being converted to
// a domain.ShiftCashFlow.
type accumulator struct {
	cashCollected   float64
	tipsDistributed float64
	vendorPayouts   float64
	payouts         []domain.VendorPayout
}

func (a accumulator) rollup() domain.ShiftCashFlow {
	return domain.ShiftCashFlow{
		CashCollected:   a.cashCollected,
		TipsDistributed: a.tipsDistributed,
		VendorPayouts:   a.vendorPayouts,
		NetCash:         a.cashCollected - a.tipsDistributed - a.vendorPayouts,
		Payouts:         a.payouts,
	}
}

func parseAmount(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
