package categorization

import (
	"context"
	"strconv"
	"strings"
	"time"

	"restaurantops/internal/domain"
	"restaurantops/internal/ingestion"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "categorization"

// Stage is the pipeline.Stage implementation for order categorization.
// It reads the raw kitchen/eod/orders tables and the validated time
// entries from ingestion, and writes categorized orders, the
// check-number -> category map, and the service-mix breakdown.
type Stage struct{}

// NewStage builds the Order Categorization stage.
func NewStage() Stage { return Stage{} }

func (Stage) Name() string { return stageName }

func (Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	tables := pc.RawTables()
	kitchenRows, ok := tables["kitchen"]
	if !ok {
		return pipelineerr.New(pipelineerr.CategorizationError,
			"kitchen table is required to enumerate fulfilled orders",
			pipelineerr.WithStage(stageName))
	}

	eodByCheck := indexByCheckNumber(tables["eod"])
	ordersByCheck := indexByCheckNumber(tables["orders"])
	positionByServer := serverPositions(pc.TimeEntries())

	ruleHits := map[string]int{"lobby": 0, "drive_thru": 0, "togo": 0}
	skipped := 0

	var orders []domain.OrderRecord
	categories := make(map[string]domain.Category, len(kitchenRows))

	for _, kRow := range kitchenRows {
		check := strings.TrimSpace(kRow["Check #"])
		if check == "" {
			skipped++
			continue
		}
		eodRow := eodByCheck[check]
		orderRow := ordersByCheck[check]

		kitchenDuration := ingestion.ParseDurationMinutes(kRow["Fulfillment Time"])
		orderDuration := ingestion.ParseDurationMinutes(orderRow["Duration"])

		tableCount := 0
		if hasTable(kRow["Table"]) {
			tableCount++
		}
		if hasTable(eodRow["Table"]) {
			tableCount++
		}
		if hasTable(orderRow["Table"]) {
			tableCount++
		}

		server := firstNonEmpty(orderRow["Server"], kRow["Server"])
		position := strings.ToLower(positionByServer[server])
		cashDrawer := strings.ToLower(strings.TrimSpace(eodRow["Cash Drawer"]))

		s := signals{
			tableCount:       tableCount,
			cashDrawer:       cashDrawer,
			employeePosition: position,
			kitchenDuration:  kitchenDuration,
			orderDuration:    orderDuration,
			serverName:       server,
		}
		category := classify(s)
		switch category {
		case domain.CategoryLobby:
			ruleHits["lobby"]++
		case domain.CategoryDriveThru:
			ruleHits["drive_thru"]++
		default:
			ruleHits["togo"]++
		}

		orderTime, hasTime := parseOrderTime(kRow["Fire Time"], orderRow["Opened"])
		shift := domain.ShiftMorning
		if hasTime && orderTime.Hour() >= 14 {
			shift = domain.ShiftEvening
		}

		tableNum, hasTableNum := parseTable(firstNonEmptyTable(kRow["Table"], eodRow["Table"], orderRow["Table"]))

		rec := domain.OrderRecord{
			CheckNumber:          check,
			Category:             category,
			FulfillmentMinutes:   kitchenDuration,
			OrderDurationMinutes: orderDuration,
			OrderTime:            orderTime,
			HasOrderTime:         hasTime,
			Server:               server,
			Shift:                shift,
			Table:                tableNum,
			HasTable:             hasTableNum,
			CashDrawer:           cashDrawer,
			EmployeePosition:     position,
		}
		orders = append(orders, rec)
		categories[check] = category
	}

	mix := computeServiceMix(orders)

	pc.SetCategorizedOrders(orders)
	pc.SetOrderCategories(categories)
	pc.SetServiceMix(mix)
	pc.SetMetadata("categorization_rule_hits", ruleHits)
	pc.SetMetadata("categorization_skipped_rows", skipped)

	return nil
}

func indexByCheckNumber(rows []map[string]string) map[string]map[string]string {
	idx := make(map[string]map[string]string, len(rows))
	for _, row := range rows {
		check := strings.TrimSpace(firstNonEmpty(row["Check #"], row["Order #"]))
		if check == "" {
			continue
		}
		idx[check] = row
	}
	return idx
}

func serverPositions(entries []domain.TimeEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.EmployeeName] = e.JobTitle
	}
	return m
}

func hasTable(v string) bool {
	n, ok := parseTable(v)
	return ok && n > 0
}

func parseTable(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyTable(vals ...string) string {
	for _, v := range vals {
		if n, ok := parseTable(v); ok && n > 0 {
			return v
		}
	}
	return ""
}

// parseOrderTime tries each candidate timestamp string in order, returning
// the first that parses. Callers pass the kitchen row's Fire Time before
// the order row's Opened time, per spec.md §4.5's shift-split priority.
func parseOrderTime(candidates ...string) (t time.Time, ok bool) {
	for _, c := range candidates {
		if pt, pok := ingestion.ParseTimestamp(c); pok {
			return pt, true
		}
	}
	return time.Time{}, false
}

func computeServiceMix(orders []domain.OrderRecord) domain.ServiceMix {
	mix := make(domain.ServiceMix, len(domain.Categories))
	if len(orders) == 0 {
		return mix
	}
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, o := range orders {
		counts[o.Category]++
	}
	total := float64(len(orders))
	for _, cat := range domain.Categories {
		mix[cat] = 100 * float64(counts[cat]) / total
	}
	return mix
}
