package ingestion

import (
	"context"
	"strconv"
	"strings"

	"restaurantops/internal/domain"
	"restaurantops/internal/pipeline"
	"restaurantops/internal/pipelineerr"
)

const stageName = "ingestion"

// Stage is the pipeline.Stage implementation for ingestion: it locates,
// decodes, and validates the CSV set for one (restaurant, date) run, then
// populates the context with raw tables, the sales/payroll scalars,
// validated time entries, and an L2 quality-metrics record.
type Stage struct{}

// NewStage builds the Ingestion stage.
func NewStage() Stage { return Stage{} }

func (Stage) Name() string { return stageName }

var requiredFiles = []string{"labor", "sales", "orders"}
var optionalFiles = []string{"kitchen", "eod", "payroll", "cash_activity", "cash_mgmt"}

func (Stage) Run(_ context.Context, pc *pipeline.Context) *pipelineerr.Error {
	source := pc.DataSource
	tables := make(map[string][]map[string]string)

	for _, name := range requiredFiles {
		rows, ok, err := source.ReadCSV(name)
		if err != nil {
			return pipelineerr.New(pipelineerr.ValidationError, "failed to read required file",
				pipelineerr.WithStage(stageName), pipelineerr.WithDetail(name), pipelineerr.WithCause(err))
		}
		if verr := validateRequiredFile(name, rows, ok); verr != nil {
			kind := pipelineerr.ValidationError
			if !ok {
				kind = pipelineerr.MissingFile
			}
			return pipelineerr.New(kind, verr.Error(), pipelineerr.WithStage(stageName), pipelineerr.WithDetail(name))
		}
		tables[name] = rows
	}

	for _, name := range optionalFiles {
		rows, ok, err := source.ReadCSV(name)
		if err != nil || !ok {
			continue // optional files degrade functionality but never abort
		}
		tables[name] = rows
	}

	sales, err := sumNetSales(tables["sales"])
	if err != nil {
		return pipelineerr.New(pipelineerr.ValidationError, "unparseable sales value",
			pipelineerr.WithStage(stageName), pipelineerr.WithCause(err))
	}

	timeEntries, skipped := buildTimeEntries(tables["labor"])

	qm := computeQualityMetrics(tables)

	pc.SetRawTables(tables)
	pc.SetSales(sales)
	pc.SetTimeEntries(timeEntries)
	pc.SetQualityMetrics(qm)
	pc.SetMetadata("ingestion_skipped_labor_rows", skipped)

	if payrollRows, ok := tables["payroll"]; ok {
		if total, ok := sumTotalPay(payrollRows); ok {
			pc.SetTotalPayrollCost(total)
		}
	}

	if qm.OverallScore < 0.9 {
		pc.SetMetadata("quality_warning", pipelineerr.New(
			pipelineerr.QualityWarning, "ingestion quality score below threshold",
			pipelineerr.WithStage(stageName), pipelineerr.WithDetail(strconv.FormatFloat(qm.OverallScore, 'f', 3, 64)),
		))
	}

	return nil
}

// sumNetSales parses the literal "Net sales" column (with a space), summing
// across rows when more than one is present.
func sumNetSales(salesRows []map[string]string) (float64, error) {
	var total float64
	for _, row := range salesRows {
		v := strings.TrimSpace(row["Net sales"])
		if v == "" {
			continue
		}
		parsed, err := parseMoney(v)
		if err != nil {
			return 0, err
		}
		total += parsed
	}
	return total, nil
}

func sumTotalPay(payrollRows []map[string]string) (float64, bool) {
	var total float64
	found := false
	for _, row := range payrollRows {
		v := strings.TrimSpace(row["Total Pay"])
		if v == "" {
			continue
		}
		if parsed, err := parseMoney(v); err == nil {
			total += parsed
			found = true
		}
	}
	return total, found
}

func parseMoney(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cleaned, 64)
}

func buildTimeEntries(laborRows []map[string]string) ([]domain.TimeEntry, int) {
	entries := make([]domain.TimeEntry, 0, len(laborRows))
	skipped := 0
	for _, row := range laborRows {
		clockIn, inOK := parseTimestamp(row["In Date"])
		clockOut, outOK := parseTimestamp(row["Out Date"])
		if !inOK || !outOK {
			skipped++
			continue
		}
		totalHours, _ := strconv.ParseFloat(strings.TrimSpace(row["Total Hours"]), 64)
		payableHours, _ := strconv.ParseFloat(strings.TrimSpace(row["Payable Hours"]), 64)
		jobTitle := row["Job Title"]
		rate, hasRate := 0.0, false
		if v := strings.TrimSpace(row["Hourly Rate"]); v != "" {
			if parsed, err := parseMoney(v); err == nil {
				rate, hasRate = parsed, true
			}
		}
		entries = append(entries, domain.TimeEntry{
			EmployeeName: row["Employee"],
			JobTitle:     jobTitle,
			ClockIn:      clockIn,
			ClockOut:     clockOut,
			TotalHours:   totalHours,
			PayableHours: payableHours,
			AutoClockout: strings.EqualFold(strings.TrimSpace(row["Auto Clockout"]), "true"),
			IsManager:    strings.Contains(strings.ToLower(jobTitle), "manager"),
			HourlyRate:   rate,
			HasRate:      hasRate,
		})
	}
	return entries, skipped
}
