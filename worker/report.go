package worker

import (
	"fmt"
	"math"
	"strings"
)

// Report summarizes a batch run for operators: pass/fail counts plus
// per-tier error and warning totals.
type Report struct {
	TotalRecords   int         `json:"total_records"`
	PassedRecords  int         `json:"passed_records"`
	FailedRecords  int         `json:"failed_records"`
	SkippedRecords int         `json:"skipped_records"`
	PassRate       float64     `json:"pass_rate"`
	ErrorsByTier   map[int]int `json:"errors_by_tier"`
	WarningsByTier map[int]int `json:"warnings_by_tier"`
}

// BuildReport aggregates a batch result. PassRate is a percentage
// rounded to two decimals; an empty batch reports zero. Error counts
// only accumulate from failed tiers, warning counts from every tier.
func BuildReport(batch *BatchResult) *Report {
	report := &Report{
		SkippedRecords: batch.Skipped,
		ErrorsByTier:   map[int]int{1: 0, 2: 0, 3: 0},
		WarningsByTier: map[int]int{1: 0, 2: 0, 3: 0},
	}

	for _, jr := range batch.Results {
		if jr == nil || jr.Outcome == nil {
			continue
		}
		report.TotalRecords++

		passed := true
		for _, r := range jr.Outcome.Results {
			if !r.Passed {
				passed = false
				report.ErrorsByTier[r.Tier] += r.ErrorCount()
			}
			report.WarningsByTier[r.Tier] += r.WarningCount()
		}
		if passed {
			report.PassedRecords++
		} else {
			report.FailedRecords++
		}
	}

	if report.TotalRecords > 0 {
		rate := float64(report.PassedRecords) / float64(report.TotalRecords) * 100
		report.PassRate = math.Round(rate*100) / 100
	}
	return report
}

// Render formats the report for terminal output.
func (r *Report) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "KORMARC batch validation report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total records:   %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Passed:          %d\n", r.PassedRecords)
	fmt.Fprintf(&b, "Failed:          %d\n", r.FailedRecords)
	if r.SkippedRecords > 0 {
		fmt.Fprintf(&b, "Skipped:         %d\n", r.SkippedRecords)
	}
	fmt.Fprintf(&b, "Pass rate:       %.2f%%\n", r.PassRate)

	fmt.Fprintln(&b, "\nErrors by tier:")
	for _, tier := range []int{1, 2, 3} {
		fmt.Fprintf(&b, "  tier %d: %d\n", tier, r.ErrorsByTier[tier])
	}
	fmt.Fprintln(&b, "\nWarnings by tier:")
	for _, tier := range []int{1, 2, 3} {
		fmt.Fprintf(&b, "  tier %d: %d\n", tier, r.WarningsByTier[tier])
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}
