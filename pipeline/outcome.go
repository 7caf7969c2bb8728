package pipeline

import (
	"time"

	km "github.com/kormarc/validator"
)

// Outcome is the combined result of running a record through the
// pipeline. Results are ordered by tier.
type Outcome struct {
	// Results holds one result per tier that ran.
	Results []*km.ValidationResult `json:"results"`

	// Passed is true when every tier passed. Under strict mode a tier
	// with warnings also counts as failed.
	Passed bool `json:"passed"`

	// Strict records whether strict mode decided Passed.
	Strict bool `json:"strict,omitempty"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration_ns"`
}

// finish computes Passed from the accumulated results.
func (o *Outcome) finish(d time.Duration) {
	o.Duration = d
	o.Passed = true
	for _, r := range o.Results {
		if !r.Passed {
			o.Passed = false
			return
		}
		if o.Strict && r.HasWarnings() {
			o.Passed = false
			return
		}
	}
}

// TierResult returns the result for the given tier, or nil if that
// tier did not run.
func (o *Outcome) TierResult(tierNum int) *km.ValidationResult {
	for _, r := range o.Results {
		if r.Tier == tierNum {
			return r
		}
	}
	return nil
}

// ErrorCount returns the total error findings across all tiers.
func (o *Outcome) ErrorCount() int {
	n := 0
	for _, r := range o.Results {
		n += r.ErrorCount()
	}
	return n
}

// WarningCount returns the total warning findings across all tiers.
func (o *Outcome) WarningCount() int {
	n := 0
	for _, r := range o.Results {
		n += r.WarningCount()
	}
	return n
}

// Findings returns all findings across tiers, errors before warnings
// within each tier, tiers in order.
func (o *Outcome) Findings() []km.Finding {
	var findings []km.Finding
	for _, r := range o.Results {
		findings = append(findings, r.Errors...)
		findings = append(findings, r.Warnings...)
	}
	return findings
}
