package kormarc

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError indicates a finding that fails the record for the
	// tier that produced it.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates a finding that should be reviewed but
	// does not fail the record.
	SeverityWarning Severity = "WARNING"
)

// Finding is a single validation error or warning. FieldTag is empty
// when the finding is not attributable to one field; Suggestion is
// empty when no remediation is offered.
type Finding struct {
	Severity   Severity `json:"severity,omitempty"`
	FieldTag   string   `json:"field_tag,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of running one tier validator over
// one record. Errors and Warnings preserve the order in which rules
// were evaluated. A result is never mutated after the validator that
// produced it returns.
type ValidationResult struct {
	Tier          int       `json:"tier"`
	ValidatorName string    `json:"validator_name"`
	Passed        bool      `json:"passed"`
	Errors        []Finding `json:"errors"`
	Warnings      []Finding `json:"warnings"`
}

// NewValidationResult creates a passing result for the given tier.
// Validators accumulate findings into it and return it; the first
// error flips Passed to false.
func NewValidationResult(tier int, validatorName string) *ValidationResult {
	return &ValidationResult{
		Tier:          tier,
		ValidatorName: validatorName,
		Passed:        true,
		Errors:        make([]Finding, 0, 4),
		Warnings:      make([]Finding, 0, 2),
	}
}

// AddError appends an error finding and marks the result failed.
func (r *ValidationResult) AddError(fieldTag, message, suggestion string) {
	r.Errors = append(r.Errors, Finding{
		Severity:   SeverityError,
		FieldTag:   fieldTag,
		Message:    message,
		Suggestion: suggestion,
	})
	r.Passed = false
}

// AddWarning appends a warning finding. Warnings never fail a result.
func (r *ValidationResult) AddWarning(fieldTag, message, suggestion string) {
	r.Warnings = append(r.Warnings, Finding{
		Severity:   SeverityWarning,
		FieldTag:   fieldTag,
		Message:    message,
		Suggestion: suggestion,
	})
}

// HasErrors reports whether any error findings were recorded.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any warning findings were recorded.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorCount returns the number of error findings.
func (r *ValidationResult) ErrorCount() int {
	return len(r.Errors)
}

// WarningCount returns the number of warning findings.
func (r *ValidationResult) WarningCount() int {
	return len(r.Warnings)
}

// Clone returns a deep copy of the result.
func (r *ValidationResult) Clone() *ValidationResult {
	clone := &ValidationResult{
		Tier:          r.Tier,
		ValidatorName: r.ValidatorName,
		Passed:        r.Passed,
		Errors:        make([]Finding, len(r.Errors)),
		Warnings:      make([]Finding, len(r.Warnings)),
	}
	copy(clone.Errors, r.Errors)
	copy(clone.Warnings, r.Warnings)
	return clone
}
