package tier

import (
	"context"
	"fmt"
	"regexp"

	km "github.com/kormarc/validator"
)

// field005Pattern is the timestamp format of control field 005
// (YYYYMMDDHHmmss.f).
var field005Pattern = regexp.MustCompile(`^\d{14}\.\d$`)

// StructureValidator checks tier 1 rules: the record carries a control
// number and its timestamps are well formed. Leader enum constraints
// are enforced at construction time, so a record that exists at all has
// a structurally valid leader.
type StructureValidator struct{}

// NewStructureValidator creates a tier 1 validator.
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Name returns the validator name.
func (v *StructureValidator) Name() string { return "structure" }

// Tier returns 1.
func (v *StructureValidator) Tier() int { return 1 }

// Validate checks control field structure.
func (v *StructureValidator) Validate(ctx context.Context, rec *km.Record) *km.ValidationResult {
	result := km.NewValidationResult(v.Tier(), v.Name())
	if cancelled(ctx) {
		return result
	}

	if _, ok := rec.ControlField("001"); !ok {
		result.AddError("001",
			"control field 001 is required",
			"add a control number (001) field")
	}

	if cf, ok := rec.ControlField("005"); ok && !field005Pattern.MatchString(cf.Data()) {
		result.AddError("005",
			"control field 005 must use the YYYYMMDDHHmmss.f format",
			fmt.Sprintf("current value: %s, example: 20260111120000.0", cf.Data()))
	}

	return result
}
