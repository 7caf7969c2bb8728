package tier

import (
	"context"
	"fmt"

	km "github.com/kormarc/validator"
)

// requiredField is a tag every record must carry. Control fields and
// data fields live in separate lists on the record, so each entry
// records which list to search.
type requiredField struct {
	tag     string
	label   string
	control bool
}

// requiredFields are checked in order so findings are deterministic.
// The cataloging agency field (040) is enforced by the tier 3 policy
// validator, not here.
var requiredFields = []requiredField{
	{tag: "001", label: "control number", control: true},
	{tag: "245", label: "title statement"},
	{tag: "260", label: "publication statement"},
}

// SemanticValidator checks tier 2 rules: required fields are present
// and related fields are consistent with each other.
type SemanticValidator struct{}

// NewSemanticValidator creates a tier 2 validator.
func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{}
}

// Name returns the validator name.
func (v *SemanticValidator) Name() string { return "semantic" }

// Tier returns 2.
func (v *SemanticValidator) Tier() int { return 2 }

// Validate checks required fields, then field relationships.
func (v *SemanticValidator) Validate(ctx context.Context, rec *km.Record) *km.ValidationResult {
	result := km.NewValidationResult(v.Tier(), v.Name())
	if cancelled(ctx) {
		return result
	}

	v.checkRequiredFields(rec, result)
	v.checkRecommendedFields(rec, result)
	v.checkRelationships(rec, result)

	return result
}

// checkRequiredFields reports an error for each missing required tag.
func (v *SemanticValidator) checkRequiredFields(rec *km.Record, result *km.ValidationResult) {
	for _, rf := range requiredFields {
		present := false
		if rf.control {
			_, present = rec.ControlField(rf.tag)
		} else {
			present = rec.HasDataField(rf.tag)
		}
		if !present {
			result.AddError(rf.tag,
				fmt.Sprintf("required field missing: %s (%s)", rf.label, rf.tag),
				fmt.Sprintf("add a %s field", rf.tag))
		}
	}
}

// checkRecommendedFields warns about fields a record of the given type
// usually carries. Language material records are expected to name a
// main entry author.
func (v *SemanticValidator) checkRecommendedFields(rec *km.Record, result *km.ValidationResult) {
	if rec.Leader().TypeOfRecord() == "a" && !rec.HasDataField("100") {
		result.AddWarning("100",
			"recommended field missing: book records usually carry a main entry author (100)",
			"consider adding a 100 field")
	}
}

// checkRelationships enforces cross-field consistency rules.
func (v *SemanticValidator) checkRelationships(rec *km.Record, result *km.ValidationResult) {
	// 260 must name a publication year in subfield c.
	if pub, ok := rec.DataField("260"); ok && !pub.HasSubfield("c") {
		result.AddError("260",
			"publication statement (260) requires a publication year ($c)",
			"add a $c subfield to the 260 field")
	}

	// A main entry author (100) implies a title statement (245).
	if rec.HasDataField("100") && !rec.HasDataField("245") {
		result.AddError("100",
			"a record with an author (100) also requires a title statement (245)",
			"add a 245 field")
	}
}
