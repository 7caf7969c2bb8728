package tier

import (
	"context"
	"testing"

	km "github.com/kormarc/validator"
)

// recordSpec builds test records field by field.
type recordSpec struct {
	typeOfRecord  string
	controlFields map[string]string
	dataFields    []dataFieldSpec
}

type dataFieldSpec struct {
	tag       string
	subfields map[string]string
}

func buildRecord(t *testing.T, spec recordSpec) *km.Record {
	t.Helper()

	typeOfRecord := spec.typeOfRecord
	if typeOfRecord == "" {
		typeOfRecord = "a"
	}
	leader, err := km.NewLeader(km.LeaderParams{
		RecordLength:       714,
		RecordStatus:       "n",
		TypeOfRecord:       typeOfRecord,
		BibliographicLevel: "m",
		CharacterEncoding:  "a",
		IndicatorCount:     2,
		SubfieldCodeCount:  2,
		BaseAddress:        205,
	})
	if err != nil {
		t.Fatalf("NewLeader() error = %v", err)
	}

	var controlFields []km.ControlField
	for tag, data := range map[string]string{"001": "KMO201600001", "005": "20260111120000.0"} {
		if spec.controlFields != nil {
			if v, ok := spec.controlFields[tag]; ok {
				data = v
			} else if _, drop := spec.controlFields["-"+tag]; drop {
				continue
			}
		}
		cf, err := km.NewControlField(tag, data)
		if err != nil {
			t.Fatalf("NewControlField(%s) error = %v", tag, err)
		}
		controlFields = append(controlFields, cf)
	}

	var dataFields []km.DataField
	for _, dfs := range spec.dataFields {
		var subfields []km.Subfield
		for _, code := range []string{"a", "b", "c", "d"} {
			data, ok := dfs.subfields[code]
			if !ok {
				continue
			}
			sf, err := km.NewSubfield(code, data)
			if err != nil {
				t.Fatalf("NewSubfield(%s) error = %v", code, err)
			}
			subfields = append(subfields, sf)
		}
		df, err := km.NewDataField(dfs.tag, " ", " ", subfields)
		if err != nil {
			t.Fatalf("NewDataField(%s) error = %v", dfs.tag, err)
		}
		dataFields = append(dataFields, df)
	}

	return km.NewRecord(leader, controlFields, dataFields)
}

// completeRecord passes all three tiers except the tier 2 author
// warning, which is intentional: it exercises warning-only paths.
func completeRecord(t *testing.T) *km.Record {
	t.Helper()
	return buildRecord(t, recordSpec{
		dataFields: []dataFieldSpec{
			{tag: "040", subfields: map[string]string{"a": "211032", "c": "211032", "d": "211032"}},
			{tag: "245", subfields: map[string]string{"a": "Title"}},
			{tag: "260", subfields: map[string]string{"a": "Seoul", "b": "Publisher", "c": "2020"}},
		},
	})
}

func TestValidatorFunc(t *testing.T) {
	v := NewValidatorFunc("custom", 9, func(ctx context.Context, rec *km.Record) *km.ValidationResult {
		r := km.NewValidationResult(9, "custom")
		r.AddError("", "always fails", "")
		return r
	})

	if v.Name() != "custom" {
		t.Errorf("Name() = %q, want custom", v.Name())
	}
	if v.Tier() != 9 {
		t.Errorf("Tier() = %d, want 9", v.Tier())
	}
	result := v.Validate(context.Background(), completeRecord(t))
	if result.Passed {
		t.Error("Passed = true, want false")
	}
}

func TestValidatorsAreIdempotent(t *testing.T) {
	rec := buildRecord(t, recordSpec{
		controlFields: map[string]string{"-001": ""},
	})
	validators := []Validator{
		NewStructureValidator(),
		NewSemanticValidator(),
		NewPolicyValidator(),
	}

	for _, v := range validators {
		first := v.Validate(context.Background(), rec)
		second := v.Validate(context.Background(), rec)
		if first.Passed != second.Passed ||
			first.ErrorCount() != second.ErrorCount() ||
			first.WarningCount() != second.WarningCount() {
			t.Errorf("%s: repeated validation diverged: %+v vs %+v", v.Name(), first, second)
		}
	}
}

func TestValidateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := buildRecord(t, recordSpec{controlFields: map[string]string{"-001": ""}})
	for _, v := range []Validator{
		NewStructureValidator(),
		NewSemanticValidator(),
		NewPolicyValidator(),
	} {
		result := v.Validate(ctx, rec)
		if result.ErrorCount() != 0 {
			t.Errorf("%s: cancelled run recorded %d errors, want 0", v.Name(), result.ErrorCount())
		}
	}
}
