package tier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	km "github.com/kormarc/validator"
)

// Nowon district library institution codes, the default cataloging
// agency allow-list.
var nowonInstitutions = map[string]string{
	"211032": "Nowon Information Library",
	"211033": "Nowon Children's Library",
	"211034": "Nowon Youth Library",
}

// defaultAgencySubfields are the 040 subfields district policy
// requires.
var defaultAgencySubfields = []string{"a", "c", "d"}

// PolicyOption configures a PolicyValidator.
type PolicyOption func(*PolicyValidator)

// WithInstitutions replaces the institution code allow-list. Keys are
// codes, values are display names.
func WithInstitutions(codes map[string]string) PolicyOption {
	return func(v *PolicyValidator) {
		v.institutions = make(map[string]string, len(codes))
		for code, name := range codes {
			v.institutions[code] = name
		}
	}
}

// WithRequiredSubfields replaces the required 040 subfield codes.
func WithRequiredSubfields(codes []string) PolicyOption {
	return func(v *PolicyValidator) {
		v.requiredSubfields = append([]string(nil), codes...)
	}
}

// PolicyValidator checks tier 3 rules: the cataloging agency field
// conforms to district library policy. The default configuration
// enforces the Nowon district rules.
type PolicyValidator struct {
	institutions      map[string]string
	requiredSubfields []string
}

// NewPolicyValidator creates a tier 3 validator.
func NewPolicyValidator(opts ...PolicyOption) *PolicyValidator {
	v := &PolicyValidator{
		institutions:      nowonInstitutions,
		requiredSubfields: defaultAgencySubfields,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name returns the validator name.
func (v *PolicyValidator) Name() string { return "policy" }

// Tier returns 3.
func (v *PolicyValidator) Tier() int { return 3 }

// Validate checks the 040 cataloging agency field. A record with no
// 040 at all fails immediately; the subfield rules have nothing to
// inspect.
func (v *PolicyValidator) Validate(ctx context.Context, rec *km.Record) *km.ValidationResult {
	result := km.NewValidationResult(v.Tier(), v.Name())
	if cancelled(ctx) {
		return result
	}

	agency, ok := rec.DataField("040")
	if !ok {
		result.AddError("040",
			"cataloging agency field (040) is required",
			"add a 040 field")
		return result
	}

	for _, code := range v.requiredSubfields {
		if !agency.HasSubfield(code) {
			result.AddError("040",
				fmt.Sprintf("field 040 requires subfield $%s", code),
				fmt.Sprintf("add a $%s subfield", code))
		}
	}

	if sf, ok := agency.Subfield("a"); ok {
		if _, allowed := v.institutions[sf.Data()]; !allowed {
			result.AddWarning("040",
				fmt.Sprintf("not a recognized district institution code: %s", sf.Data()),
				fmt.Sprintf("district institution codes: %s", strings.Join(v.institutionCodes(), ", ")))
		}
	}

	return result
}

// institutionCodes returns the allow-list codes in sorted order.
func (v *PolicyValidator) institutionCodes() []string {
	codes := make([]string, 0, len(v.institutions))
	for code := range v.institutions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
