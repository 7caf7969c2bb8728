// Package tier implements the three-tier record validation rules.
//
// Tier 1 checks structural integrity of the leader and control fields,
// tier 2 checks semantic completeness and field relationships, and
// tier 3 checks district cataloging policy. Validators are stateless
// and safe for concurrent use; each produces an independent
// ValidationResult so tiers can run in any order or in parallel.
package tier

import (
	"context"

	km "github.com/kormarc/validator"
)

// Validator checks one tier of rules against a record.
type Validator interface {
	// Name returns the unique identifier for this validator.
	Name() string

	// Tier returns the validation tier this validator belongs to.
	Tier() int

	// Validate checks the record and returns the tier result. The
	// context is used for cancellation; a cancelled run returns the
	// findings accumulated so far.
	Validate(ctx context.Context, rec *km.Record) *km.ValidationResult
}

// ValidatorFunc adapts a function to the Validator interface. Useful
// for one-off rules in tests and custom pipelines.
type ValidatorFunc struct {
	name string
	tier int
	fn   func(ctx context.Context, rec *km.Record) *km.ValidationResult
}

// NewValidatorFunc creates a Validator from a function.
func NewValidatorFunc(name string, tierNum int, fn func(ctx context.Context, rec *km.Record) *km.ValidationResult) *ValidatorFunc {
	return &ValidatorFunc{name: name, tier: tierNum, fn: fn}
}

// Name returns the validator name.
func (v *ValidatorFunc) Name() string { return v.name }

// Tier returns the validation tier.
func (v *ValidatorFunc) Tier() int { return v.tier }

// Validate calls the wrapped function.
func (v *ValidatorFunc) Validate(ctx context.Context, rec *km.Record) *km.ValidationResult {
	return v.fn(ctx, rec)
}

// cancelled reports whether the context is done, without blocking.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
