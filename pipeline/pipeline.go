// Package pipeline orchestrates tier validators over a single record.
//
// Validators register by tier number. A run executes the selected
// tiers in ascending order, sequentially or in parallel; tiers are
// independent, so parallel runs produce the same findings as
// sequential ones and results always come back ordered by tier.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/tier"
)

// Pipeline runs registered tier validators against records. Safe for
// concurrent use once configured; Register is not safe to call
// concurrently with Run.
type Pipeline struct {
	options *km.Options
	metrics *km.Metrics

	mu         sync.RWMutex
	validators map[int]tier.Validator
}

// New creates an empty pipeline with the given options.
func New(opts ...km.Option) *Pipeline {
	return &Pipeline{
		options:    km.ApplyOptions(opts...),
		metrics:    km.NewMetrics(),
		validators: make(map[int]tier.Validator, 3),
	}
}

// Default creates a pipeline with the standard three tier validators
// registered.
func Default(opts ...km.Option) *Pipeline {
	p := New(opts...)
	p.Register(tier.NewStructureValidator())
	p.Register(tier.NewSemanticValidator())
	p.Register(tier.NewPolicyValidator())
	return p
}

// Register adds a validator, replacing any previous validator for the
// same tier.
func (p *Pipeline) Register(v tier.Validator) {
	p.mu.Lock()
	p.validators[v.Tier()] = v
	p.mu.Unlock()
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() *km.Options {
	return p.options
}

// Metrics returns the pipeline metrics collector.
func (p *Pipeline) Metrics() *km.Metrics {
	return p.metrics
}

// ValidatorCount returns the number of registered validators.
func (p *Pipeline) ValidatorCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.validators)
}

// selected returns the validators to run, ordered by tier. Only tiers
// both registered and listed in the options run.
func (p *Pipeline) selected() []tier.Validator {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var validators []tier.Validator
	for _, t := range p.options.Tiers {
		if v, ok := p.validators[t]; ok {
			validators = append(validators, v)
		}
	}
	sort.Slice(validators, func(i, j int) bool {
		return validators[i].Tier() < validators[j].Tier()
	})
	return validators
}

// Run validates one record through the selected tiers. Results come
// back ordered by tier. A nil record fails without running any tier.
func (p *Pipeline) Run(ctx context.Context, rec *km.Record) *Outcome {
	start := time.Now()
	outcome := &Outcome{Strict: p.options.StrictMode}

	if rec == nil {
		r := km.NewValidationResult(0, "pipeline")
		r.AddError("", "record is nil", "")
		outcome.Results = append(outcome.Results, r)
		outcome.finish(time.Since(start))
		return outcome
	}

	validators := p.selected()
	results := make([]*km.ValidationResult, len(validators))

	if p.options.ParallelTiers && len(validators) > 1 {
		var wg sync.WaitGroup
		for i, v := range validators {
			wg.Add(1)
			go func(i int, v tier.Validator) {
				defer wg.Done()
				results[i] = p.runValidator(ctx, v, rec)
			}(i, v)
		}
		wg.Wait()
	} else {
		for i, v := range validators {
			select {
			case <-ctx.Done():
			default:
				results[i] = p.runValidator(ctx, v, rec)
			}
		}
	}

	for _, r := range results {
		if r != nil {
			outcome.Results = append(outcome.Results, r)
		}
	}
	outcome.finish(time.Since(start))

	if p.options.CollectMetrics {
		p.metrics.RecordValidation(outcome.Duration, outcome.Passed)
		for _, r := range outcome.Results {
			for range r.Errors {
				p.metrics.RecordError()
			}
			for range r.Warnings {
				p.metrics.RecordWarning()
			}
		}
	}

	return outcome
}

// runValidator executes one validator with per-tier timing.
func (p *Pipeline) runValidator(ctx context.Context, v tier.Validator, rec *km.Record) *km.ValidationResult {
	start := time.Now()
	result := v.Validate(ctx, rec)
	if p.options.CollectMetrics {
		p.metrics.RecordTier(v.Name(), time.Since(start), result.ErrorCount()+result.WarningCount())
	}
	return result
}
