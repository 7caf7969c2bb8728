package pipeline

import (
	"context"
	"testing"

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/parser"
	"github.com/kormarc/validator/tier"
)

const validDoc = `00714cam  2200205 a 4500
001 KMO201600001
005 20260111120000.0
040  |a211032|c211032|d211032
100 1 |aHong Gildong
245 10|aTitle|bSubtitle
260  |aSeoul|bPublisher|c2020
`

func parseDoc(t *testing.T, text string) *km.Record {
	t.Helper()
	rec, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return rec
}

func TestDefaultPipelinePasses(t *testing.T) {
	p := Default()
	if p.ValidatorCount() != 3 {
		t.Fatalf("ValidatorCount() = %d, want 3", p.ValidatorCount())
	}

	outcome := p.Run(context.Background(), parseDoc(t, validDoc))
	if !outcome.Passed {
		t.Errorf("Passed = false, findings = %+v", outcome.Findings())
	}
	if len(outcome.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(outcome.Results))
	}
	for i, want := range []int{1, 2, 3} {
		if outcome.Results[i].Tier != want {
			t.Errorf("Results[%d].Tier = %d, want %d", i, outcome.Results[i].Tier, want)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	// Missing 001 fails tiers 1 and 2; no 040 fails tier 3.
	rec := parseDoc(t, "00714cam  2200205 a 4500\n245 10|aTitle\n260  |c2020")

	seq := Default(km.WithParallelTiers(false)).Run(context.Background(), rec)
	par := Default(km.WithParallelTiers(true)).Run(context.Background(), rec)

	if seq.Passed != par.Passed {
		t.Errorf("Passed: sequential = %v, parallel = %v", seq.Passed, par.Passed)
	}
	if seq.ErrorCount() != par.ErrorCount() {
		t.Errorf("ErrorCount: sequential = %d, parallel = %d", seq.ErrorCount(), par.ErrorCount())
	}
	if len(seq.Results) != len(par.Results) {
		t.Fatalf("len(Results): sequential = %d, parallel = %d", len(seq.Results), len(par.Results))
	}
	for i := range seq.Results {
		if seq.Results[i].Tier != par.Results[i].Tier {
			t.Errorf("Results[%d].Tier: sequential = %d, parallel = %d",
				i, seq.Results[i].Tier, par.Results[i].Tier)
		}
	}
}

func TestTierSelection(t *testing.T) {
	rec := parseDoc(t, "00714cam  2200205 a 4500\n001 X\n245 10|aTitle\n260  |c2020")

	// Tier 3 fails on the missing 040; tiers 1 and 2 alone do not.
	outcome := Default(km.WithTiers(1)).Run(context.Background(), rec)
	if !outcome.Passed {
		t.Errorf("tier 1 only: Passed = false, findings = %+v", outcome.Findings())
	}
	if len(outcome.Results) != 1 {
		t.Errorf("tier 1 only: len(Results) = %d, want 1", len(outcome.Results))
	}

	outcome = Default(km.WithTiers(1, 2, 3)).Run(context.Background(), rec)
	if outcome.Passed {
		t.Error("all tiers: Passed = true, want false")
	}
	if r := outcome.TierResult(3); r == nil || r.Passed {
		t.Errorf("TierResult(3) = %+v, want failed result", r)
	}
}

func TestStrictModeFailsOnWarnings(t *testing.T) {
	// Valid book record without a 100 field: tier 2 warns.
	doc := `00714cam  2200205 a 4500
001 X
040  |a211032|c211032|d211032
245 10|aTitle
260  |c2020
`
	rec := parseDoc(t, doc)

	relaxed := Default().Run(context.Background(), rec)
	if !relaxed.Passed {
		t.Errorf("relaxed: Passed = false, findings = %+v", relaxed.Findings())
	}

	strict := Default(km.WithStrictMode(true)).Run(context.Background(), rec)
	if strict.Passed {
		t.Error("strict: Passed = true, want false")
	}
	if strict.ErrorCount() != 0 {
		t.Errorf("strict: ErrorCount() = %d, want 0", strict.ErrorCount())
	}
}

func TestRunNilRecord(t *testing.T) {
	outcome := Default().Run(context.Background(), nil)
	if outcome.Passed {
		t.Error("Passed = true for nil record, want false")
	}
}

func TestRegisterReplacesTier(t *testing.T) {
	p := Default(km.WithTiers(3))
	p.Register(tier.NewValidatorFunc("lenient", 3, func(ctx context.Context, rec *km.Record) *km.ValidationResult {
		return km.NewValidationResult(3, "lenient")
	}))

	// The lenient tier 3 replacement passes records with no 040.
	rec := parseDoc(t, "00714cam  2200205 a 4500\n001 X")
	outcome := p.Run(context.Background(), rec)
	if !outcome.Passed {
		t.Errorf("Passed = false, findings = %+v", outcome.Findings())
	}
	if outcome.Results[0].ValidatorName != "lenient" {
		t.Errorf("ValidatorName = %q, want lenient", outcome.Results[0].ValidatorName)
	}
}

func TestMetricsCollection(t *testing.T) {
	p := Default()
	rec := parseDoc(t, validDoc)
	p.Run(context.Background(), rec)
	p.Run(context.Background(), rec)

	m := p.Metrics()
	if got := m.ValidationsTotal(); got != 2 {
		t.Errorf("ValidationsTotal() = %d, want 2", got)
	}
	if got := m.PassRate(); got != 1 {
		t.Errorf("PassRate() = %v, want 1", got)
	}
	if got := len(m.TierStats()); got != 3 {
		t.Errorf("len(TierStats()) = %d, want 3", got)
	}
}

func BenchmarkRun(b *testing.B) {
	p := Default(km.WithParallelTiers(false))
	rec, err := parser.Parse(validDoc)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Run(context.Background(), rec)
	}
}
