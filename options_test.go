package kormarc

import (
	"runtime"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if len(o.Tiers) != 3 {
		t.Errorf("len(Tiers) = %d, want 3", len(o.Tiers))
	}
	if !o.ParallelTiers {
		t.Error("ParallelTiers = false, want true")
	}
	if o.StrictMode {
		t.Error("StrictMode = true, want false")
	}
	if o.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d, want %d", o.WorkerCount, runtime.NumCPU())
	}
}

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions(
		WithTiers(1, 3),
		WithParallelTiers(false),
		WithStrictMode(true),
		WithWorkerCount(7),
		WithMetrics(false),
	)

	if len(o.Tiers) != 2 || o.Tiers[0] != 1 || o.Tiers[1] != 3 {
		t.Errorf("Tiers = %v, want [1 3]", o.Tiers)
	}
	if o.ParallelTiers || !o.StrictMode || o.CollectMetrics {
		t.Errorf("flags = %+v", o)
	}
	if o.WorkerCount != 7 {
		t.Errorf("WorkerCount = %d, want 7", o.WorkerCount)
	}
}

func TestWithWorkerCountIgnoresNonPositive(t *testing.T) {
	o := ApplyOptions(WithWorkerCount(0))
	if o.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d, want default %d", o.WorkerCount, runtime.NumCPU())
	}
}

func TestWithTiersCopiesInput(t *testing.T) {
	tiers := []int{1, 2}
	o := ApplyOptions(WithTiers(tiers...))
	tiers[0] = 9
	if o.Tiers[0] != 1 {
		t.Errorf("Tiers[0] = %d after input mutation, want 1", o.Tiers[0])
	}
}
