package kormarc

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks validation performance using lock-free atomics.
// All methods are safe for concurrent use.
type Metrics struct {
	validationsTotal  atomic.Uint64
	validationsPassed atomic.Uint64

	// Timing, stored as nanoseconds.
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64

	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64

	// Per-tier timing: map[string]*tierMetrics keyed by validator name.
	tierTiming sync.Map
}

type tierMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64
	findings    atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Min starts at max uint64 so the first sample becomes the minimum.
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// RecordValidation records one completed record validation.
func (m *Metrics) RecordValidation(duration time.Duration, passed bool) {
	m.validationsTotal.Add(1)
	if passed {
		m.validationsPassed.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.validationTimeTotal.Add(ns)

	for {
		old := m.validationTimeMin.Load()
		if ns >= old || m.validationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.validationTimeMax.Load()
		if ns <= old || m.validationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordTier records one tier-validator invocation.
func (m *Metrics) RecordTier(name string, duration time.Duration, findings int) {
	v, _ := m.tierTiming.LoadOrStore(name, &tierMetrics{})
	tm := v.(*tierMetrics)
	tm.invocations.Add(1)
	tm.totalTime.Add(uint64(duration.Nanoseconds()))
	tm.findings.Add(uint64(findings))
}

// RecordError counts an error finding.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// RecordWarning counts a warning finding.
func (m *Metrics) RecordWarning() {
	m.warningsTotal.Add(1)
}

// ValidationsTotal returns the number of validations recorded.
func (m *Metrics) ValidationsTotal() uint64 {
	return m.validationsTotal.Load()
}

// ValidationsPassed returns the number of passing validations.
func (m *Metrics) ValidationsPassed() uint64 {
	return m.validationsPassed.Load()
}

// PassRate returns the fraction of validations that passed, in [0, 1].
func (m *Metrics) PassRate() float64 {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.validationsPassed.Load()) / float64(total)
}

// ErrorsTotal returns the number of error findings recorded.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the number of warning findings recorded.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// AverageValidationTime returns the mean validation duration.
func (m *Metrics) AverageValidationTime() time.Duration {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.validationTimeTotal.Load() / total)
}

// MinValidationTime returns the fastest recorded validation, or 0 when
// nothing has been recorded.
func (m *Metrics) MinValidationTime() time.Duration {
	v := m.validationTimeMin.Load()
	if v == ^uint64(0) {
		return 0
	}
	return time.Duration(v)
}

// MaxValidationTime returns the slowest recorded validation.
func (m *Metrics) MaxValidationTime() time.Duration {
	return time.Duration(m.validationTimeMax.Load())
}

// TierStats describes the accumulated metrics for one tier validator.
type TierStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	Findings    uint64
}

// TierStats returns per-tier statistics in unspecified order.
func (m *Metrics) TierStats() []TierStats {
	var stats []TierStats
	m.tierTiming.Range(func(key, value any) bool {
		tm := value.(*tierMetrics)
		stats = append(stats, TierStats{
			Name:        key.(string),
			Invocations: tm.invocations.Load(),
			TotalTime:   time.Duration(tm.totalTime.Load()),
			Findings:    tm.findings.Load(),
		})
		return true
	})
	return stats
}

// Reset clears all recorded metrics.
func (m *Metrics) Reset() {
	m.validationsTotal.Store(0)
	m.validationsPassed.Store(0)
	m.validationTimeTotal.Store(0)
	m.validationTimeMin.Store(^uint64(0))
	m.validationTimeMax.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.tierTiming.Range(func(key, _ any) bool {
		m.tierTiming.Delete(key)
		return true
	})
}
