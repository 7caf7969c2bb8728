package kormarc

import "runtime"

// Option configures validation behavior.
type Option func(*Options)

// Options holds configuration shared by the pipeline and the batch
// validator.
type Options struct {
	// Tiers lists the validation tiers to run, in ascending order.
	Tiers []int

	// ParallelTiers enables running independent tiers concurrently.
	ParallelTiers bool

	// StrictMode treats tier warnings as errors for pass/fail purposes.
	StrictMode bool

	// WorkerCount is the number of workers for batch validation.
	WorkerCount int

	// CollectMetrics enables performance metric collection.
	CollectMetrics bool
}

// DefaultOptions returns the default configuration: all three tiers,
// parallel execution, one worker per CPU.
func DefaultOptions() *Options {
	return &Options{
		Tiers:          []int{1, 2, 3},
		ParallelTiers:  true,
		StrictMode:     false,
		WorkerCount:    runtime.NumCPU(),
		CollectMetrics: true,
	}
}

// WithTiers selects the tiers to run. Out-of-range tiers are ignored
// at registration time.
func WithTiers(tiers ...int) Option {
	return func(o *Options) {
		o.Tiers = append([]int(nil), tiers...)
	}
}

// WithParallelTiers enables or disables concurrent tier execution.
func WithParallelTiers(enable bool) Option {
	return func(o *Options) {
		o.ParallelTiers = enable
	}
}

// WithStrictMode treats warnings as errors when deciding pass/fail.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// WithWorkerCount sets the number of workers for batch validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithMetrics enables or disables metric collection.
func WithMetrics(enable bool) Option {
	return func(o *Options) {
		o.CollectMetrics = enable
	}
}

// ApplyOptions builds an Options from defaults plus the given options.
func ApplyOptions(opts ...Option) *Options {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
