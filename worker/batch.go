// Package worker validates batches of stored records in parallel.
//
// A BatchValidator fans rows out to a bounded set of goroutines, runs
// each restored record through the tier pipeline, and aggregates the
// per-row outcomes into a batch report. Rows whose serialized form
// cannot be restored are skipped without failing the batch.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/pipeline"
)

// smallBatchThreshold is the batch size at or below which rows run
// sequentially; goroutine overhead dominates for tiny batches.
const smallBatchThreshold = 2

// BatchOption configures a BatchValidator.
type BatchOption func(*BatchValidator)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) BatchOption {
	return func(bv *BatchValidator) {
		bv.logger = logger
	}
}

// WithBatchMetrics attaches a Prometheus metrics collector.
func WithBatchMetrics(m *Metrics) BatchOption {
	return func(bv *BatchValidator) {
		bv.prom = m
	}
}

// BatchValidator validates stored record rows through a pipeline.
// Safe for concurrent use.
type BatchValidator struct {
	pipeline *pipeline.Pipeline
	workers  int
	logger   *slog.Logger
	prom     *Metrics
}

// NewBatchValidator creates a batch validator backed by the given
// pipeline. Worker count comes from the pipeline options.
func NewBatchValidator(p *pipeline.Pipeline, opts ...BatchOption) *BatchValidator {
	bv := &BatchValidator{
		pipeline: p,
		workers:  p.Options().WorkerCount,
		logger:   slog.Default().With("component", "batch"),
	}
	for _, opt := range opts {
		opt(bv)
	}
	if bv.workers <= 0 {
		bv.workers = 1
	}
	return bv
}

// ValidateBatch validates all rows and returns the aggregated result.
// Small batches run sequentially; larger ones fan out to the worker
// count. Results preserve input order either way.
func (bv *BatchValidator) ValidateBatch(ctx context.Context, rows []RecordRow) *BatchResult {
	start := time.Now()
	batch := &BatchResult{
		Results:   make([]*JobResult, 0, len(rows)),
		TotalRows: len(rows),
	}
	if len(rows) == 0 {
		return batch
	}

	var slots []*JobResult
	if len(rows) <= smallBatchThreshold || bv.workers == 1 {
		slots = bv.runSequential(ctx, rows)
	} else {
		slots = bv.runParallel(ctx, rows)
	}

	for _, jr := range slots {
		if jr == nil {
			continue
		}
		if jr.Skipped {
			batch.Skipped++
			continue
		}
		batch.Results = append(batch.Results, jr)
		batch.Completed++
	}
	batch.Duration = time.Since(start)

	if bv.prom != nil {
		bv.prom.RecordBatch(batch)
	}
	return batch
}

func (bv *BatchValidator) runSequential(ctx context.Context, rows []RecordRow) []*JobResult {
	slots := make([]*JobResult, len(rows))
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return slots
		default:
		}
		slots[i] = bv.processRow(ctx, row)
	}
	return slots
}

func (bv *BatchValidator) runParallel(ctx context.Context, rows []RecordRow) []*JobResult {
	workers := bv.workers
	if workers > len(rows) {
		workers = len(rows)
	}

	slots := make([]*JobResult, len(rows))
	jobs := make(chan int, len(rows))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				slots[i] = bv.processRow(ctx, rows[i])
			}
		}()
	}

	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return slots
}

// processRow restores one row to a record and runs it through the
// pipeline. Restoration failures skip the row.
func (bv *BatchValidator) processRow(ctx context.Context, row RecordRow) *JobResult {
	start := time.Now()
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}
	jr := &JobResult{ID: id}

	rec, err := km.RecordFromJSON(row.Data)
	if err != nil {
		bv.logger.Debug("skipping unrestorable record", "id", id, "error", err)
		jr.Skipped = true
		jr.Duration = time.Since(start)
		return jr
	}

	jr.Outcome = bv.pipeline.Run(ctx, rec)
	jr.Duration = time.Since(start)
	return jr
}
