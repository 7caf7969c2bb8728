package worker

import (
	"time"

	"github.com/kormarc/validator/pipeline"
)

// RecordRow is one stored record handed to the batch validator: an
// identifier plus the JSON serialization of the record.
type RecordRow struct {
	ID   string
	Data []byte
}

// JobResult is the outcome of validating one row. Skipped rows carry
// no Outcome; their serialized form could not be restored to a record.
type JobResult struct {
	ID       string            `json:"id"`
	Outcome  *pipeline.Outcome `json:"outcome,omitempty"`
	Skipped  bool              `json:"skipped,omitempty"`
	Duration time.Duration     `json:"duration_ns"`
}

// Passed reports whether the row's record passed every tier that ran.
// Skipped rows never pass.
func (j *JobResult) Passed() bool {
	return !j.Skipped && j.Outcome != nil && j.Outcome.Passed
}

// BatchResult aggregates the results of one batch run. Results holds
// one entry per non-skipped row, in input order.
type BatchResult struct {
	Results   []*JobResult  `json:"results"`
	TotalRows int           `json:"total_rows"`
	Completed int           `json:"completed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration_ns"`
}
