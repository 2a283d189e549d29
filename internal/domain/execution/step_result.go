// Package execution checks compiled steps against the native project and
// applies the ones whose change is not present yet.
package execution

import (
	"time"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   compiler.StepID
	status   compiler.StepStatus
	err      error
	duration time.Duration
	diff     compiler.Diff
	applied  bool
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID compiler.StepID, status compiler.StepStatus, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() compiler.StepID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() compiler.StepStatus {
	return r.status
}

// Error returns the error that failed the step, or the error a tolerant
// step downgraded to a warning.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long Apply took.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Diff returns the diff that was applied (if any).
func (r StepResult) Diff() compiler.Diff {
	return r.diff
}

// Success returns true if the step's change is present after the run.
func (r StepResult) Success() bool {
	return r.status == compiler.StatusSatisfied
}

// Applied returns true if Apply ran and succeeded in this run.
func (r StepResult) Applied() bool {
	return r.applied
}

// Skipped returns true if the step was skipped.
func (r StepResult) Skipped() bool {
	return r.status == compiler.StatusSkipped
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithDiff returns a new StepResult with diff set.
func (r StepResult) WithDiff(d compiler.Diff) StepResult {
	r.diff = d
	return r
}

// WithApplied returns a new StepResult marked as applied in this run.
func (r StepResult) WithApplied() StepResult {
	r.applied = true
	return r
}

// Summary counts results by outcome.
type Summary struct {
	Applied   int
	Satisfied int
	Skipped   int
	Failed    int
}

// Summarize aggregates results for the final report line.
func Summarize(results []StepResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.applied:
			s.Applied++
		case r.status == compiler.StatusSatisfied:
			s.Satisfied++
		case r.status == compiler.StatusSkipped:
			s.Skipped++
		case r.status == compiler.StatusFailed:
			s.Failed++
		}
	}
	return s
}

// HasFailures reports whether any step failed.
func HasFailures(results []StepResult) bool {
	for _, r := range results {
		if r.status == compiler.StatusFailed {
			return true
		}
	}
	return false
}
