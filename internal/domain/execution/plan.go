package execution

import (
	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
)

// PlanEntry pairs a step with what its Check and Plan reported.
type PlanEntry struct {
	step   compiler.Step
	status compiler.StepStatus
	diff   compiler.Diff
	err    error
}

func NewPlanEntry(step compiler.Step, status compiler.StepStatus, diff compiler.Diff) PlanEntry {
	return PlanEntry{step: step, status: status, diff: diff}
}

// WithError returns a copy of the entry carrying the check error.
func (e PlanEntry) WithError(err error) PlanEntry {
	e.err = err
	return e
}

func (e PlanEntry) Step() compiler.Step         { return e.step }
func (e PlanEntry) Status() compiler.StepStatus { return e.status }
func (e PlanEntry) Diff() compiler.Diff         { return e.diff }

// Error returns the error Check or Plan produced, if any.
func (e PlanEntry) Error() error { return e.err }

// PlanSummary counts plan entries by status.
type PlanSummary struct {
	Total      int
	NeedsApply int
	Satisfied  int
	Unknown    int
	Failed     int
	Skipped    int
}

// Plan is the checked, ordered list of steps for one run.
type Plan struct {
	entries []PlanEntry
}

func NewExecutionPlan() *Plan { return &Plan{} }

func (p *Plan) Add(entry PlanEntry) { p.entries = append(p.entries, entry) }

func (p *Plan) Len() int { return len(p.entries) }

func (p *Plan) IsEmpty() bool { return len(p.entries) == 0 }

// Entries returns the entries in execution order.
func (p *Plan) Entries() []PlanEntry { return p.entries }

// NeedsApply returns the entries whose files would be written.
func (p *Plan) NeedsApply() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.entries {
		if e.status == compiler.StatusNeedsApply {
			out = append(out, e)
		}
	}
	return out
}

// HasChanges reports whether apply would write anything.
func (p *Plan) HasChanges() bool {
	for _, e := range p.entries {
		if e.status == compiler.StatusNeedsApply {
			return true
		}
	}
	return false
}

func (p *Plan) Summary() PlanSummary {
	s := PlanSummary{Total: len(p.entries)}
	for _, e := range p.entries {
		switch e.status {
		case compiler.StatusNeedsApply:
			s.NeedsApply++
		case compiler.StatusSatisfied:
			s.Satisfied++
		case compiler.StatusUnknown:
			s.Unknown++
		case compiler.StatusFailed:
			s.Failed++
		case compiler.StatusSkipped:
			s.Skipped++
		}
	}
	return s
}
