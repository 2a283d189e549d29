package execution

import (
	"context"
	"time"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// Executor runs steps from a Plan in order.
type Executor struct {
	dryRun bool
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that reports planned diffs without applying.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// run tracks what happened to earlier steps of the same execution.
type run struct {
	blocked map[string]bool // failed, or tolerant steps that errored
	changed map[string]bool // applied in this run
}

// Execute runs all entries in plan order and returns one result per entry
// reached. Step failures are reported in the results; the returned error is
// only set when ctx is cancelled.
//
// Entries planned as satisfied or skipped are checked again when one of
// their dependencies was applied earlier in the same run, since the file
// they read may only exist now.
func (e *Executor) Execute(ctx context.Context, plan *Plan) ([]StepResult, error) {
	results := make([]StepResult, 0, plan.Len())
	state := run{blocked: make(map[string]bool), changed: make(map[string]bool)}

	runCtx := compiler.NewRunContext(ctx).WithDryRun(e.dryRun)

	for _, entry := range plan.Entries() {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := e.executeEntry(entry, runCtx, state)
		id := entry.Step().ID().String()
		if result.Status() == compiler.StatusFailed || (result.Skipped() && result.Error() != nil) {
			state.blocked[id] = true
		}
		if result.Applied() {
			state.changed[id] = true
		}
		results = append(results, result)
	}

	return results, nil
}

func (e *Executor) executeEntry(entry PlanEntry, ctx compiler.RunContext, state run) StepResult {
	step := entry.Step()
	stepID := step.ID()
	op := operationName(step)

	for _, depID := range step.DependsOn() {
		if state.blocked[depID.String()] {
			ctx.Warn(op, "skipped because "+depID.String()+" did not complete", ports.F("step", stepID.String()))
			return NewStepResult(stepID, compiler.StatusSkipped, nil)
		}
	}

	status, diff := entry.Status(), entry.Diff()
	if entry.Error() != nil {
		return NewStepResult(stepID, status, entry.Error())
	}

	if status != compiler.StatusNeedsApply && dependencyChanged(step, state) {
		var err error
		status, err = step.Check(ctx)
		if err != nil {
			return e.failure(step, ctx, compiler.NewCheckFailedError(stepID.String(), err), err)
		}
		if status == compiler.StatusNeedsApply {
			if diff, err = step.Plan(ctx); err != nil {
				return e.failure(step, ctx, compiler.NewCheckFailedError(stepID.String(), err), err)
			}
		}
	}

	if status != compiler.StatusNeedsApply {
		return NewStepResult(stepID, status, nil)
	}

	if ctx.DryRun() {
		return NewStepResult(stepID, compiler.StatusNeedsApply, nil).WithDiff(diff)
	}

	start := time.Now()
	err := step.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		return e.failure(step, ctx, compiler.NewApplyFailedError(stepID.String(), err), err).WithDuration(duration)
	}

	ctx.Logger().Info(ctx.Context(), op+" completed successfully", ports.F("step", stepID.String()))
	return NewStepResult(stepID, compiler.StatusSatisfied, nil).
		WithDuration(duration).
		WithDiff(diff).
		WithApplied()
}

// failure turns a step error into a result. Tolerant steps log a warning
// and are skipped; the rest fail.
func (e *Executor) failure(step compiler.Step, ctx compiler.RunContext, stepErr *compiler.StepError, cause error) StepResult {
	id := step.ID()
	if compiler.IsTolerant(step) {
		ctx.Warn(operationName(step), cause.Error(), ports.F("step", id.String()))
		return NewStepResult(id, compiler.StatusSkipped, cause)
	}
	ctx.Logger().Error(ctx.Context(), cause.Error(), ports.Op(operationName(step)), ports.F("step", id.String()))
	return NewStepResult(id, compiler.StatusFailed, stepErr)
}

func dependencyChanged(step compiler.Step, state run) bool {
	for _, depID := range step.DependsOn() {
		if state.changed[depID.String()] {
			return true
		}
	}
	return false
}
