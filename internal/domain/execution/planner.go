package execution

import (
	"context"
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// Planner generates a Plan from a StepGraph.
// It checks each step's current status and plans necessary changes.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan checks every step in dependency order. A step whose check fails
// does not abort planning: strict steps are recorded as failed, tolerant
// steps as skipped with a warning.
func (p *Planner) Plan(ctx context.Context, graph *compiler.StepGraph) (*Plan, error) {
	plan := NewExecutionPlan()

	steps, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to sort steps: %w", err)
	}

	runCtx := compiler.NewRunContext(ctx)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan.Add(planStep(step, runCtx))
	}

	return plan, nil
}

func planStep(step compiler.Step, ctx compiler.RunContext) PlanEntry {
	status, err := step.Check(ctx)
	if err != nil {
		return checkFailure(step, ctx, err)
	}

	var diff compiler.Diff
	if status == compiler.StatusNeedsApply {
		diff, err = step.Plan(ctx)
		if err != nil {
			return checkFailure(step, ctx, err)
		}
	}

	return NewPlanEntry(step, status, diff)
}

func checkFailure(step compiler.Step, ctx compiler.RunContext, err error) PlanEntry {
	id := step.ID().String()
	if compiler.IsTolerant(step) {
		ctx.Warn(operationName(step), err.Error(), ports.F("step", id))
		return NewPlanEntry(step, compiler.StatusSkipped, compiler.Diff{}).WithError(err)
	}
	return NewPlanEntry(step, compiler.StatusFailed, compiler.Diff{}).
		WithError(compiler.NewCheckFailedError(id, err))
}

// operationName is the human-readable name used in log lines.
func operationName(step compiler.Step) string {
	if summary := step.Explain(compiler.NewExplainContext()).Summary(); summary != "" {
		return summary
	}
	return step.ID().String()
}
