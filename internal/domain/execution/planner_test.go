package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_EmptyGraph(t *testing.T) {
	t.Parallel()

	plan, err := NewPlanner().Plan(context.Background(), compiler.NewStepGraph())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.False(t, plan.HasChanges())
}

func TestPlanner_StatusesAndDiffs(t *testing.T) {
	t.Parallel()

	needs := newMockStep("android:gradle:huawei-repo")
	satisfied := newMockStep("android:gradle:huawei-classpath")
	satisfied.checkFn = func(compiler.RunContext) (compiler.StepStatus, error) {
		return compiler.StatusSatisfied, nil
	}
	satisfied.planFn = func(compiler.RunContext) (compiler.Diff, error) {
		t.Error("Plan must not run for satisfied steps")
		return compiler.Diff{}, nil
	}

	plan, err := NewPlanner().Plan(context.Background(), graphOf(needs, satisfied))
	require.NoError(t, err)
	require.Equal(t, 2, plan.Len())

	entries := plan.Entries()
	assert.Equal(t, compiler.StatusNeedsApply, entries[0].Status())
	assert.Equal(t, "~ gradle android:gradle:huawei-repo", entries[0].Diff().Summary())
	assert.Equal(t, compiler.StatusSatisfied, entries[1].Status())
	assert.True(t, entries[1].Diff().IsEmpty())
	assert.Len(t, plan.NeedsApply(), 1)
}

func TestPlanner_DependencyOrder(t *testing.T) {
	t.Parallel()

	target := newMockStep("ios:xcode:nse-target", "ios:files:nse")
	files := newMockStep("ios:files:nse")

	plan, err := NewPlanner().Plan(context.Background(), graphOf(target, files))
	require.NoError(t, err)
	assert.Equal(t, "ios:files:nse", plan.Entries()[0].Step().ID().String())
	assert.Equal(t, "ios:xcode:nse-target", plan.Entries()[1].Step().ID().String())
}

func TestPlanner_CheckErrors(t *testing.T) {
	t.Parallel()

	strict := newMockStep("ios:plist:info")
	strict.checkFn = func(compiler.RunContext) (compiler.StepStatus, error) {
		return compiler.StatusUnknown, errors.New("plist: invalid XML")
	}
	tolerant := newMockStep("android:files:google-services")
	tolerant.tolerant = true
	tolerant.checkFn = func(compiler.RunContext) (compiler.StepStatus, error) {
		return compiler.StatusUnknown, errors.New("source file not found")
	}

	plan, err := NewPlanner().Plan(context.Background(), graphOf(strict, tolerant))
	require.NoError(t, err)

	entries := plan.Entries()
	assert.Equal(t, compiler.StatusFailed, entries[0].Status())
	var stepErr *compiler.StepError
	require.ErrorAs(t, entries[0].Error(), &stepErr)
	assert.Equal(t, compiler.ErrCodeCheckFailed, stepErr.Code)

	assert.Equal(t, compiler.StatusSkipped, entries[1].Status())
	assert.EqualError(t, entries[1].Error(), "source file not found")

	summary := plan.Summary()
	assert.Equal(t, PlanSummary{Total: 2, Failed: 1, Skipped: 1}, summary)
}

func TestPlanner_PlanErrorIsCheckFailure(t *testing.T) {
	t.Parallel()

	step := newMockStep("android:manifest:rustore-project-id")
	step.planFn = func(compiler.RunContext) (compiler.Diff, error) {
		return compiler.Diff{}, errors.New("manifest: no <application> element")
	}

	plan, err := NewPlanner().Plan(context.Background(), graphOf(step))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusFailed, plan.Entries()[0].Status())
}

func TestPlanner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPlanner().Plan(ctx, graphOf(newMockStep("ios:plist:info")))
	assert.ErrorIs(t, err, context.Canceled)
}
