package execution

import (
	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
)

// mockStep allows configuring Check, Plan and Apply behavior.
type mockStep struct {
	id       compiler.StepID
	deps     []compiler.StepID
	tolerant bool
	checkFn  func(compiler.RunContext) (compiler.StepStatus, error)
	planFn   func(compiler.RunContext) (compiler.Diff, error)
	applyFn  func(compiler.RunContext) error
	applied  int
}

func newMockStep(id string, deps ...string) *mockStep {
	depIDs := make([]compiler.StepID, len(deps))
	for i, d := range deps {
		depIDs[i] = compiler.MustNewStepID(d)
	}
	m := &mockStep{
		id:   compiler.MustNewStepID(id),
		deps: depIDs,
		checkFn: func(compiler.RunContext) (compiler.StepStatus, error) {
			return compiler.StatusNeedsApply, nil
		},
		planFn: func(compiler.RunContext) (compiler.Diff, error) {
			return compiler.NewDiff(compiler.DiffTypeModify, "gradle", id, "", ""), nil
		},
	}
	m.applyFn = func(compiler.RunContext) error { return nil }
	return m
}

func (m *mockStep) ID() compiler.StepID          { return m.id }
func (m *mockStep) DependsOn() []compiler.StepID { return m.deps }
func (m *mockStep) Tolerant() bool               { return m.tolerant }
func (m *mockStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	return m.checkFn(ctx)
}
func (m *mockStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return m.planFn(ctx)
}
func (m *mockStep) Apply(ctx compiler.RunContext) error {
	m.applied++
	return m.applyFn(ctx)
}
func (m *mockStep) Explain(compiler.ExplainContext) compiler.Explanation {
	return compiler.NewExplanation("patch "+m.id.String(), "", nil)
}

func graphOf(steps ...compiler.Step) *compiler.StepGraph {
	g := compiler.NewStepGraph()
	for _, s := range steps {
		if err := g.Add(s); err != nil {
			panic(err)
		}
	}
	return g
}
