package compiler

// Step is one detect-then-patch mutation of a native project file.
// Check detects whether the change is already present, Plan describes it
// and Apply performs it, writing only when content changes.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []StepID

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action needed, StatusNeedsApply if changes required,
	// StatusSkipped when the structure it patches is absent.
	Check(ctx RunContext) (StepStatus, error)

	// Plan returns the diff describing what changes this step will make.
	Plan(ctx RunContext) (Diff, error)

	// Apply executes the step's changes.
	// Running it against its own output must be a no-op.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain(ctx ExplainContext) Explanation
}

// TolerantStep marks steps whose failures are logged as warnings instead
// of failing the run (service-file and icon copies, resource writes, Xcode
// target synthesis).
type TolerantStep interface {
	Step

	// Tolerant reports whether errors from Check or Apply are downgraded.
	Tolerant() bool
}

// IsTolerant checks if a step downgrades its failures to warnings.
func IsTolerant(step Step) bool {
	t, ok := step.(TolerantStep)
	return ok && t.Tolerant()
}
