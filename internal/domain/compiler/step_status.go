package compiler

// StepStatus is what a step's Check found in the native project, or how
// its Apply ended.
type StepStatus string

const (
	// StatusSatisfied means the file already carries the change.
	StatusSatisfied StepStatus = "satisfied"
	// StatusNeedsApply means the change is missing and Apply would write it.
	StatusNeedsApply StepStatus = "needs-apply"
	// StatusUnknown means the file could not be read or decoded.
	StatusUnknown StepStatus = "unknown"
	// StatusFailed means Check or Apply returned an error the step does not
	// tolerate.
	StatusFailed StepStatus = "failed"
	// StatusSkipped means the anchor or input was absent, a dependency did
	// not complete, or a tolerant step turned its error into a warning.
	StatusSkipped StepStatus = "skipped"
)

func (s StepStatus) String() string { return string(s) }

// NeedsAction reports whether the status still asks for a write or for the
// user to look at the file.
func (s StepStatus) NeedsAction() bool {
	return s == StatusNeedsApply || s == StatusUnknown || s == StatusFailed
}

// IsTerminal reports whether nothing more will happen to the step in this run.
func (s StepStatus) IsTerminal() bool {
	return s == StatusSatisfied || s == StatusFailed || s == StatusSkipped
}
