package compiler

import (
	"fmt"
	"strings"
)

// Error codes for graph construction and step execution.
const (
	ErrCodeProviderFailed    = "PROVIDER_FAILED"
	ErrCodeStepDuplicate     = "STEP_DUPLICATE"
	ErrCodeDependencyMissing = "DEPENDENCY_MISSING"
	ErrCodeCyclicDependency  = "CYCLIC_DEPENDENCY"
	ErrCodeApplyFailed       = "APPLY_FAILED"
	ErrCodeCheckFailed       = "CHECK_FAILED"
	ErrCodeAnchorNotFound    = "ANCHOR_NOT_FOUND"
)

// StepError is an error raised while compiling or running a step, tagged with
// the provider and step it came from.
type StepError struct {
	Code       string
	Message    string
	Provider   string
	StepID     string
	Suggestion string
	Underlying error
}

func (e *StepError) Error() string {
	var where []string
	if e.Provider != "" {
		where = append(where, fmt.Sprintf("provider %q", e.Provider))
	}
	if e.StepID != "" {
		where = append(where, fmt.Sprintf("step %q", e.StepID))
	}
	if len(where) == 0 {
		return e.Message
	}
	return strings.Join(where, ", ") + ": " + e.Message
}

func (e *StepError) Unwrap() error { return e.Underlying }

// Format renders every populated field on its own line.
func (e *StepError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	for _, f := range []struct{ label, value string }{
		{"Provider", e.Provider},
		{"Step", e.StepID},
		{"Suggestion", e.Suggestion},
	} {
		if f.value != "" {
			fmt.Fprintf(&b, "\n  %s: %s", f.label, f.value)
		}
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %v", e.Underlying)
	}
	return b.String()
}

// NewStepError creates a StepError with only a code and message.
func NewStepError(code, message string) *StepError {
	return &StepError{Code: code, Message: message}
}

// WithProvider returns a copy of e attributed to provider.
func (e *StepError) WithProvider(provider string) *StepError {
	c := *e
	c.Provider = provider
	return &c
}

// WithStepID returns a copy of e attributed to stepID.
func (e *StepError) WithStepID(stepID string) *StepError {
	c := *e
	c.StepID = stepID
	return &c
}

// WithSuggestion returns a copy of e carrying suggestion.
func (e *StepError) WithSuggestion(suggestion string) *StepError {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// WithUnderlying returns a copy of e wrapping err.
func (e *StepError) WithUnderlying(err error) *StepError {
	c := *e
	c.Underlying = err
	return &c
}

// NewProviderFailedError wraps a provider's Compile error.
func NewProviderFailedError(provider string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeProviderFailed,
		Message:    "provider failed to compile steps",
		Provider:   provider,
		Suggestion: fmt.Sprintf("Check that the %s project exists and was generated by prebuild.", provider),
		Underlying: err,
	}
}

// NewStepDuplicateError reports two steps registered under one ID.
func NewStepDuplicateError(stepID string) *StepError {
	return &StepError{
		Code:       ErrCodeStepDuplicate,
		Message:    "step with this ID already exists in the graph",
		StepID:     stepID,
		Suggestion: "Each step must have a unique ID. Two providers registered the same mutation.",
	}
}

// NewDependencyMissingError reports an edge to a step that is not in the graph.
func NewDependencyMissingError(stepID, dependsOn string) *StepError {
	return &StepError{
		Code:       ErrCodeDependencyMissing,
		Message:    fmt.Sprintf("step depends on '%s' which does not exist", dependsOn),
		StepID:     stepID,
		Suggestion: "Ensure all dependencies are defined. A provider may have been disabled by the property bag.",
	}
}

// NewCyclicDependencyError lists the steps of a cycle in order.
func NewCyclicDependencyError(cycle []string) *StepError {
	return &StepError{
		Code:       ErrCodeCyclicDependency,
		Message:    fmt.Sprintf("cyclic dependency detected: %s", strings.Join(cycle, " → ")),
		Suggestion: "Review your step dependencies to break the circular chain.",
	}
}

func NewApplyFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeApplyFailed,
		Message:    "step failed to apply",
		StepID:     stepID,
		Suggestion: "Check the file permissions and re-run with --verbose for the failing path.",
		Underlying: err,
	}
}

func NewCheckFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeCheckFailed,
		Message:    "step status check failed",
		StepID:     stepID,
		Suggestion: "The step could not read or parse its input file. Regenerate the native project and retry.",
		Underlying: err,
	}
}

// NewAnchorNotFoundError reports a missing structural anchor in a file.
func NewAnchorNotFoundError(stepID, file string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeAnchorNotFound,
		Message:    fmt.Sprintf("expected structure not found in %s", file),
		StepID:     stepID,
		Suggestion: "The file was customized by hand; apply this change manually.",
		Underlying: err,
	}
}
