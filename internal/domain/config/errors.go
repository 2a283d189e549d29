package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "CONFIG_INVALID"
	ErrCodeConfigParse      = "CONFIG_PARSE"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeFileNotFound     = "FILE_NOT_FOUND"
	ErrCodeProjectNotFound  = "PROJECT_NOT_FOUND"
)

// messagePrefix opens every property-bag error so build logs point at the
// plugin that rejected the input.
const messagePrefix = "Mindbox Expo Plugin: "

// UserError is an error meant for the person running the tool: a code, a
// message, where it happened and what to do about it.
type UserError struct {
	Code       string
	Message    string
	Context    string // config key or file path
	Suggestion string
	Underlying error
}

func (e *UserError) Error() string {
	if e.Context == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
}

func (e *UserError) Unwrap() error { return e.Underlying }

// Is matches another UserError by code.
func (e *UserError) Is(target error) bool {
	t, ok := target.(*UserError)
	return ok && e.Code == t.Code
}

// Format renders the code, message, location and suggestion on separate lines.
func (e *UserError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}

// NewUserError creates a UserError with only a code and message.
func NewUserError(code, message string) *UserError {
	return &UserError{Code: code, Message: message}
}

// WithContext returns a copy of e located at ctx.
func (e *UserError) WithContext(ctx string) *UserError {
	c := *e
	c.Context = ctx
	return &c
}

// WithSuggestion returns a copy of e carrying suggestion.
func (e *UserError) WithSuggestion(suggestion string) *UserError {
	c := *e
	c.Suggestion = suggestion
	return &c
}

// WithUnderlying returns a copy of e wrapping err.
func (e *UserError) WithUnderlying(err error) *UserError {
	c := *e
	c.Underlying = err
	return &c
}

// ErrorList collects every problem found in one validation pass so they can
// be reported together.
type ErrorList struct {
	errors []*UserError
}

func NewErrorList() *ErrorList { return &ErrorList{} }

// Add appends err; nil is ignored.
func (l *ErrorList) Add(err *UserError) {
	if err != nil {
		l.errors = append(l.errors, err)
	}
}

// AddValidation appends a VALIDATION_FAILED error for field.
func (l *ErrorList) AddValidation(field, message, suggestion string) {
	l.Add(&UserError{
		Code:       ErrCodeValidationFailed,
		Message:    field + ": " + message,
		Context:    field,
		Suggestion: suggestion,
	})
}

func (l *ErrorList) HasErrors() bool { return len(l.errors) > 0 }

func (l *ErrorList) Len() int { return len(l.errors) }

// Errors returns a copy of the collected errors.
func (l *ErrorList) Errors() []*UserError {
	return append([]*UserError(nil), l.errors...)
}

func (l *ErrorList) Error() string {
	switch len(l.errors) {
	case 0:
		return ""
	case 1:
		return l.errors[0].Error()
	}
	lines := make([]string, len(l.errors))
	for i, err := range l.errors {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, err)
	}
	return fmt.Sprintf("%d errors occurred:\n%s\n", len(l.errors), strings.Join(lines, "\n"))
}

// Format renders every error with UserError.Format.
func (l *ErrorList) Format() string {
	if len(l.errors) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d error(s):\n", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "\n--- Error %d ---\n%s\n", i+1, err.Format())
	}
	return b.String()
}

// AsError returns l, or nil when nothing was collected.
func (l *ErrorList) AsError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// NewConfigNotFoundError creates an error for a missing config file.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigNotFound,
		Message:    fmt.Sprintf("configuration file not found: %s", path),
		Context:    path,
		Suggestion: "Create mindbox.yaml in the app root or pass --config.",
	}
}

// NewConfigParseError creates an error for config parsing failures.
func NewConfigParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "failed to parse configuration file",
		Context:    path,
		Suggestion: "Check the file syntax. YAML is sensitive to indentation; JSON and TOML must be well formed.",
		Underlying: err,
	}
}

// NewInvalidPropertyError reports a property-bag key outside the allow-list.
func NewInvalidPropertyError(key string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    fmt.Sprintf("%sYou have provided an invalid property %q to the Mindbox plugin.", messagePrefix, key),
		Context:    "props." + key,
		Suggestion: "Supported properties: " + strings.Join(PropertyKeys(), ", "),
	}
}

// NewPropertyTypeError reports a recognized key holding a value of the wrong type.
func NewPropertyTypeError(key, want string) *UserError {
	return &UserError{
		Code:    ErrCodeConfigInvalid,
		Message: fmt.Sprintf("%s'%s' must be %s.", messagePrefix, key, want),
		Context: "props." + key,
	}
}

// NewPropertyValueError reports a well-typed value that fails validation.
func NewPropertyValueError(key string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeValidationFailed,
		Message:    fmt.Sprintf("%s'%s' is invalid: %v", messagePrefix, key, err),
		Context:    "props." + key,
		Underlying: err,
	}
}

// NewFileNotFoundError reports a referenced input file that does not exist.
func NewFileNotFoundError(field, path string) *UserError {
	return &UserError{
		Code:       ErrCodeFileNotFound,
		Message:    fmt.Sprintf("file referenced by '%s' does not exist: %s", field, path),
		Context:    field,
		Suggestion: "Paths are resolved against project.root unless absolute.",
	}
}

// NewProjectNotFoundError reports that no native project could be located.
func NewProjectNotFoundError(root string) *UserError {
	return &UserError{
		Code:       ErrCodeProjectNotFound,
		Message:    "no native project found",
		Context:    root,
		Suggestion: "Run the scaffolding tool's prebuild step first so android/ and ios/ exist.",
	}
}

// IsUserError reports whether err wraps a UserError with code.
func IsUserError(err error, code string) bool {
	ue := GetUserError(err)
	return ue != nil && ue.Code == code
}

// GetUserError returns the first UserError in err's chain.
func GetUserError(err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}
