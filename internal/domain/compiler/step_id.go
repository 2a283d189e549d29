package compiler

import (
	"errors"
	"regexp"
	"strings"
)

// StepID names a mutation as platform:substrate:concern, for example
// "android:gradle:huawei-repo" or "ios:xcode:nse-target".
type StepID struct {
	value string
}

var (
	ErrEmptyStepID   = errors.New("step ID cannot be empty")
	ErrInvalidStepID = errors.New("step ID format invalid: must be alphanumeric with colons, hyphens, underscores, or slashes")
)

// Colon-separated segments of [a-zA-Z0-9_/-], each starting alphanumeric.
var stepIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_/-]*(?::[a-zA-Z0-9][a-zA-Z0-9_/-]*)*$`)

func NewStepID(value string) (StepID, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return StepID{}, ErrEmptyStepID
	case !stepIDPattern.MatchString(value):
		return StepID{}, ErrInvalidStepID
	}
	return StepID{value: value}, nil
}

// MustNewStepID is NewStepID for the literal IDs providers declare; it
// panics on a malformed literal.
func MustNewStepID(value string) StepID {
	id, err := NewStepID(value)
	if err != nil {
		panic("invalid step ID " + value + ": " + err.Error())
	}
	return id
}

func (id StepID) String() string { return id.value }

func (id StepID) Equals(other StepID) bool { return id.value == other.value }

// Provider returns the platform segment ("android", "ios").
func (id StepID) Provider() string {
	platform, _, _ := strings.Cut(id.value, ":")
	return platform
}

// Substrate returns the second segment ("gradle", "manifest", "xcode"),
// or "" for single-segment IDs.
func (id StepID) Substrate() string {
	parts := strings.SplitN(id.value, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (id StepID) IsZero() bool { return id.value == "" }
