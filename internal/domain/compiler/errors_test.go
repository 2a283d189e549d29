package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *StepError
		expected string
	}{
		{"message only", &StepError{Message: "apply failed"}, "apply failed"},
		{"provider", &StepError{Message: "provider error", Provider: "android"}, `provider "android": provider error`},
		{"both", &StepError{Message: "apply failed", Provider: "ios", StepID: "ios:plist:info"},
			`provider "ios", step "ios:plist:info": apply failed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestStepError_FormatAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	err := NewApplyFailedError("android:gradle:huawei-repo", cause).WithProvider("android")

	formatted := err.Format()
	assert.Contains(t, formatted, "[APPLY_FAILED] step failed to apply")
	assert.Contains(t, formatted, "Provider: android")
	assert.Contains(t, formatted, "Step: android:gradle:huawei-repo")
	assert.Contains(t, formatted, "Suggestion: Check the file permissions")
	assert.Contains(t, formatted, "Cause: permission denied")
	assert.ErrorIs(t, err, cause)
}

func TestStepError_BuildersCopy(t *testing.T) {
	t.Parallel()

	original := NewStepError(ErrCodeCheckFailed, "check failed")
	derived := original.WithStepID("ios:podfile:pods").WithSuggestion("retry").WithUnderlying(errors.New("x"))

	assert.Empty(t, original.StepID)
	assert.Empty(t, original.Suggestion)
	assert.Nil(t, original.Underlying)
	assert.Equal(t, "ios:podfile:pods", derived.StepID)
	assert.Equal(t, "retry", derived.Suggestion)
}

func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrCodeProviderFailed, NewProviderFailedError("ios", errors.New("x")).Code)
	assert.Contains(t, NewStepDuplicateError("ios:plist:info").Suggestion, "unique ID")
	assert.Contains(t, NewDependencyMissingError("android:manifest:huawei-appid", "android:files:agconnect-services").Message,
		"android:files:agconnect-services")
	assert.Contains(t, NewCyclicDependencyError([]string{"a", "b", "a"}).Message, "a → b → a")
	assert.Equal(t, ErrCodeCheckFailed, NewCheckFailedError("ios:plist:info", errors.New("x")).Code)

	anchor := NewAnchorNotFoundError("ios:podfile:pods", "ios/Podfile", errors.New("anchor not found"))
	assert.Equal(t, ErrCodeAnchorNotFound, anchor.Code)
	assert.Contains(t, anchor.Message, "ios/Podfile")
}
