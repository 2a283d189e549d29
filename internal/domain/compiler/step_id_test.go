package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "three segments", input: "android:gradle:huawei-repo"},
		{name: "trimmed", input: "  ios:plist:info  "},
		{name: "single segment", input: "android"},
		{name: "underscore and slash", input: "ios:files:nse/info_plist"},
		{name: "empty", input: "", wantErr: ErrEmptyStepID},
		{name: "blank", input: "   ", wantErr: ErrEmptyStepID},
		{name: "leading colon", input: ":gradle", wantErr: ErrInvalidStepID},
		{name: "trailing colon", input: "android:", wantErr: ErrInvalidStepID},
		{name: "space inside", input: "android:gradle repo", wantErr: ErrInvalidStepID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := NewStepID(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.False(t, id.IsZero())
		})
	}
}

func TestStepID_Segments(t *testing.T) {
	t.Parallel()

	id := MustNewStepID("android:manifest:huawei-appid")
	assert.Equal(t, "android", id.Provider())
	assert.Equal(t, "manifest", id.Substrate())
	assert.Equal(t, "android:manifest:huawei-appid", id.String())

	assert.Empty(t, MustNewStepID("ios").Substrate())
}

func TestStepID_Equals(t *testing.T) {
	t.Parallel()

	a := MustNewStepID("ios:xcode:nse-target")
	assert.True(t, a.Equals(MustNewStepID("ios:xcode:nse-target")))
	assert.False(t, a.Equals(MustNewStepID("ios:xcode:nce-target")))
}

func TestMustNewStepID_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNewStepID("bad id") })
}
