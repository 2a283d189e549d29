package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_Summary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		diff Diff
		want string
	}{
		{"add", NewDiff(DiffTypeAdd, "file", "android/app/google-services.json", "", "from assets/google-services.json"),
			"+ file android/app/google-services.json (from assets/google-services.json)"},
		{"remove", NewDiff(DiffTypeRemove, "manifest", "ExpoFirebaseMessagingService", "service", ""),
			"- manifest ExpoFirebaseMessagingService (service)"},
		{"modify", NewDiff(DiffTypeModify, "gradle", "android/build.gradle", "", ""), "~ gradle android/build.gradle"},
		{"none", NewDiff(DiffTypeNone, "plist", "Info.plist", "", ""), "  plist Info.plist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.diff.Summary())
			assert.Equal(t, tt.name, tt.diff.Type().String())
		})
	}
}

func TestDiff_Detail(t *testing.T) {
	t.Parallel()

	lines := []string{"apply plugin: 'com.huawei.agconnect'"}
	d := NewDiff(DiffTypeModify, "gradle", "app/build.gradle", "", "").WithDetail(lines...)
	lines[0] = "mutated"

	assert.Equal(t, []string{"apply plugin: 'com.huawei.agconnect'"}, d.Detail())
	assert.Empty(t, NewDiff(DiffTypeModify, "gradle", "x", "", "").Detail())
}

func TestDiff_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Diff{}.IsEmpty())
	assert.True(t, NewDiff(DiffTypeNone, "", "", "", "").IsEmpty())
	assert.False(t, NewDiff(DiffTypeModify, "gradle", "x", "", "").IsEmpty())
}
