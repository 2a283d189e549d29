package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperties_PushProvidersIsACopy(t *testing.T) {
	t.Parallel()

	props := DefaultProperties().WithPushProviders(ProviderFirebase, ProviderHuawei, ProviderFirebase)

	got := props.PushProviders()
	assert.Equal(t, []PushProvider{ProviderFirebase, ProviderHuawei}, got)

	got[0] = ProviderRustore
	assert.True(t, props.HasPushProvider(ProviderFirebase))
	assert.False(t, props.HasPushProvider(ProviderRustore))
}

func TestProperties_WithPushProvidersDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := DefaultProperties().WithPushProviders(ProviderFirebase)
	derived := base.WithPushProviders(ProviderRustore)

	assert.True(t, base.HasPushProvider(ProviderFirebase))
	assert.False(t, base.HasPushProvider(ProviderRustore))
	assert.True(t, derived.HasPushProvider(ProviderRustore))
}

func TestProject_Paths(t *testing.T) {
	t.Parallel()

	p := Project{Root: "/work/app", Android: "android", IOS: "/abs/ios", IOSProjectName: "App"}

	assert.Equal(t, "/work/app/android", p.AndroidRoot())
	assert.Equal(t, "/abs/ios", p.IOSRoot())
	assert.Equal(t, "/work/app/android/app/google-services.json", p.AndroidApp("google-services.json"))
	assert.Equal(t, "/abs/ios/App/App.entitlements", p.IOSSources("App.entitlements"))
	assert.Equal(t, "/work/app/assets/icon.png", p.Resolve("assets/icon.png"))
}

func TestProperties_AppGroupID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		custom string
		bundle string
		want   string
	}{
		{"derived from bundle", "", "com.example.app", "group.cloud.Mindbox.com.example.app"},
		{"default without bundle", "", "", "group.cloud.Mindbox"},
		{"custom kept", "group.com.acme.shared", "com.example.app", "group.com.acme.shared"},
		{"custom gets prefix", "com.acme.shared", "", "group.com.acme.shared"},
		{"custom cleaned", " group.com.acme, shared ", "", "group.com.acmeshared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			props := DefaultProperties()
			props.IOSAppGroupID = tt.custom
			assert.Equal(t, tt.want, props.AppGroupID(tt.bundle))
		})
	}
}

func TestProperties_APSEnvironment(t *testing.T) {
	t.Parallel()

	props := DefaultProperties()
	assert.Equal(t, "development", props.APSEnvironment())

	props.IOSMode = IOSModeProduction
	assert.Equal(t, "production", props.APSEnvironment())
}
