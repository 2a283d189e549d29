package config

import (
	"regexp"
	"slices"
	"strings"
)

// PushProvider names an Android push transport.
type PushProvider string

// Supported push providers.
const (
	ProviderFirebase PushProvider = "firebase"
	ProviderHuawei   PushProvider = "huawei"
	ProviderRustore  PushProvider = "rustore"
)

// PushProviders lists every supported provider in canonical order.
func PushProviders() []PushProvider {
	return []PushProvider{ProviderFirebase, ProviderHuawei, ProviderRustore}
}

// IOSMode selects the APNs environment written to the entitlements.
type IOSMode string

// Supported iOS modes.
const (
	IOSModeDevelopment IOSMode = "development"
	IOSModeProduction  IOSMode = "production"
)

// DefaultIOSDeploymentTarget is used for extension targets when the
// property bag does not set one.
const DefaultIOSDeploymentTarget = "15.1"

// Properties is the validated plugin property bag. It is a value type:
// providers receive a copy and there is no way to mutate the shared
// provider list through it.
type Properties struct {
	pushProviders []PushProvider

	GoogleServicesFilePath    string
	HuaweiServicesFilePath    string
	RustoreProjectID          string
	AndroidChannelID          string
	AndroidChannelName        string
	AndroidChannelDescription string
	SmallIcon                 string
	SmallIconAccentColor      string
	NativeRequestPermission   bool
	UsedExpoNotification      bool
	WorkRuntimeWorkaround     bool
	IOSMode                   IOSMode
	IOSDevTeam                string
	IOSDeploymentTarget       string
	IOSNseFilePath            string
	IOSNceFilePath            string
	IOSAppGroupID             string
}

// DefaultProperties returns the property bag with every default applied.
func DefaultProperties() Properties {
	return Properties{
		IOSMode:             IOSModeDevelopment,
		IOSDeploymentTarget: DefaultIOSDeploymentTarget,
	}
}

// PushProviders returns a copy of the enabled providers.
func (p Properties) PushProviders() []PushProvider {
	return slices.Clone(p.pushProviders)
}

// HasPushProvider reports whether provider is enabled.
func (p Properties) HasPushProvider(provider PushProvider) bool {
	return slices.Contains(p.pushProviders, provider)
}

// WithPushProviders returns a copy of p with the given providers enabled.
// Duplicates are dropped; order of first appearance is kept.
func (p Properties) WithPushProviders(providers ...PushProvider) Properties {
	out := make([]PushProvider, 0, len(providers))
	for _, provider := range providers {
		if !slices.Contains(out, provider) {
			out = append(out, provider)
		}
	}
	p.pushProviders = out
	return p
}

// Production reports whether the APNs production environment is selected.
func (p Properties) Production() bool {
	return p.IOSMode == IOSModeProduction
}

// AppGroupPrefix is the app group used when neither a bundle identifier nor
// an explicit group is known.
const AppGroupPrefix = "group.cloud.Mindbox"

var appGroupJunk = regexp.MustCompile(`[,\s]`)

// AppGroupID resolves the app group shared between the app and its
// notification extensions: IOSAppGroupID when set, otherwise derived from
// bundleID. The result always starts with "group.".
func (p Properties) AppGroupID(bundleID string) string {
	group := AppGroupPrefix
	switch {
	case p.IOSAppGroupID != "":
		group = p.IOSAppGroupID
	case bundleID != "":
		group = AppGroupPrefix + "." + bundleID
	}
	group = appGroupJunk.ReplaceAllString(group, "")
	if !strings.HasPrefix(group, "group.") {
		group = "group." + group
	}
	return group
}

// APSEnvironment returns the aps-environment entitlement value.
func (p Properties) APSEnvironment() string {
	if p.Production() {
		return string(IOSModeProduction)
	}
	return string(IOSModeDevelopment)
}
