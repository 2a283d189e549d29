package ios

import "github.com/mindbox-cloud/mindbox-config/internal/templates"

// Info.plist keys and values.
const (
	KeyBackgroundModes = "UIBackgroundModes"
	KeyBGTasks         = "BGTaskSchedulerPermittedIdentifiers"

	BGTaskPrefix = "cloud.MindBox."
)

// BackgroundModes are merged into UIBackgroundModes.
var BackgroundModes = []string{"remote-notification", "processing", "fetch"}

var bgTaskSuffixes = []string{".GDAppRefresh", ".GDAppProcessing", ".DBCleanAppProcessing"}

// Entitlement keys.
const (
	KeyAPSEnvironment = "aps-environment"
	KeyAppGroups      = "com.apple.security.application-groups"
)

// Podfile.
var appPods = []string{"Mindbox", "MindboxLogger", "MindboxCommon"}

const extensionPod = "MindboxNotifications"

// SwiftVersion is the SWIFT_VERSION of the extension targets.
const SwiftVersion = "5.0"

// Extension describes one notification extension target.
type Extension struct {
	Kind       string // templates.ServiceExtension or templates.ContentExtension
	Name       string
	Source     string
	Frameworks []string
	// Short names the extension in step ids ("nse").
	Short string
}

// Service and Content are the extensions created for every app.
var (
	Service = Extension{
		Kind:       templates.ServiceExtension,
		Name:       "MindboxNotificationServiceExtension",
		Source:     "NotificationService.swift",
		Frameworks: []string{"UserNotifications"},
		Short:      "nse",
	}
	Content = Extension{
		Kind:       templates.ContentExtension,
		Name:       "MindboxNotificationContentExtension",
		Source:     "NotificationViewController.swift",
		Frameworks: []string{"UserNotifications", "UserNotificationsUI"},
		Short:      "nce",
	}
)

// Entitlements returns the entitlements file name of the extension.
func (e Extension) Entitlements() string {
	return e.Name + ".entitlements"
}

// BundleID returns the extension bundle identifier for the app bundle.
func (e Extension) BundleID(app string) string {
	return app + "." + e.Name
}

// BGTaskIdentifiers returns the BGTaskScheduler identifiers the SDK
// registers for bundleID.
func BGTaskIdentifiers(bundleID string) []string {
	ids := make([]string, len(bgTaskSuffixes))
	for i, suffix := range bgTaskSuffixes {
		ids[i] = BGTaskPrefix + bundleID + suffix
	}
	return ids
}
