package swift

import (
	"errors"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
)

// Options selects which AppDelegate integration is injected.
type Options struct {
	NativeRequestPermission bool
	UseExpoNotifications    bool
}

// Skipped names a transform that left the text unchanged because its anchor
// was missing.
type Skipped struct {
	Transform string
	Err       error
}

// Configure composes the AppDelegate transforms left to right. Transforms
// whose anchor is missing are reported in skipped and do not stop the
// others.
func Configure(text string, opts Options) (out string, skipped []Skipped) {
	out = text

	imports := []string{ImportMindboxSdk, ImportMindbox}
	if opts.UseExpoNotifications {
		imports = append(imports, ImportExNotifications)
	}
	out = AddImports(out, imports)

	type transform struct {
		name string
		fn   func(string) (string, error)
	}
	transforms := []transform{
		{"extend AppDelegate conformance", func(s string) (string, error) {
			return AddConformance(s, CenterDelegateProtocol)
		}},
		{"add Mindbox initialization lines", func(s string) (string, error) {
			return AddLaunchLines(s, launchLines(opts))
		}},
	}
	if opts.NativeRequestPermission {
		transforms = append(transforms, transform{"add onRequestPushNotifications method", func(s string) (string, error) {
			return AddMethod(s, RequestPermissionsSignature, MethodRequestPermissions)
		}})
	}
	if opts.UseExpoNotifications {
		transforms = append(transforms, transform{"add NotificationDelegate extension", func(s string) (string, error) {
			return AppendOnce(s, NotificationDelegateSignature, ExtensionNotificationDelegate), nil
		}})
	} else {
		transforms = append(transforms, transform{"add userNotificationCenter method", func(s string) (string, error) {
			return AddMethod(s, WillPresentSignature, MethodWillPresent)
		}})
	}

	for _, t := range transforms {
		next, err := t.fn(out)
		if err != nil {
			skipped = append(skipped, Skipped{Transform: t.name, Err: err})
			continue
		}
		out = next
	}
	return out, skipped
}

func launchLines(opts Options) []string {
	var lines []string
	if opts.UseExpoNotifications {
		lines = append(lines, LineSetExpoCenterDelegate, LineAddExpoDelegate, LineConfigureWithOptions)
	} else {
		lines = append(lines, LineSetCenterDelegate, LineConfigure)
	}
	if opts.NativeRequestPermission {
		lines = append(lines, LineRequestPermissions)
	}
	return lines
}

// IsAnchorMissing reports whether a Skipped entry stems from a missing anchor.
func (s Skipped) IsAnchorMissing() bool {
	return s.Err != nil && errors.Is(s.Err, anchor.ErrNotFound)
}
