package ios

import (
	"fmt"
	"path/filepath"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/swift"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

var appDelegateNames = []string{"AppDelegate.swift", "AppDelegate.mm", "AppDelegate.m"}

// appDelegatePath returns the configured AppDelegate, or the first
// AppDelegate.{swift,mm,m} in the app sources. The Swift path is returned
// when none exists so the step reports it as missing.
func (b *builder) appDelegatePath() string {
	if p := b.at.project.IOSAppDelegate; p != "" {
		return b.at.project.Resolve(p)
	}
	for _, name := range appDelegateNames {
		if p := b.at.project.IOSSources(name); b.fs.Exists(p) {
			return p
		}
	}
	return b.at.project.IOSSources(appDelegateNames[0])
}

func (b *builder) appDelegate() {
	m := meta("ios:source:app-delegate", "configure AppDelegate for Mindbox")
	path := b.appDelegatePath()
	if ext := filepath.Ext(path); ext != ".swift" {
		b.add(patchstep.NewNoticeStep(m,
			fmt.Sprintf("%s is Objective-C (%s); only Swift AppDelegate is supported, skipping AppDelegate configuration", filepath.Base(path), ext)))
		return
	}

	opts := swift.Options{
		NativeRequestPermission: b.props.NativeRequestPermission,
		UseExpoNotifications:    b.props.UsedExpoNotification,
	}
	b.add(patchstep.NewTextStep(m, b.fs, path, func(text string) (string, []string, error) {
		out, skipped := swift.Configure(text, opts)
		warnings := make([]string, len(skipped))
		for i, s := range skipped {
			warnings[i] = fmt.Sprintf("could not %s: %v", s.Transform, s.Err)
		}
		return out, warnings, nil
	}))
}
