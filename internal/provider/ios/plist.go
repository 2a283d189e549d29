package ios

import (
	"github.com/mindbox-cloud/mindbox-config/internal/patch/plist"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

// editPlist loads text, applies edit and re-encodes only when edit changed
// the dictionary.
func editPlist(text string, edit func(plist.Dict) (bool, []string)) (string, []string, error) {
	doc, err := plist.Load([]byte(text))
	if err != nil {
		return text, nil, err
	}
	changed, warnings := edit(doc.Dict)
	if !changed {
		return text, warnings, nil
	}
	out, err := doc.Encode()
	if err != nil {
		return text, warnings, err
	}
	return string(out), warnings, nil
}

// ConfigureInfoPlist merges the background modes and, when bundleID is
// known, the BGTaskScheduler identifiers.
func ConfigureInfoPlist(d plist.Dict, bundleID string) (changed bool, warnings []string) {
	changed = d.MergeStringArray(KeyBackgroundModes, BackgroundModes...)
	if bundleID == "" {
		return changed, []string{"iOS bundleIdentifier is not defined; BGTask identifiers cannot be generated"}
	}
	if d.MergeStringArray(KeyBGTasks, BGTaskIdentifiers(bundleID)...) {
		changed = true
	}
	return changed, nil
}

// ConfigureEntitlements sets aps-environment and adds appGroup to the app
// groups, keeping the groups already listed.
func ConfigureEntitlements(d plist.Dict, apsEnvironment, appGroup string) bool {
	changed := d.SetString(KeyAPSEnvironment, apsEnvironment)
	if d.MergeStringArray(KeyAppGroups, appGroup) {
		changed = true
	}
	return changed
}

func (b *builder) infoPlist() {
	bundleID := b.bundleID()
	b.add(patchstep.NewTextStep(
		meta("ios:plist:info", "configure Info.plist background modes"),
		b.fs, b.at.infoPlist(),
		func(text string) (string, []string, error) {
			return editPlist(text, func(d plist.Dict) (bool, []string) { return ConfigureInfoPlist(d, bundleID) })
		},
	))
}

func (b *builder) entitlements() {
	aps := b.props.APSEnvironment()
	group := b.props.AppGroupID(b.bundleID())
	b.add(patchstep.NewTextStep(
		meta("ios:plist:entitlements", "configure entitlements for Mindbox"),
		b.fs, b.at.entitlements(),
		func(text string) (string, []string, error) {
			return editPlist(text, func(d plist.Dict) (bool, []string) {
				return ConfigureEntitlements(d, aps, group), nil
			})
		},
	).CreateMissing())
}
