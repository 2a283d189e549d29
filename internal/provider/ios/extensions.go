package ios

import (
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
	"github.com/mindbox-cloud/mindbox-config/internal/templates"
)

func filesID(ext Extension) string  { return "ios:files:" + ext.Short }
func targetID(ext Extension) string { return "ios:xcode:" + ext.Short + "-target" }

// customSource returns the configured source path for ext, or "".
func (b *builder) customSource(ext Extension) (prop, path string) {
	switch ext.Kind {
	case templates.ServiceExtension:
		return "iosNseFilePath", b.props.IOSNseFilePath
	default:
		return "iosNceFilePath", b.props.IOSNceFilePath
	}
}

// source returns the extension's Swift source: the configured file when
// one is set, the built-in template otherwise.
func (b *builder) source(ext Extension) patchstep.Render {
	prop, custom := b.customSource(ext)
	if custom == "" {
		return func() ([]byte, error) { return templates.ExtensionSource(ext.Kind) }
	}
	path := b.at.project.Resolve(custom)
	return func() ([]byte, error) {
		if !b.fs.Exists(path) {
			return nil, fmt.Errorf("%s %s not found: %w", prop, path, anchor.ErrNotFound)
		}
		return b.fs.ReadFile(path)
	}
}

func (b *builder) extensionFiles(ext Extension) {
	group := b.props.AppGroupID(b.bundleID())
	b.add(patchstep.NewBundleStep(
		meta(filesID(ext), "write "+ext.Name+" files"),
		b.fs, b.at.extension(ext),
		patchstep.File{Name: ext.Source, Render: b.source(ext)},
		patchstep.File{Name: "Info.plist", Render: func() ([]byte, error) { return templates.InfoPlist(ext.Kind, ext.Name) }},
		patchstep.File{Name: ext.Entitlements(), Render: func() ([]byte, error) { return templates.Entitlements(ext.Kind, group) }},
	))
}
