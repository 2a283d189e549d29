// Package ios compiles the Mindbox property bag into the steps that patch
// a generated iOS project: Info.plist, entitlements, AppDelegate, Podfile,
// the notification extension sources and their Xcode targets.
package ios

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

// Provider implements the compiler.Provider interface for iOS.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new iOS provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ios"
}

// DiscoverProjectName returns the basename of the single *.xcodeproj
// directory under root, ignoring Pods.xcodeproj.
func DiscoverProjectName(fs ports.FileSystem, root string) (string, error) {
	matches, err := fs.Glob(root, "*.xcodeproj")
	if err != nil {
		return "", err
	}
	var names []string
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".xcodeproj")
		if name != "Pods" {
			names = append(names, name)
		}
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no .xcodeproj under %s: %w", root, anchor.ErrNotFound)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("several Xcode projects under %s (%s); set project.iosProjectName", root, strings.Join(names, ", "))
	}
}

type paths struct {
	project config.Project
}

func (x paths) root() string         { return x.project.IOSRoot() }
func (x paths) podfile() string      { return filepath.Join(x.root(), "Podfile") }
func (x paths) infoPlist() string    { return x.project.IOSSources("Info.plist") }
func (x paths) entitlements() string { return x.project.IOSSources(x.project.IOSProjectName + ".entitlements") }
func (x paths) pbxproj() string      { return filepath.Join(x.root(), x.project.IOSProjectName+".xcodeproj", "project.pbxproj") }
func (x paths) extension(ext Extension, elem ...string) string {
	return filepath.Join(append([]string{x.root(), ext.Name}, elem...)...)
}

// Compile transforms the property bag into iOS steps.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	project := ctx.Project()

	if !p.fs.IsDir(project.IOSRoot()) {
		return []compiler.Step{patchstep.NewNoticeStep(meta("ios:project", "configure iOS project"),
			"iOS project not found at "+project.IOSRoot()+", skipping iOS configuration")}, nil
	}
	if project.IOSProjectName == "" {
		name, err := DiscoverProjectName(p.fs, project.IOSRoot())
		if err != nil {
			return []compiler.Step{patchstep.NewNoticeStep(meta("ios:project", "configure iOS project"),
				err.Error()+", skipping iOS configuration")}, nil
		}
		project.IOSProjectName = name
	}

	b := &builder{fs: p.fs, at: paths{project: project}, props: ctx.Props()}
	b.infoPlist()
	b.entitlements()
	b.appDelegate()
	b.podfile()
	b.extensionFiles(Service)
	b.extensionFiles(Content)
	b.xcodeTarget(Service)
	b.xcodeTarget(Content)
	return b.steps, nil
}

type builder struct {
	fs    ports.FileSystem
	at    paths
	props config.Properties
	steps []compiler.Step
}

func (b *builder) add(steps ...compiler.Step) {
	b.steps = append(b.steps, steps...)
}

func (b *builder) bundleID() string {
	return b.at.project.BundleIdentifier
}

func meta(id, summary string, deps ...compiler.StepID) patchstep.Meta {
	stepID := compiler.MustNewStepID(id)
	return patchstep.Meta{
		ID:        stepID,
		DependsOn: deps,
		Resource:  stepID.Substrate(),
		Summary:   summary,
	}
}

func tolerant(m patchstep.Meta) patchstep.Meta {
	m.Tolerant = true
	return m
}
