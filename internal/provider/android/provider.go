// Package android compiles the Mindbox property bag into the steps that
// patch a generated Android project: Gradle scripts, gradle.properties,
// AndroidManifest.xml, value resources and copied service files.
package android

import (
	"path/filepath"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

// Provider implements the compiler.Provider interface for Android.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new Android provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "android"
}

// paths locates the files the steps patch.
type paths struct {
	project config.Project
}

func (x paths) root() string               { return x.project.AndroidRoot() }
func (x paths) projectGradle() string      { return filepath.Join(x.root(), "build.gradle") }
func (x paths) gradleProperties() string   { return filepath.Join(x.root(), "gradle.properties") }
func (x paths) appGradle() string          { return x.project.AndroidApp("build.gradle") }
func (x paths) manifest() string           { return x.project.AndroidApp("src", "main", "AndroidManifest.xml") }
func (x paths) res(elem ...string) string  { return x.project.AndroidApp(append([]string{"src", "main", "res"}, elem...)...) }
func (x paths) app(name string) string     { return x.project.AndroidApp(name) }
func (x paths) sources(lang string) string { return x.project.AndroidApp("src", "main", lang) }

// Compile transforms the property bag into Android steps, in the order the
// changes are made.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	project := ctx.Project()
	props := ctx.Props()
	at := paths{project: project}

	if !p.fs.IsDir(at.root()) {
		return []compiler.Step{patchstep.NewNoticeStep(meta("android:project", "configure Android project"),
			"Android project not found at "+at.root()+", skipping Android configuration")}, nil
	}

	b := &builder{fs: p.fs, at: at, props: props}
	b.dependencies()
	if props.HasPushProvider(config.ProviderFirebase) {
		b.firebase()
	}
	if props.HasPushProvider(config.ProviderHuawei) {
		b.huawei()
	}
	if props.HasPushProvider(config.ProviderRustore) {
		b.rustore()
	}
	b.resources()
	if props.UsedExpoNotification {
		b.expoNotification()
	}
	return b.steps, nil
}

// builder accumulates the steps of one compilation.
type builder struct {
	fs    ports.FileSystem
	at    paths
	props config.Properties
	steps []compiler.Step
}

func (b *builder) add(steps ...compiler.Step) {
	b.steps = append(b.steps, steps...)
}

func meta(id, summary string, deps ...compiler.StepID) patchstep.Meta {
	return patchstep.Meta{
		ID:        compiler.MustNewStepID(id),
		DependsOn: deps,
		Resource:  resourceOf(id),
		Summary:   summary,
	}
}

func tolerant(m patchstep.Meta) patchstep.Meta {
	m.Tolerant = true
	return m
}

func resourceOf(id string) string {
	return compiler.MustNewStepID(id).Substrate()
}
