package xcodeproj

import (
	"errors"
	"fmt"
	"path"
	"slices"

	"github.com/felixgeelhaar/statekit"
	"golang.org/x/mod/semver"
)

// Stages of extension target creation.
const (
	StageStart          = "start"
	StageCreateGroup    = "create_group"
	StageCreateTarget   = "create_target"
	StageAddBuildPhases = "add_build_phases"
	StageAddFrameworks  = "add_frameworks"
	StageAddSources     = "add_source_files"
	StageBuildSettings  = "set_build_settings"
	StageEmbed          = "embed_in_app_target"
	StageDone           = "done"
	StageFailed         = "failed"
)

const (
	eventNext   = "NEXT"
	eventExists = "EXISTS"
	eventFail   = "FAIL"
)

// PluginsFolderSpec is the copy-files destination for app extensions.
const PluginsFolderSpec = "13"

// EmbedPhaseName names the copy-files phase created on the app target.
const EmbedPhaseName = "Embed Foundation Extensions"

const buildActionMask = "2147483647"

var errTargetExists = errors.New("target exists")

// ExtensionTarget describes an app extension target to synthesize. File
// names are relative to the extension's group folder, which is named after
// the target.
type ExtensionTarget struct {
	Name             string
	BundleID         string
	Sources          []string
	InfoPlist        string
	Entitlements     string
	Frameworks       []string
	DeploymentTarget string
	DevelopmentTeam  string
	SwiftVersion     string
}

// Result reports what AddExtensionTarget did.
type Result struct {
	// Project is the graph to persist. It is the input project when nothing
	// changed or the build failed.
	Project  *Project
	Created  bool
	TargetID string
	Stages   []string
	Warnings []string
}

type builderContext struct {
	Target string
}

type targetBuilder struct {
	p   *Project
	ext ExtensionTarget

	groupID    string
	targetID   string
	productRef string
	sources    string
	resources  string
	frameworks string

	warnings []string
}

// AddExtensionTarget creates ext inside a copy of p and wires it into the
// app target. A target with the same name makes the call a no-op. On error
// the returned Result still carries the untouched input project.
func AddExtensionTarget(p *Project, ext ExtensionTarget) (Result, error) {
	if id, ok := p.TargetByName(ext.Name); ok {
		return Result{Project: p, TargetID: id, Stages: []string{StageStart}}, nil
	}

	b := &targetBuilder{p: p.Clone(), ext: ext}
	stages, err := b.run()
	if err != nil {
		return Result{Project: p, Stages: stages}, fmt.Errorf("add target %s: %w", ext.Name, err)
	}
	return Result{
		Project:  b.p,
		Created:  true,
		TargetID: b.targetID,
		Stages:   stages,
		Warnings: b.warnings,
	}, nil
}

func buildMachine(target string) (*statekit.Interpreter[builderContext], error) {
	machine, err := statekit.NewMachine[builderContext]("extension-target").
		WithInitial(StageStart).
		WithContext(builderContext{Target: target}).
		State(StageStart).
		On(eventNext).Target(StageCreateGroup).
		On(eventExists).Target(StageDone).
		On(eventFail).Target(StageFailed).Done().
		State(StageCreateGroup).
		On(eventNext).Target(StageCreateTarget).
		On(eventFail).Target(StageFailed).Done().
		State(StageCreateTarget).
		On(eventNext).Target(StageAddBuildPhases).
		On(eventFail).Target(StageFailed).Done().
		State(StageAddBuildPhases).
		On(eventNext).Target(StageAddFrameworks).
		On(eventFail).Target(StageFailed).Done().
		State(StageAddFrameworks).
		On(eventNext).Target(StageAddSources).
		On(eventFail).Target(StageFailed).Done().
		State(StageAddSources).
		On(eventNext).Target(StageBuildSettings).
		On(eventFail).Target(StageFailed).Done().
		State(StageBuildSettings).
		On(eventNext).Target(StageEmbed).
		On(eventFail).Target(StageFailed).Done().
		State(StageEmbed).
		On(eventNext).Target(StageDone).
		On(eventFail).Target(StageFailed).Done().
		State(StageDone).Done().
		State(StageFailed).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

func (b *targetBuilder) run() ([]string, error) {
	interp, err := buildMachine(b.ext.Name)
	if err != nil {
		return nil, fmt.Errorf("build state machine: %w", err)
	}
	interp.Start()
	defer interp.Stop()

	stages := map[string]func() error{
		StageStart:          b.start,
		StageCreateGroup:    b.createGroup,
		StageCreateTarget:   b.createTarget,
		StageAddBuildPhases: b.addBuildPhases,
		StageAddFrameworks:  b.addFrameworks,
		StageAddSources:     b.addSources,
		StageBuildSettings:  b.setBuildSettings,
		StageEmbed:          b.embedInAppTarget,
	}

	var visited []string
	var failure error
	for range len(stages) + 1 {
		state := string(interp.State().Value)
		switch state {
		case StageDone:
			return visited, nil
		case StageFailed:
			return visited, failure
		}

		visited = append(visited, state)
		stage, ok := stages[state]
		if !ok {
			return visited, fmt.Errorf("unknown stage %q", state)
		}

		event := eventNext
		if err := stage(); err != nil {
			if errors.Is(err, errTargetExists) {
				event = eventExists
			} else {
				failure = fmt.Errorf("%s: %w", state, err)
				event = eventFail
			}
		}
		interp.Send(statekit.Event{Type: statekit.EventType(event)})
	}
	return visited, fmt.Errorf("stage machine did not finish after %v", visited)
}

func (b *targetBuilder) start() error {
	if _, ok := b.p.TargetByName(b.ext.Name); ok {
		return errTargetExists
	}
	if b.ext.Name == "" {
		return errors.New("target name is empty")
	}
	_, err := b.p.AppTarget()
	return err
}

func (b *targetBuilder) createGroup() error {
	mainID, err := b.p.MainGroup()
	if err != nil {
		return err
	}
	main := b.p.objects[mainID]
	for _, child := range main.Strings("children") {
		if obj := b.p.objects[child]; obj.ISA() == ISAGroup && obj.String("path") == b.ext.Name {
			b.groupID = child
			return nil
		}
	}
	b.groupID = b.p.Add(Object{
		"isa":        ISAGroup,
		"children":   []interface{}{},
		"path":       b.ext.Name,
		"sourceTree": sourceTreeGroup,
	})
	main.AppendUnique("children", b.groupID)
	return nil
}

func (b *targetBuilder) createTarget() error {
	b.productRef = b.p.Add(Object{
		"isa":              ISAFileReference,
		"explicitFileType": FileTypeAppExtension,
		"includeInIndex":   "0",
		"path":             b.ext.Name + ".appex",
		"sourceTree":       sourceTreeBuiltProductDir,
	})
	if products, ok := b.p.objects[b.p.Root().String("productRefGroup")]; ok {
		products.AppendUnique("children", b.productRef)
	}

	var configs []interface{}
	for _, name := range b.configurationNames() {
		configs = append(configs, b.p.Add(Object{
			"isa":           ISABuildConfiguration,
			"buildSettings": map[string]interface{}{},
			"name":          name,
		}))
	}
	list := b.p.Add(Object{
		"isa":                           ISAConfigurationList,
		"buildConfigurations":           configs,
		"defaultConfigurationIsVisible": "0",
		"defaultConfigurationName":      "Release",
	})

	b.targetID = b.p.Add(Object{
		"isa":                    ISANativeTarget,
		"buildConfigurationList": list,
		"buildPhases":            []interface{}{},
		"buildRules":             []interface{}{},
		"dependencies":           []interface{}{},
		"name":                   b.ext.Name,
		"productName":            b.ext.Name,
		"productReference":       b.productRef,
		"productType":            ProductTypeAppExtension,
	})
	b.p.Root().AppendUnique("targets", b.targetID)
	return nil
}

// configurationNames mirrors the app target's configurations so every
// scheme configuration builds the extension too.
func (b *targetBuilder) configurationNames() []string {
	app, err := b.p.AppTarget()
	if err == nil {
		var names []string
		for _, cfg := range b.p.configurations(app) {
			names = append(names, cfg.String("name"))
		}
		if len(names) > 0 {
			return names
		}
	}
	return []string{"Debug", "Release"}
}

func (b *targetBuilder) newPhase(isa string) string {
	id := b.p.Add(Object{
		"isa":                                isa,
		"buildActionMask":                    buildActionMask,
		"files":                              []interface{}{},
		"runOnlyForDeploymentPostprocessing": "0",
	})
	b.p.objects[b.targetID].AppendUnique("buildPhases", id)
	return id
}

func (b *targetBuilder) addBuildPhases() error {
	b.sources = b.newPhase(ISASourcesBuildPhase)
	b.frameworks = b.newPhase(ISAFrameworksBuildPhase)
	b.resources = b.newPhase(ISAResourcesBuildPhase)
	return nil
}

func (b *targetBuilder) addBuildFile(phaseID, fileRef string, settings map[string]interface{}) {
	obj := Object{"isa": ISABuildFile, "fileRef": fileRef}
	if settings != nil {
		obj["settings"] = settings
	}
	b.p.objects[phaseID].AppendUnique("files", b.p.Add(obj))
}

func (b *targetBuilder) addFrameworks() error {
	for _, fw := range b.ext.Frameworks {
		file := fw + ".framework"
		frameworkPath := path.Join("System/Library/Frameworks", file)

		ref := ""
		for _, id := range b.p.IDsByISA(ISAFileReference) {
			if b.p.objects[id].String("path") == frameworkPath {
				ref = id
				break
			}
		}
		if ref == "" {
			ref = b.p.Add(Object{
				"isa":               ISAFileReference,
				"lastKnownFileType": "wrapper.framework",
				"name":              file,
				"path":              frameworkPath,
				"sourceTree":        sourceTreeSDK,
			})
			b.frameworksGroup().AppendUnique("children", ref)
		}
		b.addBuildFile(b.frameworks, ref, nil)
	}
	return nil
}

func (b *targetBuilder) frameworksGroup() Object {
	main, _ := b.p.MainGroup()
	for _, child := range b.p.objects[main].Strings("children") {
		if obj := b.p.objects[child]; obj.ISA() == ISAGroup && obj.String("name") == "Frameworks" {
			return obj
		}
	}
	return b.p.objects[b.groupID]
}

func (b *targetBuilder) groupFile(name, fileType string) string {
	group := b.p.objects[b.groupID]
	for _, child := range group.Strings("children") {
		if b.p.objects[child].String("path") == name {
			return child
		}
	}
	id := b.p.Add(Object{
		"isa":               ISAFileReference,
		"lastKnownFileType": fileType,
		"path":              name,
		"sourceTree":        sourceTreeGroup,
	})
	group.AppendUnique("children", id)
	return id
}

func (b *targetBuilder) addSources() error {
	if len(b.ext.Sources) == 0 {
		return errors.New("no source files")
	}
	for _, src := range b.ext.Sources {
		b.addBuildFile(b.sources, b.groupFile(src, fileTypeFor(src)), nil)
	}
	if b.ext.InfoPlist != "" {
		b.groupFile(b.ext.InfoPlist, "text.plist.xml")
	}
	if b.ext.Entitlements != "" {
		b.groupFile(b.ext.Entitlements, "text.plist.entitlements")
	}
	return nil
}

func fileTypeFor(name string) string {
	switch path.Ext(name) {
	case ".swift":
		return "sourcecode.swift"
	case ".m":
		return "sourcecode.c.objc"
	case ".h":
		return "sourcecode.c.h"
	case ".storyboard":
		return "file.storyboard"
	default:
		return "text"
	}
}

// Settings returns the build settings applied to every configuration of
// the extension target.
func (ext ExtensionTarget) Settings() map[string]string {
	settings := map[string]string{
		"PRODUCT_NAME":                   ext.Name,
		"PRODUCT_BUNDLE_IDENTIFIER":      ext.BundleID,
		"SWIFT_VERSION":                  ext.SwiftVersion,
		"IPHONEOS_DEPLOYMENT_TARGET":     ext.DeploymentTarget,
		"APPLICATION_EXTENSION_API_ONLY": "YES",
		"SKIP_INSTALL":                   "YES",
		"TARGETED_DEVICE_FAMILY":         "1,2",
	}
	if ext.InfoPlist != "" {
		settings["INFOPLIST_FILE"] = path.Join(ext.Name, ext.InfoPlist)
	}
	if ext.Entitlements != "" {
		settings["CODE_SIGN_ENTITLEMENTS"] = path.Join(ext.Name, ext.Entitlements)
	}
	if ext.DevelopmentTeam != "" {
		settings["DEVELOPMENT_TEAM"] = ext.DevelopmentTeam
	}
	for k, v := range settings {
		if v == "" {
			delete(settings, k)
		}
	}
	return settings
}

func (b *targetBuilder) setBuildSettings() error {
	configs := b.p.configurations(b.targetID)
	if len(configs) == 0 {
		return fmt.Errorf("target has no build configurations: %w", ErrMalformed)
	}
	for _, cfg := range configs {
		bs := cfg.Dict("buildSettings")
		for key, value := range b.ext.Settings() {
			bs[key] = Unquote(value)
		}
	}

	if w := b.deploymentTargetWarning(); w != "" {
		b.warnings = append(b.warnings, w)
	}
	return nil
}

func (b *targetBuilder) deploymentTargetWarning() string {
	app, err := b.p.AppTarget()
	if err != nil || b.ext.DeploymentTarget == "" {
		return ""
	}
	for _, name := range b.configurationNames() {
		appTarget, ok := b.p.BuildSetting(app, name, "IPHONEOS_DEPLOYMENT_TARGET")
		if !ok {
			continue
		}
		if CompareVersions(b.ext.DeploymentTarget, appTarget) < 0 {
			return fmt.Sprintf("%s deployment target %s is lower than the app's %s",
				b.ext.Name, b.ext.DeploymentTarget, appTarget)
		}
	}
	return ""
}

// CompareVersions compares dotted iOS versions ("15.1") and returns -1, 0
// or +1. Invalid versions sort before valid ones.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

func (b *targetBuilder) embedInAppTarget() error {
	appID, err := b.p.AppTarget()
	if err != nil {
		return err
	}
	app := b.p.objects[appID]

	phaseID := ""
	for _, id := range app.Strings("buildPhases") {
		obj := b.p.objects[id]
		if obj.ISA() == ISACopyFilesBuildPhase && obj.String("dstSubfolderSpec") == PluginsFolderSpec {
			phaseID = id
			break
		}
	}
	if phaseID == "" {
		phaseID = b.p.Add(Object{
			"isa":                                ISACopyFilesBuildPhase,
			"buildActionMask":                    buildActionMask,
			"dstPath":                            "",
			"dstSubfolderSpec":                   PluginsFolderSpec,
			"files":                              []interface{}{},
			"name":                               EmbedPhaseName,
			"runOnlyForDeploymentPostprocessing": "0",
		})
		app.AppendUnique("buildPhases", phaseID)
	}
	b.addBuildFile(phaseID, b.productRef, map[string]interface{}{
		"ATTRIBUTES": []interface{}{"RemoveHeadersOnCopy"},
	})

	proxy := b.p.Add(Object{
		"isa":                  ISAContainerItemProxy,
		"containerPortal":      b.p.RootID(),
		"proxyType":            "1",
		"remoteGlobalIDString": b.targetID,
		"remoteInfo":           b.ext.Name,
	})
	dependency := b.p.Add(Object{
		"isa":         ISATargetDependency,
		"target":      b.targetID,
		"targetProxy": proxy,
	})
	app.AppendUnique("dependencies", dependency)

	if b.ext.DevelopmentTeam != "" {
		attrs := b.p.Root().Dict("attributes")
		targetAttrs, _ := attrs["TargetAttributes"].(map[string]interface{})
		if targetAttrs == nil {
			targetAttrs = map[string]interface{}{}
			attrs["TargetAttributes"] = targetAttrs
		}
		targetAttrs[b.targetID] = map[string]interface{}{"DevelopmentTeam": b.ext.DevelopmentTeam}
	}
	return nil
}

// HasEmbeddedProduct reports whether the app target copies product into
// its plugins folder.
func (p *Project) HasEmbeddedProduct(product string) bool {
	appID, err := p.AppTarget()
	if err != nil {
		return false
	}
	for _, id := range p.objects[appID].Strings("buildPhases") {
		phase := p.objects[id]
		if phase.ISA() != ISACopyFilesBuildPhase || phase.String("dstSubfolderSpec") != PluginsFolderSpec {
			continue
		}
		if slices.ContainsFunc(phase.Strings("files"), func(file string) bool {
			return p.objects[p.objects[file].String("fileRef")].String("path") == product
		}) {
			return true
		}
	}
	return false
}
