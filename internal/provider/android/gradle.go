package android

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/gradle"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

// StarterDependencies returns the artifacts added to the app build.gradle
// for the enabled providers. The Firebase starter is left out when Expo
// notifications own Firebase messaging.
func StarterDependencies(props config.Properties) []gradle.Dependency {
	var deps []gradle.Dependency
	for _, provider := range props.PushProviders() {
		if provider == config.ProviderFirebase && props.UsedExpoNotification {
			continue
		}
		deps = append(deps, starter(provider))
	}
	if len(deps) == 0 {
		return nil
	}
	if props.WorkRuntimeWorkaround {
		deps = append([]gradle.Dependency{gradle.WorkRuntime}, deps...)
	}
	return deps
}

func (b *builder) dependencies() {
	deps := StarterDependencies(b.props)
	if len(deps) == 0 {
		return
	}
	depsStep := patchstep.NewTextStep(
		meta("android:gradle:mindbox-dependencies", "add Mindbox dependencies to build.gradle"),
		b.fs, b.at.appGradle(),
		patchstep.Strict(func(text string) (string, error) { return gradle.AddDependencies(text, deps) }),
	)
	b.add(depsStep,
		patchstep.NewTextStep(
			meta("android:properties:androidx", "enable AndroidX in gradle.properties", depsStep.ID()),
			b.fs, b.at.gradleProperties(),
			patchstep.Strict(EnableAndroidX),
		),
	)
}

var androidXLine = regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(AndroidXProperty) + `[ \t]*[=:].*$`)

// EnableAndroidX sets android.useAndroidX=true in a gradle.properties file,
// rewriting an existing assignment in place.
func EnableAndroidX(text string) (string, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      "=:",
	}, []byte(text))
	if err != nil {
		return text, fmt.Errorf("parse gradle.properties: %w", err)
	}

	key := cfg.Section(ini.DefaultSection).Key(AndroidXProperty)
	if strings.EqualFold(strings.TrimSpace(key.String()), "true") {
		return text, nil
	}

	line := AndroidXProperty + "=true"
	if androidXLine.MatchString(text) {
		return androidXLine.ReplaceAllString(text, line), nil
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + line + "\n", nil
}

func (b *builder) firebase() {
	b.add(
		patchstep.NewCopyStep(
			tolerant(meta("android:files:google-services", "copy google-services.json")),
			b.fs, b.resolve(b.props.GoogleServicesFilePath), b.at.app("google-services.json"),
			"googleServicesFilePath is not set. google-services.json will not be copied.",
		),
		classpathStep("android:gradle:google-services-classpath", "add google-services classpath to build.gradle",
			b, gradle.GoogleServicesClasspath, gradle.GoogleServicesClasspathMarker),
		pluginStep("android:gradle:google-services-plugin", "apply google-services plugin in app build.gradle",
			b, gradle.GoogleServicesPlugin, gradle.GoogleServicesPluginMarker),
	)
}

func (b *builder) rustore() {
	b.add(repositoryStep("android:gradle:rustore-repo", "add RuStore maven repository to build.gradle",
		b, gradle.RustoreMavenURL, gradle.RustoreMavenRepo))

	m := meta("android:manifest:rustore-project-id", "add RuStore project ID meta-data")
	if b.props.RustoreProjectID == "" {
		b.add(patchstep.NewNoticeStep(m, "rustoreProjectId is not set"))
		return
	}
	b.add(patchstep.NewTextStep(m, b.fs, b.at.manifest(), metaDataTransform(RustoreProjectIDMeta, func() (string, error) {
		return b.props.RustoreProjectID, nil
	})))
}

func repositoryStep(id, summary string, b *builder, url, line string) compiler.Step {
	return patchstep.NewTextStep(meta(id, summary), b.fs, b.at.projectGradle(),
		patchstep.Strict(func(text string) (string, error) { return gradle.AddMavenRepository(text, url, line) }))
}

func classpathStep(id, summary string, b *builder, line, marker string) compiler.Step {
	return patchstep.NewTextStep(meta(id, summary), b.fs, b.at.projectGradle(),
		patchstep.Strict(func(text string) (string, error) { return gradle.AddClasspathDependency(text, line, marker) }))
}

func pluginStep(id, summary string, b *builder, line, marker string) compiler.Step {
	return patchstep.NewTextStep(meta(id, summary), b.fs, b.at.appGradle(),
		patchstep.Pure(func(text string) string { return gradle.AddPlugin(text, line, marker) }))
}

// resolve turns a property path into an absolute one; empty stays empty.
func (b *builder) resolve(path string) string {
	if path == "" {
		return ""
	}
	return b.at.project.Resolve(path)
}
