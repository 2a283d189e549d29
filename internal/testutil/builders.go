package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/testutil/mocks"
)

// Defaults used by ProjectBuilder. They match the fixtures.
const (
	AppRoot     = "/app"
	BundleID    = "com.example.app"
	ProjectName = "ExampleApp"
)

// androidTree and iosTree map prebuild locations (relative to AppRoot) to fixtures.
var androidTree = map[string]string{
	"android/build.gradle":                                      "project.build.gradle",
	"android/gradle.properties":                                 "gradle.properties",
	"android/app/build.gradle":                                  "app.build.gradle",
	"android/app/src/main/AndroidManifest.xml":                  "AndroidManifest.xml",
	"android/app/src/main/java/com/example/app/MainActivity.kt": "MainActivity.kt",
}

var iosTree = map[string]string{
	"ios/Podfile":                              "Podfile",
	"ios/ExampleApp/AppDelegate.swift":         "AppDelegate.swift",
	"ios/ExampleApp/Info.plist":                "Info.plist",
	"ios/ExampleApp.xcodeproj/project.pbxproj": "project.pbxproj",
}

// ProjectBuilder seeds an in-memory file system with an Expo prebuild
// tree and builds the matching configuration.
type ProjectBuilder struct {
	t       testing.TB
	android bool
	ios     bool
	files   map[string]string
	project map[string]interface{}
	props   map[string]interface{}
}

// NewProject starts a builder with both native projects present.
func NewProject(t testing.TB) *ProjectBuilder {
	t.Helper()
	return &ProjectBuilder{
		t:       t,
		android: true,
		ios:     true,
		files:   map[string]string{},
		project: map[string]interface{}{
			"root":             AppRoot,
			"bundleIdentifier": BundleID,
			"iosProjectName":   ProjectName,
		},
		props: map[string]interface{}{},
	}
}

// WithoutAndroid leaves the android directory out.
func (b *ProjectBuilder) WithoutAndroid() *ProjectBuilder {
	b.android = false
	return b
}

// WithoutIOS leaves the ios directory out.
func (b *ProjectBuilder) WithoutIOS() *ProjectBuilder {
	b.ios = false
	return b
}

// WithFile adds or replaces a file, relative to AppRoot.
func (b *ProjectBuilder) WithFile(rel, content string) *ProjectBuilder {
	b.files[rel] = content
	return b
}

// WithFixture copies a fixture to a path relative to AppRoot.
func (b *ProjectBuilder) WithFixture(rel, fixture string) *ProjectBuilder {
	b.files[rel] = Fixture(b.t, fixture)
	return b
}

// WithProject sets a key of the project section.
func (b *ProjectBuilder) WithProject(key string, value interface{}) *ProjectBuilder {
	b.project[key] = value
	return b
}

// WithProp sets a plugin property.
func (b *ProjectBuilder) WithProp(key string, value interface{}) *ProjectBuilder {
	b.props[key] = value
	return b
}

// FileSystem returns a fresh file system holding the tree.
func (b *ProjectBuilder) FileSystem() *mocks.FileSystem {
	b.t.Helper()

	fs := mocks.NewFileSystem()
	seed := func(tree map[string]string) {
		for rel, fixture := range tree {
			fs.AddFile(Path(rel), Fixture(b.t, fixture))
		}
	}
	if b.android {
		seed(androidTree)
	}
	if b.ios {
		seed(iosTree)
	}
	for rel, content := range b.files {
		fs.AddFile(Path(rel), content)
	}
	return fs
}

// Config returns the validated configuration for the builder's values.
func (b *ProjectBuilder) Config() *config.Config {
	b.t.Helper()

	cfg, err := config.FromMap(b.Values(), AppRoot)
	require.NoError(b.t, err, "invalid test configuration")
	return cfg
}

// Values returns the configuration as a config-file shaped map.
func (b *ProjectBuilder) Values() map[string]interface{} {
	project := make(map[string]interface{}, len(b.project))
	for k, v := range b.project {
		project[k] = v
	}
	props := make(map[string]interface{}, len(b.props))
	for k, v := range b.props {
		props[k] = v
	}
	return map[string]interface{}{"project": project, "props": props}
}

// Build returns the file system and configuration together.
func (b *ProjectBuilder) Build() (*mocks.FileSystem, *config.Config) {
	b.t.Helper()
	return b.FileSystem(), b.Config()
}

// Path returns the absolute path of rel inside AppRoot.
func Path(rel string) string {
	return filepath.ToSlash(filepath.Join(AppRoot, rel))
}
