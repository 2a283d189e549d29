package config

import (
	"path/filepath"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// Project locates the generated native projects.
type Project struct {
	Root             string `koanf:"root"`
	Android          string `koanf:"android"`
	IOS              string `koanf:"ios"`
	BundleIdentifier string `koanf:"bundleIdentifier"`
	IOSProjectName   string `koanf:"iosProjectName"`
	IOSAppDelegate   string `koanf:"iosAppDelegate"`
}

// AndroidRoot returns the absolute Android project directory.
func (p Project) AndroidRoot() string {
	return ports.ResolvePath(p.Root, p.Android)
}

// IOSRoot returns the absolute iOS project directory.
func (p Project) IOSRoot() string {
	return ports.ResolvePath(p.Root, p.IOS)
}

// Resolve resolves a property path (service files, icons, extension
// sources) against the app root.
func (p Project) Resolve(path string) string {
	return ports.ResolvePath(p.Root, path)
}

// AndroidApp returns the path of a file inside android/app.
func (p Project) AndroidApp(elem ...string) string {
	return filepath.Join(append([]string{p.AndroidRoot(), "app"}, elem...)...)
}

// IOSSources returns the path of a file inside ios/<ProjectName>.
func (p Project) IOSSources(elem ...string) string {
	return filepath.Join(append([]string{p.IOSRoot(), p.IOSProjectName}, elem...)...)
}

// Config is the fully loaded and validated configuration.
type Config struct {
	Project Project
	Props   Properties

	// Source is the config file the values came from; empty when the
	// configuration was assembled in code.
	Source string
}
