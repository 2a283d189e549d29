package android

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/gradle"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/manifest"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
	"github.com/mindbox-cloud/mindbox-config/internal/templates"
)

// maxSourceDepth bounds how deep below java/ and kotlin/ MainActivity is
// searched.
const maxSourceDepth = 10

var packageDecl = regexp.MustCompile(`(?m)^package\s+([a-zA-Z0-9_.]+)`)

// MainActivity is the located launcher activity.
type MainActivity struct {
	Dir     string
	Package string
}

// FindMainActivity searches java/ then kotlin/ under sourceRoots for a file
// named MainActivity.* and reads its package declaration.
func FindMainActivity(fs ports.FileSystem, sourceRoots ...string) (MainActivity, error) {
	for _, root := range sourceRoots {
		matches, err := fs.Glob(root, "**/MainActivity.*")
		if err != nil {
			return MainActivity{}, err
		}
		for _, rel := range matches {
			if strings.Count(rel, "/") > maxSourceDepth || path.Ext(rel) == "" {
				continue
			}
			full := filepath.Join(root, filepath.FromSlash(rel))
			if fs.IsDir(full) {
				continue
			}
			data, err := fs.ReadFile(full)
			if err != nil {
				return MainActivity{}, fmt.Errorf("read %s: %w", full, err)
			}
			if m := packageDecl.FindSubmatch(data); m != nil {
				return MainActivity{Dir: filepath.Dir(full), Package: string(m[1])}, nil
			}
		}
	}
	return MainActivity{}, fmt.Errorf("could not find MainActivity file or extract package name: %w", anchor.ErrNotFound)
}

func (b *builder) mainActivity() (MainActivity, error) {
	return FindMainActivity(b.fs, b.at.sources("java"), b.at.sources("kotlin"))
}

func (b *builder) expoNotification() {
	service := patchstep.NewWriteStepAt(
		tolerant(meta("android:expo:firebase-service", "copy "+FirebaseServiceFile)),
		b.fs,
		func() (string, error) {
			activity, err := b.mainActivity()
			if err != nil {
				return "", err
			}
			return filepath.Join(activity.Dir, FirebaseServiceFile), nil
		},
		func() ([]byte, error) {
			activity, err := b.mainActivity()
			if err != nil {
				return nil, err
			}
			return templates.FirebaseService(activity.Package)
		},
	).Trimmed()

	b.add(service,
		patchstep.NewTextStep(
			meta("android:expo:manifest-services", "add services to AndroidManifest.xml", service.ID()),
			b.fs, b.at.manifest(),
			patchstep.Strict(b.swapFirebaseService),
		),
		patchstep.NewTextStep(
			meta("android:expo:dependencies", "add Expo Notification dependencies to build.gradle"),
			b.fs, b.at.appGradle(),
			patchstep.Strict(func(text string) (string, error) { return gradle.AddDependencies(text, gradle.ExpoNotificationDependencies) }),
		),
	)
}

// swapFirebaseService removes the Expo messaging service from the merged
// manifest and registers the Mindbox one that forwards foreign pushes to it.
func (b *builder) swapFirebaseService(text string) (string, error) {
	activity, err := b.mainActivity()
	if err != nil {
		return text, err
	}
	if !b.fs.Exists(filepath.Join(activity.Dir, FirebaseServiceFile)) {
		return text, fmt.Errorf("service file not found, skipping manifest update: %w", anchor.ErrNotFound)
	}

	return editManifest(text, func(m *manifest.Manifest) (bool, error) {
		changed := m.EnsureToolsNamespace()
		removed, err := m.RemoveService(ExpoFirebaseMessagingService)
		if err != nil {
			return false, err
		}
		added, err := m.UpsertService(manifest.Service{
			Name:          activity.Package + "." + FirebaseServiceClass,
			Exported:      false,
			IntentActions: []string{MessagingEventAction},
		})
		if err != nil {
			return false, err
		}
		return changed || removed || added, nil
	})
}
