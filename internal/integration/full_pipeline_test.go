//go:build integration

package integration

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindbox-cloud/mindbox-config/internal/adapters/filesystem"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/execution"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/android"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/ios"
	"github.com/mindbox-cloud/mindbox-config/internal/testutil"
	"github.com/mindbox-cloud/mindbox-config/internal/testutil/mocks"
)

const fullConfig = `
project:
  bundleIdentifier: com.example.app
  iosProjectName: ExampleApp
props:
  androidPushProviders: [firebase, huawei, rustore]
  googleServicesFilePath: ./google-services.json
  huaweiServicesFilePath: ./agconnect-services.json
  rustoreProjectId: rustore-123
  androidChannelId: mindbox
  androidChannelName: Mindbox
  androidChannelDescription: Mindbox notifications
  smallIcon: ./assets/icon.png
  smallIconAccentColor: "#FF0000"
  usedExpoNotification: true
  nativeRequestPermission: true
  iosMode: production
  iosDevTeam: ABCDE12345
`

// prebuildTree writes a generated Android and iOS project plus the inputs
// fullConfig references.
func prebuildTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	fixtures := map[string]string{
		"android/build.gradle":                                      "project.build.gradle",
		"android/gradle.properties":                                 "gradle.properties",
		"android/app/build.gradle":                                  "app.build.gradle",
		"android/app/src/main/AndroidManifest.xml":                  "AndroidManifest.xml",
		"android/app/src/main/java/com/example/app/MainActivity.kt": "MainActivity.kt",
		"ios/Podfile":                                               "Podfile",
		"ios/ExampleApp/AppDelegate.swift":                          "AppDelegate.swift",
		"ios/ExampleApp/Info.plist":                                 "Info.plist",
		"ios/ExampleApp.xcodeproj/project.pbxproj":                  "project.pbxproj",
		"agconnect-services.json":                                   "agconnect-services.json",
	}
	for dest, fixture := range fixtures {
		testutil.WriteFixtureToDir(t, dir, fixture, dest)
	}
	testutil.WriteTempFile(t, dir, "google-services.json", `{"project_info": {"project_id": "example"}}`)
	testutil.WriteTempFile(t, dir, "assets/icon.png", "\x89PNG\r\n\x1a\n")
	testutil.WriteTempFile(t, dir, "mindbox.yaml", fullConfig)
	return dir
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func runPipeline(t *testing.T, dir string) (*execution.Plan, []execution.StepResult, *mocks.Logger) {
	t.Helper()

	cfg, err := config.NewLoader().WithEnv(false).Load(filepath.Join(dir, "mindbox.yaml"))
	require.NoError(t, err)

	realFS := filesystem.NewRealFileSystem()
	comp := compiler.NewCompiler()
	comp.RegisterProvider(android.NewProvider(realFS))
	comp.RegisterProvider(ios.NewProvider(realFS))

	graph, err := comp.Compile(*cfg)
	require.NoError(t, err)

	logger := mocks.NewLogger()
	ctx := logger.Context(context.Background())

	plan, err := execution.NewPlanner().Plan(ctx, graph)
	require.NoError(t, err)
	results, err := execution.NewExecutor().Execute(ctx, plan)
	require.NoError(t, err)
	return plan, results, logger
}

func TestFullPipeline_ConfiguresBothPlatforms(t *testing.T) {
	t.Parallel()

	dir := prebuildTree(t)

	plan, results, _ := runPipeline(t, dir)
	assert.True(t, plan.HasChanges())
	assert.False(t, execution.HasFailures(results))

	files := snapshotTree(t, dir)
	assert.Contains(t, files["android/app/google-services.json"], "example")
	assert.Contains(t, files["android/app/agconnect-services.json"], "client")
	assert.Contains(t, files["android/build.gradle"], "com.huawei.agconnect:agcp")
	assert.Contains(t, files["android/app/build.gradle"], "cloud.mindbox:mindbox-huawei-starter")
	assert.Contains(t, files["android/app/src/main/AndroidManifest.xml"], "com.huawei.hms.client.appid")
	assert.Contains(t, files["android/app/src/main/AndroidManifest.xml"], "MindboxExpoFirebaseService")
	assert.Contains(t, files["android/app/src/main/java/com/example/app/MindboxExpoFirebaseService.kt"], "package com.example.app")
	assert.Contains(t, files["android/app/src/main/res/values/strings.xml"], "Mindbox notifications")
	assert.Contains(t, files["android/app/src/main/res/values/colors.xml"], "#FF0000")
	assert.Contains(t, files["android/gradle.properties"], "android.useAndroidX=true")

	assert.Contains(t, files["ios/ExampleApp/Info.plist"], "cloud.MindBox.com.example.app.GDAppRefresh")
	assert.Contains(t, files["ios/ExampleApp/ExampleApp.entitlements"], "production")
	assert.Contains(t, files["ios/ExampleApp/AppDelegate.swift"], "NotificationCenterManager.shared")
	assert.Contains(t, files["ios/Podfile"], "target 'MindboxNotificationContentExtension' do")
	assert.Contains(t, files["ios/MindboxNotificationServiceExtension/NotificationService.swift"], "MindboxNotificationService")
	assert.Contains(t, files["ios/ExampleApp.xcodeproj/project.pbxproj"], "MindboxNotificationServiceExtension.appex")
	assert.Contains(t, files["ios/ExampleApp.xcodeproj/project.pbxproj"], "MindboxNotificationContentExtension.appex")
}

func TestFullPipeline_SecondRunIsNoOp(t *testing.T) {
	t.Parallel()

	dir := prebuildTree(t)

	_, results, _ := runPipeline(t, dir)
	require.False(t, execution.HasFailures(results))
	first := snapshotTree(t, dir)

	plan, results, _ := runPipeline(t, dir)
	assert.False(t, plan.HasChanges())
	for _, r := range results {
		assert.False(t, r.Applied(), r.StepID().String())
	}
	assert.Equal(t, first, snapshotTree(t, dir))
}

func TestFullPipeline_MissingInputsOnlyWarn(t *testing.T) {
	t.Parallel()

	dir := prebuildTree(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "google-services.json")))
	require.NoError(t, os.Remove(filepath.Join(dir, "ios/ExampleApp/AppDelegate.swift")))

	_, results, logger := runPipeline(t, dir)

	failed := 0
	for _, r := range results {
		if r.Status() == compiler.StatusFailed {
			failed++
		}
	}
	assert.Zero(t, failed)
	assert.NotEmpty(t, logger.Warnings())

	files := snapshotTree(t, dir)
	assert.NotContains(t, files, "android/app/google-services.json")
	assert.Contains(t, files["ios/Podfile"], "pod 'Mindbox'")
}
