package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mindbox-cloud/mindbox-config/internal/testutil"
)

// resetFlags restores every package-level flag variable.
func resetFlags() {
	cfgFile = ""
	verbose = false
	logFormat = "text"
	applyDryRun = false
	validateStrict = false
	credentialsFormat = "yaml"
	credentialsExtra = ""
	watchNoApply = false
}

// executeCommand runs the root command with args and returns stdout and
// stderr. Commands share global flag state, so these tests do not run in
// parallel.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// androidProject writes an Android project and a config enabling RuStore
// into a temp dir and returns the config path.
func androidProject(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	testutil.WriteFixtureToDir(t, dir, "project.build.gradle", "android/build.gradle")
	testutil.WriteFixtureToDir(t, dir, "gradle.properties", "android/gradle.properties")
	testutil.WriteFixtureToDir(t, dir, "app.build.gradle", "android/app/build.gradle")
	testutil.WriteFixtureToDir(t, dir, "AndroidManifest.xml", "android/app/src/main/AndroidManifest.xml")
	cfgPath = testutil.WriteTempFile(t, dir, "mindbox.yaml", `
project:
  bundleIdentifier: com.example.app
props:
  androidPushProviders: [rustore]
  rustoreProjectId: rustore-123
`)
	return dir, cfgPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Clean(path))
	require.NoError(t, err)
	return string(data)
}
