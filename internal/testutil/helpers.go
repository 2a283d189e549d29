// Package testutil provides fixtures and helpers for tests that run the
// native-project mutators against a prebuild tree.
package testutil

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file from the embedded fixtures directory.
func LoadFixture(t testing.TB, name string) []byte {
	t.Helper()

	content, err := fixturesFS.ReadFile(path.Join("fixtures", name))
	require.NoError(t, err, "failed to load fixture: %s", name)

	return content
}

// Fixture returns a fixture as a string.
func Fixture(t testing.TB, name string) string {
	t.Helper()
	return string(LoadFixture(t, name))
}

// LoadFixtureOrEmpty loads a fixture file or returns empty bytes if not found.
func LoadFixtureOrEmpty(name string) []byte {
	content, err := fixturesFS.ReadFile(path.Join("fixtures", name))
	if err != nil {
		return []byte{}
	}
	return content
}

// WriteTempFile writes content to dir/filename, creating parent
// directories.
func WriteTempFile(t testing.TB, dir, filename, content string) string {
	t.Helper()

	p := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "failed to create parent of %s", filename)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "failed to write temp file: %s", filename)

	return p
}

// WriteFixtureToDir writes a fixture file to dir/destName.
func WriteFixtureToDir(t testing.TB, dir, fixtureName, destName string) string {
	t.Helper()

	return WriteTempFile(t, dir, destName, Fixture(t, fixtureName))
}

// SetEnv sets an environment variable for the duration of the test.
func SetEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}
