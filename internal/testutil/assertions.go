package testutil

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// AssertFileContains asserts that the file at path contains expected.
func AssertFileContains(t testing.TB, fs ports.FileSystem, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := fs.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.Contains(t, string(content), expected, msgAndArgs...)
}

// AssertFileNotContains asserts that the file at path does not contain
// unexpected.
func AssertFileNotContains(t testing.TB, fs ports.FileSystem, path, unexpected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := fs.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.NotContains(t, string(content), unexpected, msgAndArgs...)
}

// AssertOccurrences asserts that substr appears exactly n times in the
// file. Idempotence tests use it to catch duplicated insertions.
func AssertOccurrences(t testing.TB, fs ports.FileSystem, path, substr string, n int) {
	t.Helper()

	content, err := fs.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	assert.Equal(t, n, strings.Count(string(content), substr), "occurrences of %q in %s", substr, path)
}

// AssertFileEquals asserts that a file on disk holds exactly expected.
func AssertFileEquals(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)

	actual := strings.ReplaceAll(string(content), "\r\n", "\n")
	expected = strings.ReplaceAll(expected, "\r\n", "\n")

	assert.Equal(t, expected, actual, msgAndArgs...)
}

// AssertYAMLEquals asserts that two YAML strings are semantically equal.
func AssertYAMLEquals(t testing.TB, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedMap, actualMap interface{}

	err := yaml.Unmarshal([]byte(expected), &expectedMap)
	require.NoError(t, err, "failed to parse expected YAML")

	err = yaml.Unmarshal([]byte(actual), &actualMap)
	require.NoError(t, err, "failed to parse actual YAML")

	assert.Equal(t, expectedMap, actualMap, msgAndArgs...)
}

// AssertEventually asserts that a condition becomes true within waitFor,
// polling every tick.
func AssertEventually(t testing.TB, condition func() bool, waitFor, tick time.Duration, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Eventually(t, condition, waitFor, tick, msgAndArgs...)
}
