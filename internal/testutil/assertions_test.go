package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/mindbox-cloud/mindbox-config/internal/testutil/mocks"
)

func TestAssertFileContains(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/ios/Podfile", "pod 'Mindbox'\npod 'Mindbox'\n")

	AssertFileContains(t, fs, "/app/ios/Podfile", "pod 'Mindbox'")
	AssertFileNotContains(t, fs, "/app/ios/Podfile", "MindboxLogger")
	AssertOccurrences(t, fs, "/app/ios/Podfile", "pod 'Mindbox'", 2)
}

func TestAssertYAMLEquals(t *testing.T) {
	t.Parallel()

	AssertYAMLEquals(t, "a: 1\nb: [x, y]\n", "b:\n  - x\n  - y\na: 1\n")
}

func TestAssertEventually(t *testing.T) {
	t.Parallel()

	var ready atomic.Bool
	go func() {
		time.Sleep(10 * time.Millisecond)
		ready.Store(true)
	}()

	AssertEventually(t, ready.Load, time.Second, 5*time.Millisecond)
}
