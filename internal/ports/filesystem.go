package ports

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides the file operations the native-project mutators need.
// All paths are absolute or relative to the process working directory.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	FileHash(path string) (string, error)

	// Glob returns paths under root matching a doublestar pattern
	// (e.g. "**/MainActivity.{java,kt}"). Results are relative to root,
	// slash separated and sorted.
	Glob(root, pattern string) ([]string, error)
}

// ResolvePath resolves path against base unless it is already absolute.
// A leading "~/" is expanded to the user's home directory.
func ResolvePath(base, path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
