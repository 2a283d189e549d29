// Package fileutil holds the write-if-changed primitives every step uses
// so that re-running the pipeline never touches an up-to-date file.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Read returns the file content, or ok=false when it does not exist.
func Read(fs ports.FileSystem, path string) (data []byte, ok bool, err error) {
	data, err = fs.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}

// NeedsWrite reports whether path is missing or differs from content.
func NeedsWrite(fs ports.FileSystem, path string, content []byte) (bool, error) {
	current, ok, err := Read(fs, path)
	if err != nil || !ok {
		return !ok, err
	}
	return !bytes.Equal(current, content), nil
}

// WriteIfChanged writes content to path, creating parent directories, only
// when the existing bytes differ. It reports whether a write happened.
func WriteIfChanged(fs ports.FileSystem, path string, content []byte) (bool, error) {
	needs, err := NeedsWrite(fs, path, content)
	if err != nil || !needs {
		return false, err
	}
	return true, write(fs, path, content)
}

// SameTrimmed compares two contents ignoring leading and trailing
// whitespace.
func SameTrimmed(a, b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
}

// NeedsCopy reports whether dst is missing or its trimmed content differs
// from src.
func NeedsCopy(fs ports.FileSystem, src, dst string) (bool, error) {
	source, err := fs.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}
	return NeedsTrimmedWrite(fs, dst, source)
}

// NeedsTrimmedWrite reports whether path is missing or its trimmed content
// differs from content.
func NeedsTrimmedWrite(fs ports.FileSystem, path string, content []byte) (bool, error) {
	current, ok, err := Read(fs, path)
	if err != nil || !ok {
		return !ok, err
	}
	return !SameTrimmed(current, content), nil
}

// CopyIfChanged copies src to dst unless both match after trimming.
func CopyIfChanged(fs ports.FileSystem, src, dst string) (bool, error) {
	source, err := fs.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}
	return WriteIfTrimmedChanged(fs, dst, source)
}

// WriteIfTrimmedChanged writes content unless the existing file matches it
// after trimming.
func WriteIfTrimmedChanged(fs ports.FileSystem, path string, content []byte) (bool, error) {
	needs, err := NeedsTrimmedWrite(fs, path, content)
	if err != nil || !needs {
		return false, err
	}
	return true, write(fs, path, content)
}

func write(fs ports.FileSystem, path string, content []byte) error {
	if dir := filepath.Dir(path); !fs.IsDir(dir) {
		if err := fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := fs.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
