// Package mocks holds in-memory test doubles for the ports package.
package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// FileSystem is a thread-safe test double for ports.FileSystem.
// Paths are treated as slash separated; parents of added files count as
// directories.
type FileSystem struct {
	mu     sync.RWMutex
	files  map[string][]byte
	dirs   map[string]bool
	writes map[string]int
	failOn map[string]error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:  make(map[string][]byte),
		dirs:   make(map[string]bool),
		writes: make(map[string]int),
		failOn: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(p string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path.Clean(p)] = []byte(content)
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(p string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path.Clean(p)] = true
}

// FailWrite makes every WriteFile to p return err.
func (fs *FileSystem) FailWrite(p string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failOn[path.Clean(p)] = err
}

// Content returns the file content as a string, or "" when absent.
func (fs *FileSystem) Content(p string) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return string(fs.files[path.Clean(p)])
}

// WriteCount reports how many times p was written.
func (fs *FileSystem) WriteCount(p string) int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.writes[path.Clean(p)]
}

// TotalWrites reports the number of writes across all files.
func (fs *FileSystem) TotalWrites() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	total := 0
	for _, n := range fs.writes {
		total += n
	}
	return total
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(p string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path.Clean(p)]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(p string, data []byte, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	p = path.Clean(p)
	if err, ok := fs.failOn[p]; ok {
		return err
	}
	fs.files[p] = append([]byte(nil), data...)
	fs.writes[p]++
	return nil
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(p string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	p = path.Clean(p)
	if _, ok := fs.files[p]; ok {
		return true
	}
	return fs.isDirLocked(p)
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(p string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.isDirLocked(path.Clean(p))
}

func (fs *FileSystem) isDirLocked(p string) bool {
	if fs.dirs[p] {
		return true
	}
	prefix := p + "/"
	if p == "/" {
		prefix = "/"
	}
	for f := range fs.files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	for d := range fs.dirs {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

// Remove removes a file or directory entry from the mock filesystem.
func (fs *FileSystem) Remove(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	p = path.Clean(p)
	delete(fs.files, p)
	delete(fs.dirs, p)
	return nil
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(p string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path.Clean(p)] = true
	return nil
}

// FileHash returns a hash of a file in the mock filesystem.
func (fs *FileSystem) FileHash(p string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	content, ok := fs.files[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:]), nil
}

// Glob matches files and directories below root, including directories
// that only exist as parents of added files.
func (fs *FileSystem) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("glob %q: %w", pattern, doublestar.ErrBadPattern)
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	prefix := path.Clean(root) + "/"
	if prefix == "//" {
		prefix = "/"
	}
	seen := make(map[string]bool)
	var matches []string

	consider := func(p string) {
		if !strings.HasPrefix(p, prefix) {
			return
		}
		rel := strings.TrimPrefix(p, prefix)
		if seen[rel] {
			return
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			seen[rel] = true
			matches = append(matches, rel)
		}
	}

	for f := range fs.files {
		consider(f)
		for dir := path.Dir(f); dir != "/" && len(dir) >= len(prefix); dir = path.Dir(dir) {
			consider(dir)
		}
	}
	for d := range fs.dirs {
		consider(d)
	}

	sort.Strings(matches)
	return matches, nil
}

// Reset clears all files and directories.
func (fs *FileSystem) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files = make(map[string][]byte)
	fs.dirs = make(map[string]bool)
	fs.writes = make(map[string]int)
	fs.failOn = make(map[string]error)
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
