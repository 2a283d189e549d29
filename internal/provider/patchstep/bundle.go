package patchstep

import (
	"fmt"
	"path/filepath"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/fileutil"
)

// File is one member of a BundleStep.
type File struct {
	Name   string // relative to the bundle directory
	Render Render
}

// BundleStep writes a directory of generated files as one unit, e.g. an
// app extension's source, Info.plist and entitlements.
type BundleStep struct {
	base
	fs    ports.FileSystem
	dir   string
	files []File
}

// NewBundleStep creates a step writing files below dir.
func NewBundleStep(meta Meta, fs ports.FileSystem, dir string, files ...File) *BundleStep {
	return &BundleStep{base: base{meta: meta}, fs: fs, dir: dir, files: files}
}

// Dir returns the bundle directory.
func (s *BundleStep) Dir() string {
	return s.dir
}

type rendered struct {
	path    string
	content []byte
}

func (s *BundleStep) render() ([]rendered, error) {
	out := make([]rendered, 0, len(s.files))
	for _, f := range s.files {
		path := filepath.Join(s.dir, f.Name)
		content, err := f.Render()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, rendered{path: path, content: content})
	}
	return out, nil
}

// stale returns the rendered files whose content differs from disk.
func (s *BundleStep) stale() ([]rendered, error) {
	files, err := s.render()
	if err != nil {
		return nil, err
	}
	var out []rendered
	for _, f := range files {
		needs, err := fileutil.NeedsWrite(s.fs, f.path, f.content)
		if err != nil {
			return nil, err
		}
		if needs {
			out = append(out, f)
		}
	}
	return out, nil
}

// Check reports whether any member needs writing.
func (s *BundleStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	stale, err := s.stale()
	if err != nil {
		if structural(err) {
			return s.skip(ctx, err.Error())
		}
		return compiler.StatusUnknown, err
	}
	if len(stale) == 0 {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan lists the files that will be written.
func (s *BundleStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	stale, err := s.stale()
	if err != nil {
		return compiler.Diff{}, err
	}
	diffType := compiler.DiffTypeAdd
	if s.fs.IsDir(s.dir) {
		diffType = compiler.DiffTypeModify
	}
	detail := make([]string, len(stale))
	for i, f := range stale {
		detail[i] = filepath.Base(f.path)
	}
	return compiler.NewDiff(diffType, s.meta.Resource, s.dir, "", s.meta.Summary).WithDetail(detail...), nil
}

// Apply writes the stale members. Nothing is written when any member
// fails to render.
func (s *BundleStep) Apply(_ compiler.RunContext) error {
	stale, err := s.stale()
	if err != nil {
		return err
	}
	for _, f := range stale {
		if _, err := fileutil.WriteIfChanged(s.fs, f.path, f.content); err != nil {
			return err
		}
	}
	return nil
}

var _ compiler.TolerantStep = (*BundleStep)(nil)
