package patchstep

import (
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/fileutil"
)

// Transform rewrites the content of one file. It returns its input
// unchanged when the change is already present. Warnings describe parts
// of the change that were skipped because their anchor is missing; an
// error wrapping anchor.ErrNotFound skips the whole step.
type Transform func(text string) (out string, warnings []string, err error)

// Strict adapts a transform without partial warnings.
func Strict(fn func(string) (string, error)) Transform {
	return func(text string) (string, []string, error) {
		out, err := fn(text)
		return out, nil, err
	}
}

// Pure adapts an infallible transform.
func Pure(fn func(string) string) Transform {
	return func(text string) (string, []string, error) {
		return fn(text), nil, nil
	}
}

// TextStep applies a Transform to a single file.
type TextStep struct {
	base
	fs        ports.FileSystem
	path      string
	transform Transform
	create    bool
}

// NewTextStep creates a step patching the file at path.
func NewTextStep(meta Meta, fs ports.FileSystem, path string, transform Transform) *TextStep {
	return &TextStep{base: base{meta: meta}, fs: fs, path: path, transform: transform}
}

// CreateMissing makes the step run its transform over empty content when
// the file does not exist, instead of skipping.
func (s *TextStep) CreateMissing() *TextStep {
	s.create = true
	return s
}

// Path returns the patched file.
func (s *TextStep) Path() string {
	return s.path
}

// Check determines whether the file already carries the change.
func (s *TextStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	in, exists, err := fileutil.Read(s.fs, s.path)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if !exists && !s.create {
		return s.skip(ctx, s.path+" not found")
	}

	out, warnings, err := s.transform(string(in))
	if err != nil {
		if structural(err) {
			return s.skip(ctx, fmt.Sprintf("%s: %v", s.path, err))
		}
		return compiler.StatusUnknown, fmt.Errorf("%s: %w", s.path, err)
	}
	for _, w := range warnings {
		ctx.Warn(s.meta.Summary, w, ports.F("file", s.path))
	}

	if exists && out == string(in) {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *TextStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	in, exists, err := fileutil.Read(s.fs, s.path)
	if err != nil {
		return compiler.Diff{}, err
	}
	out, _, err := s.transform(string(in))
	if err != nil {
		return compiler.Diff{}, fmt.Errorf("%s: %w", s.path, err)
	}

	diffType := compiler.DiffTypeModify
	if !exists {
		diffType = compiler.DiffTypeAdd
	}
	return compiler.NewDiff(diffType, s.meta.Resource, s.path, "", s.meta.Summary).
		WithDetail(addedLines(string(in), out)...), nil
}

// Apply re-reads the file, transforms it and writes the result when it
// differs.
func (s *TextStep) Apply(_ compiler.RunContext) error {
	in, _, err := fileutil.Read(s.fs, s.path)
	if err != nil {
		return err
	}
	out, _, err := s.transform(string(in))
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	_, err = fileutil.WriteIfChanged(s.fs, s.path, []byte(out))
	return err
}

var _ compiler.TolerantStep = (*TextStep)(nil)
