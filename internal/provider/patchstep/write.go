package patchstep

import (
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/fileutil"
)

// Render produces the desired content of a generated file. Returning an
// error wrapping anchor.ErrNotFound skips the step with a warning.
type Render func() ([]byte, error)

// WriteStep writes a generated file when its content differs.
type WriteStep struct {
	base
	fs      ports.FileSystem
	path    func() (string, error)
	render  Render
	trimmed bool
}

// NewWriteStep creates a step that keeps path in sync with render.
func NewWriteStep(meta Meta, fs ports.FileSystem, path string, render Render) *WriteStep {
	return NewWriteStepAt(meta, fs, func() (string, error) { return path, nil }, render)
}

// NewWriteStepAt is NewWriteStep for a destination that is only known
// once the project is inspected (e.g. next to MainActivity).
func NewWriteStepAt(meta Meta, fs ports.FileSystem, path func() (string, error), render Render) *WriteStep {
	return &WriteStep{base: base{meta: meta}, fs: fs, path: path, render: render}
}

// Trimmed makes the comparison ignore surrounding whitespace.
func (s *WriteStep) Trimmed() *WriteStep {
	s.trimmed = true
	return s
}

func (s *WriteStep) resolve() (string, []byte, error) {
	path, err := s.path()
	if err != nil {
		return "", nil, err
	}
	content, err := s.render()
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return path, content, nil
}

func (s *WriteStep) needsWrite(path string, content []byte) (bool, error) {
	if s.trimmed {
		return fileutil.NeedsTrimmedWrite(s.fs, path, content)
	}
	return fileutil.NeedsWrite(s.fs, path, content)
}

// Check compares the rendered content with the file on disk.
func (s *WriteStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	path, content, err := s.resolve()
	if err != nil {
		if structural(err) {
			return s.skip(ctx, err.Error())
		}
		return compiler.StatusUnknown, err
	}
	needs, err := s.needsWrite(path, content)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if needs {
		return compiler.StatusNeedsApply, nil
	}
	return compiler.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *WriteStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	path, content, err := s.resolve()
	if err != nil {
		return compiler.Diff{}, err
	}
	diffType := compiler.DiffTypeAdd
	if s.fs.Exists(path) {
		diffType = compiler.DiffTypeModify
	}
	return compiler.NewDiff(diffType, s.meta.Resource, path, "", s.meta.Summary).
		WithDetail(fmt.Sprintf("%d bytes", len(content))), nil
}

// Apply writes the file.
func (s *WriteStep) Apply(_ compiler.RunContext) error {
	path, content, err := s.resolve()
	if err != nil {
		return err
	}
	if s.trimmed {
		_, err = fileutil.WriteIfTrimmedChanged(s.fs, path, content)
	} else {
		_, err = fileutil.WriteIfChanged(s.fs, path, content)
	}
	return err
}

var _ compiler.TolerantStep = (*WriteStep)(nil)
