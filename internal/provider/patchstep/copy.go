package patchstep

import (
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/fileutil"
)

// CopyStep copies a user-supplied file into the native project. Contents
// that match after trimming count as up to date.
type CopyStep struct {
	base
	fs      ports.FileSystem
	src     string
	dst     string
	missing string
}

// NewCopyStep creates a copy step. An empty src means the property was not
// provided; the step then logs missingMsg and is skipped.
func NewCopyStep(meta Meta, fs ports.FileSystem, src, dst, missingMsg string) *CopyStep {
	return &CopyStep{base: base{meta: meta}, fs: fs, src: src, dst: dst, missing: missingMsg}
}

// Check compares source and destination.
func (s *CopyStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if s.src == "" {
		return s.skip(ctx, s.missing)
	}
	if !s.fs.Exists(s.src) {
		return compiler.StatusUnknown, fmt.Errorf("source file %s does not exist", s.src)
	}
	needs, err := fileutil.NeedsCopy(s.fs, s.src, s.dst)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if needs {
		return compiler.StatusNeedsApply, nil
	}
	return compiler.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *CopyStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	diffType := compiler.DiffTypeAdd
	if s.fs.Exists(s.dst) {
		diffType = compiler.DiffTypeModify
	}
	return compiler.NewDiff(diffType, "file", s.dst, "", s.src), nil
}

// Apply copies the file.
func (s *CopyStep) Apply(_ compiler.RunContext) error {
	_, err := fileutil.CopyIfChanged(s.fs, s.src, s.dst)
	return err
}

var _ compiler.TolerantStep = (*CopyStep)(nil)
