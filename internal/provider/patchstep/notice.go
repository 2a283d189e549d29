package patchstep

import "github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"

// NoticeStep stands in for a change that cannot be made because an input
// is missing. It always reports StatusSkipped and logs why, so plan output
// still lists the operation.
type NoticeStep struct {
	base
	msg string
}

// NewNoticeStep creates a step that only warns with msg.
func NewNoticeStep(meta Meta, msg string) *NoticeStep {
	return &NoticeStep{base: base{meta: meta}, msg: msg}
}

// Check logs the notice.
func (s *NoticeStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	return s.skip(ctx, s.msg)
}

// Plan returns an empty diff.
func (s *NoticeStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.Diff{}, nil
}

// Apply does nothing.
func (s *NoticeStep) Apply(_ compiler.RunContext) error {
	return nil
}

var _ compiler.TolerantStep = (*NoticeStep)(nil)
