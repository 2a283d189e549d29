// Package patchstep provides the generic detect-then-patch steps the
// platform providers are assembled from: text patches over one file,
// file copies and generated-file writes. All of them write only when
// content changes and turn a missing anchor into a warning plus
// StatusSkipped.
package patchstep

import (
	"errors"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// Meta carries the identity shared by every step kind.
type Meta struct {
	ID        compiler.StepID
	DependsOn []compiler.StepID
	// Resource is the substrate named in diffs ("gradle", "manifest").
	Resource string
	// Summary names the operation in log lines and plan output.
	Summary string
	Detail  string
	// Tolerant downgrades check and apply errors to warnings.
	Tolerant bool
}

type base struct {
	meta Meta
}

// ID returns the step identifier.
func (b base) ID() compiler.StepID {
	return b.meta.ID
}

// DependsOn returns the step dependencies.
func (b base) DependsOn() []compiler.StepID {
	return append([]compiler.StepID(nil), b.meta.DependsOn...)
}

// Tolerant reports whether failures are downgraded to warnings.
func (b base) Tolerant() bool {
	return b.meta.Tolerant
}

// Explain provides a human-readable explanation.
func (b base) Explain(_ compiler.ExplainContext) compiler.Explanation {
	return compiler.NewExplanation(b.meta.Summary, b.meta.Detail, nil)
}

// skip logs why the step does nothing this run.
func (b base) skip(ctx compiler.RunContext, msg string) (compiler.StepStatus, error) {
	ctx.Warn(b.meta.Summary, msg, ports.F("step", b.meta.ID.String()))
	return compiler.StatusSkipped, nil
}

// structural reports whether err means the patched structure is absent.
func structural(err error) bool {
	return errors.Is(err, anchor.ErrNotFound)
}

// addedLines lists the non-blank lines of after that do not occur in
// before, for verbose plan output.
func addedLines(before, after string) []string {
	seen := make(map[string]int)
	for _, line := range strings.Split(before, "\n") {
		seen[line]++
	}
	var added []string
	for _, line := range strings.Split(after, "\n") {
		if seen[line] > 0 {
			seen[line]--
			continue
		}
		if strings.TrimSpace(line) != "" {
			added = append(added, line)
		}
	}
	return added
}
