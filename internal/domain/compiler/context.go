package compiler

import (
	"context"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// RunContext provides context for step execution (Check, Plan, Apply).
type RunContext struct {
	ctx    context.Context
	dryRun bool
}

// NewRunContext creates a new RunContext with the given context.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{
		ctx:    ctx,
		dryRun: false,
	}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// WithDryRun returns a new RunContext with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	return RunContext{
		ctx:    r.ctx,
		dryRun: dryRun,
	}
}

// Logger returns the logger attached to the underlying context, or a
// discarding logger when none is attached.
func (r RunContext) Logger() ports.Logger {
	if logger := ports.LoggerFromContext(r.ctx); logger != nil {
		return logger
	}
	return discard{}
}

// Warn logs a structural-absence warning for operation.
func (r RunContext) Warn(operation, msg string, fields ...ports.Field) {
	r.Logger().Warn(r.ctx, msg, append([]ports.Field{ports.Op(operation)}, fields...)...)
}

// ExplainContext provides context for generating step explanations.
type ExplainContext struct {
	verbose bool
}

// NewExplainContext creates a new ExplainContext.
func NewExplainContext() ExplainContext {
	return ExplainContext{}
}

// Verbose returns whether verbose explanations are requested.
func (e ExplainContext) Verbose() bool {
	return e.verbose
}

// WithVerbose returns a new ExplainContext with verbose mode set.
func (e ExplainContext) WithVerbose(verbose bool) ExplainContext {
	e.verbose = verbose
	return e
}

type discard struct{}

func (discard) Debug(context.Context, string, ...ports.Field) {}
func (discard) Info(context.Context, string, ...ports.Field)  {}
func (discard) Warn(context.Context, string, ...ports.Field)  {}
func (discard) Error(context.Context, string, ...ports.Field) {}
func (d discard) With(...ports.Field) ports.Logger            { return d }
func (discard) Level() ports.Level                            { return ports.LevelError }
func (discard) SetLevel(ports.Level)                          {}
