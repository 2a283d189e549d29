// Package logging holds the ports.Logger implementations: ConsoleLogger,
// which prints run output as text or JSON lines, and NopLogger for library
// callers and tests that want silence.
package logging

import (
	"context"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// NopLogger drops every entry. It still tracks a level so callers that
// consult Level keep working.
type NopLogger struct {
	level ports.Level
}

func NewNopLogger() *NopLogger { return &NopLogger{level: ports.LevelInfo} }

func (l *NopLogger) Debug(context.Context, string, ...ports.Field) {}
func (l *NopLogger) Info(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Error(context.Context, string, ...ports.Field) {}

// With returns l; there are no fields to keep.
func (l *NopLogger) With(...ports.Field) ports.Logger { return l }

func (l *NopLogger) Level() ports.Level { return l.level }

func (l *NopLogger) SetLevel(level ports.Level) { l.level = level }

var _ ports.Logger = (*NopLogger)(nil)
