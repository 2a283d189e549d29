package mocks

import (
	"context"
	"sync"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

// Entry is one recorded log call.
type Entry struct {
	Level  ports.Level
	Msg    string
	Fields map[string]interface{}
}

// Logger records every entry in memory. Loggers derived with With share
// the same record.
type Logger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  []ports.Field
	level   ports.Level
}

// NewLogger creates a recording logger at debug level.
func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, entries: &[]Entry{}, level: ports.LevelDebug}
}

// Context returns ctx carrying the logger.
func (l *Logger) Context(ctx context.Context) context.Context {
	return ports.ContextWithLogger(ctx, l)
}

func (l *Logger) record(level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}
	m := make(map[string]interface{}, len(l.fields)+len(fields))
	for _, f := range l.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, Entry{Level: level, Msg: msg, Fields: m})
}

// Debug records a debug entry.
func (l *Logger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelDebug, msg, fields)
}

// Info records an info entry.
func (l *Logger) Info(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelInfo, msg, fields)
}

// Warn records a warning entry.
func (l *Logger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelWarn, msg, fields)
}

// Error records an error entry.
func (l *Logger) Error(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelError, msg, fields)
}

// With returns a logger adding fields to every entry.
func (l *Logger) With(fields ...ports.Field) ports.Logger {
	return &Logger{
		mu:      l.mu,
		entries: l.entries,
		fields:  append(append([]ports.Field(nil), l.fields...), fields...),
		level:   l.level,
	}
}

// Level returns the minimum recorded level.
func (l *Logger) Level() ports.Level { return l.level }

// SetLevel sets the minimum recorded level.
func (l *Logger) SetLevel(level ports.Level) { l.level = level }

// Entries returns a copy of everything recorded.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), *l.entries...)
}

// Messages returns the messages recorded at level.
func (l *Logger) Messages(level ports.Level) []string {
	var out []string
	for _, e := range l.Entries() {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// Warnings returns the recorded warning messages.
func (l *Logger) Warnings() []string {
	return l.Messages(ports.LevelWarn)
}

var _ ports.Logger = (*Logger)(nil)
