// Package app wires configuration loading, the native-project providers and
// the execution engine into the operations exposed by the CLI.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/mindbox-cloud/mindbox-config/internal/adapters/filesystem"
	"github.com/mindbox-cloud/mindbox-config/internal/adapters/logging"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/execution"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/android"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/ios"
)

// Mindbox is the application orchestrator.
type Mindbox struct {
	compiler *compiler.Compiler
	planner  *execution.Planner
	executor *execution.Executor
	loader   *config.Loader
	fs       ports.FileSystem
	logger   ports.Logger
	out      io.Writer
}

// New creates an orchestrator over the real file system.
func New(out io.Writer, logger ports.Logger) *Mindbox {
	return NewWithFileSystem(out, logger, filesystem.NewRealFileSystem())
}

// NewWithFileSystem creates an orchestrator over fs. A nil logger discards
// log output.
func NewWithFileSystem(out io.Writer, logger ports.Logger, fs ports.FileSystem) *Mindbox {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	comp := compiler.NewCompiler()
	comp.RegisterProvider(android.NewProvider(fs))
	comp.RegisterProvider(ios.NewProvider(fs))

	return &Mindbox{
		compiler: comp,
		planner:  execution.NewPlanner(),
		executor: execution.NewExecutor(),
		loader:   config.NewLoader(),
		fs:       fs,
		logger:   logger,
		out:      out,
	}
}

// WithLoader replaces the configuration loader.
func (m *Mindbox) WithLoader(loader *config.Loader) *Mindbox {
	m.loader = loader
	return m
}

// Load reads and validates the configuration at path. An empty path
// searches the working directory for a known config file name.
func (m *Mindbox) Load(path string) (*config.Config, error) {
	cfg, err := m.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if !m.fs.IsDir(cfg.Project.Root) {
		return nil, config.NewProjectNotFoundError(cfg.Project.Root)
	}
	return cfg, nil
}

// Session starts a run: the returned context carries a logger tagged with
// a fresh run id.
func (m *Mindbox) Session(ctx context.Context) (context.Context, string) {
	runID := uuid.NewString()
	logger := m.logger.With(ports.F("run_id", runID))
	return ports.ContextWithLogger(ctx, logger), runID
}

// Plan compiles cfg and checks every step against the project on disk.
func (m *Mindbox) Plan(ctx context.Context, cfg *config.Config) (*execution.Plan, error) {
	graph, err := m.compiler.Compile(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	plan, err := m.planner.Plan(ctx, graph)
	if err != nil {
		return nil, fmt.Errorf("failed to plan: %w", err)
	}
	return plan, nil
}

// Apply executes the plan. With dryRun nothing is written and steps that
// need changes are reported as such.
func (m *Mindbox) Apply(ctx context.Context, plan *execution.Plan, dryRun bool) ([]execution.StepResult, error) {
	return m.executor.WithDryRun(dryRun).Execute(ctx, plan)
}

// Run loads the configuration at path, plans and applies it in one
// session. It returns an error when loading fails or any step failed.
func (m *Mindbox) Run(ctx context.Context, path string, dryRun bool) ([]execution.StepResult, error) {
	cfg, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	ctx, runID := m.Session(ctx)
	logger := ports.LoggerFromContext(ctx)
	logger.Debug(ctx, "configuration loaded", ports.F("source", cfg.Source), ports.F("root", cfg.Project.Root))

	plan, err := m.Plan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	results, err := m.Apply(ctx, plan, dryRun)
	if err != nil {
		return results, err
	}

	summary := Summarize(results)
	logger.Info(ctx, "run finished",
		ports.F("applied", summary.Applied),
		ports.F("satisfied", summary.Satisfied),
		ports.F("skipped", summary.Skipped),
		ports.F("failed", summary.Failed))

	if execution.HasFailures(results) {
		return results, fmt.Errorf("run %s: %d step(s) failed", runID, summary.Failed)
	}
	return results, nil
}

// ResultSummary counts step results by outcome.
type ResultSummary struct {
	Applied    int
	Satisfied  int
	NeedsApply int
	Skipped    int
	Failed     int
}

// Summarize counts results by outcome. Applied steps are not counted as
// satisfied.
func Summarize(results []execution.StepResult) ResultSummary {
	var s ResultSummary
	for _, r := range results {
		switch {
		case r.Applied():
			s.Applied++
		case r.Status() == compiler.StatusSatisfied:
			s.Satisfied++
		case r.Status() == compiler.StatusNeedsApply:
			s.NeedsApply++
		case r.Status() == compiler.StatusFailed:
			s.Failed++
		default:
			s.Skipped++
		}
	}
	return s
}

func (m *Mindbox) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}
