package compiler

import "github.com/mindbox-cloud/mindbox-config/internal/domain/config"

// Provider compiles the configuration into the steps for one platform.
type Provider interface {
	// Name returns the provider's identifier (e.g., "android", "ios").
	Name() string

	// Compile transforms configuration into a list of steps.
	// Steps are returned in pipeline order; cross-step file dependencies
	// are expressed through Step.DependsOn().
	Compile(ctx CompileContext) ([]Step, error)
}

// CompileContext provides configuration data to providers during compilation.
type CompileContext struct {
	project config.Project
	props   config.Properties
}

// NewCompileContext creates a new CompileContext from a loaded configuration.
func NewCompileContext(cfg config.Config) CompileContext {
	return CompileContext{
		project: cfg.Project,
		props:   cfg.Props,
	}
}

// Project returns the native project locations.
func (c CompileContext) Project() config.Project {
	return c.project
}

// Props returns a copy of the validated property bag.
func (c CompileContext) Props() config.Properties {
	return c.props
}

// WithProject returns a new CompileContext with the project replaced,
// e.g. after discovering the Xcode project name.
func (c CompileContext) WithProject(project config.Project) CompileContext {
	return CompileContext{
		project: project,
		props:   c.props,
	}
}
