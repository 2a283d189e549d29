// Package compiler turns a loaded mindbox config into the ordered graph of
// native-project mutations: every provider contributes its steps, and the
// graph checks IDs, edges and cycles before anything touches a file.
package compiler

import (
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
)

// Compiler collects the platform providers and compiles them into one graph.
type Compiler struct {
	providers []Provider
}

func NewCompiler() *Compiler { return &Compiler{} }

// RegisterProvider appends provider. Registration order is the order
// independent steps run in, so android is registered before ios.
func (c *Compiler) RegisterProvider(provider Provider) {
	c.providers = append(c.providers, provider)
}

func (c *Compiler) Providers() []Provider { return c.providers }

// Compile builds the graph for cfg.
func (c *Compiler) Compile(cfg config.Config) (*StepGraph, error) {
	return c.CompileWithContext(NewCompileContext(cfg))
}

// CompileWithContext builds the graph and fails on the first provider error,
// duplicate step ID, dangling dependency or cycle.
func (c *Compiler) CompileWithContext(ctx CompileContext) (*StepGraph, error) {
	graph := NewStepGraph()
	for _, provider := range c.providers {
		steps, err := provider.Compile(ctx)
		if err != nil {
			return nil, NewProviderFailedError(provider.Name(), err)
		}
		for _, step := range steps {
			if err := graph.Add(step); err != nil {
				return nil, NewStepDuplicateError(step.ID().String()).
					WithProvider(provider.Name()).
					WithUnderlying(err)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if _, err := graph.TopologicalSort(); err != nil {
		return nil, err
	}
	return graph, nil
}
