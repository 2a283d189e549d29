package app

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
)

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
	Info     []string
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate loads the configuration at path and compiles it without
// checking or touching the native projects. Configuration errors are
// reported in the result; only unexpected failures are returned as error.
func (m *Mindbox) Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{}

	cfg, err := m.loader.Load(path)
	if err != nil {
		var list *config.ErrorList
		var userErr *config.UserError
		switch {
		case errors.As(err, &list):
			for _, e := range list.Errors() {
				result.Errors = append(result.Errors, e.Error())
			}
		case errors.As(err, &userErr):
			result.Errors = append(result.Errors, userErr.Error())
		default:
			return nil, err
		}
		return result, nil
	}

	result.Info = append(result.Info, fmt.Sprintf("Loaded config from %s", cfg.Source))
	if !m.fs.IsDir(cfg.Project.Root) {
		result.Errors = append(result.Errors, config.NewProjectNotFoundError(cfg.Project.Root).Error())
		return result, nil
	}

	m.validateInputs(cfg, result)

	graph, err := m.compiler.Compile(*cfg)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Compilation failed: %v", err))
		return result, nil
	}
	validateSteps(graph, result)
	return result, nil
}

// validateInputs reports configured files that do not exist. Missing
// inputs only produce warnings at apply time, so they are warnings here
// too.
func (m *Mindbox) validateInputs(cfg *config.Config, result *ValidationResult) {
	inputs := []struct {
		key, path string
	}{
		{"googleServicesFilePath", cfg.Props.GoogleServicesFilePath},
		{"huaweiServicesFilePath", cfg.Props.HuaweiServicesFilePath},
		{"smallIcon", cfg.Props.SmallIcon},
		{"iosNseFilePath", cfg.Props.IOSNseFilePath},
		{"iosNceFilePath", cfg.Props.IOSNceFilePath},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if resolved := cfg.Project.Resolve(in.path); !m.fs.Exists(resolved) {
			result.Warnings = append(result.Warnings, config.NewFileNotFoundError(in.key, resolved).Error())
		}
	}

	for _, p := range cfg.Props.PushProviders() {
		switch p {
		case config.ProviderFirebase:
			if cfg.Props.GoogleServicesFilePath == "" {
				result.Warnings = append(result.Warnings, "firebase is enabled but googleServicesFilePath is not set")
			}
		case config.ProviderHuawei:
			if cfg.Props.HuaweiServicesFilePath == "" {
				result.Warnings = append(result.Warnings, "huawei is enabled but huaweiServicesFilePath is not set")
			}
		case config.ProviderRustore:
			if cfg.Props.RustoreProjectID == "" {
				result.Warnings = append(result.Warnings, "rustore is enabled but rustoreProjectId is not set")
			}
		}
	}
	if cfg.Project.BundleIdentifier == "" {
		result.Warnings = append(result.Warnings, "project.bundleIdentifier is not set; BGTask identifiers and extension targets will be skipped")
	}
}

// validateSteps checks the compiled graph and reports step counts per
// platform.
func validateSteps(graph *compiler.StepGraph, result *ValidationResult) {
	steps := graph.Steps()

	for _, step := range steps {
		for _, dep := range step.DependsOn() {
			if _, exists := graph.Get(dep); !exists {
				result.Errors = append(result.Errors, fmt.Sprintf("Step %s depends on missing step: %s", step.ID(), dep))
			}
		}
	}

	counts := make(map[string]int)
	for _, step := range steps {
		counts[step.ID().Provider()]++
	}
	if len(counts) == 0 {
		result.Warnings = append(result.Warnings, "No steps generated")
		return
	}

	providers := make([]string, 0, len(counts))
	for p := range counts {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	for _, p := range providers {
		result.Info = append(result.Info, fmt.Sprintf("%s: %d steps", DisplayName(p), counts[p]))
	}
}
