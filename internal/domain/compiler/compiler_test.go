package compiler

import (
	"errors"
	"testing"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a test double for Provider interface.
type mockProvider struct {
	name      string
	compileFn func(CompileContext) ([]Step, error)
}

func newMockProvider(name string, steps ...Step) *mockProvider {
	return &mockProvider{
		name: name,
		compileFn: func(CompileContext) ([]Step, error) {
			return steps, nil
		},
	}
}

func (m *mockProvider) Name() string                                { return m.name }
func (m *mockProvider) Compile(ctx CompileContext) ([]Step, error) { return m.compileFn(ctx) }

func testConfig() config.Config {
	return config.Config{
		Project: config.Project{Root: "/app", Android: "android", IOS: "ios", BundleIdentifier: "com.example.app"},
		Props:   config.DefaultProperties().WithPushProviders(config.ProviderFirebase),
	}
}

func TestCompiler_RegisterProvider(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	c.RegisterProvider(newMockProvider("android"))
	c.RegisterProvider(newMockProvider("ios"))

	require.Len(t, c.Providers(), 2)
	assert.Equal(t, "android", c.Providers()[0].Name())
}

func TestCompiler_Compile_PassesConfiguration(t *testing.T) {
	t.Parallel()

	var seen CompileContext
	provider := newMockProvider("android")
	provider.compileFn = func(ctx CompileContext) ([]Step, error) {
		seen = ctx
		return []Step{newMockStep("android:gradle:mindbox-dependencies")}, nil
	}

	c := NewCompiler()
	c.RegisterProvider(provider)

	graph, err := c.Compile(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
	assert.Equal(t, "/app/android", seen.Project().AndroidRoot())
	assert.True(t, seen.Props().HasPushProvider(config.ProviderFirebase))

	renamed := seen.WithProject(config.Project{Root: "/other", Android: "android"})
	assert.Equal(t, "/other/android", renamed.Project().AndroidRoot())
	assert.True(t, renamed.Props().HasPushProvider(config.ProviderFirebase))
}

func TestCompiler_Compile_ProvidersInOrder(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	c.RegisterProvider(newMockProvider("android",
		newMockStep("android:gradle:mindbox-dependencies"),
		newMockStep("android:resources:strings")))
	c.RegisterProvider(newMockProvider("ios",
		newMockStep("ios:plist:info"),
		newMockStep("ios:xcode:nse-target", "ios:files:nse"),
		newMockStep("ios:files:nse")))

	graph, err := c.Compile(testConfig())
	require.NoError(t, err)

	sorted, err := graph.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"android:gradle:mindbox-dependencies",
		"android:resources:strings",
		"ios:plist:info",
		"ios:files:nse",
		"ios:xcode:nse-target",
	}, ids(sorted))
}

func TestCompiler_Compile_ProviderError(t *testing.T) {
	t.Parallel()

	provider := newMockProvider("ios")
	provider.compileFn = func(CompileContext) ([]Step, error) {
		return nil, errors.New("no .xcodeproj found")
	}

	c := NewCompiler()
	c.RegisterProvider(provider)

	_, err := c.Compile(testConfig())
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, ErrCodeProviderFailed, stepErr.Code)
	assert.Equal(t, "ios", stepErr.Provider)
}

func TestCompiler_Compile_DuplicateStep(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	c.RegisterProvider(newMockProvider("android", newMockStep("android:resources:strings")))
	c.RegisterProvider(newMockProvider("extra", newMockStep("android:resources:strings")))

	_, err := c.Compile(testConfig())
	assert.ErrorIs(t, err, ErrDuplicateStep)
}

func TestCompiler_Compile_MissingDependency(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	c.RegisterProvider(newMockProvider("ios", newMockStep("ios:xcode:nse-target", "ios:files:nse")))

	_, err := c.Compile(testConfig())
	assert.ErrorIs(t, err, ErrMissingDep)
}

func TestCompiler_Compile_Cycle(t *testing.T) {
	t.Parallel()

	c := NewCompiler()
	c.RegisterProvider(newMockProvider("x",
		newMockStep("x:a:one", "x:a:two"),
		newMockStep("x:a:two", "x:a:one")))

	_, err := c.Compile(testConfig())
	assert.ErrorIs(t, err, ErrCyclicDependency)
}
