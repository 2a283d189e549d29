package patchstep

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(id string) Meta {
	return Meta{
		ID:       compiler.MustNewStepID(id),
		Resource: "gradle",
		Summary:  "add Mindbox dependencies",
	}
}

func runCtx(logger *mocks.Logger) compiler.RunContext {
	return compiler.NewRunContext(logger.Context(context.Background()))
}

func appendLine(line string) Transform {
	return Pure(func(text string) string {
		if strings.Contains(text, line) {
			return text
		}
		return text + line + "\n"
	})
}

func TestTextStep_Lifecycle(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/android/app/build.gradle", "dependencies {\n}\n")
	logger := mocks.NewLogger()
	ctx := runCtx(logger)

	step := NewTextStep(meta("android:gradle:deps"), fs, "/app/android/app/build.gradle", appendLine("// mindbox"))

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	diff, err := step.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeModify, diff.Type())
	assert.Equal(t, []string{"// mindbox"}, diff.Detail())

	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, "dependencies {\n}\n// mindbox\n", fs.Content("/app/android/app/build.gradle"))

	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)

	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, 1, fs.WriteCount("/app/android/app/build.gradle"))
}

func TestTextStep_MissingFileSkips(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	logger := mocks.NewLogger()

	step := NewTextStep(meta("android:gradle:deps"), fs, "/app/android/app/build.gradle", appendLine("x"))
	status, err := step.Check(runCtx(logger))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSkipped, status)
	assert.Equal(t, []string{"/app/android/app/build.gradle not found"}, logger.Warnings())
	assert.Equal(t, "add Mindbox dependencies", logger.Entries()[0].Fields["operation"])
}

func TestTextStep_CreateMissing(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	ctx := runCtx(mocks.NewLogger())

	step := NewTextStep(meta("ios:plist:entitlements"), fs, "/app/ios/App/App.entitlements", appendLine("<plist/>")).CreateMissing()
	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	diff, err := step.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeAdd, diff.Type())

	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, "<plist/>\n", fs.Content("/app/ios/App/App.entitlements"))
}

func TestTextStep_AnchorMissingSkips(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/android/build.gradle", "// empty")
	logger := mocks.NewLogger()

	step := NewTextStep(meta("android:gradle:repo"), fs, "/app/android/build.gradle", Strict(func(string) (string, error) {
		return "", fmt.Errorf("repositories block: %w", anchor.ErrNotFound)
	}))

	status, err := step.Check(runCtx(logger))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSkipped, status)
	require.Len(t, logger.Warnings(), 1)
	assert.Contains(t, logger.Warnings()[0], "repositories block")
}

func TestTextStep_PartialWarnings(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/ios/App/AppDelegate.swift", "import Expo\n")
	logger := mocks.NewLogger()

	step := NewTextStep(meta("ios:source:app-delegate"), fs, "/app/ios/App/AppDelegate.swift",
		func(text string) (string, []string, error) {
			return text + "import Mindbox\n", []string{"class declaration not found"}, nil
		})

	status, err := step.Check(runCtx(logger))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)
	assert.Equal(t, []string{"class declaration not found"}, logger.Warnings())
}

func TestTextStep_TransformError(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/android/app/src/main/AndroidManifest.xml", "<not xml")

	step := NewTextStep(meta("android:manifest:x"), fs, "/app/android/app/src/main/AndroidManifest.xml",
		Strict(func(string) (string, error) { return "", errors.New("parse manifest: EOF") }))

	status, err := step.Check(runCtx(mocks.NewLogger()))
	require.Error(t, err)
	assert.Equal(t, compiler.StatusUnknown, status)
	assert.Contains(t, err.Error(), "AndroidManifest.xml: parse manifest")
}

func TestCopyStep(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/google-services.json", "{}\n")
	ctx := runCtx(mocks.NewLogger())

	m := meta("android:files:google-services")
	m.Tolerant = true
	step := NewCopyStep(m, fs, "/app/google-services.json", "/app/android/app/google-services.json", "not provided")
	assert.True(t, step.Tolerant())

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	diff, err := step.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeAdd, diff.Type())

	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, "{}\n", fs.Content("/app/android/app/google-services.json"))

	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestCopyStep_Missing(t *testing.T) {
	t.Parallel()

	t.Run("property not provided", func(t *testing.T) {
		t.Parallel()
		logger := mocks.NewLogger()
		step := NewCopyStep(meta("android:files:google-services"), mocks.NewFileSystem(), "", "/dst", "googleServicesFilePath is not provided")
		status, err := step.Check(runCtx(logger))
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSkipped, status)
		assert.Equal(t, []string{"googleServicesFilePath is not provided"}, logger.Warnings())
	})

	t.Run("source absent", func(t *testing.T) {
		t.Parallel()
		step := NewCopyStep(meta("android:files:google-services"), mocks.NewFileSystem(), "/app/missing.json", "/dst", "")
		_, err := step.Check(runCtx(mocks.NewLogger()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/app/missing.json does not exist")
	})
}

func TestWriteStep(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/Service.kt", "\npackage com.example\n\nclass S\n\n")
	ctx := runCtx(mocks.NewLogger())

	step := NewWriteStep(meta("android:expo:service"), fs, "/app/Service.kt", func() ([]byte, error) {
		return []byte("package com.example\n\nclass S\n"), nil
	})

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	step.Trimmed()
	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestWriteStepAt_DestinationNotFound(t *testing.T) {
	t.Parallel()

	logger := mocks.NewLogger()
	step := NewWriteStepAt(meta("android:expo:service"), mocks.NewFileSystem(),
		func() (string, error) { return "", fmt.Errorf("MainActivity: %w", anchor.ErrNotFound) },
		func() ([]byte, error) { return []byte("x"), nil })

	status, err := step.Check(runCtx(logger))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSkipped, status)
	assert.Len(t, logger.Warnings(), 1)
}

func TestWriteStep_CreatesFile(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	ctx := runCtx(mocks.NewLogger())
	step := NewWriteStep(meta("ios:files:nse"), fs, "/app/ios/Ext/Info.plist", func() ([]byte, error) {
		return []byte("<plist/>"), nil
	})

	diff, err := step.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeAdd, diff.Type())

	require.NoError(t, step.Apply(ctx))
	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, 1, fs.WriteCount("/app/ios/Ext/Info.plist"))
}

func TestAddedLines(t *testing.T) {
	t.Parallel()

	got := addedLines("a\nb\n", "a\nx\nb\n\ny\n")
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestNoticeStep(t *testing.T) {
	t.Parallel()

	logger := mocks.NewLogger()
	step := NewNoticeStep(meta("android:resources:colors"), "no color provided, skipping update")

	status, err := step.Check(runCtx(logger))
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSkipped, status)
	assert.Equal(t, []string{"no color provided, skipping update"}, logger.Warnings())
	require.NoError(t, step.Apply(runCtx(logger)))
}

func TestBundleStep(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/app/ios/Ext/Info.plist", "plist")
	logger := mocks.NewLogger()
	ctx := runCtx(logger)

	step := NewBundleStep(meta("ios:files:nse"), fs, "/app/ios/Ext",
		File{Name: "Service.swift", Render: func() ([]byte, error) { return []byte("swift"), nil }},
		File{Name: "Info.plist", Render: func() ([]byte, error) { return []byte("plist"), nil }},
	)
	assert.Equal(t, "/app/ios/Ext", step.Dir())

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	diff, err := step.Plan(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeModify, diff.Type())
	assert.Equal(t, []string{"Service.swift"}, diff.Detail())

	require.NoError(t, step.Apply(ctx))
	assert.Equal(t, "swift", fs.Content("/app/ios/Ext/Service.swift"))
	assert.Zero(t, fs.WriteCount("/app/ios/Ext/Info.plist"))

	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestBundleStep_RenderFailureWritesNothing(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	logger := mocks.NewLogger()
	ctx := runCtx(logger)

	step := NewBundleStep(meta("ios:files:nse"), fs, "/app/ios/Ext",
		File{Name: "Info.plist", Render: func() ([]byte, error) { return []byte("plist"), nil }},
		File{Name: "Service.swift", Render: func() ([]byte, error) {
			return nil, fmt.Errorf("custom source missing: %w", anchor.ErrNotFound)
		}},
	)

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSkipped, status)
	require.Len(t, logger.Warnings(), 1)
	assert.Contains(t, logger.Warnings()[0], "custom source missing")

	require.Error(t, step.Apply(ctx))
	assert.Zero(t, fs.TotalWrites())
}
