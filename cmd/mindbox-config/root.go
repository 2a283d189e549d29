package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/adapters/logging"
	"github.com/mindbox-cloud/mindbox-config/internal/app"
	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mindbox-config",
	Short: "Configure native projects for the Mindbox SDK",
	Long: `mindbox-config patches the Android and iOS projects generated by a
prebuild step so they integrate the Mindbox push SDK.

Every change is idempotent: running it again on an already configured
project changes nothing. Missing anchors and inputs are reported as
warnings and the remaining steps still run.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: mindbox.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the console logger selected by the global flags. Logs go
// to stderr so command output stays parseable.
func newLogger(w io.Writer) (ports.Logger, error) {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}

	var jsonFormat bool
	switch logFormat {
	case "text", "":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", logFormat)
	}

	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonFormat),
		logging.WithTimestamp(jsonFormat),
	), nil
}

// newApp is replaced in tests.
var newApp = func(cmd *cobra.Command) (*app.Mindbox, error) {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app.New(cmd.OutOrStdout(), logger), nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) {
		return list.Format()
	}

	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml", "json"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"text\tHuman readable lines",
			"json\tOne JSON object per line",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}
