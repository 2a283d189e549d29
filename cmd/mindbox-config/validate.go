package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/app"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without touching native files",
	Long: `Validate checks the property bag against the allowed keys and types,
reports referenced files that do not exist and compiles the steps.

Every problem is reported in one run. The exit status is non-zero when
any error was found.`,
	RunE: runValidate,
}

var validateStrict bool

var errValidationFailed = errors.New("validation failed")

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	m, err := newApp(cmd)
	if err != nil {
		return err
	}

	result, err := m.Validate(cfgFile)
	if err != nil {
		return err
	}

	printValidation(cmd.OutOrStdout(), result)

	if !result.Valid() || (validateStrict && len(result.Warnings) > 0) {
		return errValidationFailed
	}
	return nil
}

func printValidation(w io.Writer, result *app.ValidationResult) {
	if verbose {
		for _, line := range result.Info {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
	for _, line := range result.Warnings {
		_, _ = fmt.Fprintf(w, "⚠ %s\n", line)
	}
	for _, line := range result.Errors {
		_, _ = fmt.Fprintf(w, "✗ %s\n", line)
	}
	if result.Valid() {
		_, _ = fmt.Fprintln(w, "✓ Configuration is valid")
	}
}
