package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/execution"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the Mindbox configuration to the native projects",
	Long: `Apply executes the plan and writes the changed native files.

This command:
1. Creates an execution plan (same as 'plan' command)
2. Executes each step in dependency order
3. Reports results

Files are only written when their content changes. Use --dry-run to see
what would happen without making changes.`,
	RunE: runApply,
}

var applyDryRun bool

// errStepsFailed makes the process exit non-zero after results were printed.
var errStepsFailed = errors.New("one or more steps failed")

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be done without making changes")
}

func runApply(cmd *cobra.Command, _ []string) error {
	m, err := newApp(cmd)
	if err != nil {
		return err
	}

	results, err := m.Run(cmd.Context(), cfgFile, applyDryRun)
	if results != nil {
		m.PrintResults(results)
	}
	if err != nil {
		if execution.HasFailures(results) {
			return errStepsFailed
		}
		return err
	}
	return nil
}
