package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what changes mindbox-config would make",
	Long: `Plan loads your configuration and shows what changes would be made.

This command:
1. Loads and validates the configuration
2. Compiles it into Android and iOS steps
3. Checks every native file the steps touch
4. Shows what would be changed (without making changes)`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	m, err := newApp(cmd)
	if err != nil {
		return err
	}

	cfg, err := m.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, _ := m.Session(cmd.Context())
	plan, err := m.Plan(ctx, cfg)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	m.PrintPlan(plan)
	return nil
}
