package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-apply the configuration whenever it changes",
	Long: `Watch applies the configuration once, then watches the config file and
every file it references (service files, icon, extension sources) and
applies again after each change.`,
	RunE: runWatch,
}

var (
	watchDebounce time.Duration
	watchNoApply  bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", app.DefaultDebounce, "Quiet period before re-applying")
	watchCmd.Flags().BoolVar(&watchNoApply, "skip-initial", false, "Do not apply before the first change")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	m, err := newApp(cmd)
	if err != nil {
		return err
	}

	cfg, err := m.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := app.NewWatchMode(app.WatchOptions{
		Files:        app.WatchFiles(cfg),
		Debounce:     watchDebounce,
		ApplyOnStart: !watchNoApply,
		Out:          cmd.OutOrStdout(),
	}, func(ctx context.Context) error {
		results, err := m.Run(ctx, cfg.Source, false)
		if results != nil {
			m.PrintResults(results)
		}
		return err
	})

	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
