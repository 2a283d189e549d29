package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/push"
)

var isPushCmd = &cobra.Command{
	Use:   "is-push [file]",
	Short: "Report whether a notification payload was sent by Mindbox",
	Long: `is-push reads a notification payload as JSON from a file, or from
stdin when no file or "-" is given, and prints true when it carries a
Mindbox push key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIsPush,
}

func init() {
	rootCmd.AddCommand(isPushCmd)
}

func runIsPush(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	ok, err := push.IsMindboxPushJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
	return err
}
