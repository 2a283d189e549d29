package main

import (
	"github.com/spf13/cobra"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/credentials"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Print the EAS app extension credentials block",
	Long: `Credentials prints the extra object that registers the notification
extension targets under eas.build.experimental.ios.appExtensions, so EAS
Build provisions them with the app group.

Pass --extra to merge into an existing extra object. Entries already
listed for a target are kept as they are.`,
	RunE: runCredentials,
}

var (
	credentialsFormat string
	credentialsExtra  string
)

func init() {
	rootCmd.AddCommand(credentialsCmd)

	credentialsCmd.Flags().StringVarP(&credentialsFormat, "format", "f", "yaml", "Output format (yaml, json)")
	credentialsCmd.Flags().StringVar(&credentialsExtra, "extra", "", "Existing extra object (YAML or JSON) to merge into")

	_ = credentialsCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runCredentials(cmd *cobra.Command, _ []string) error {
	m, err := newApp(cmd)
	if err != nil {
		return err
	}

	cfg, err := m.Load(cfgFile)
	if err != nil {
		return err
	}

	data, err := m.Credentials(cfg, credentialsExtra, credentials.Format(credentialsFormat))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
