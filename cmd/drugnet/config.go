package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/validation"
)

func configCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: "Print the configuration after defaults, the config file, the environment\n" +
			"and command-line flags have been applied.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatYAML, "output format: yaml or toml")

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and report every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadConfig(); err != nil {
				for _, field := range validation.FailedFields(err) {
					bad.Fprintf(cmd.ErrOrStderr(), "  ✗ %s\n", field)
				}
				return err
			}
			good.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	})
	return cmd
}
