package cmd

import (
	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docaug configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the explorer addresses, site directory and augmentation modes, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
