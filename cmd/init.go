package cmd

import (
	"github.com/spf13/cobra"

	"legalflow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize legalflow configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure providers, vector indexes and document storage, and generates a .legalflow.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
