package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "legalflow",
	Short: "LLM-routed legal assistant: case search, verdicts, drafting, document actions",
	Long: `Legalflow classifies incoming legal queries with an LLM and routes them
to the right pipeline: semantic case search, verdict prediction grounded
on statutes and past cases, template-based document drafting, or
summarize/translate actions on uploaded documents.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".legalflow.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
