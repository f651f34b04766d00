// Command smsclassifier labels SMS messages as spam or ham using a
// pre-trained TF-IDF vectorizer and classifier.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "smsclassifier",
		Short: "SMS spam classifier",
		Long: `smsclassifier labels SMS messages as SPAM or HAM.

Without a subcommand it opens the interactive terminal UI. The classify
command labels messages from arguments or stdin, and serve exposes the
classifier over HTTP.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (uses ./config.yaml or ~/.config/smsclassifier/config.yaml if not provided)")

	cmd.AddCommand(tuiCmd(&configPath))
	cmd.AddCommand(classifyCmd(&configPath))
	cmd.AddCommand(serveCmd(&configPath))

	return cmd
}
