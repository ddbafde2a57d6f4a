package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-journal/internal/observability"
)

var logLevel string

// rootCmd is the farumctl entry point
var rootCmd = &cobra.Command{
	Use:   "farumctl",
	Short: "Command line tools for the Farum journal",
	Long: `farumctl runs the journal analysis pipeline locally and drives the
edit and re-analysis flow against a running farum-api.

Available subcommands:
  analyze - Analyze one entry with the local keyword classifier
  edit    - Edit an entry on a server and wait for its new insight`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.Init(observability.Options{Level: logLevel})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(analyzeCmd, editCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	defer observability.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
