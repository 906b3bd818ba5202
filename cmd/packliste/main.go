// Command packliste converts CRM job exports into printable Packliste
// workbooks, either once from the command line or as a small web service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Fehler:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "packliste",
		Short:         "Packlisten-Konverter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config.toml next to the executable)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newServeCmd(&opts),
		newConvertCmd(&opts),
		newInspectCmd(&opts),
		newSealsCmd(&opts),
		newTemplateCmd(&opts),
	)
	return cmd
}
