package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
)

func newTemplateCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "template <output>",
		Short: "Write the built-in Packliste template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.NewDefaultTemplate()
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(args[0]); err != nil {
				return fmt.Errorf("save template: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
