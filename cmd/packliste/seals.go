package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
)

func newSealsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seals",
		Short: "Manage the stored seal list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the stored seal list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.store.ListSeals()
			if err != nil {
				return err
			}
			data, err := seal.EncodeList(list)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored seal list with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := readSealFile(args[0])
			if err != nil {
				return err
			}
			if err := a.store.ReplaceSeals(list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d Dichtungen importiert\n", len(list))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write the stored seal list to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.store.ListSeals()
			if err != nil {
				return err
			}
			if err := seal.SaveFile(args[0], list); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d Dichtungen exportiert\n", len(list))
			return nil
		},
	})

	return cmd
}
