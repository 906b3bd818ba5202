package main

import (
	"fmt"
	"io"
	"path/filepath"

	toon "github.com/mateuszkardas/toon-go"
	"github.com/spf13/cobra"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input>",
		Short: "Summarize a job export in TOON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			stored, err := a.store.ListSeals()
			if err != nil {
				return err
			}
			return runInspect(args[0], stored, cmd.OutOrStdout())
		},
	}
}

func runInspect(input string, stored []seal.Descriptor, out io.Writer) error {
	tbl, err := table.Load(input)
	if err != nil {
		return err
	}
	sorted, err := table.SortByPeriod(tbl, model.ColPeriod)
	if err != nil {
		sorted = tbl
	}
	text, err := toon.Marshal(inspectPayload(filepath.Base(input), sorted, stored), nil)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Fprintln(out, text)
	return nil
}

func inspectPayload(source string, tbl *table.Table, stored []seal.Descriptor) map[string]interface{} {
	fixed := map[string]bool{model.ColTechnician: true}
	for _, fc := range model.DefaultFieldColumns() {
		fixed[fc.Field] = true
	}

	candidates := []string{}
	for _, name := range tbl.Columns() {
		if fixed[name] || seal.IsReserved(name) || tbl.DataColumnBlank(name) {
			continue
		}
		candidates = append(candidates, name)
	}

	planned := []string{}
	for _, d := range seal.Plan(stored, tbl) {
		planned = append(planned, d.Name)
	}

	return map[string]interface{}{
		"source":          source,
		"columns":         tbl.Columns(),
		"rows":            tbl.Len(),
		"data_rows":       tbl.DataLen(),
		"technician":      exporter.Technician(tbl),
		"period_range":    exporter.PeriodRange(tbl),
		"seal_candidates": candidates,
		"planned_seals":   planned,
	}
}
