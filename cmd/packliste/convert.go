package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/config"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

type convertOptions struct {
	output    string
	sealsFile string
	template  string
	noAutoFit bool
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a job export (.xlsx/.xls/.csv) into a Packliste",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer a.Close()
			return runConvert(a, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output workbook (default: auto filename or <name>_konvertiert.xlsx)")
	cmd.Flags().StringVar(&opts.sealsFile, "seals", "", "JSON seal list (default: stored list)")
	cmd.Flags().StringVar(&opts.template, "template", "", "template workbook (default: config, else built-in)")
	cmd.Flags().BoolVar(&opts.noAutoFit, "no-autofit", false, "keep seal column widths from the template")
	return cmd
}

func runConvert(a *app, input string, opts convertOptions, out io.Writer) error {
	var (
		seals []seal.Descriptor
		err   error
	)
	if opts.sealsFile != "" {
		seals, err = readSealFile(opts.sealsFile)
	} else {
		seals, err = a.store.ListSeals()
	}
	if err != nil {
		return err
	}

	tbl, err := table.Load(input)
	if err != nil {
		return err
	}

	templatePath := opts.template
	if templatePath == "" {
		templatePath = config.ResolvePath(a.cfg.Excel.TemplatePath)
	}
	conv := exporter.NewConverter(exporter.Options{
		TemplatePath: templatePath,
		WorkDir:      filepath.Join(a.dataDir, "work"),
		AutoFit:      a.cfg.Excel.AutoFitColumns && !opts.noAutoFit,
		Logger:       a.log,
	})

	id, logErr := a.store.CreateConversion(filepath.Base(input))
	if logErr != nil {
		a.log.Warn().Err(logErr).Msg("conversion log unavailable")
	}
	output, res, err := convertAndSave(conv, tbl, seals, input, opts.output, a.cfg.Excel)
	if id != "" {
		entry := model.Conversion{ID: id}
		if res != nil {
			entry.OutputName = filepath.Base(output)
			entry.Technician = res.Technician
			entry.PeriodRange = res.PeriodRange
			entry.DataRows = res.DataRows
			entry.SealColumns = res.SealNames()
		}
		if logErr := a.store.FinishConversion(entry, err); logErr != nil {
			a.log.Warn().Err(logErr).Msg("conversion log not updated")
		}
	}
	if err != nil {
		return err
	}

	a.log.Info().
		Str("output", output).
		Str("technician", res.Technician).
		Int("rows", res.DataRows).
		Strs("seals", res.SealNames()).
		Msg("Packliste erstellt")
	fmt.Fprintln(out, output)
	return nil
}

// convertAndSave renders tbl and saves it to output, or to the path chosen
// by outputPath when output is empty.
func convertAndSave(conv *exporter.Converter, tbl *table.Table, seals []seal.Descriptor, input, output string, excel config.ExcelConfig) (string, *exporter.Result, error) {
	res, err := conv.Convert(tbl, seals)
	if err != nil {
		return output, nil, err
	}
	defer func() {
		_ = res.File.Close()
		res.File = nil
	}()

	if output == "" {
		output = outputPath(input, res, excel)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return output, nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := res.File.SaveAs(output); err != nil {
		return output, nil, fmt.Errorf("save %s: %w", filepath.Base(output), err)
	}
	return output, res, nil
}

// outputPath names the workbook for input: the auto filename in the save
// folder when enabled, else <name>_konvertiert.xlsx next to the input.
func outputPath(input string, res *exporter.Result, excel config.ExcelConfig) string {
	dir := filepath.Dir(input)
	if excel.SaveFolder != "" {
		dir = config.ResolvePath(excel.SaveFolder)
	}
	if excel.AutoFilename && res.Technician != "" && res.PeriodRange != "" {
		return exporter.AutoFilename(dir, res.Technician, res.PeriodRange)
	}
	return filepath.Join(dir, exporter.DownloadName(input))
}
