package exporter

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

// Options configures a Converter.
type Options struct {
	// TemplatePath is the Packliste template; empty selects the built-in one.
	TemplatePath string
	// WorkDir receives the per-call template copy; empty means os.TempDir.
	WorkDir string
	// AutoFit sizes the seal columns to their content.
	AutoFit  bool
	Logger   *zerolog.Logger
	Progress func(ProgressEvent)
}

// SealColumn is a rendered seal and its sheet column.
type SealColumn struct {
	Name   string `json:"name"`
	Column string `json:"column"`
}

// Result describes a finished conversion.
type Result struct {
	// File is the populated workbook; nil after ConvertFile saved it.
	File        *excelize.File
	Sheet       string
	Technician  string
	PeriodRange string
	DataRows    int
	LastRow     int
	SealColumns []SealColumn
	Fields      []model.FieldColumn
}

// SealNames returns the rendered seal names left to right.
func (r *Result) SealNames() []string {
	out := make([]string, len(r.SealColumns))
	for i, sc := range r.SealColumns {
		out[i] = sc.Name
	}
	return out
}

// Converter renders job exports into Packliste workbooks. It holds no state
// between calls and may be used concurrently.
type Converter struct {
	opts Options
}

// NewConverter creates a converter.
func NewConverter(opts Options) *Converter {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	return &Converter{opts: opts}
}

// ConvertFile loads the export at input, converts it and saves the workbook
// to output.
func (c *Converter) ConvertFile(input, output string, seals []seal.Descriptor) (*Result, error) {
	tbl, err := table.Load(input)
	if err != nil {
		return nil, err
	}
	res, err := c.Convert(tbl, seals)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.File.Close()
		res.File = nil
	}()

	if err := res.File.SaveAs(output); err != nil {
		return nil, fmt.Errorf("save %s: %w", filepath.Base(output), err)
	}
	c.opts.Logger.Info().
		Str("source", filepath.Base(input)).
		Str("output", output).
		Int("rows", res.DataRows).
		Strs("seals", res.SealNames()).
		Msg("conversion saved")
	return res, nil
}

// Convert renders tbl with the given seal configuration. The caller owns the
// returned workbook and must close it. On error no workbook is returned.
func (c *Converter) Convert(tbl *table.Table, seals []seal.Descriptor) (*Result, error) {
	log := c.opts.Logger
	progress := c.opts.Progress
	reportProgress(progress, 0, "Vorlage öffnen")

	fields := model.DefaultFieldColumns()
	wb, widths, err := openTemplate(c.opts.TemplatePath, c.opts.WorkDir, fields)
	if err != nil {
		return nil, err
	}
	defer func() {
		wb.file = nil
		if err := wb.Close(); err != nil {
			log.Warn().Err(err).Msg("remove template copy")
		}
	}()

	res, err := c.render(wb.file, tbl, seals, fields, widths)
	if err != nil {
		_ = wb.file.Close()
		return nil, err
	}
	reportProgress(progress, 100, "Fertig")
	return res, nil
}

func (c *Converter) render(f *excelize.File, tbl *table.Table, seals []seal.Descriptor, fields []model.FieldColumn, widths map[string]float64) (*Result, error) {
	log := c.opts.Logger
	progress := c.opts.Progress

	sorted, err := table.SortByPeriod(tbl, model.ColPeriod)
	if err != nil {
		log.Warn().Err(err).Msg("rows left unsorted")
	}

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	sh, err := newSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if err := sh.removeRow(scaffoldRow); err != nil {
		return nil, err
	}

	l := &layout{
		sheet: sh,
		cols:  NewColumnAllocator(placeholderCol, fields),
		tbl:   sorted,
		seals: seal.Plan(seals, sorted),
		log:   log,
	}
	technician := Technician(sorted)
	periodRange := PeriodRange(sorted)

	reportProgress(progress, 10, "Kopf schreiben")
	if err := l.writeHeader(technician, periodRange); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	reportProgress(progress, 20, "Dichtungen platzieren")
	if err := l.placeSeals(); err != nil {
		return nil, fmt.Errorf("place seal columns: %w", err)
	}

	reportProgress(progress, 40, "Zeilen schreiben")
	next, err := l.renderRows()
	if err != nil {
		return nil, fmt.Errorf("render rows: %w", err)
	}

	reportProgress(progress, 80, "Abschluss")
	if err := l.finalize(next, widths, c.opts.AutoFit); err != nil {
		return nil, fmt.Errorf("finalize sheet: %w", err)
	}

	res := &Result{
		File:        f,
		Sheet:       sheetName,
		Technician:  technician,
		PeriodRange: periodRange,
		DataRows:    sorted.DataLen(),
		LastRow:     l.maxRow,
		Fields:      l.cols.Fields(),
	}
	for _, name := range l.cols.Seals() {
		col, _ := l.cols.Seal(name)
		res.SealColumns = append(res.SealColumns, SealColumn{Name: name, Column: colName(col)})
	}
	log.Debug().
		Str("technician", technician).
		Str("period", periodRange).
		Int("rows", res.DataRows).
		Int("seals", len(res.SealColumns)).
		Msg("sheet rendered")
	return res, nil
}
