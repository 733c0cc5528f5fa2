// Package report serializes the day's report rows into a styled xlsx workbook.
package report

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ceirr/sample-dashboard/internal/datanorm"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	DefaultTitle     = "CEIRR Daily Sample Collection Summary"
	DefaultSheetName = "Today_Samples"

	titleRow  = 1
	headerRow = 2
	firstRow  = 3
)

// Artifact is a workbook ready to download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Options controls workbook presentation. Zero values fall back to defaults.
type Options struct {
	Title     string
	SheetName string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	return o
}

// Filename returns the suggested download name for now's date.
func Filename(now time.Time) string {
	return now.Format("02-01-2006") + "_CEIRR_SampleCollection.xlsx"
}

// Assemble builds the workbook with default options.
func Assemble(rows []datanorm.ReportRow, now time.Time) (*Artifact, error) {
	return AssembleWithOptions(rows, now, Options{})
}

// AssembleWithOptions builds the workbook. It returns nil and no error when
// rows is empty: there is nothing to export for the day.
func AssembleWithOptions(rows []datanorm.ReportRow, now time.Time, opts Options) (*Artifact, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	numCols := len(datanorm.ReportColumns)
	lastCol, err := excelize.ColumnNumberToName(numCols)
	if err != nil {
		return nil, err
	}

	// Title
	titleCell := cellName(1, titleRow)
	if err := f.MergeCell(sheet, titleCell, fmt.Sprintf("%s%d", lastCol, titleRow)); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellValue(sheet, titleCell, opts.Title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(sheet, titleCell, fmt.Sprintf("%s%d", lastCol, titleRow), styles.title); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	// Header row
	widths := make([]int, numCols)
	for i, name := range datanorm.ReportColumns {
		if err := writeCell(f, sheet, i+1, headerRow, name, styles.header); err != nil {
			return nil, err
		}
		widths[i] = utf8.RuneCountInString(name)
	}

	// Data rows
	for r, row := range rows {
		for c, v := range row.Values() {
			if err := writeCell(f, sheet, c+1, firstRow+r, v, styles.body); err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(v); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, columnWidth(w)); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &Artifact{
		Filename:    Filename(now),
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}

func writeCell(f *excelize.File, sheet string, col, row int, value string, style int) error {
	name := cellName(col, row)
	if err := f.SetCellStr(sheet, name, value); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.SetCellStyle(sheet, name, name, style); err != nil {
		return fmt.Errorf("style %s: %w", name, err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// columnWidth pads the widest value, bounded to keep the sheet readable.
func columnWidth(chars int) float64 {
	w := float64(chars) + 4
	if w < 12 {
		return 12
	}
	if w > 60 {
		return 60
	}
	return w
}
