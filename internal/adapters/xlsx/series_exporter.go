// Package xlsx exports fermentation series to Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/brewctl/internal/ports/secondary"
)

const (
	readingsSheet = "Readings"
	summarySheet  = "Summary"
)

var readingHeadings = []string{"Measured At (UTC)", "Temperature (°C)", "Gravity (SG)", "pH", "Pressure (PSI)"}

// SeriesExporter implements secondary.SeriesExporter with excelize.
type SeriesExporter struct{}

// NewSeriesExporter creates a new workbook exporter.
func NewSeriesExporter() *SeriesExporter {
	return &SeriesExporter{}
}

// Export writes a two-sheet workbook: one row per reading, then the headline aggregates.
// Absent optional metrics are left as empty cells.
func (e *SeriesExporter) Export(w io.Writer, sheet *secondary.SeriesSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", readingsSheet); err != nil {
		return fmt.Errorf("failed to name readings sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for i, h := range readingHeadings {
		if err := f.SetCellValue(readingsSheet, cell(i, 1), h); err != nil {
			return err
		}
	}

	for i, row := range sheet.Rows {
		r := i + 2
		values := []any{row.At.UTC().Format(time.RFC3339), row.Temperature, optional(row.Gravity), optional(row.PH), optional(row.Pressure)}
		for col, v := range values {
			if v == nil {
				continue
			}
			if err := f.SetCellValue(readingsSheet, cell(col, r), v); err != nil {
				return fmt.Errorf("failed to write reading %d: %w", i+1, err)
			}
		}
	}

	summary := [][]any{
		{"Batch", sheet.BatchNumber},
		{"Readings", len(sheet.Rows)},
		{"Average temperature (°C)", optional(sheet.AverageTemperature)},
		{"Gravity drop", optional(sheet.GravityDrop)},
		{"Current pH", optional(sheet.CurrentPH)},
	}
	for i, kv := range summary {
		for col, v := range kv {
			if v == nil {
				continue
			}
			if err := f.SetCellValue(summarySheet, cell(col, i+1), v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	return string(rune('A'+col)) + fmt.Sprint(row)
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Ensure SeriesExporter implements the interface
var _ secondary.SeriesExporter = (*SeriesExporter)(nil)
