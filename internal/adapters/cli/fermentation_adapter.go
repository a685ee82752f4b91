package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/example/brewctl/internal/core/gravity"
	"github.com/example/brewctl/internal/ports/primary"
)

// FermentationAdapter is a thin adapter that translates CLI operations to FermentationService calls.
type FermentationAdapter struct {
	service primary.FermentationService
	out     io.Writer
}

// NewFermentationAdapter creates a new FermentationAdapter with the given service.
func NewFermentationAdapter(service primary.FermentationService, out io.Writer) *FermentationAdapter {
	return &FermentationAdapter{
		service: service,
		out:     out,
	}
}

// Log records a reading.
func (a *FermentationAdapter) Log(ctx context.Context, req primary.LogReadingRequest) error {
	r, err := a.service.LogReading(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Logged reading %s at %s: %s", r.ID, formatDateTime(r.MeasuredAt), formatTemperature(r.Temperature))
	if r.Gravity != nil {
		fmt.Fprintf(a.out, ", SG %s", gravity.FormatSG(*r.Gravity))
	}
	if r.PH != nil {
		fmt.Fprintf(a.out, ", pH %s", formatOneDecimal(*r.PH))
	}
	fmt.Fprintln(a.out)
	return nil
}

// List lists a batch's readings in time order.
func (a *FermentationAdapter) List(ctx context.Context, batchRef string) error {
	readings, err := a.service.ListReadings(ctx, batchRef)
	if err != nil {
		return fmt.Errorf("failed to list readings: %w", err)
	}

	if len(readings) == 0 {
		fmt.Fprintln(a.out, "No readings recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-16s %8s %7s %5s %8s  %s\n", "MEASURED", "TEMP", "SG", "PH", "PRESSURE", "NOTES")
	fmt.Fprintln(a.out, rule)
	for _, r := range readings {
		fmt.Fprintf(a.out, "%-16s %8s %7s %5s %8s  %s\n",
			formatDateTime(r.MeasuredAt),
			formatTemperature(r.Temperature),
			formatOptional(r.Gravity, gravity.FormatSG),
			formatOptional(r.PH, formatOneDecimal),
			formatOptional(r.Pressure, formatOneDecimal),
			r.Notes,
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Summary prints fermentation aggregates for an optional window.
func (a *FermentationAdapter) Summary(ctx context.Context, req primary.SummaryRequest) error {
	s, err := a.service.Summarize(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to summarize fermentation: %w", err)
	}

	fmt.Fprintf(a.out, "\nFermentation summary for %s\n", s.BatchNumber)
	fmt.Fprintln(a.out, rule)
	if s.ReadingCount == 0 {
		fmt.Fprintln(a.out, "No readings recorded")
		return nil
	}

	fmt.Fprintf(a.out, "Readings:      %d (%s to %s)\n", s.ReadingCount, formatOptionalDate(s.FirstReadingAt), formatOptionalDate(s.LastReadingAt))
	fmt.Fprintf(a.out, "Temperature:   avg %s, min %s, max %s\n",
		formatOptional(s.AverageTemperature, formatTemperature),
		formatOptional(s.MinTemperature, formatTemperature),
		formatOptional(s.MaxTemperature, formatTemperature))
	fmt.Fprintf(a.out, "Gravity drop:  %s\n", formatOptional(s.GravityDrop, gravity.FormatSG))
	fmt.Fprintf(a.out, "Current pH:    %s\n", formatOptional(s.CurrentPH, formatOneDecimal))
	fmt.Fprintf(a.out, "Series points: %d temperature, %d gravity, %d pH, %d pressure\n",
		len(s.Temperature), len(s.Gravity), len(s.PH), len(s.Pressure))
	fmt.Fprintln(a.out)

	return nil
}

// Export writes the batch's fermentation series workbook to path.
// A partially written file is removed on failure.
func (a *FermentationAdapter) Export(ctx context.Context, batchRef, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := a.service.ExportSeries(ctx, batchRef, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to export series: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "✓ Exported fermentation series to %s\n", path)
	return nil
}

// Delete removes one reading.
func (a *FermentationAdapter) Delete(ctx context.Context, batchRef, readingID string) error {
	if err := a.service.DeleteReading(ctx, batchRef, readingID); err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Reading %s deleted\n", readingID)
	return nil
}
