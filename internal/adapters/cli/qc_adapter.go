package cli

import (
	"context"
	"fmt"
	"io"

	coreqc "github.com/example/brewctl/internal/core/qc"
	"github.com/example/brewctl/internal/ports/primary"
)

// QCAdapter is a thin adapter that translates CLI operations to QCService calls.
type QCAdapter struct {
	service primary.QCService
	out     io.Writer
}

// NewQCAdapter creates a new QCAdapter with the given service.
func NewQCAdapter(service primary.QCService, out io.Writer) *QCAdapter {
	return &QCAdapter{
		service: service,
		out:     out,
	}
}

// AddType defines a new test type.
func (a *QCAdapter) AddType(ctx context.Context, req primary.CreateTestTypeRequest) error {
	tt, err := a.service.CreateTestType(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created test type %s (%s) in %s\n", tt.Name, tt.ID, tt.Category)
	return nil
}

// ListTypes lists the defined test types.
func (a *QCAdapter) ListTypes(ctx context.Context) error {
	types, err := a.service.ListTestTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list test types: %w", err)
	}

	if len(types) == 0 {
		fmt.Fprintln(a.out, "No test types defined")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-12s %-8s %8s %8s\n", "NAME", "CATEGORY", "UNIT", "MIN", "MAX")
	fmt.Fprintln(a.out, rule)
	for _, tt := range types {
		fmt.Fprintf(a.out, "%-20s %-12s %-8s %8s %8s\n",
			tt.Name,
			tt.Category,
			orDash(tt.Unit),
			formatOptional(tt.MinValue, formatNumber),
			formatOptional(tt.MaxValue, formatNumber),
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Import loads test types from a catalogue file.
func (a *QCAdapter) Import(ctx context.Context, path string) error {
	result, err := a.service.ImportTestTypes(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to import test types: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Imported %s: %d created, %d updated\n", path, result.Created, result.Updated)
	return nil
}

// AddTest records a QC test on a batch.
func (a *QCAdapter) AddTest(ctx context.Context, req primary.RecordTestRequest) error {
	t, err := a.service.RecordTest(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Recorded %s test %s: %s", t.TestTypeName, t.ID, resultBadge(t.Result, 0))
	if t.Value != nil {
		fmt.Fprintf(a.out, " (value %s", formatNumber(*t.Value))
		if t.Band != "" {
			fmt.Fprintf(a.out, ", %s", t.Band)
		}
		fmt.Fprint(a.out, ")")
	}
	fmt.Fprintln(a.out)
	return nil
}

// ListTests lists QC tests, for one batch when batchRef is set.
func (a *QCAdapter) ListTests(ctx context.Context, batchRef string) error {
	tests, err := a.service.ListTests(ctx, batchRef)
	if err != nil {
		return fmt.Errorf("failed to list tests: %w", err)
	}

	if len(tests) == 0 {
		fmt.Fprintln(a.out, "No QC tests recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-8s %8s %-9s  %s\n", "TEST", "RESULT", "VALUE", "BAND", "NOTES")
	fmt.Fprintln(a.out, rule)
	for _, t := range tests {
		fmt.Fprintf(a.out, "%-20s %s %8s %-9s  %s\n",
			t.TestTypeName,
			resultBadge(t.Result, 8),
			formatOptional(t.Value, formatNumber),
			orDash(t.Band),
			t.Notes,
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Stats prints pass/fail counts for one batch or across all batches.
func (a *QCAdapter) Stats(ctx context.Context, batchRef string) error {
	stats, err := a.service.Stats(ctx, batchRef)
	if err != nil {
		return fmt.Errorf("failed to get QC stats: %w", err)
	}

	scope := "all batches"
	if stats.BatchID != "" {
		scope = batchRef
	}

	fmt.Fprintf(a.out, "\nQC results for %s\n", scope)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "Total:     %d\n", stats.Total)
	fmt.Fprintf(a.out, "Passed:    %d\n", stats.Passed)
	fmt.Fprintf(a.out, "Failed:    %d\n", stats.Failed)
	fmt.Fprintf(a.out, "Pending:   %d\n", stats.Pending)
	fmt.Fprintf(a.out, "Pass rate: %s\n", coreqc.FormatPassRate(stats.PassRate))
	fmt.Fprintln(a.out)

	return nil
}
