package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/brewctl/internal/core/gravity"
	"github.com/example/brewctl/internal/ports/primary"
)

// BatchAdapter is a thin adapter that translates CLI operations to BatchService calls.
// Gravity values are shown in the configured display unit.
type BatchAdapter struct {
	service primary.BatchService
	out     io.Writer
	unit    gravity.Unit
}

// NewBatchAdapter creates a new BatchAdapter with the given service.
func NewBatchAdapter(service primary.BatchService, out io.Writer, unit gravity.Unit) *BatchAdapter {
	if unit == "" {
		unit = gravity.UnitSG
	}
	return &BatchAdapter{
		service: service,
		out:     out,
		unit:    unit,
	}
}

// Create plans a new batch.
func (a *BatchAdapter) Create(ctx context.Context, req primary.CreateBatchRequest) error {
	resp, err := a.service.CreateBatch(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created batch %s (%s) for recipe %s, brewing %s\n",
		resp.Batch.BatchNumber, resp.BatchID, resp.Batch.RecipeID, formatDate(resp.Batch.BrewDate))
	return nil
}

// List lists batches with optional status filter.
func (a *BatchAdapter) List(ctx context.Context, status string) error {
	batches, err := a.service.ListBatches(ctx, primary.BatchFilters{Status: status})
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	if len(batches) == 0 {
		fmt.Fprintln(a.out, "No batches found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-15s %-10s %-10s %8s %7s\n", "BATCH", "STATUS", "RECIPE", "LOCATION", "BREWED", "VOLUME", "ABV")
	fmt.Fprintln(a.out, rule)
	for _, b := range batches {
		volume := b.ExpectedVolume
		if b.ActualVolume != nil {
			volume = *b.ActualVolume
		}
		fmt.Fprintf(a.out, "%-10s %s %-15s %-10s %-10s %8s %7s\n",
			b.BatchNumber,
			statusBadge(b.Status, 12),
			b.RecipeID,
			b.LocationID,
			formatDate(b.BrewDate),
			formatNumber(volume),
			formatOptional(b.ABV, gravity.FormatPercent),
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a batch with its history. With verify set, the stored
// history is also checked against the lifecycle rules.
func (a *BatchAdapter) Show(ctx context.Context, ref string, verify bool) error {
	b, err := a.service.GetBatch(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to get batch: %w", err)
	}

	fmt.Fprintf(a.out, "\nBatch:    %s (%s)\n", b.BatchNumber, b.ID)
	fmt.Fprintf(a.out, "Status:   %s\n", statusBadge(b.Status, 0))
	fmt.Fprintf(a.out, "Recipe:   %s\n", b.RecipeID)
	fmt.Fprintf(a.out, "Location: %s\n", b.LocationID)
	fmt.Fprintf(a.out, "Brewed:   %s\n", formatDate(b.BrewDate))
	if b.FermentationStartDate != nil {
		fmt.Fprintf(a.out, "Fermenting since: %s\n", formatDateTime(*b.FermentationStartDate))
	}
	if b.PackagedDate != nil {
		fmt.Fprintf(a.out, "Packaged: %s\n", formatDateTime(*b.PackagedDate))
	}
	if b.FinishedDate != nil {
		fmt.Fprintf(a.out, "Finished: %s\n", formatDateTime(*b.FinishedDate))
	}
	if b.CancelledDate != nil {
		fmt.Fprintf(a.out, "Cancelled: %s\n", formatDateTime(*b.CancelledDate))
	}
	fmt.Fprintf(a.out, "Volume:   %s expected, %s actual\n", formatNumber(b.ExpectedVolume), formatOptional(b.ActualVolume, formatNumber))
	fmt.Fprintf(a.out, "OG / FG:  %s / %s\n", formatOptional(b.OG, formatGravityIn(a.unit)), formatOptional(b.FG, formatGravityIn(a.unit)))
	fmt.Fprintf(a.out, "ABV:      %s\n", formatOptional(b.ABV, gravity.FormatPercent))
	if b.Notes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", b.Notes)
	}

	history, err := a.service.GetHistory(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(history) > 0 {
		fmt.Fprintln(a.out, "\nHistory:")
		for _, h := range history {
			fmt.Fprintf(a.out, "  %s  %s → %s", formatDateTime(h.At), h.From, h.To)
			if h.Actor != "" {
				fmt.Fprintf(a.out, " by %s", h.Actor)
			}
			fmt.Fprintln(a.out)
			for _, c := range h.Changes {
				fmt.Fprintf(a.out, "      %s: %s\n", c.Field, c.New)
			}
			if h.Notes != "" {
				fmt.Fprintf(a.out, "      note: %s\n", h.Notes)
			}
		}
	}
	fmt.Fprintln(a.out)

	if verify {
		if err := a.service.VerifyHistory(ctx, b.ID); err != nil {
			fmt.Fprintf(a.out, "✗ History check failed: %v\n", err)
			return err
		}
		fmt.Fprintln(a.out, "✓ History is a valid lifecycle")
	}
	return nil
}

// Transition moves a batch to a new status.
func (a *BatchAdapter) Transition(ctx context.Context, req primary.TransitionBatchRequest) error {
	resp, err := a.service.TransitionBatch(ctx, req)
	if err != nil {
		return err
	}
	a.printTransition(resp)
	return nil
}

// Cancel cancels a batch.
func (a *BatchAdapter) Cancel(ctx context.Context, ref, notes string) error {
	resp, err := a.service.CancelBatch(ctx, ref, notes)
	if err != nil {
		return err
	}
	a.printTransition(resp)
	return nil
}

func (a *BatchAdapter) printTransition(resp *primary.TransitionBatchResponse) {
	if resp.NoOp {
		fmt.Fprintf(a.out, "Batch %s is already %s (no change)\n", resp.Batch.BatchNumber, resp.Batch.Status)
		return
	}

	fmt.Fprintf(a.out, "✓ Batch %s: %s → %s\n", resp.Batch.BatchNumber, resp.Entry.From, statusBadge(resp.Entry.To, 0))
	for _, c := range resp.Entry.Changes {
		fmt.Fprintf(a.out, "  %s: %s\n", c.Field, c.New)
	}
	if resp.Batch.ABV != nil {
		fmt.Fprintf(a.out, "  ABV now %s\n", gravity.FormatPercent(*resp.Batch.ABV))
	}
}

// UpdateNotes replaces a batch's notes.
func (a *BatchAdapter) UpdateNotes(ctx context.Context, ref, notes string) error {
	if err := a.service.UpdateNotes(ctx, primary.UpdateNotesRequest{BatchRef: ref, Notes: notes}); err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Batch %s notes updated\n", ref)
	return nil
}

// Delete deletes a batch and everything recorded against it.
func (a *BatchAdapter) Delete(ctx context.Context, ref string) error {
	if err := a.service.DeleteBatch(ctx, ref); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Batch %s deleted\n", ref)
	return nil
}

// Stats prints production statistics across all batches.
func (a *BatchAdapter) Stats(ctx context.Context) error {
	stats, err := a.service.GetStatistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	fmt.Fprintf(a.out, "\nBatches:   %d total, %d active, %d finished, %d cancelled\n",
		stats.TotalBatches, stats.ActiveBatches, stats.FinishedBatches, stats.CancelledBatches)
	fmt.Fprintf(a.out, "Produced:  %s\n", formatNumber(stats.TotalVolumeProduced))
	fmt.Fprintf(a.out, "Avg ABV:   %s\n", formatOptional(stats.AverageABV, gravity.FormatPercent))

	if len(stats.StatusBreakdown) > 0 {
		statuses := make([]string, 0, len(stats.StatusBreakdown))
		for s := range stats.StatusBreakdown {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)

		fmt.Fprintln(a.out, "\nBy status:")
		for _, s := range statuses {
			fmt.Fprintf(a.out, "  %s %d\n", statusBadge(s, 12), stats.StatusBreakdown[s])
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Calendar prints the production calendar.
func (a *BatchAdapter) Calendar(ctx context.Context, status string) error {
	entries, err := a.service.GetCalendar(ctx, primary.BatchFilters{Status: status})
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No batches scheduled")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-15s %-10s %s\n", "BATCH", "STATUS", "RECIPE", "START", "END")
	fmt.Fprintln(a.out, rule)
	for _, e := range entries {
		end := formatDate(e.End)
		if e.Estimated {
			end += " (est.)"
		}
		fmt.Fprintf(a.out, "%-10s %s %-15s %-10s %s\n", e.BatchNumber, statusBadge(e.Status, 12), e.RecipeID, formatDate(e.Start), end)
	}
	fmt.Fprintln(a.out)

	return nil
}
