// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	corebatch "github.com/example/brewctl/internal/core/batch"
	"github.com/example/brewctl/internal/ports/secondary"
)

const batchColumns = `id, batch_number, recipe_id, location_id, status, brew_date,
	fermentation_start_date, packaged_date, finished_date, cancelled_date,
	expected_volume, actual_volume, og, fg, abv, notes, version, created_at, updated_at`

// BatchRepository implements secondary.BatchRepository with SQLite.
type BatchRepository struct {
	db *sql.DB
}

// NewBatchRepository creates a new SQLite batch repository.
func NewBatchRepository(db *sql.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create persists a new batch.
// The batch record must have ID, BatchNumber and Status pre-populated by the service layer.
func (r *BatchRepository) Create(ctx context.Context, batch *secondary.BatchRecord) error {
	if batch.ID == "" {
		return fmt.Errorf("batch ID must be pre-populated by service layer")
	}
	if batch.BatchNumber == "" || batch.Status == "" {
		return fmt.Errorf("batch number and status must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO batches (id, batch_number, recipe_id, location_id, status, brew_date, expected_volume, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		batch.ID, batch.BatchNumber, batch.RecipeID, batch.LocationID, batch.Status,
		batch.BrewDate.UTC(), batch.ExpectedVolume, nullString(batch.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}

	return nil
}

// GetByID retrieves a batch by its ID.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*secondary.BatchRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+batchColumns+" FROM batches WHERE id = ?", id)
	record, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return record, nil
}

// GetByNumber retrieves a batch by its batch number.
func (r *BatchRepository) GetByNumber(ctx context.Context, number string) (*secondary.BatchRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+batchColumns+" FROM batches WHERE batch_number = ?", number)
	record, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s %w", number, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return record, nil
}

// List retrieves batches matching the given filters.
func (r *BatchRepository) List(ctx context.Context, filters secondary.BatchFilters) ([]*secondary.BatchRecord, error) {
	query := "SELECT " + batchColumns + " FROM batches"
	args := []any{}

	if filters.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY brew_date DESC, batch_number DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []*secondary.BatchRecord
	for rows.Next() {
		record, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, record)
	}

	return batches, rows.Err()
}

// ApplyTransition writes the transitioned batch and its history entry in one
// transaction, guarded by the batch version.
func (r *BatchRepository) ApplyTransition(ctx context.Context, batch *secondary.BatchRecord, entry *secondary.HistoryRecord) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode history changes: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE batches SET
			status = ?, fermentation_start_date = ?, packaged_date = ?, finished_date = ?, cancelled_date = ?,
			actual_volume = ?, og = ?, fg = ?, abv = ?,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`,
		batch.Status, nullTime(batch.FermentationStartDate), nullTime(batch.PackagedDate),
		nullTime(batch.FinishedDate), nullTime(batch.CancelledDate),
		nullFloat(batch.ActualVolume), nullFloat(batch.OG), nullFloat(batch.FG), nullFloat(batch.ABV),
		batch.ID, batch.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	if err := r.checkVersioned(ctx, tx, result, batch.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO batch_history (id, batch_id, from_status, to_status, changed_at, changes, notes, actor) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, batch.ID, entry.FromStatus, entry.ToStatus, entry.At.UTC(), string(changes),
		nullString(entry.Notes), nullString(entry.Actor),
	)
	if err != nil {
		return fmt.Errorf("failed to append batch history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}

	batch.Version++
	return nil
}

// UpdateNotes replaces the notes of a batch when its version still matches.
func (r *BatchRepository) UpdateNotes(ctx context.Context, id, notes string, version int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE batches SET notes = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?",
		nullString(notes), id, version,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch notes: %w", err)
	}
	if err := r.checkVersioned(ctx, tx, result, id); err != nil {
		return err
	}

	return tx.Commit()
}

// checkVersioned distinguishes a missing batch from a stale version after a guarded UPDATE.
func (r *BatchRepository) checkVersioned(ctx context.Context, tx *sql.Tx, result sql.Result, id string) error {
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM batches WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check batch: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}
	return fmt.Errorf("batch %s: %w", id, secondary.ErrVersionConflict)
}

// Delete removes a batch. History, fermentation logs and QC tests cascade.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// ListHistory returns the history of a batch in the order it was written.
func (r *BatchRepository) ListHistory(ctx context.Context, batchID string) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, batch_id, from_status, to_status, changed_at, changes, notes, actor FROM batch_history WHERE batch_id = ? ORDER BY rowid",
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.HistoryRecord
	for rows.Next() {
		var (
			changes sql.NullString
			notes   sql.NullString
			actor   sql.NullString
		)
		record := &secondary.HistoryRecord{}
		if err := rows.Scan(&record.ID, &record.BatchID, &record.FromStatus, &record.ToStatus, &record.At, &changes, &notes, &actor); err != nil {
			return nil, fmt.Errorf("failed to scan batch history: %w", err)
		}
		if changes.Valid && changes.String != "" && changes.String != "null" {
			if err := json.Unmarshal([]byte(changes.String), &record.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode history changes: %w", err)
			}
		}
		record.Notes = notes.String
		record.Actor = actor.String
		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// GetNextBatchNumber returns the next available batch number.
// Uses core function for the number format to keep business logic in the functional core.
func (r *BatchRepository) GetNextBatchNumber(ctx context.Context) (string, error) {
	var maxNum int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(batch_number, 7) AS INTEGER)), 0) FROM batches WHERE batch_number LIKE 'BATCH-%'",
	).Scan(&maxNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next batch number: %w", err)
	}

	return corebatch.GenerateBatchNumber(maxNum), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*secondary.BatchRecord, error) {
	var (
		fermStart    sql.NullTime
		packaged     sql.NullTime
		finished     sql.NullTime
		cancelled    sql.NullTime
		actualVolume sql.NullFloat64
		og           sql.NullFloat64
		fg           sql.NullFloat64
		abv          sql.NullFloat64
		notes        sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	record := &secondary.BatchRecord{}
	err := row.Scan(&record.ID, &record.BatchNumber, &record.RecipeID, &record.LocationID, &record.Status, &record.BrewDate,
		&fermStart, &packaged, &finished, &cancelled,
		&record.ExpectedVolume, &actualVolume, &og, &fg, &abv, &notes, &record.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.BrewDate = record.BrewDate.UTC()
	record.FermentationStartDate = timePtr(fermStart)
	record.PackagedDate = timePtr(packaged)
	record.FinishedDate = timePtr(finished)
	record.CancelledDate = timePtr(cancelled)
	record.ActualVolume = floatPtr(actualVolume)
	record.OG = floatPtr(og)
	record.FG = floatPtr(fg)
	record.ABV = floatPtr(abv)
	record.Notes = notes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure BatchRepository implements the interface
var _ secondary.BatchRepository = (*BatchRepository)(nil)
