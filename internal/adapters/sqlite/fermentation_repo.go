package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/brewctl/internal/ports/secondary"
)

const fermentationColumns = "seq, id, batch_id, measured_at, temperature, gravity, ph, pressure, notes, created_at"

// FermentationLogRepository implements secondary.FermentationLogRepository with SQLite.
type FermentationLogRepository struct {
	db *sql.DB
}

// NewFermentationLogRepository creates a new SQLite fermentation log repository.
func NewFermentationLogRepository(db *sql.DB) *FermentationLogRepository {
	return &FermentationLogRepository{db: db}
}

// Create persists a new reading. Seq is taken from the row ID.
func (r *FermentationLogRepository) Create(ctx context.Context, log *secondary.FermentationLogRecord) error {
	if log.ID == "" {
		return fmt.Errorf("fermentation log ID must be pre-populated by service layer")
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO fermentation_logs (id, batch_id, measured_at, temperature, gravity, ph, pressure, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		log.ID, log.BatchID, log.MeasuredAt.UTC(), log.Temperature,
		nullFloat(log.Gravity), nullFloat(log.PH), nullFloat(log.Pressure), nullString(log.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create fermentation log: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read fermentation log seq: %w", err)
	}
	log.Seq = seq

	return nil
}

// GetByID retrieves a reading by its ID.
func (r *FermentationLogRepository) GetByID(ctx context.Context, id string) (*secondary.FermentationLogRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+fermentationColumns+" FROM fermentation_logs WHERE id = ?", id)
	record, err := scanFermentationLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fermentation log %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fermentation log: %w", err)
	}
	return record, nil
}

// ListByBatch returns all readings of a batch in insertion order.
func (r *FermentationLogRepository) ListByBatch(ctx context.Context, batchID string) ([]*secondary.FermentationLogRecord, error) {
	return r.query(ctx,
		"SELECT "+fermentationColumns+" FROM fermentation_logs WHERE batch_id = ? ORDER BY seq",
		batchID,
	)
}

// ListPage returns the next page of readings after afterSeq.
func (r *FermentationLogRepository) ListPage(ctx context.Context, batchID string, afterSeq int64, limit int) ([]*secondary.FermentationLogRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", limit)
	}
	return r.query(ctx,
		"SELECT "+fermentationColumns+" FROM fermentation_logs WHERE batch_id = ? AND seq > ? ORDER BY seq LIMIT ?",
		batchID, afterSeq, limit,
	)
}

// Delete removes a reading from a batch.
func (r *FermentationLogRepository) Delete(ctx context.Context, batchID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM fermentation_logs WHERE id = ? AND batch_id = ?", id, batchID)
	if err != nil {
		return fmt.Errorf("failed to delete fermentation log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("fermentation log %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

func (r *FermentationLogRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.FermentationLogRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fermentation logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.FermentationLogRecord
	for rows.Next() {
		record, err := scanFermentationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fermentation log: %w", err)
		}
		logs = append(logs, record)
	}

	return logs, rows.Err()
}

func scanFermentationLog(row rowScanner) (*secondary.FermentationLogRecord, error) {
	var (
		gravity   sql.NullFloat64
		ph        sql.NullFloat64
		pressure  sql.NullFloat64
		notes     sql.NullString
		createdAt time.Time
	)

	record := &secondary.FermentationLogRecord{}
	err := row.Scan(&record.Seq, &record.ID, &record.BatchID, &record.MeasuredAt, &record.Temperature,
		&gravity, &ph, &pressure, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	record.MeasuredAt = record.MeasuredAt.UTC()
	record.Gravity = floatPtr(gravity)
	record.PH = floatPtr(ph)
	record.Pressure = floatPtr(pressure)
	record.Notes = notes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure FermentationLogRepository implements the interface
var _ secondary.FermentationLogRepository = (*FermentationLogRepository)(nil)
