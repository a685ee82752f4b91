package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/brewctl/internal/ports/secondary"
)

const testTypeColumns = "id, name, category, unit, min_value, max_value, description"

// QCRepository implements secondary.QCRepository with SQLite.
type QCRepository struct {
	db *sql.DB
}

// NewQCRepository creates a new SQLite QC repository.
func NewQCRepository(db *sql.DB) *QCRepository {
	return &QCRepository{db: db}
}

// CreateTestType persists a new test type.
func (r *QCRepository) CreateTestType(ctx context.Context, tt *secondary.QCTestTypeRecord) error {
	if tt.ID == "" {
		return fmt.Errorf("test type ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO qc_test_types (id, name, category, unit, min_value, max_value, description) VALUES (?, ?, ?, ?, ?, ?, ?)",
		tt.ID, tt.Name, tt.Category, nullString(tt.Unit), nullFloat(tt.MinValue), nullFloat(tt.MaxValue), nullString(tt.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to create test type: %w", err)
	}

	return nil
}

// UpdateTestType replaces every field of an existing test type except its ID.
func (r *QCRepository) UpdateTestType(ctx context.Context, tt *secondary.QCTestTypeRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE qc_test_types SET name = ?, category = ?, unit = ?, min_value = ?, max_value = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		tt.Name, tt.Category, nullString(tt.Unit), nullFloat(tt.MinValue), nullFloat(tt.MaxValue), nullString(tt.Description), tt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test type: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("test type %s %w", tt.ID, secondary.ErrNotFound)
	}

	return nil
}

// GetTestType retrieves a test type by ID.
func (r *QCRepository) GetTestType(ctx context.Context, id string) (*secondary.QCTestTypeRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+testTypeColumns+" FROM qc_test_types WHERE id = ?", id)
	record, err := scanTestType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("test type %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test type: %w", err)
	}
	return record, nil
}

// GetTestTypeByName retrieves a test type by name, ignoring case.
func (r *QCRepository) GetTestTypeByName(ctx context.Context, name string) (*secondary.QCTestTypeRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+testTypeColumns+" FROM qc_test_types WHERE name = ? COLLATE NOCASE", name)
	record, err := scanTestType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("test type %q %w", name, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test type: %w", err)
	}
	return record, nil
}

// ListTestTypes lists all test types ordered by category and name.
func (r *QCRepository) ListTestTypes(ctx context.Context) ([]*secondary.QCTestTypeRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+testTypeColumns+" FROM qc_test_types ORDER BY category, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list test types: %w", err)
	}
	defer rows.Close()

	var types []*secondary.QCTestTypeRecord
	for rows.Next() {
		record, err := scanTestType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test type: %w", err)
		}
		types = append(types, record)
	}

	return types, rows.Err()
}

// CreateTest persists a new QC test.
func (r *QCRepository) CreateTest(ctx context.Context, test *secondary.QCTestRecord) error {
	if test.ID == "" {
		return fmt.Errorf("QC test ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO qc_tests (id, batch_id, test_type_id, result, value, notes) VALUES (?, ?, ?, ?, ?, ?)",
		test.ID, test.BatchID, test.TestTypeID, test.Result, nullFloat(test.Value), nullString(test.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create QC test: %w", err)
	}

	return nil
}

// ListTests lists QC tests with their test type names.
func (r *QCRepository) ListTests(ctx context.Context, filters secondary.QCTestFilters) ([]*secondary.QCTestRecord, error) {
	query := `SELECT t.id, t.batch_id, t.test_type_id, tt.name, t.result, t.value, t.notes, t.created_at
		FROM qc_tests t JOIN qc_test_types tt ON tt.id = t.test_type_id`
	args := []any{}

	if filters.BatchID != "" {
		query += " WHERE t.batch_id = ?"
		args = append(args, filters.BatchID)
	}

	query += " ORDER BY t.rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list QC tests: %w", err)
	}
	defer rows.Close()

	var tests []*secondary.QCTestRecord
	for rows.Next() {
		var (
			value     sql.NullFloat64
			notes     sql.NullString
			createdAt time.Time
		)
		record := &secondary.QCTestRecord{}
		if err := rows.Scan(&record.ID, &record.BatchID, &record.TestTypeID, &record.TestTypeName, &record.Result, &value, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan QC test: %w", err)
		}
		record.Value = floatPtr(value)
		record.Notes = notes.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		tests = append(tests, record)
	}

	return tests, rows.Err()
}

func scanTestType(row rowScanner) (*secondary.QCTestTypeRecord, error) {
	var (
		unit        sql.NullString
		minValue    sql.NullFloat64
		maxValue    sql.NullFloat64
		description sql.NullString
	)

	record := &secondary.QCTestTypeRecord{}
	if err := row.Scan(&record.ID, &record.Name, &record.Category, &unit, &minValue, &maxValue, &description); err != nil {
		return nil, err
	}

	record.Unit = unit.String
	record.MinValue = floatPtr(minValue)
	record.MaxValue = floatPtr(maxValue)
	record.Description = description.String

	return record, nil
}

// Ensure QCRepository implements the interface
var _ secondary.QCRepository = (*QCRepository)(nil)
