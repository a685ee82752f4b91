// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a batch changed between read and write.
// The caller should reload and retry the operation.
var ErrVersionConflict = errors.New("batch was modified concurrently")

// BatchRepository defines the secondary port for batch persistence.
type BatchRepository interface {
	// Create persists a new batch.
	Create(ctx context.Context, batch *BatchRecord) error

	// GetByID retrieves a batch by its ID.
	GetByID(ctx context.Context, id string) (*BatchRecord, error)

	// GetByNumber retrieves a batch by its batch number.
	GetByNumber(ctx context.Context, number string) (*BatchRecord, error)

	// List retrieves batches matching the given filters, newest brew date first.
	List(ctx context.Context, filters BatchFilters) ([]*BatchRecord, error)

	// ApplyTransition stores the post-transition batch and appends the history
	// entry atomically. It fails with ErrVersionConflict unless the stored
	// version still equals batch.Version, and bumps the version on success.
	ApplyTransition(ctx context.Context, batch *BatchRecord, entry *HistoryRecord) error

	// UpdateNotes replaces batch notes under the same version check.
	UpdateNotes(ctx context.Context, id, notes string, version int) error

	// Delete removes a batch and everything it owns.
	Delete(ctx context.Context, id string) error

	// ListHistory returns the history of a batch, oldest first.
	ListHistory(ctx context.Context, batchID string) ([]*HistoryRecord, error)

	// GetNextBatchNumber returns the next available batch number.
	GetNextBatchNumber(ctx context.Context) (string, error)
}

// BatchRecord represents a batch as stored in persistence.
type BatchRecord struct {
	ID                    string
	BatchNumber           string
	RecipeID              string
	LocationID            string
	Status                string
	BrewDate              time.Time
	FermentationStartDate *time.Time
	PackagedDate          *time.Time
	FinishedDate          *time.Time
	CancelledDate         *time.Time
	ExpectedVolume        float64
	ActualVolume          *float64
	OG                    *float64
	FG                    *float64
	ABV                   *float64
	Notes                 string
	Version               int
	CreatedAt             string
	UpdatedAt             string
}

// BatchFilters contains filter options for querying batches.
type BatchFilters struct {
	Status string
	Limit  int
}

// FieldChangeRecord is one field mutation stored with a history entry.
type FieldChangeRecord struct {
	Field string `json:"field"`
	Old   string `json:"old,omitempty"`
	New   string `json:"new"`
}

// HistoryRecord represents a batch history entry as stored in persistence.
type HistoryRecord struct {
	ID         string
	BatchID    string
	FromStatus string
	ToStatus   string
	At         time.Time
	Changes    []FieldChangeRecord
	Notes      string
	Actor      string
}

// FermentationLogRepository defines the secondary port for fermentation log persistence.
type FermentationLogRepository interface {
	// Create persists a new reading and fills in its Seq.
	Create(ctx context.Context, log *FermentationLogRecord) error

	// GetByID retrieves a reading by its ID.
	GetByID(ctx context.Context, id string) (*FermentationLogRecord, error)

	// ListByBatch returns all readings of a batch in insertion order.
	ListByBatch(ctx context.Context, batchID string) ([]*FermentationLogRecord, error)

	// ListPage returns up to limit readings of a batch with Seq > afterSeq,
	// in insertion order. An empty page means the end.
	ListPage(ctx context.Context, batchID string, afterSeq int64, limit int) ([]*FermentationLogRecord, error)

	// Delete removes a reading from a batch.
	Delete(ctx context.Context, batchID, id string) error
}

// FermentationLogRecord represents a fermentation reading as stored in persistence.
type FermentationLogRecord struct {
	ID          string
	BatchID     string
	Seq         int64 // insertion order, assigned by the store
	MeasuredAt  time.Time
	Temperature float64
	Gravity     *float64
	PH          *float64
	Pressure    *float64
	Notes       string
	CreatedAt   string
}

// QCRepository defines the secondary port for QC test types and results.
type QCRepository interface {
	// CreateTestType persists a new test type. Names are unique.
	CreateTestType(ctx context.Context, tt *QCTestTypeRecord) error

	// UpdateTestType replaces the definition of an existing test type.
	UpdateTestType(ctx context.Context, tt *QCTestTypeRecord) error

	// GetTestType retrieves a test type by ID.
	GetTestType(ctx context.Context, id string) (*QCTestTypeRecord, error)

	// GetTestTypeByName retrieves a test type by name.
	GetTestTypeByName(ctx context.Context, name string) (*QCTestTypeRecord, error)

	// ListTestTypes lists all test types ordered by category and name.
	ListTestTypes(ctx context.Context) ([]*QCTestTypeRecord, error)

	// CreateTest persists a new QC test.
	CreateTest(ctx context.Context, test *QCTestRecord) error

	// ListTests lists QC tests matching the given filters, oldest first.
	ListTests(ctx context.Context, filters QCTestFilters) ([]*QCTestRecord, error)
}

// QCTestTypeRecord represents a QC test type as stored in persistence.
type QCTestTypeRecord struct {
	ID          string
	Name        string
	Category    string
	Unit        string
	MinValue    *float64
	MaxValue    *float64
	Description string
}

// QCTestRecord represents a QC test as stored in persistence.
type QCTestRecord struct {
	ID           string
	BatchID      string
	TestTypeID   string
	TestTypeName string // populated on reads
	Result       string
	Value        *float64
	Notes        string
	CreatedAt    string
}

// QCTestFilters contains filter options for querying QC tests.
type QCTestFilters struct {
	BatchID string
}
