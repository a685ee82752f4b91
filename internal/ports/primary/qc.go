package primary

import "context"

// QCService defines the primary port for quality-control operations.
type QCService interface {
	// CreateTestType defines a new kind of QC test.
	CreateTestType(ctx context.Context, req CreateTestTypeRequest) (*TestType, error)

	// ListTestTypes lists all test types ordered by category and name.
	ListTestTypes(ctx context.Context) ([]*TestType, error)

	// ImportTestTypes loads test types from a catalogue file, updating
	// existing types with the same name.
	ImportTestTypes(ctx context.Context, path string) (*ImportResult, error)

	// RecordTest records a QC test result for a batch.
	RecordTest(ctx context.Context, req RecordTestRequest) (*QCTest, error)

	// ListTests lists QC tests, optionally for one batch.
	ListTests(ctx context.Context, batchRef string) ([]*QCTest, error)

	// Stats returns pass/fail/pending counts for one batch, or for all
	// batches when batchRef is empty.
	Stats(ctx context.Context, batchRef string) (*QCStats, error)
}

// CreateTestTypeRequest contains parameters for defining a test type.
type CreateTestTypeRequest struct {
	Name        string `validate:"required"`
	Category    string `validate:"required"`
	Unit        string
	MinValue    *float64
	MaxValue    *float64
	Description string
}

// TestType represents a QC test type at the port boundary.
type TestType struct {
	ID          string
	Name        string
	Category    string
	Unit        string
	MinValue    *float64
	MaxValue    *float64
	Description string
}

// ImportResult reports what a catalogue import changed.
type ImportResult struct {
	Created int
	Updated int
}

// RecordTestRequest contains parameters for recording a QC test.
// TestType is a test type ID or name. When AutoResult is set and Result is
// empty, the result is derived from Value and the type's band.
type RecordTestRequest struct {
	BatchRef   string `validate:"required"`
	TestType   string `validate:"required"`
	Result     string `validate:"omitempty,oneof=PASS FAIL PENDING"`
	Value      *float64
	AutoResult bool
	Notes      string
}

// QCTest represents a recorded QC test at the port boundary.
type QCTest struct {
	ID           string
	BatchID      string
	TestTypeID   string
	TestTypeName string
	Result       string
	Value        *float64
	Band         string // WITHIN, BELOW, ABOVE or UNBOUNDED; empty without a value
	Notes        string
	CreatedAt    string
}

// QCStats contains aggregated QC outcomes. PassRate is nil when there are no tests.
type QCStats struct {
	BatchID  string
	Total    int
	Passed   int
	Failed   int
	Pending  int
	PassRate *int
}
