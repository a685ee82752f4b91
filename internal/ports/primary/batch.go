// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"
)

// BatchService defines the primary port for batch lifecycle operations.
// Every method taking a ref accepts either the batch ID or its batch number.
type BatchService interface {
	// CreateBatch plans a new batch.
	CreateBatch(ctx context.Context, req CreateBatchRequest) (*CreateBatchResponse, error)

	// GetBatch retrieves a batch by ID or batch number.
	GetBatch(ctx context.Context, ref string) (*Batch, error)

	// ListBatches lists batches with optional filters.
	ListBatches(ctx context.Context, filters BatchFilters) ([]*Batch, error)

	// TransitionBatch moves a batch to a new status.
	TransitionBatch(ctx context.Context, req TransitionBatchRequest) (*TransitionBatchResponse, error)

	// CancelBatch cancels a non-terminal batch.
	CancelBatch(ctx context.Context, ref, notes string) (*TransitionBatchResponse, error)

	// UpdateNotes replaces the free-text notes of a batch.
	UpdateNotes(ctx context.Context, req UpdateNotesRequest) error

	// DeleteBatch deletes a batch with its history, fermentation logs and QC tests.
	DeleteBatch(ctx context.Context, ref string) error

	// GetHistory returns the status history of a batch, oldest first.
	GetHistory(ctx context.Context, ref string) ([]*HistoryEntry, error)

	// VerifyHistory checks that the stored history is a legal lifecycle
	// consistent with the batch's current status.
	VerifyHistory(ctx context.Context, ref string) error

	// GetStatistics aggregates all batches.
	GetStatistics(ctx context.Context) (*BatchStatistics, error)

	// GetCalendar returns the calendar span of each batch.
	GetCalendar(ctx context.Context, filters BatchFilters) ([]*CalendarEntry, error)
}

// CreateBatchRequest contains parameters for planning a batch.
type CreateBatchRequest struct {
	RecipeID       string    `validate:"required"`
	LocationID     string    `validate:"required"`
	BrewDate       time.Time `validate:"required"`
	ExpectedVolume float64   `validate:"gt=0"`
	Notes          string
}

// CreateBatchResponse contains the result of creating a batch.
type CreateBatchResponse struct {
	BatchID string
	Batch   *Batch
}

// GravityInput is a gravity value as entered, with its unit.
// Unit is SG or PLATO; empty means SG.
type GravityInput struct {
	Value float64
	Unit  string `validate:"omitempty,oneof=SG PLATO"`
}

// TransitionBatchRequest contains parameters for a status transition.
type TransitionBatchRequest struct {
	BatchRef     string `validate:"required"`
	TargetStatus string `validate:"required"`
	OG           *GravityInput
	FG           *GravityInput
	ActualVolume *float64 `validate:"omitempty,gt=0"`
	Notes        string
}

// TransitionBatchResponse contains the result of a transition.
// Entry is nil when the batch was already in the requested status.
type TransitionBatchResponse struct {
	Batch *Batch
	Entry *HistoryEntry
	NoOp  bool
}

// UpdateNotesRequest contains parameters for updating batch notes.
type UpdateNotesRequest struct {
	BatchRef string `validate:"required"`
	Notes    string
}

// Batch represents a batch at the port boundary.
// Gravity values are SG; OG, FG, ABV and ActualVolume are nil until recorded.
type Batch struct {
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

// BatchFilters contains filter options for listing batches.
type BatchFilters struct {
	Status string
	Limit  int
}

// FieldChange is one field mutation recorded with a transition.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// HistoryEntry is an audit record of an applied transition.
type HistoryEntry struct {
	ID      string
	From    string
	To      string
	At      time.Time
	Changes []FieldChange
	Notes   string
	Actor   string
}

// BatchStatistics summarises all batches.
type BatchStatistics struct {
	TotalBatches        int
	ActiveBatches       int
	FinishedBatches     int
	CancelledBatches    int
	TotalVolumeProduced float64
	AverageABV          *float64
	StatusBreakdown     map[string]int
}

// CalendarEntry is a batch placed on the production calendar.
type CalendarEntry struct {
	BatchID     string
	BatchNumber string
	RecipeID    string
	Status      string
	Start       time.Time
	End         time.Time
	Estimated   bool
}
