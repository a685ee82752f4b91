package primary

import (
	"context"
	"io"
	"time"
)

// FermentationService defines the primary port for fermentation log operations.
type FermentationService interface {
	// LogReading records a fermentation reading for a batch.
	LogReading(ctx context.Context, req LogReadingRequest) (*Reading, error)

	// ListReadings returns a batch's readings ordered by measurement time.
	ListReadings(ctx context.Context, batchRef string) ([]*Reading, error)

	// DeleteReading removes one reading from a batch.
	DeleteReading(ctx context.Context, batchRef, readingID string) error

	// Summarize computes fermentation aggregates and chart series.
	Summarize(ctx context.Context, req SummaryRequest) (*FermentationSummary, error)

	// ExportSeries writes the batch's fermentation series as a workbook to w.
	ExportSeries(ctx context.Context, batchRef string, w io.Writer) error
}

// LogReadingRequest contains parameters for recording a reading.
// A zero MeasuredAt means now.
type LogReadingRequest struct {
	BatchRef    string `validate:"required"`
	MeasuredAt  time.Time
	Temperature float64  `validate:"gte=-10,lte=110"`
	Gravity     *float64 `validate:"omitempty,gt=0.9,lt=1.3"`
	PH          *float64 `validate:"omitempty,gte=0,lte=14"`
	Pressure    *float64 `validate:"omitempty,gte=0"`
	Notes       string
}

// Reading represents a fermentation reading at the port boundary.
type Reading struct {
	ID          string
	BatchID     string
	MeasuredAt  time.Time
	Temperature float64
	Gravity     *float64
	PH          *float64
	Pressure    *float64
	Notes       string
}

// SummaryRequest selects the batch and optional window to summarize.
// Zero From/To leave that side of the window open.
type SummaryRequest struct {
	BatchRef string `validate:"required"`
	From     time.Time
	To       time.Time
}

// SeriesPoint is one chart point.
type SeriesPoint struct {
	At    time.Time
	Value float64
}

// FermentationSummary contains aggregates over a batch's readings.
// Aggregates are nil when there is no data for them.
type FermentationSummary struct {
	BatchID            string
	BatchNumber        string
	ReadingCount       int
	AverageTemperature *float64
	MinTemperature     *float64
	MaxTemperature     *float64
	GravityDrop        *float64
	CurrentPH          *float64
	FirstReadingAt     *time.Time
	LastReadingAt      *time.Time
	Temperature        []SeriesPoint
	Gravity            []SeriesPoint
	PH                 []SeriesPoint
	Pressure           []SeriesPoint
}
