package secondary

import (
	"context"
	"io"
	"time"
)

// SeriesExporter writes a batch's fermentation readings to an external format.
type SeriesExporter interface {
	// Export writes the sheet to w.
	Export(w io.Writer, sheet *SeriesSheet) error
}

// SeriesSheet is the export payload: readings in time order plus headline aggregates.
type SeriesSheet struct {
	BatchNumber        string
	Rows               []SeriesRow
	AverageTemperature *float64
	GravityDrop        *float64
	CurrentPH          *float64
}

// SeriesRow is one reading in an export.
type SeriesRow struct {
	At          time.Time
	Temperature float64
	Gravity     *float64
	PH          *float64
	Pressure    *float64
}

// TestTypeCatalog loads QC test type definitions from an external source.
type TestTypeCatalog interface {
	// Load reads the catalogue at path.
	Load(ctx context.Context, path string) ([]*QCTestTypeRecord, error)
}

// InventoryTrigger notifies the inventory system of production milestones.
// Inventory accounting itself lives outside this application.
type InventoryTrigger interface {
	// BatchStarted is called when a batch enters BREWING and consumes ingredients.
	BatchStarted(ctx context.Context, event InventoryEvent) error

	// BatchPackaged is called when a batch enters PACKAGING.
	BatchPackaged(ctx context.Context, event InventoryEvent) error

	// BatchFinished is called when a batch enters FINISHED and stock is available.
	BatchFinished(ctx context.Context, event InventoryEvent) error
}

// InventoryEvent describes the batch a milestone applies to.
type InventoryEvent struct {
	BatchID     string
	BatchNumber string
	RecipeID    string
	LocationID  string
	Volume      float64 // actual volume when known, else expected
	At          time.Time
}
