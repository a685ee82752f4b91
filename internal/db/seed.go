package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedFixtures populates the database with a starter QC catalogue and a
// sample planned batch for local experimentation.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	testTypes := []struct {
		name, category, unit string
		min, max             any
		desc                 string
	}{
		{"pH", "chemistry", "pH", 4.0, 4.6, "Finished beer pH"},
		{"Dissolved oxygen", "chemistry", "ppb", nil, 50.0, "Packaged DO pickup"},
		{"Carbonation", "packaging", "vol CO2", 2.2, 2.8, "Volumes of CO2 after conditioning"},
		{"Diacetyl", "sensory", "", nil, nil, "Forced diacetyl test"},
		{"Microbiology", "micro", "", nil, nil, "Plate count for spoilage organisms"},
	}
	for _, tt := range testTypes {
		if _, err := database.Exec(
			"INSERT INTO qc_test_types (id, name, category, unit, min_value, max_value, description) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), tt.name, tt.category, tt.unit, tt.min, tt.max, tt.desc,
		); err != nil {
			return fmt.Errorf("seed qc_test_types: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO batches (id, batch_number, recipe_id, location_id, status, brew_date, expected_volume, notes) VALUES (?, 'BATCH-001', 'house-ipa', 'main-brewhouse', 'PLANNED', ?, 100, 'Sample batch')",
		uuid.NewString(), now.AddDate(0, 0, 1),
	); err != nil {
		return fmt.Errorf("seed batches: %w", err)
	}

	return nil
}
