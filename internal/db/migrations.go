package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_batch_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_qc_tables",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_batch_version_and_cancelled_date",
		Up:      migrationV3,
	},
}

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		Logger.WithField("version", migration.Version).Infof("running migration: %s", migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates batches, their history and fermentation logs.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			batch_number TEXT NOT NULL UNIQUE,
			recipe_id TEXT NOT NULL,
			location_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('PLANNED', 'BREWING', 'FERMENTING', 'CONDITIONING', 'PACKAGING', 'FINISHED', 'CANCELLED')) DEFAULT 'PLANNED',
			brew_date DATETIME NOT NULL,
			fermentation_start_date DATETIME,
			packaged_date DATETIME,
			finished_date DATETIME,
			expected_volume REAL NOT NULL CHECK(expected_volume > 0),
			actual_volume REAL,
			og REAL,
			fg REAL,
			abv REAL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);

		CREATE TABLE IF NOT EXISTS batch_history (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL,
			from_status TEXT NOT NULL,
			to_status TEXT NOT NULL,
			changed_at DATETIME NOT NULL,
			changes TEXT,
			notes TEXT,
			actor TEXT,
			FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_batch_history_batch ON batch_history(batch_id);

		CREATE TABLE IF NOT EXISTS fermentation_logs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			batch_id TEXT NOT NULL,
			measured_at DATETIME NOT NULL,
			temperature REAL NOT NULL,
			gravity REAL,
			ph REAL,
			pressure REAL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_fermentation_logs_batch ON fermentation_logs(batch_id, seq);
	`)
	return err
}

// migrationV2 adds the QC catalogue and results.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS qc_test_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			category TEXT NOT NULL,
			unit TEXT,
			min_value REAL,
			max_value REAL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS qc_tests (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL,
			test_type_id TEXT NOT NULL,
			result TEXT NOT NULL CHECK(result IN ('PASS', 'FAIL', 'PENDING')) DEFAULT 'PENDING',
			value REAL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE,
			FOREIGN KEY (test_type_id) REFERENCES qc_test_types(id)
		);

		CREATE INDEX IF NOT EXISTS idx_qc_tests_batch ON qc_tests(batch_id);
	`)
	return err
}

// migrationV3 adds the optimistic-lock version and the cancelled date.
func migrationV3(tx *sql.Tx) error {
	if _, err := tx.Exec("ALTER TABLE batches ADD COLUMN cancelled_date DATETIME"); err != nil {
		return err
	}
	_, err := tx.Exec("ALTER TABLE batches ADD COLUMN version INTEGER NOT NULL DEFAULT 0")
	return err
}
