package db

import "database/sql"

// SchemaSQL is the complete modern schema for fresh brewctl installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(), so repository code that references a column
// missing here fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Append a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment (TestMigrationsMatchSchema)
//
// Times are stored in UTC. Batches own their history, fermentation logs and
// QC tests; deleting a batch cascades to all three.
const SchemaSQL = `
-- Batches (one physical production run)
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
	cancelled_date DATETIME,
	expected_volume REAL NOT NULL CHECK(expected_volume > 0),
	actual_volume REAL,
	og REAL,
	fg REAL,
	abv REAL,
	notes TEXT,
	version INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);

-- Batch history (append-only audit of status transitions)
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

-- Fermentation logs (seq is the insertion order and tie-breaks equal timestamps)
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

-- QC test types (catalogue of tests and their acceptable bands)
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

-- QC tests (results recorded against a batch)
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
`

// InitSchema brings the database up to the current schema.
// Fresh databases get SchemaSQL directly with every migration marked applied;
// existing databases run whatever migrations are pending.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
