// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/brewctl/internal/db"
)

var brewDate = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedBatch inserts a PLANNED test batch and returns its ID.
func seedBatch(t *testing.T, db *sql.DB, id, number string) string {
	t.Helper()
	if id == "" {
		id = "b-001"
	}
	if number == "" {
		number = "BATCH-001"
	}
	_, err := db.Exec(
		"INSERT INTO batches (id, batch_number, recipe_id, location_id, status, brew_date, expected_volume) VALUES (?, ?, 'house-ipa', 'main', 'PLANNED', ?, 100)",
		id, number, brewDate,
	)
	if err != nil {
		t.Fatalf("failed to seed batch: %v", err)
	}
	return id
}

// seedTestType inserts a QC test type and returns its ID.
func seedTestType(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "tt-001"
	}
	if name == "" {
		name = "pH"
	}
	_, err := db.Exec(
		"INSERT INTO qc_test_types (id, name, category, min_value, max_value) VALUES (?, ?, 'chemistry', 4.0, 4.6)",
		id, name,
	)
	if err != nil {
		t.Fatalf("failed to seed test type: %v", err)
	}
	return id
}

func ptr(v float64) *float64 { return &v }

func timeRef(t time.Time) *time.Time { return &t }
