package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"001_create_scores.up.sql":   {Data: []byte(`CREATE TABLE scores (id INTEGER PRIMARY KEY, value REAL)`)},
		"001_create_scores.down.sql": {Data: []byte(`DROP TABLE scores`)},
		"002_add_rating.up.sql":      {Data: []byte(`ALTER TABLE scores ADD COLUMN rating TEXT`)},
		"002_add_rating.down.sql":    {Data: []byte(`ALTER TABLE scores DROP COLUMN rating`)},
		"README.md":                  {Data: []byte("ignored")},
		"003_seed_ratings.up.sql":    {Data: []byte(`CREATE TABLE ratings (name TEXT)`)},
		"003_seed_ratings.down.sql":  {Data: []byte(`DROP TABLE ratings`)},
	}
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetMigrations(t *testing.T) {
	p := NewFSProvider(testMigrations(), "", DialectSQLite)
	migrations, err := p.GetMigrations()
	if err != nil {
		t.Fatalf("GetMigrations failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "create scores" {
		t.Errorf("first migration = %+v", migrations[0])
	}
	if migrations[1].Up == "" || migrations[1].Down == "" {
		t.Errorf("migration 2 should have both directions: %+v", migrations[1])
	}
}

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	m := NewMigrator(db, NewFSProvider(testMigrations(), "", DialectSQLite), nil)

	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	v, err := m.CurrentVersion(ctx)
	if err != nil || v != 3 {
		t.Fatalf("CurrentVersion = %d, %v; expected 3", v, err)
	}
	if _, err := db.Exec(`INSERT INTO scores (value, rating) VALUES (73.1, 'Fair')`); err != nil {
		t.Fatalf("insert after migration failed: %v", err)
	}

	pending, err := m.Pending(ctx)
	if err != nil || len(pending) != 0 {
		t.Fatalf("Pending = %v, %v; expected none", pending, err)
	}

	if err := m.MigrateTo(ctx, 1); err != nil {
		t.Fatalf("MigrateTo(1) failed: %v", err)
	}
	v, err = m.CurrentVersion(ctx)
	if err != nil || v != 1 {
		t.Fatalf("CurrentVersion after rollback = %d, %v; expected 1", v, err)
	}

	pending, err = m.Pending(ctx)
	if err != nil || len(pending) != 2 {
		t.Fatalf("Pending after rollback = %d, %v; expected 2", len(pending), err)
	}

	// running up twice is a no-op
	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}
}

func TestMigrateMissingDown(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	fsys := fstest.MapFS{
		"001_only_up.up.sql": {Data: []byte(`CREATE TABLE only_up (id INTEGER)`)},
	}
	m := NewMigrator(db, NewFSProvider(fsys, "", DialectSQLite), nil)

	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if err := m.MigrateTo(ctx, 0); err == nil {
		t.Fatal("expected an error rolling back a migration without down SQL")
	}
}
