package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Dialects understood by FSProvider.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// migrationFile matches 001_create_reports.up.sql and 001_create_reports.down.sql.
var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// FSProvider loads migrations from a filesystem, typically an embed.FS.
type FSProvider struct {
	fsys           fs.FS
	migrationTable string
	dialect        string
}

// NewFSProvider creates a provider reading the top level of fsys.
func NewFSProvider(fsys fs.FS, migrationTable, dialect string) *FSProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	if dialect == "" {
		dialect = DialectSQLite
	}
	return &FSProvider{
		fsys:           fsys,
		migrationTable: migrationTable,
		dialect:        dialect,
	}
}

// GetMigrations reads and pairs every up/down file.
func (p *FSProvider) GetMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := migrationFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		version, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in file %s: %w", entry.Name(), err)
		}
		content, err := fs.ReadFile(p.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: strings.ReplaceAll(m[2], "_", " ")}
			byVersion[version] = mig
		}
		if m[3] == "up" {
			mig.Up = string(content)
		} else {
			mig.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		migrations = append(migrations, *mig)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// CreateMigrationTable creates the version tracking table if it does not exist.
func (p *FSProvider) CreateMigrationTable(ctx context.Context, db DB) error {
	tsType := "DATETIME"
	if p.dialect == DialectPostgres {
		tsType = "TIMESTAMPTZ"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		applied_at %s DEFAULT CURRENT_TIMESTAMP
	)`, p.migrationTable, tsType)

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the highest applied version, or 0.
func (p *FSProvider) GetCurrentVersion(ctx context.Context, db DB) (int, error) {
	var version int
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", p.migrationTable)
	if err := db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// SetVersion records version as applied and forgets anything newer.
func (p *FSProvider) SetVersion(ctx context.Context, db DB, version int) error {
	del := fmt.Sprintf("DELETE FROM %s WHERE version > %s", p.migrationTable, p.placeholder(1))
	if _, err := db.ExecContext(ctx, del, version); err != nil {
		return fmt.Errorf("failed to clear newer versions: %w", err)
	}
	if version == 0 {
		return nil
	}

	var ins string
	if p.dialect == DialectPostgres {
		ins = fmt.Sprintf(`INSERT INTO %s (version, applied_at) VALUES ($1, CURRENT_TIMESTAMP)
			ON CONFLICT (version) DO UPDATE SET applied_at = CURRENT_TIMESTAMP`, p.migrationTable)
	} else {
		ins = fmt.Sprintf(`INSERT OR REPLACE INTO %s (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, p.migrationTable)
	}
	if _, err := db.ExecContext(ctx, ins, version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

func (p *FSProvider) placeholder(n int) string {
	if p.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
