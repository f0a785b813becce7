package config

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/chrissnell/remotewater/pkg/migrate"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Keys of the settings table.
const (
	keyNSEDivisor        = "engine.nse_divisor"
	keyBromideAbsent     = "engine.bromide_absent_policy"
	keyDetectionMatch    = "engine.detection_match"
	keyPostgresConn      = "storage.postgres.connection_string"
	keyRegenSchedule     = "regeneration.schedule"
	keyRegenWorkers      = "regeneration.workers"
	keyRegenLookback     = "regeneration.lookback"
	keyLogFile           = "log_file"
	defaultConfigName    = "default"
	configMigrationTable = "config_schema_migrations"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Migrate brings the configuration schema up to date.
func (s *SQLiteProvider) Migrate(ctx context.Context, logger *zap.SugaredLogger) error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	provider := migrate.NewFSProvider(sub, configMigrationTable, migrate.DialectSQLite)
	return migrate.NewMigrator(s.db, provider, logger).MigrateUp(ctx)
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, err
	}

	config := &ConfigData{
		LogFile: settings[keyLogFile],
		Regeneration: RegenerationData{
			Schedule: settings[keyRegenSchedule],
			Lookback: settings[keyRegenLookback],
		},
	}

	if w := settings[keyRegenWorkers]; w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", keyRegenWorkers, w, err)
		}
		config.Regeneration.Workers = n
	}

	engine, err := s.engineFrom(settings)
	if err != nil {
		return nil, err
	}
	config.Engine = *engine

	config.Storage = storageFrom(settings)

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

func (s *SQLiteProvider) settings() (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT s.key, s.value FROM settings s
		JOIN configs c ON c.id = s.config_id
		WHERE c.name = ?`, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// GetEngineConfig returns the engine section including any name rule overrides
func (s *SQLiteProvider) GetEngineConfig() (*EngineData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, err
	}
	return s.engineFrom(settings)
}

func (s *SQLiteProvider) engineFrom(settings map[string]string) (*EngineData, error) {
	engine := &EngineData{
		NSEDivisor:          settings[keyNSEDivisor],
		BromideAbsentPolicy: settings[keyBromideAbsent],
		DetectionMatch:      settings[keyDetectionMatch],
	}

	rows, err := s.db.Query(`
		SELECT n.kind, n.alias FROM name_rules n
		JOIN configs c ON c.id = n.config_id
		WHERE c.name = ?
		ORDER BY n.id`, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to query name rules: %w", err)
	}
	defer rows.Close()

	var rules cwqi.NameRules
	found := false
	for rows.Next() {
		var kind, alias string
		if err := rows.Scan(&kind, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan name rule: %w", err)
		}
		found = true
		switch kind {
		case "bacteriological":
			rules.Bacteriological = append(rules.Bacteriological, alias)
		case "minimum":
			rules.Minimum = append(rules.Minimum, alias)
		case "minimum_token":
			rules.MinimumTokens = append(rules.MinimumTokens, alias)
		case "chloride":
			rules.Chloride = append(rules.Chloride, alias)
		case "bromide":
			rules.Bromide = append(rules.Bromide, alias)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found {
		engine.NameRules = &rules
	}
	return engine, nil
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, err
	}
	storage := storageFrom(settings)
	return &storage, nil
}

func storageFrom(settings map[string]string) StorageData {
	var storage StorageData
	if conn := settings[keyPostgresConn]; conn != "" {
		storage.Postgres = &PostgresData{ConnectionString: conn}
	}
	return storage
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT cc.controller_type, cc.cert, cc.key, cc.port, cc.listen_addr, cc.health_interval
		FROM controller_configs cc
		WHERE cc.config_id = (SELECT id FROM configs WHERE name = ?) AND cc.enabled = 1
		ORDER BY cc.id
	`

	rows, err := s.db.Query(query, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to query controller configs: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData

	for rows.Next() {
		var controllerType string
		var cert, key, listenAddr, healthInterval sql.NullString
		var port sql.NullInt64

		if err := rows.Scan(&controllerType, &cert, &key, &port, &listenAddr, &healthInterval); err != nil {
			return nil, fmt.Errorf("failed to scan controller config row: %w", err)
		}

		controller := ControllerData{Type: controllerType}
		switch controllerType {
		case "rest":
			controller.RESTServer = &RESTServerData{
				Cert:       cert.String,
				Key:        key.String,
				Port:       int(port.Int64),
				ListenAddr: listenAddr.String,
			}
		case "grpc":
			controller.GRPC = &GRPCData{
				Cert:           cert.String,
				Key:            key.String,
				Port:           int(port.Int64),
				ListenAddr:     listenAddr.String,
				HealthInterval: healthInterval.String,
			}
		}
		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return err
	}
	if err := s.clearExistingConfig(tx, configID); err != nil {
		return err
	}

	settings := map[string]string{
		keyNSEDivisor:     configData.Engine.NSEDivisor,
		keyBromideAbsent:  configData.Engine.BromideAbsentPolicy,
		keyDetectionMatch: configData.Engine.DetectionMatch,
		keyRegenSchedule:  configData.Regeneration.Schedule,
		keyRegenLookback:  configData.Regeneration.Lookback,
		keyLogFile:        configData.LogFile,
	}
	if configData.Regeneration.Workers > 0 {
		settings[keyRegenWorkers] = strconv.Itoa(configData.Regeneration.Workers)
	}
	if configData.Storage.Postgres != nil {
		settings[keyPostgresConn] = configData.Storage.Postgres.ConnectionString
	}
	for key, value := range settings {
		if value == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO settings (config_id, key, value) VALUES (?, ?, ?)`, configID, key, value); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", key, err)
		}
	}

	if rules := configData.Engine.NameRules; rules != nil {
		if err := s.insertNameRules(tx, configID, rules); err != nil {
			return err
		}
	}

	for i := range configData.Controllers {
		if err := s.insertController(tx, configID, &configData.Controllers[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	if _, err := tx.Exec(`INSERT OR IGNORE INTO configs (name) VALUES (?)`, defaultConfigName); err != nil {
		return 0, fmt.Errorf("failed to create config: %w", err)
	}
	var id int64
	if err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, defaultConfigName).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get config ID: %w", err)
	}
	return id, nil
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	for _, table := range []string{"settings", "name_rules", "controller_configs"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE config_id = ?", configID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteProvider) insertNameRules(tx *sql.Tx, configID int64, rules *cwqi.NameRules) error {
	groups := []struct {
		kind    string
		aliases []string
	}{
		{"bacteriological", rules.Bacteriological},
		{"minimum", rules.Minimum},
		{"minimum_token", rules.MinimumTokens},
		{"chloride", rules.Chloride},
		{"bromide", rules.Bromide},
	}
	for _, g := range groups {
		for _, alias := range g.aliases {
			if _, err := tx.Exec(`INSERT INTO name_rules (config_id, kind, alias) VALUES (?, ?, ?)`, configID, g.kind, alias); err != nil {
				return fmt.Errorf("failed to insert %s name rule: %w", g.kind, err)
			}
		}
	}
	return nil
}

func (s *SQLiteProvider) insertController(tx *sql.Tx, configID int64, controller *ControllerData) error {
	var cert, key, listenAddr, healthInterval string
	var port int

	switch controller.Type {
	case "rest":
		if controller.RESTServer != nil {
			cert, key = controller.RESTServer.Cert, controller.RESTServer.Key
			port, listenAddr = controller.RESTServer.Port, controller.RESTServer.ListenAddr
		}
	case "grpc":
		if controller.GRPC != nil {
			cert, key = controller.GRPC.Cert, controller.GRPC.Key
			port, listenAddr = controller.GRPC.Port, controller.GRPC.ListenAddr
			healthInterval = controller.GRPC.HealthInterval
		}
	default:
		return fmt.Errorf("unknown controller type %q", controller.Type)
	}

	_, err := tx.Exec(`
		INSERT INTO controller_configs
			(config_id, controller_type, enabled, cert, key, port, listen_addr, health_interval)
		VALUES (?, ?, 1, ?, ?, ?, ?, ?)`,
		configID, controller.Type, nullString(cert), nullString(key), port, nullString(listenAddr), nullString(healthInterval))
	if err != nil {
		return fmt.Errorf("failed to insert %s controller: %w", controller.Type, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
