package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/chrissnell/remotewater/pkg/migrate"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationTable = "remotewater_schema_migrations"

var (
	// ErrSampleNotFound is returned when the results view has no rows for a sample.
	ErrSampleNotFound = errors.New("sample not found")
	// ErrScoresNotFound is returned when a sample has never been scored.
	ErrScoresNotFound = errors.New("no scores recorded for sample")
)

// Client holds the connection to the lab results database
type Client struct {
	DB     *gorm.DB // Exported so it can be accessed from other packages
	logger *zap.SugaredLogger
}

// NewClient wraps an open gorm connection
func NewClient(db *gorm.DB, logger *zap.SugaredLogger) *Client {
	return &Client{
		DB:     db,
		logger: logger,
	}
}

// Connect opens a client for the given connection string
func Connect(connectionString string, logger *zap.SugaredLogger) (*Client, error) {
	db, err := CreateConnection(connectionString)
	if err != nil {
		return nil, err
	}
	return NewClient(db, logger), nil
}

// CreateConnection is a helper function to create a database connection with standard GORM configuration
func CreateConnection(connectionString string) (*gorm.DB, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)

	log.Info("connecting to PostgreSQL...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warnf("unable to create a PostgreSQL connection: %v", err)
		return nil, err
	}
	log.Info("PostgreSQL connection successful")

	return db, nil
}

// Migrator returns a migrator over the schema this service owns.
func (c *Client) Migrator() (*migrate.Migrator, error) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying connection: %w", err)
	}
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	provider := migrate.NewFSProvider(sub, migrationTable, migrate.DialectPostgres)
	return migrate.NewMigrator(sqlDB, provider, c.logger), nil
}

// Migrate applies any pending schema migrations for the tables this service owns.
func (c *Client) Migrate(ctx context.Context) error {
	m, err := c.Migrator()
	if err != nil {
		return err
	}
	return m.MigrateUp(ctx)
}

// Ping verifies the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RowsForSample returns the engine input rows for one sample in stored order.
func (c *Client) RowsForSample(ctx context.Context, sampleNumber string) ([]cwqi.RawParameterRow, error) {
	var results []ParameterResult
	err := c.DB.WithContext(ctx).
		Where("sample_number = ?", sampleNumber).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error querying results for sample %s: %w", sampleNumber, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSampleNotFound, sampleNumber)
	}

	rows := make([]cwqi.RawParameterRow, len(results))
	for i, r := range results {
		rows[i] = r.ToRow()
	}
	return rows, nil
}

// SampleNumbersSince lists samples whose results changed at or after since.
func (c *Client) SampleNumbersSince(ctx context.Context, since time.Time) ([]string, error) {
	var samples []string
	err := c.DB.WithContext(ctx).
		Model(&ParameterResult{}).
		Distinct("sample_number").
		Where("updated_at >= ?", since).
		Order("sample_number").
		Pluck("sample_number", &samples).Error
	if err != nil {
		return nil, fmt.Errorf("error listing samples since %s: %w", since.Format(time.RFC3339), err)
	}
	return samples, nil
}

// SaveScores upserts score on its sample number. score.ID is replaced with the
// stored record's ID.
func (c *Client) SaveScores(ctx context.Context, score *ReportScore) error {
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	if score.ComputedAt.IsZero() {
		score.ComputedAt = time.Now().UTC()
	}

	// On conflict the existing row keeps its id; RETURNING hands it back.
	result := c.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "sample_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"health_score", "health_rating", "ao_score", "ao_rating",
				"coliform_detected", "potential_score", "health_concerns", "ao_concerns",
				"road_salt_status", "road_salt_contamination", "cl_br_ratio",
				"nse_divisor", "bromide_absent_policy", "detection_match", "computed_at",
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}}},
	).Create(score)
	if result.Error != nil {
		return fmt.Errorf("error saving scores for sample %s: %w", score.SampleNumber, result.Error)
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("error saving scores for sample %s: stored id not returned", score.SampleNumber)
	}
	return nil
}

// LatestScores returns the persisted scores for a sample.
func (c *Client) LatestScores(ctx context.Context, sampleNumber string) (*ReportScore, error) {
	var score ReportScore
	err := c.DB.WithContext(ctx).Where("sample_number = ?", sampleNumber).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrScoresNotFound, sampleNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading scores for sample %s: %w", sampleNumber, err)
	}
	return &score, nil
}

// SaveRun records a completed regeneration run.
func (c *Client) SaveRun(ctx context.Context, run *RegenerationRun) error {
	if err := c.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("error saving regeneration run %s: %w", run.ID, err)
	}
	return nil
}
