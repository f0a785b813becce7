package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/remotewater/internal/database"
	"github.com/chrissnell/remotewater/pkg/config"
	"go.uber.org/zap"
)

// StorageManager holds the results store connection
type StorageManager struct {
	Client *database.Client
}

// NewStorageManager connects to the configured results store and brings its schema
// up to date. The connection is closed when ctx ends.
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, storage config.StorageData, logger *zap.SugaredLogger) (*StorageManager, error) {
	if storage.Postgres == nil || storage.Postgres.ConnectionString == "" {
		return nil, fmt.Errorf("storage.postgres.connection_string is required")
	}

	client, err := database.Connect(storage.Postgres.ConnectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("could not connect to results store: %v", err)
	}

	if err := client.Migrate(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not migrate results store: %v", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("closing results store connection")
		if err := client.Close(); err != nil {
			logger.Errorf("error closing results store: %v", err)
		}
	}()

	return &StorageManager{Client: client}, nil
}
