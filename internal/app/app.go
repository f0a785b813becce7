package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/remotewater/internal/analysis"
	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/internal/managers"
	"github.com/chrissnell/remotewater/internal/regenerate"
	"github.com/chrissnell/remotewater/pkg/config"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %v", err)
	}
	config.ApplyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	settings, err := cfg.EngineSettings()
	if err != nil {
		return err
	}
	engine := cwqi.NewEngine(settings)
	log.Infof("scoring with nse_divisor=%s bromide_absent_policy=%s detection_match=%s",
		settings.NSEDivisor, settings.BromideAbsent, settings.DetectionMatch)

	// Initialize the storage manager
	storageManager, err := managers.NewStorageManager(ctx, &wg, cfg.Storage, a.logger)
	if err != nil {
		return err
	}
	store := storageManager.Client

	service := analysis.NewService(store, engine, a.logger)

	lookback, err := cfg.Regeneration.LookbackDuration()
	if err != nil {
		return err
	}
	job := regenerate.NewJob(store, service, cfg.Regeneration.WorkerCount(), a.logger)

	if cfg.Regeneration.Schedule != "" {
		scheduler, err := regenerate.NewScheduler(job, cfg.Regeneration.Schedule, lookback, a.logger)
		if err != nil {
			return err
		}
		done := scheduler.Start(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-done
		}()
	}

	// Initialize the controller manager
	cm, err := managers.NewControllerManager(ctx, &wg, cfg.Controllers, managers.Services{
		Analysis:        service,
		Regenerator:     job,
		DB:              store,
		DefaultLookback: lookback,
	}, a.logger)
	if err != nil {
		return err
	}
	err = cm.StartControllers()
	if err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
