package managers

import (
	"context"
	"fmt"
	"sync"
	"time"

	grpccontroller "github.com/chrissnell/remotewater/internal/controllers/grpc"
	"github.com/chrissnell/remotewater/internal/controllers/restserver"
	"github.com/chrissnell/remotewater/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// Services are the shared backends controllers serve from.
type Services struct {
	Analysis        restserver.Analyzer
	Regenerator     restserver.Regenerator
	DB              restserver.Pinger
	DefaultLookback time.Duration
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, controllers []config.ControllerData, svc Services, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:         ctx,
		wg:          wg,
		services:    svc,
		logger:      logger,
		controllers: make([]Controller, 0, len(controllers)),
	}

	// Create controllers based on configuration
	for _, con := range controllers {
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	services    Services
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case "restserver", "rest":
		if cc.RESTServer == nil {
			return nil, fmt.Errorf("rest controller is missing its rest section")
		}
		return restserver.NewController(cm.ctx, cm.wg, *cc.RESTServer, restserver.Dependencies{
			Analysis:        cm.services.Analysis,
			Regenerator:     cm.services.Regenerator,
			DB:              cm.services.DB,
			DefaultLookback: cm.services.DefaultLookback,
		}, cm.logger)
	case "grpc":
		if cc.GRPC == nil {
			return nil, fmt.Errorf("grpc controller is missing its grpc section")
		}
		return grpccontroller.NewController(cm.ctx, cm.wg, *cc.GRPC, cm.services.DB)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}
