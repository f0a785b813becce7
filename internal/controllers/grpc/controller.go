// Package grpc provides the gRPC controller serving health checks for the scoring service.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the scoring engine.
const ServiceName = "remotewater.Scoring"

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller represents the gRPC controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	Server     *grpc.Server
	GRPCConfig *config.GRPCData
	Health     *health.Server
	db         Pinger
	interval   time.Duration
}

// NewController creates a new gRPC controller instance. db may be nil, in which case
// the service always reports SERVING.
func NewController(ctx context.Context, wg *sync.WaitGroup, grpcConfig config.GRPCData, db Pinger) (*Controller, error) {
	interval, err := grpcConfig.Interval()
	if err != nil {
		return nil, err
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		GRPCConfig: &grpcConfig,
		Health:     health.NewServer(),
		db:         db,
		interval:   interval,
	}

	// Create gRPC server with optional TLS
	if grpcConfig.Cert != "" && grpcConfig.Key != "" {
		creds, err := credentials.NewServerTLSFromFile(grpcConfig.Cert, grpcConfig.Key)
		if err != nil {
			return nil, fmt.Errorf("could not create TLS server from keypair: %v", err)
		}
		ctrl.Server = grpc.NewServer(grpc.Creds(creds))
	} else {
		ctrl.Server = grpc.NewServer()
	}

	// Register the health service and reflection
	healthpb.RegisterHealthServer(ctrl.Server, ctrl.Health)
	reflection.Register(ctrl.Server)

	ctrl.checkOnce()
	return ctrl, nil
}

// StartController starts the gRPC controller
func (c *Controller) StartController() error {
	log.Info("Starting gRPC controller...")

	listenAddr := fmt.Sprintf("%s:%v", c.GRPCConfig.ListenAddr, c.GRPCConfig.Port)
	l, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("gRPC controller could not create listener: %v", err)
	}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		log.Infof("gRPC controller listening on %s", l.Addr())
		if err := c.Server.Serve(l); err != nil {
			log.Errorf("gRPC controller serve error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		c.monitor()
		c.StopController()
	}()

	return nil
}

// StopController stops the gRPC controller
func (c *Controller) StopController() {
	log.Info("Stopping gRPC controller...")
	c.Health.Shutdown()
	if c.Server != nil {
		c.Server.GracefulStop()
	}
}

// monitor refreshes the serving status until the controller context ends.
func (c *Controller) monitor() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.checkOnce()
		}
	}
}

func (c *Controller) checkOnce() {
	status := healthpb.HealthCheckResponse_SERVING
	if c.db != nil {
		ctx, cancel := context.WithTimeout(c.ctx, c.interval)
		err := c.db.Ping(ctx)
		cancel()
		if err != nil {
			log.Warnf("gRPC health: database ping failed: %v", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	c.Health.SetServingStatus("", status)
	c.Health.SetServingStatus(ServiceName, status)
}
