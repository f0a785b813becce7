package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chrissnell/remotewater/pkg/config"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealthFollowsDatabase(t *testing.T) {
	db := &fakePinger{}
	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, config.GRPCData{Port: 0}, db)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := ctrl.Health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		return resp.Status
	}

	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("initial status = %v", got)
	}

	db.err = errors.New("connection refused")
	ctrl.checkOnce()
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status with failing db = %v", got)
	}

	db.err = nil
	ctrl.checkOnce()
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("recovered status = %v", got)
	}
}

func TestNewControllerRejectsBadInterval(t *testing.T) {
	_, err := NewController(context.Background(), &sync.WaitGroup{}, config.GRPCData{HealthInterval: "sometimes"}, nil)
	if err == nil {
		t.Fatal("expected interval parse error")
	}
}

func TestStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	ctrl, err := NewController(ctx, wg, config.GRPCData{ListenAddr: "127.0.0.1", Port: 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctrl.StartController(); err != nil {
		t.Fatalf("StartController: %v", err)
	}
	cancel()
	wg.Wait()
}
