package managers

import (
	"context"
	"sync"
	"testing"

	"github.com/chrissnell/remotewater/internal/analysis"
	"github.com/chrissnell/remotewater/pkg/config"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"go.uber.org/zap"
)

func TestNewControllerManager(t *testing.T) {
	svc := Services{
		Analysis: analysis.NewService(nil, cwqi.NewEngine(cwqi.DefaultSettings()), nil),
	}
	logger := zap.NewNop().Sugar()

	tests := []struct {
		name        string
		controllers []config.ControllerData
		wantErr     bool
	}{
		{"none", nil, false},
		{"rest and grpc", []config.ControllerData{
			{Type: "rest", RESTServer: &config.RESTServerData{Port: 18080}},
			{Type: "grpc", GRPC: &config.GRPCData{Port: 19090}},
		}, false},
		{"unknown type", []config.ControllerData{{Type: "aprs"}}, true},
		{"rest without section", []config.ControllerData{{Type: "rest"}}, true},
		{"grpc without section", []config.ControllerData{{Type: "grpc"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewControllerManager(context.Background(), &sync.WaitGroup{}, tt.controllers, svc, logger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(cm.(*controllerManager).controllers) != len(tt.controllers) {
				t.Errorf("created %d controllers", len(cm.(*controllerManager).controllers))
			}
		})
	}
}

func TestNewStorageManagerRequiresConnectionString(t *testing.T) {
	_, err := NewStorageManager(context.Background(), &sync.WaitGroup{}, config.StorageData{}, zap.NewNop().Sugar())
	if err == nil {
		t.Fatal("expected error without postgres config")
	}
}
