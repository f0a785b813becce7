package config

import (
	"fmt"
	"time"

	"github.com/chrissnell/remotewater/pkg/cwqi"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetEngineConfig() (*EngineData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Engine       EngineData       `json:"engine" yaml:"engine"`
	Storage      StorageData      `json:"storage,omitempty" yaml:"storage,omitempty"`
	Controllers  []ControllerData `json:"controllers,omitempty" yaml:"controllers,omitempty"`
	Regeneration RegenerationData `json:"regeneration,omitempty" yaml:"regeneration,omitempty"`
	LogFile      string           `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// EngineData selects the scoring policies of the CWQI engine.
type EngineData struct {
	NSEDivisor          string          `json:"nse_divisor,omitempty" yaml:"nse_divisor,omitempty"`
	BromideAbsentPolicy string          `json:"bromide_absent_policy,omitempty" yaml:"bromide_absent_policy,omitempty"`
	DetectionMatch      string          `json:"detection_match,omitempty" yaml:"detection_match,omitempty"`
	NameRules           *cwqi.NameRules `json:"name_rules,omitempty" yaml:"name_rules,omitempty"`
}

// StorageData holds the configuration for the results store
type StorageData struct {
	Postgres *PostgresData `json:"postgres,omitempty" yaml:"postgres,omitempty"`
}

type PostgresData struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
}

// ControllerData holds the configuration for the API controllers
type ControllerData struct {
	Type       string          `json:"type,omitempty" yaml:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty" yaml:"rest,omitempty"`
	GRPC       *GRPCData       `json:"grpc,omitempty" yaml:"grpc,omitempty"`
}

type RESTServerData struct {
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
}

type GRPCData struct {
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	// HealthInterval is how often the database is pinged to refresh serving status.
	HealthInterval string `json:"health_interval,omitempty" yaml:"health_interval,omitempty"`
}

// RegenerationData configures the batch score regeneration job.
type RegenerationData struct {
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Workers  int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	Lookback string `json:"lookback,omitempty" yaml:"lookback,omitempty"`
}

const (
	DefaultRegenerationWorkers  = 4
	DefaultRegenerationLookback = 24 * time.Hour
	DefaultHealthInterval       = 15 * time.Second
)

// EngineSettings converts the engine section into settings for cwqi.NewEngine.
func (c *ConfigData) EngineSettings() (cwqi.Settings, error) {
	settings := cwqi.DefaultSettings()

	divisor, err := cwqi.ParseNSEDivisor(c.Engine.NSEDivisor)
	if err != nil {
		return settings, fmt.Errorf("engine.nse_divisor: %w", err)
	}
	policy, err := cwqi.ParseBromideAbsentPolicy(c.Engine.BromideAbsentPolicy)
	if err != nil {
		return settings, fmt.Errorf("engine.bromide_absent_policy: %w", err)
	}

	match, err := cwqi.ParseDetectionMatch(c.Engine.DetectionMatch)
	if err != nil {
		return settings, fmt.Errorf("engine.detection_match: %w", err)
	}

	settings.NSEDivisor = divisor
	settings.BromideAbsent = policy
	settings.DetectionMatch = match
	if c.Engine.NameRules != nil {
		settings.Names = *c.Engine.NameRules
	}
	return settings, nil
}

// WorkerCount returns the regeneration pool size, defaulting when unset.
func (r RegenerationData) WorkerCount() int {
	if r.Workers <= 0 {
		return DefaultRegenerationWorkers
	}
	return r.Workers
}

// LookbackDuration parses the lookback window, defaulting when unset.
func (r RegenerationData) LookbackDuration() (time.Duration, error) {
	if r.Lookback == "" {
		return DefaultRegenerationLookback, nil
	}
	d, err := time.ParseDuration(r.Lookback)
	if err != nil {
		return 0, fmt.Errorf("regeneration.lookback: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("regeneration.lookback must be positive, got %s", r.Lookback)
	}
	return d, nil
}

// Interval parses the health check interval, defaulting when unset.
func (g GRPCData) Interval() (time.Duration, error) {
	if g.HealthInterval == "" {
		return DefaultHealthInterval, nil
	}
	d, err := time.ParseDuration(g.HealthInterval)
	if err != nil {
		return 0, fmt.Errorf("grpc.health_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("grpc.health_interval must be positive, got %s", g.HealthInterval)
	}
	return d, nil
}

// Validate checks the parts of the configuration that can be checked without I/O.
func (c *ConfigData) Validate() error {
	if _, err := c.EngineSettings(); err != nil {
		return err
	}
	if _, err := c.Regeneration.LookbackDuration(); err != nil {
		return err
	}
	for _, ctrl := range c.Controllers {
		switch ctrl.Type {
		case "rest":
			if ctrl.RESTServer == nil {
				return fmt.Errorf("rest controller is missing its rest section")
			}
		case "grpc":
			if ctrl.GRPC == nil {
				return fmt.Errorf("grpc controller is missing its grpc section")
			}
			if _, err := ctrl.GRPC.Interval(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown controller type %q", ctrl.Type)
		}
	}
	return nil
}
