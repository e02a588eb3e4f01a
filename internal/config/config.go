// Package config loads and validates the daemon configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/iamkaransharma/morsecode-driver/internal/symbolq"
)

// Dot-time bounds in milliseconds. Values outside the range fall back to
// the default with a warning rather than failing startup.
const (
	MinDotTimeMS     = 1
	MaxDotTimeMS     = 2000
	DefaultDotTimeMS = 200
)

// Signal backend names.
const (
	BackendNone = "none"
	BackendLog  = "log"
	BackendMQTT = "mqtt"
)

// Config is the complete daemon configuration.
type Config struct {
	InstanceID    string       `yaml:"instance_id"`
	DotTimeMS     int          `yaml:"dot_time_ms"`
	QueueCapacity int          `yaml:"queue_capacity"`
	Signal        SignalConfig `yaml:"signal"`
	MQTT          MQTTConfig   `yaml:"mqtt"`
	Health        HealthConfig `yaml:"health"`
}

// SignalConfig selects the pulse sink backend.
type SignalConfig struct {
	Backend string `yaml:"backend"` // none, log, mqtt
}

// MQTTConfig configures the MQTT emitter backend.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// HealthConfig configures the HTTP health endpoint. An empty Addr
// disables it.
type HealthConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with all defaults filled in.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads and validates a yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills defaults and checks cross-field requirements. Out-of-range
// dot times are corrected to the default with a warning, mirroring the
// parameter validation of the original driver.
func (c *Config) Validate() error {
	if c.InstanceID == "" {
		c.InstanceID = fmt.Sprintf("morse-%s", uuid.NewString()[:8])
	}

	if c.DotTimeMS < MinDotTimeMS || c.DotTimeMS > MaxDotTimeMS {
		if c.DotTimeMS != 0 {
			slog.Warn("invalid dot time, using default",
				"dot_time_ms", c.DotTimeMS,
				"valid_range", fmt.Sprintf("[%d-%d]", MinDotTimeMS, MaxDotTimeMS),
				"default_ms", DefaultDotTimeMS)
		}
		c.DotTimeMS = DefaultDotTimeMS
	}

	if c.QueueCapacity <= 0 {
		c.QueueCapacity = symbolq.DefaultCapacity
	}

	switch c.Signal.Backend {
	case "":
		c.Signal.Backend = BackendLog
	case BackendNone, BackendLog, BackendMQTT:
	default:
		return fmt.Errorf("unknown signal backend %q", c.Signal.Backend)
	}

	if c.Signal.Backend == BackendMQTT {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required for the mqtt signal backend")
		}
		if c.MQTT.TopicPrefix == "" {
			c.MQTT.TopicPrefix = fmt.Sprintf("morse/%s", c.InstanceID)
		}
	}

	return nil
}

// DotTime returns the validated dot time as a duration.
func (c *Config) DotTime() time.Duration {
	return time.Duration(c.DotTimeMS) * time.Millisecond
}
