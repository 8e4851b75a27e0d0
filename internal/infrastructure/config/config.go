package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Gray Logic Node.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Network   NetworkConfig   `yaml:"network"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Journal   JournalConfig   `yaml:"journal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NodeConfig contains node-specific identity information.
type NodeConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// NetworkConfig contains network attachment settings.
type NetworkConfig struct {
	// Interface is the OS network interface the node expects connectivity on.
	Interface string `yaml:"interface"`

	Attach AttachConfig `yaml:"attach"`
}

// AttachConfig contains network attach polling settings.
//
// Attachment is polled at a fixed interval up to a maximum attempt count.
// Exceeding the maximum aborts startup; the node cannot operate without
// network connectivity.
type AttachConfig struct {
	// PollInterval is the delay between attach status polls (seconds).
	PollInterval int `yaml:"poll_interval"`

	// MaxAttempts is the maximum number of polls before giving up.
	MaxAttempts int `yaml:"max_attempts"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
	TLS       MQTTTLSConfig       `yaml:"tls"`
	Subscribe MQTTSubscribeConfig `yaml:"subscribe"`

	// KeepAlive is the MQTT keep-alive interval (seconds).
	KeepAlive int `yaml:"keep_alive"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	// URL is the full broker endpoint, e.g. "ssl://broker.example.com:8883".
	URL string `yaml:"url"`

	// ClientID identifies this node to the broker. If empty, a generated
	// ID derived from the node ID is used.
	ClientID string `yaml:"client_id"`
}

// MQTTTopicsConfig contains the node's fixed publish and subscribe topics.
// Both are immutable for the lifetime of the session.
type MQTTTopicsConfig struct {
	Publish   string `yaml:"publish"`
	Subscribe string `yaml:"subscribe"`
}

// MQTTTLSConfig contains mutual TLS credential locations.
//
// The node authenticates to the broker with a client certificate and
// verifies the broker against the configured root CA. Disabling TLS is
// only for local development against an anonymous broker.
type MQTTTLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CAFile   string `yaml:"ca_file"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// MQTTSubscribeConfig contains subscription retry settings.
type MQTTSubscribeConfig struct {
	// RetryInterval is the delay between subscribe attempts (milliseconds).
	RetryInterval int `yaml:"retry_interval"`

	// MaxAttempts limits subscribe attempts. 0 means retry forever.
	MaxAttempts int `yaml:"max_attempts"`
}

// BridgeConfig contains listener bridge settings.
type BridgeConfig struct {
	// Capacity is the bounded inbound message channel size. When full,
	// the bridge blocks rather than dropping messages.
	Capacity int `yaml:"capacity"`

	// PollInterval is the main loop's channel poll interval (milliseconds).
	PollInterval int `yaml:"poll_interval"`
}

// JournalConfig contains local message journal settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// TelemetryConfig contains InfluxDB telemetry settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYNODE_SECTION_KEY
// For example: GRAYNODE_MQTT_URL, GRAYNODE_NETWORK_INTERFACE
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			ID:   "node-001",
			Name: "Gray Logic Node",
		},
		Network: NetworkConfig{
			Interface: "wlan0",
			Attach: AttachConfig{
				PollInterval: 1,
				MaxAttempts:  30,
			},
		},
		MQTT: MQTTConfig{
			TLS: MQTTTLSConfig{
				Enabled: true,
			},
			Subscribe: MQTTSubscribeConfig{
				RetryInterval: 500,
				MaxAttempts:   0,
			},
			KeepAlive: 60,
		},
		Bridge: BridgeConfig{
			Capacity:     10,
			PollInterval: 100,
		},
		Journal: JournalConfig{
			Enabled:     true,
			Path:        "./data/graynode.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYNODE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Node
	if v := os.Getenv("GRAYNODE_NODE_ID"); v != "" {
		cfg.Node.ID = v
	}

	// Network
	if v := os.Getenv("GRAYNODE_NETWORK_INTERFACE"); v != "" {
		cfg.Network.Interface = v
	}

	// MQTT
	if v := os.Getenv("GRAYNODE_MQTT_URL"); v != "" {
		cfg.MQTT.Broker.URL = v
	}
	if v := os.Getenv("GRAYNODE_MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.Broker.ClientID = v
	}
	if v := os.Getenv("GRAYNODE_MQTT_TOPIC_PUB"); v != "" {
		cfg.MQTT.Topics.Publish = v
	}
	if v := os.Getenv("GRAYNODE_MQTT_TOPIC_SUB"); v != "" {
		cfg.MQTT.Topics.Subscribe = v
	}
	if v := os.Getenv("GRAYNODE_MQTT_TLS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.TLS.Enabled = enabled
		}
	}

	// TLS credentials
	if v := os.Getenv("GRAYNODE_TLS_CA_FILE"); v != "" {
		cfg.MQTT.TLS.CAFile = v
	}
	if v := os.Getenv("GRAYNODE_TLS_CERT_FILE"); v != "" {
		cfg.MQTT.TLS.CertFile = v
	}
	if v := os.Getenv("GRAYNODE_TLS_KEY_FILE"); v != "" {
		cfg.MQTT.TLS.KeyFile = v
	}

	// Journal
	if v := os.Getenv("GRAYNODE_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	// Telemetry
	if v := os.Getenv("GRAYNODE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Empty topics and missing broker details are configuration errors caught
// eagerly at startup, rather than surfacing later as session errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Node validation
	if c.Node.ID == "" {
		errs = append(errs, "node.id is required")
	}

	// Network validation
	if c.Network.Interface == "" {
		errs = append(errs, "network.interface is required")
	}
	if c.Network.Attach.PollInterval < 1 {
		errs = append(errs, "network.attach.poll_interval must be at least 1 second")
	}
	if c.Network.Attach.MaxAttempts < 1 {
		errs = append(errs, "network.attach.max_attempts must be at least 1")
	}

	// MQTT validation
	if c.MQTT.Broker.URL == "" {
		errs = append(errs, "mqtt.broker.url is required")
	}
	if c.MQTT.Topics.Publish == "" {
		errs = append(errs, "mqtt.topics.publish is required")
	}
	if c.MQTT.Topics.Subscribe == "" {
		errs = append(errs, "mqtt.topics.subscribe is required")
	}
	if c.MQTT.KeepAlive < 1 {
		errs = append(errs, "mqtt.keep_alive must be at least 1 second")
	}
	if c.MQTT.Subscribe.RetryInterval < 1 {
		errs = append(errs, "mqtt.subscribe.retry_interval must be at least 1 millisecond")
	}

	// Mutual TLS requires all three credential files
	if c.MQTT.TLS.Enabled {
		if c.MQTT.TLS.CAFile == "" {
			errs = append(errs, "mqtt.tls.ca_file is required when TLS is enabled")
		}
		if c.MQTT.TLS.CertFile == "" {
			errs = append(errs, "mqtt.tls.cert_file is required when TLS is enabled")
		}
		if c.MQTT.TLS.KeyFile == "" {
			errs = append(errs, "mqtt.tls.key_file is required when TLS is enabled")
		}
	}

	// Bridge validation
	if c.Bridge.Capacity < 1 {
		errs = append(errs, "bridge.capacity must be at least 1")
	}
	if c.Bridge.PollInterval < 1 {
		errs = append(errs, "bridge.poll_interval must be at least 1 millisecond")
	}

	// Journal validation
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when journal is enabled")
	}

	// Telemetry validation
	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Org == "" {
			errs = append(errs, "telemetry.org is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetPollInterval returns the attach poll interval as a Duration.
func (c AttachConfig) GetPollInterval() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// GetKeepAlive returns the MQTT keep-alive interval as a Duration.
func (c MQTTConfig) GetKeepAlive() time.Duration {
	return time.Duration(c.KeepAlive) * time.Second
}

// GetSubscribeRetryInterval returns the subscribe retry interval as a Duration.
func (c MQTTConfig) GetSubscribeRetryInterval() time.Duration {
	return time.Duration(c.Subscribe.RetryInterval) * time.Millisecond
}

// GetPollInterval returns the main loop poll interval as a Duration.
func (c BridgeConfig) GetPollInterval() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}
