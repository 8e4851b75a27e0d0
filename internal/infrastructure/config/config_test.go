package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

const validConfig = `
node:
  id: "test-node"
network:
  interface: "wlan0"
mqtt:
  broker:
    url: "ssl://broker.example.com:8883"
    client_id: "test-client"
  topics:
    publish: "topic/pub"
    subscribe: "topic/sub"
  tls:
    enabled: true
    ca_file: "/etc/graynode/ca.pem"
    cert_file: "/etc/graynode/cert.pem"
    key_file: "/etc/graynode/key.pem"
journal:
  enabled: false
`

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, validConfig)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Node.ID != "test-node" {
		t.Errorf("Node.ID = %q, want %q", cfg.Node.ID, "test-node")
	}

	if cfg.MQTT.Broker.URL != "ssl://broker.example.com:8883" {
		t.Errorf("MQTT.Broker.URL = %q, want %q", cfg.MQTT.Broker.URL, "ssl://broker.example.com:8883")
	}

	if cfg.MQTT.Topics.Publish != "topic/pub" {
		t.Errorf("MQTT.Topics.Publish = %q, want %q", cfg.MQTT.Topics.Publish, "topic/pub")
	}

	if cfg.MQTT.Topics.Subscribe != "topic/sub" {
		t.Errorf("MQTT.Topics.Subscribe = %q, want %q", cfg.MQTT.Topics.Subscribe, "topic/sub")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, validConfig)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.KeepAlive != 60 {
		t.Errorf("MQTT.KeepAlive = %d, want 60", cfg.MQTT.KeepAlive)
	}

	if cfg.MQTT.Subscribe.RetryInterval != 500 {
		t.Errorf("MQTT.Subscribe.RetryInterval = %d, want 500", cfg.MQTT.Subscribe.RetryInterval)
	}

	if cfg.MQTT.Subscribe.MaxAttempts != 0 {
		t.Errorf("MQTT.Subscribe.MaxAttempts = %d, want 0 (unbounded)", cfg.MQTT.Subscribe.MaxAttempts)
	}

	if cfg.Bridge.Capacity != 10 {
		t.Errorf("Bridge.Capacity = %d, want 10", cfg.Bridge.Capacity)
	}

	if cfg.Network.Attach.PollInterval != 1 {
		t.Errorf("Network.Attach.PollInterval = %d, want 1", cfg.Network.Attach.PollInterval)
	}

	if cfg.Network.Attach.MaxAttempts != 30 {
		t.Errorf("Network.Attach.MaxAttempts = %d, want 30", cfg.Network.Attach.MaxAttempts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyTopics(t *testing.T) {
	content := `
node:
  id: "test-node"
network:
  interface: "wlan0"
mqtt:
  broker:
    url: "ssl://broker.example.com:8883"
  topics:
    publish: ""
    subscribe: ""
  tls:
    enabled: false
journal:
  enabled: false
`
	configPath := writeConfig(t, content)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for empty topics, got nil")
	}
}

func TestLoad_TLSMissingCredentials(t *testing.T) {
	content := `
node:
  id: "test-node"
network:
  interface: "wlan0"
mqtt:
  broker:
    url: "ssl://broker.example.com:8883"
  topics:
    publish: "topic/pub"
    subscribe: "topic/sub"
  tls:
    enabled: true
journal:
  enabled: false
`
	configPath := writeConfig(t, content)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for TLS without credential files, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, validConfig)

	t.Setenv("GRAYNODE_MQTT_URL", "ssl://override.example.com:8883")
	t.Setenv("GRAYNODE_MQTT_TOPIC_SUB", "override/sub")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.URL != "ssl://override.example.com:8883" {
		t.Errorf("MQTT.Broker.URL = %q, want env override", cfg.MQTT.Broker.URL)
	}

	if cfg.MQTT.Topics.Subscribe != "override/sub" {
		t.Errorf("MQTT.Topics.Subscribe = %q, want env override", cfg.MQTT.Topics.Subscribe)
	}
}

func TestValidate_BridgeCapacity(t *testing.T) {
	cfg := defaultConfig()
	cfg.MQTT.Broker.URL = "tcp://localhost:1883"
	cfg.MQTT.Topics.Publish = "topic/pub"
	cfg.MQTT.Topics.Subscribe = "topic/sub"
	cfg.MQTT.TLS.Enabled = false
	cfg.Bridge.Capacity = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for zero bridge capacity, got nil")
	}
}

func TestGetDurations(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.Network.Attach.GetPollInterval().Seconds(); got != 1 {
		t.Errorf("Attach.GetPollInterval() = %vs, want 1s", got)
	}

	if got := cfg.MQTT.GetSubscribeRetryInterval().Milliseconds(); got != 500 {
		t.Errorf("GetSubscribeRetryInterval() = %vms, want 500ms", got)
	}

	if got := cfg.MQTT.GetKeepAlive().Seconds(); got != 60 {
		t.Errorf("GetKeepAlive() = %vs, want 60s", got)
	}

	if got := cfg.Bridge.GetPollInterval().Milliseconds(); got != 100 {
		t.Errorf("Bridge.GetPollInterval() = %vms, want 100ms", got)
	}
}
