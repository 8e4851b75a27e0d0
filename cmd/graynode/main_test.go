package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestConfig writes a config file into a temp dir and points
// GRAYNODE_CONFIG at it for the duration of the test.
func writeTestConfig(t *testing.T, content string) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("GRAYNODE_CONFIG")
	t.Cleanup(func() { os.Setenv("GRAYNODE_CONFIG", originalEnv) })
	os.Setenv("GRAYNODE_CONFIG", configPath)
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("GRAYNODE_CONFIG")
	defer os.Setenv("GRAYNODE_CONFIG", originalEnv)

	os.Setenv("GRAYNODE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingBrokerURL verifies run fails config validation when the
// broker URL is empty.
func TestRun_MissingBrokerURL(t *testing.T) {
	writeTestConfig(t, `
node:
  id: test-node

network:
  interface: lo
  attach:
    poll_interval: 1
    max_attempts: 1

mqtt:
  broker:
    url: ""
    client_id: "test-client"
  topics:
    publish: "graynode/status"
    subscribe: "graynode/commands"
  tls:
    enabled: false

bridge:
  capacity: 10
  poll_interval: 100

journal:
  enabled: false

telemetry:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty broker URL")
	}
}

// TestRun_AttachTimeout verifies run fails when the configured network
// interface never attaches.
func TestRun_AttachTimeout(t *testing.T) {
	writeTestConfig(t, `
node:
  id: test-node

network:
  interface: graynode-test-missing0
  attach:
    poll_interval: 1
    max_attempts: 1

mqtt:
  broker:
    url: "tcp://127.0.0.1:1883"
    client_id: "test-client"
  topics:
    publish: "graynode/status"
    subscribe: "graynode/commands"
  tls:
    enabled: false

bridge:
  capacity: 10
  poll_interval: 100

journal:
  enabled: false

telemetry:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail when the interface never attaches")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("GRAYNODE_CONFIG")
	defer os.Setenv("GRAYNODE_CONFIG", originalEnv)

	os.Unsetenv("GRAYNODE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("GRAYNODE_CONFIG")
	defer os.Setenv("GRAYNODE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("GRAYNODE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
