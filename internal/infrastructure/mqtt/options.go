package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-node/internal/identity"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for a subscribe ack.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// qosAtMostOnce is the only delivery level the node uses: fire-and-forget,
	// no acknowledgment, no retry.
	qosAtMostOnce byte = 0

	// clientIDSuffixLen is the length of the generated client ID suffix.
	clientIDSuffixLen = 8
)

// buildSessionOptions creates paho MQTT options from node config.
//
// This configures:
//   - Broker URL (ssl:// for TLS endpoints)
//   - Client ID (configured, or generated with a unique suffix)
//   - Keep-alive interval
//   - Mutual TLS from the credential bundle
//   - Clean session, single-shot connection (no auto-reconnect)
func buildSessionOptions(cfg config.MQTTConfig, bundle *identity.Bundle) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(cfg.Broker.URL)
	opts.SetClientID(clientID(cfg))

	// Clean session - start fresh on connect (no persistent session on broker)
	opts.SetCleanSession(true)

	// Single-shot connection. The session is never rebuilt; a dropped
	// transport ends the event stream and the node restarts.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	opts.SetConnectTimeout(defaultConnectTimeout)

	// Keepalive - broker detects dead connections via PINGs
	opts.SetKeepAlive(cfg.GetKeepAlive())

	// Inbound handlers run in arrival order so the event stream preserves
	// the delivery order of the underlying transport.
	opts.SetOrderMatters(true)

	if bundle != nil {
		opts.SetTLSConfig(bundle.TLSConfig())
	}

	return opts
}

// clientID returns the configured client ID, or generates a stable-prefix
// unique one when the configuration leaves it empty.
func clientID(cfg config.MQTTConfig) string {
	if cfg.Broker.ClientID != "" {
		return cfg.Broker.ClientID
	}
	return fmt.Sprintf("graynode-%s", uuid.NewString()[:clientIDSuffixLen])
}
