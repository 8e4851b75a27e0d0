// Gray Logic Node - Secure Messaging Edge Node
//
// This is the main entry point for a Gray Logic edge node. A node
// attaches to its network, establishes a mutually-authenticated MQTT
// session, and bridges broker traffic into a bounded local queue that
// the control loop drains at a fixed cadence.
//
// A node is deliberately single-shot: if the session drops, the process
// exits and the platform supervisor restarts it with fresh state.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bridge"
	"github.com/nerrad567/gray-logic-node/internal/dispatch"
	"github.com/nerrad567/gray-logic-node/internal/identity"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-node/internal/journal"
	"github.com/nerrad567/gray-logic-node/internal/network"
	"github.com/nerrad567/gray-logic-node/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"node_id", cfg.Node.ID,
	)

	// Open message journal (optional)
	var msgJournal *journal.Journal
	if cfg.Journal.Enabled {
		msgJournal, err = journal.Open(cfg.Journal)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer func() {
			log.Info("closing journal")
			if closeErr := msgJournal.Close(); closeErr != nil {
				log.Error("error closing journal", "error", closeErr)
			}
		}()
		log.Info("journal opened", "path", msgJournal.Path())
	} else {
		log.Info("journal disabled")
	}

	// Connect telemetry (optional)
	var metrics *telemetry.Client
	if cfg.Telemetry.Enabled {
		metrics, err = telemetry.Connect(cfg.Telemetry, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := metrics.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		metrics.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		log.Info("telemetry connected", "url", cfg.Telemetry.URL, "bucket", cfg.Telemetry.Bucket)
	} else {
		log.Info("telemetry disabled")
	}

	// Wait for network attachment before touching the broker
	radio := network.NewInterfaceRadio(cfg.Network.Interface)
	supervisor := network.NewSupervisor(radio, cfg.Network.Attach)
	supervisor.SetLogger(log)

	if err := supervisor.WaitForAttach(ctx); err != nil {
		return fmt.Errorf("waiting for network: %w", err)
	}
	if addr, addrErr := radio.Addr(); addrErr == nil {
		log.Info("network attached", "interface", cfg.Network.Interface, "addr", addr)
	} else {
		log.Info("network attached", "interface", cfg.Network.Interface)
	}
	if metrics != nil {
		metrics.WriteConnectionEvent("attached")
	}

	// Load TLS identity (skipped for anonymous dev brokers)
	var bundle *identity.Bundle
	if cfg.MQTT.TLS.Enabled {
		bundle, err = identity.LoadFiles(cfg.MQTT.TLS.CAFile, cfg.MQTT.TLS.CertFile, cfg.MQTT.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("loading identity: %w", err)
		}
		log.Info("identity loaded", "ca", cfg.MQTT.TLS.CAFile, "cert", cfg.MQTT.TLS.CertFile)
	} else {
		log.Warn("TLS disabled, connecting without client identity")
	}

	// Establish the broker session
	session, err := mqtt.Connect(cfg.MQTT, bundle)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	session.SetLogger(log)
	defer func() {
		log.Info("closing MQTT session")
		if closeErr := session.Close(); closeErr != nil {
			log.Error("error closing MQTT session", "error", closeErr)
		}
	}()
	log.Info("MQTT session established", "broker", cfg.MQTT.Broker.URL)
	if metrics != nil {
		metrics.WriteConnectionEvent("connected")
	}

	// Take the one event stream and bridge it into the bounded queue
	stream, err := session.Events()
	if err != nil {
		return fmt.Errorf("taking event stream: %w", err)
	}

	br := bridge.Start(stream, cfg.Bridge.Capacity)
	br.SetLogger(log)
	defer br.Stop()

	// Subscribe with retry until the broker acks
	if err := session.Subscribe(ctx); err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	log.Info("subscribed", "topic", cfg.MQTT.Topics.Subscribe)

	// Command dispatcher; nodes without hardware log requested transitions
	dispatcher := dispatch.New(dispatch.NewLogActuator(log))
	dispatcher.SetLogger(log)

	log.Info("initialisation complete, entering main loop")

	return mainLoop(ctx, cfg, log, br, session, dispatcher, msgJournal, metrics)
}

// mainLoop drains the bridge at the configured cadence until shutdown.
//
// Each tick performs at most one non-blocking receive, mirroring the
// fixed-rate poll the control loop is built around. The loop exits when
// the context is cancelled or the bridge channel closes (session ended).
func mainLoop(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	br *bridge.Bridge,
	session *mqtt.Session,
	dispatcher *dispatch.Dispatcher,
	msgJournal *journal.Journal,
	metrics *telemetry.Client,
) error {
	ticker := time.NewTicker(cfg.Bridge.GetPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return nil

		case <-ticker.C:
			select {
			case payload, ok := <-br.Messages():
				if !ok {
					// Stream ended: the session dropped. Exit and let the
					// platform supervisor restart the node.
					if metrics != nil {
						metrics.WriteConnectionEvent("disconnected")
					}
					return errors.New("broker session ended")
				}
				handleMessage(ctx, cfg, log, session, dispatcher, msgJournal, metrics, payload)
			default:
				// Nothing pending this tick.
			}
		}
	}
}

// handleMessage processes one inbound payload: journal, telemetry,
// dispatch, echo reply. Failures are logged and dropped; a bad message
// never tears down the session.
func handleMessage(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	session *mqtt.Session,
	dispatcher *dispatch.Dispatcher,
	msgJournal *journal.Journal,
	metrics *telemetry.Client,
	payload []byte,
) {
	log.Info("message received", "topic", cfg.MQTT.Topics.Subscribe, "bytes", len(payload))

	if msgJournal != nil {
		if err := msgJournal.Record(ctx, journal.Inbound, cfg.MQTT.Topics.Subscribe, payload); err != nil {
			log.Error("journalling inbound message failed", "error", err)
		}
	}
	if metrics != nil {
		metrics.WriteMessageMetric(telemetry.DirectionInbound, cfg.MQTT.Topics.Subscribe, len(payload))
	}

	if err := dispatcher.Handle(payload); err != nil {
		log.Warn("command dispatch failed", "error", err)
	}

	reply := fmt.Sprintf("node %s received: %s", cfg.Node.ID, payload)
	if err := session.PublishString(reply); err != nil {
		log.Warn("echo reply failed", "error", err)
		return
	}
	if msgJournal != nil {
		if err := msgJournal.Record(ctx, journal.Outbound, cfg.MQTT.Topics.Publish, []byte(reply)); err != nil {
			log.Error("journalling outbound message failed", "error", err)
		}
	}
	if metrics != nil {
		metrics.WriteMessageMetric(telemetry.DirectionOutbound, cfg.MQTT.Topics.Publish, len(reply))
	}
}

// getConfigPath returns the configuration file path.
// Uses GRAYNODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYNODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
