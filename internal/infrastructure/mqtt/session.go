package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-node/internal/identity"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

// Session is the node's single, mutually-authenticated broker connection.
//
// A session pairs a send handle (subscribe, publish) with an inbound event
// stream. The stream is handed out exactly once via Events() and is drained
// by the listener bridge on its own goroutine; the send handle stays with
// the main loop. The session is established once and never rebuilt — if the
// transport drops, the event stream ends and recovery is a process restart.
//
// Thread Safety:
//   - Subscribe and Publish are safe for concurrent use; the underlying
//     transport serialises its own outbound operations.
type Session struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	// bundle keeps the prepared credential buffers alive for the session's
	// lifetime; the TLS layer borrows views into them.
	bundle *identity.Bundle

	// events carries inbound protocol events to the listener bridge.
	// closed signals stream end; events itself is never closed so late
	// handler callbacks cannot panic on send.
	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once

	// streamTaken enforces the one-time hand-off of the event stream.
	streamTaken bool
	streamMu    sync.Mutex

	// logger for connection and retry logging (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Connect establishes the mutually-authenticated connection to the broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, client ID, keep-alive)
//  2. Applies the TLS configuration from the credential bundle
//  3. Attempts the connection with a timeout
//
// Construction is atomic: either a session with both handles is returned,
// or an error and no session. There is no partial-success state.
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//   - bundle: Prepared credentials; may be nil when TLS is disabled
//
// Returns:
//   - *Session: Connected session ready for use
//   - error: ErrConnectionFailed wrapping the transport or TLS cause
func Connect(cfg config.MQTTConfig, bundle *identity.Bundle) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		bundle: bundle,
		events: make(chan Event, eventBufferSize),
		closed: make(chan struct{}),
	}

	opts := buildSessionOptions(cfg, bundle)

	// A lost transport ends the event stream; the bridge observes the end
	// and exits. No reconnect is attempted.
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		if logger := s.getLogger(); logger != nil {
			logger.Warn("connection lost", "error", err)
		}
		s.emit(Event{Kind: EventDisconnected, Err: err})
		s.endStream()
	})

	s.client = pahomqtt.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return s, nil
}

// Events hands out the inbound event stream.
//
// The stream may be taken exactly once; it is owned exclusively by the
// listener bridge for the rest of the session. A second call returns
// ErrEventsConsumed — a programming error in the caller, never a stale
// handle.
//
// Returns:
//   - *EventStream: The receive-only event stream
//   - error: ErrEventsConsumed if the stream was already taken
func (s *Session) Events() (*EventStream, error) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()

	if s.streamTaken {
		return nil, ErrEventsConsumed
	}
	s.streamTaken = true

	return &EventStream{session: s}, nil
}

// Close disconnects from the broker and ends the event stream.
//
// It waits briefly for in-flight outbound operations before dropping the
// connection. Safe to call on an already-closed session.
//
// Returns:
//   - error: Always nil; kept for interface symmetry with other closers
func (s *Session) Close() error {
	if s.client == nil {
		return nil
	}

	s.client.Disconnect(defaultDisconnectQuiesce)
	s.endStream()

	return nil
}

// HealthCheck verifies the broker connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Session) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !s.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
func (s *Session) IsConnected() bool {
	return s.client != nil && s.client.IsConnected()
}

// SetLogger sets a logger for connection and retry logging.
// If not set, failures are retried silently.
func (s *Session) SetLogger(logger Logger) {
	s.loggerMu.Lock()
	s.logger = logger
	s.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (s *Session) getLogger() Logger {
	s.loggerMu.RLock()
	defer s.loggerMu.RUnlock()
	return s.logger
}

// emit delivers an event to the stream, blocking when the stream's buffer
// is full. Events are dropped once the stream has ended.
func (s *Session) emit(ev Event) {
	select {
	case <-s.closed:
		return
	default:
	}

	select {
	case s.events <- ev:
	case <-s.closed:
	}
}

// endStream marks the event stream as finished. Buffered events remain
// readable; Next reports the end once they are drained.
func (s *Session) endStream() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// onMessage is the paho handler for inbound messages on the subscribed
// topic. It republishes the delivery as an event on the stream.
func (s *Session) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	s.emit(Event{
		Kind:    EventMessage,
		Topic:   msg.Topic(),
		Payload: msg.Payload(),
	})
}
