package bridge

import (
	"sync"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/mqtt"
)

// DefaultCapacity is the bounded channel size used when configuration does
// not override it.
const DefaultCapacity = 10

// EventSource is the blocking pull side of a protocol event stream.
// Satisfied by *mqtt.EventStream.
type EventSource interface {
	// Next blocks until an event arrives; ok is false once the stream has
	// ended and drained.
	Next() (mqtt.Event, bool)
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Bridge drains the session's blocking event stream on a dedicated goroutine
// and republishes inbound message payloads onto a bounded channel consumed
// by the main loop.
//
// The channel enforces backpressure: when it is full the bridge blocks, it
// never drops or overwrites a payload. FIFO order matches the order the
// stream produced the events.
//
// The bridge owns the event stream exclusively for its entire lifetime. It
// terminates when the stream ends or Stop is called; either way the outbound
// channel is closed, which is how the consumer observes bridge death.
type Bridge struct {
	messages chan []byte
	done     chan struct{}
	stopOnce sync.Once

	logger   Logger
	loggerMu sync.RWMutex
}

// Start spawns the bridge worker over the given event stream.
//
// The caller receives the consuming side immediately via Messages() and
// never blocks on bridge startup.
//
// Parameters:
//   - stream: The session's event stream; ownership transfers to the bridge
//   - capacity: Bounded channel size; values < 1 fall back to DefaultCapacity
//
// Returns:
//   - *Bridge: Running bridge
func Start(stream EventSource, capacity int) *Bridge {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	b := &Bridge{
		messages: make(chan []byte, capacity),
		done:     make(chan struct{}),
	}

	go b.run(stream)

	return b
}

// run is the bridge worker loop. It exits on stream end or Stop, closing
// the outbound channel on the way out.
func (b *Bridge) run(stream EventSource) {
	defer close(b.messages)

	if logger := b.getLogger(); logger != nil {
		logger.Info("listener bridge started")
	}

	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}

		switch ev.Kind {
		case mqtt.EventMessage:
			// Blocking push is the backpressure contract: a slow consumer
			// stalls the bridge instead of growing memory.
			select {
			case b.messages <- ev.Payload:
			case <-b.done:
				if logger := b.getLogger(); logger != nil {
					logger.Info("listener bridge stopped", "reason", "receiver gone")
				}
				return
			}

		default:
			// Non-delivery events are observed for diagnostics only.
			if logger := b.getLogger(); logger != nil {
				logger.Warn("protocol event", "kind", ev.Kind.String(), "error", ev.Err)
			}
		}
	}

	if logger := b.getLogger(); logger != nil {
		logger.Info("listener bridge stopped", "reason", "stream ended")
	}
}

// Messages returns the bounded inbound payload channel.
//
// The channel preserves FIFO order and is closed when the bridge terminates.
// Receiving with a select-default gives the main loop its strictly
// non-blocking poll.
func (b *Bridge) Messages() <-chan []byte {
	return b.messages
}

// Poll performs a non-blocking receive from the inbound channel.
//
// Returns:
//   - []byte: The next payload, valid only when ok is true
//   - bool: false when the channel is empty or the bridge has terminated
func (b *Bridge) Poll() ([]byte, bool) {
	select {
	case payload, ok := <-b.messages:
		if !ok {
			return nil, false
		}
		return payload, true
	default:
		return nil, false
	}
}

// Stop signals the bridge to terminate.
//
// The worker observes the signal at its next channel push and exits; a
// worker blocked in a stream pull exits when the stream next produces an
// event or ends. Safe to call more than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
}

// SetLogger sets a logger for bridge lifecycle and diagnostic events.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (b *Bridge) getLogger() Logger {
	b.loggerMu.RLock()
	defer b.loggerMu.RUnlock()
	return b.logger
}
