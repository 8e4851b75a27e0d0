package dispatch

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Action names accepted on the command topic.
const (
	ActionOn     = "on"
	ActionOff    = "off"
	ActionToggle = "toggle"
)

// command is the wire shape of an inbound control message.
type command struct {
	Action string `json:"action"`
}

// Actuator is the device-side surface a Dispatcher drives. Implementations
// control a single output (relay, LED, contactor) and report failures via
// the returned error.
type Actuator interface {
	On() error
	Off() error
	Toggle() error
}

// Dispatcher decodes control payloads and routes them to an Actuator.
//
// A Dispatcher is safe for concurrent use. The zero value is not usable;
// construct with New.
type Dispatcher struct {
	actuator Actuator

	logger   Logger
	loggerMu sync.RWMutex
}

// Logger is the minimal structured logging surface used by this package.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// New creates a Dispatcher that drives the given actuator. A nil actuator
// falls back to LogActuator, which only records the requested transitions.
func New(actuator Actuator) *Dispatcher {
	if actuator == nil {
		actuator = &LogActuator{}
	}
	return &Dispatcher{actuator: actuator}
}

// SetLogger installs a logger for dispatch activity. Passing nil silences
// the dispatcher.
func (d *Dispatcher) SetLogger(l Logger) {
	d.loggerMu.Lock()
	d.logger = l
	d.loggerMu.Unlock()
}

// Handle decodes payload as a JSON control command and applies it to the
// actuator.
//
// Payloads that are not valid JSON objects return ErrBadPayload; a valid
// object with an unrecognised action returns ErrUnknownAction. Actuator
// failures are returned as-is.
func (d *Dispatcher) Handle(payload []byte) error {
	var cmd command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	switch cmd.Action {
	case ActionOn:
		return d.actuator.On()
	case ActionOff:
		return d.actuator.Off()
	case ActionToggle:
		return d.actuator.Toggle()
	default:
		d.warn("unrecognised action", "action", cmd.Action)
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
}

func (d *Dispatcher) warn(msg string, args ...any) {
	d.loggerMu.RLock()
	l := d.logger
	d.loggerMu.RUnlock()
	if l != nil {
		l.Warn(msg, args...)
	}
}

// LogActuator is an Actuator that records requested transitions without
// driving hardware. It is the default when no real actuator is wired and
// is useful in tests.
type LogActuator struct {
	mu    sync.Mutex
	state bool

	logger Logger
}

// NewLogActuator creates a LogActuator that reports transitions through l.
func NewLogActuator(l Logger) *LogActuator {
	return &LogActuator{logger: l}
}

// On records the output as energised.
func (a *LogActuator) On() error {
	a.set(true)
	return nil
}

// Off records the output as de-energised.
func (a *LogActuator) Off() error {
	a.set(false)
	return nil
}

// Toggle inverts the recorded state.
func (a *LogActuator) Toggle() error {
	a.mu.Lock()
	a.state = !a.state
	state := a.state
	l := a.logger
	a.mu.Unlock()
	if l != nil {
		l.Info("actuator state changed", "on", state)
	}
	return nil
}

// State reports the last recorded output state.
func (a *LogActuator) State() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *LogActuator) set(on bool) {
	a.mu.Lock()
	changed := a.state != on
	a.state = on
	l := a.logger
	a.mu.Unlock()
	if changed && l != nil {
		l.Info("actuator state changed", "on", on)
	}
}
