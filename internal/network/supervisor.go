package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

// Radio abstracts the platform's network stack: requesting attachment and
// reporting attachment status. Implementations wrap whatever attaches the
// node to its network (wireless supplicant, OS interface state, a modem).
type Radio interface {
	// Attach requests network attachment. Called once, before polling.
	Attach() error

	// Attached reports whether the node currently has connectivity.
	Attached() (bool, error)

	// Addr returns the acquired address once attached, for logging.
	Addr() (string, error)
}

// Watchdog is fed on every poll iteration. Attachment polling can occupy
// the only execution context during startup, so platform watchdogs must be
// kept alive from inside the loop.
type Watchdog interface {
	Feed()
}

// NopWatchdog is a Watchdog for platforms without one.
type NopWatchdog struct{}

// Feed does nothing.
func (NopWatchdog) Feed() {}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Supervisor drives network attachment at startup: a single attach request
// followed by fixed-interval status polls up to a hard attempt bound.
type Supervisor struct {
	radio    Radio
	cfg      config.AttachConfig
	watchdog Watchdog

	logger   Logger
	loggerMu sync.RWMutex
}

// NewSupervisor creates a Supervisor over the given radio.
//
// Parameters:
//   - radio: The platform network stack
//   - cfg: Poll interval and attempt bound from config.yaml
//
// Returns:
//   - *Supervisor: Supervisor with a no-op watchdog; see SetWatchdog
func NewSupervisor(radio Radio, cfg config.AttachConfig) *Supervisor {
	return &Supervisor{
		radio:    radio,
		cfg:      cfg,
		watchdog: NopWatchdog{},
	}
}

// SetWatchdog replaces the no-op watchdog with a platform one.
func (s *Supervisor) SetWatchdog(w Watchdog) {
	if w != nil {
		s.watchdog = w
	}
}

// SetLogger sets a logger for attach progress reporting.
func (s *Supervisor) SetLogger(logger Logger) {
	s.loggerMu.Lock()
	s.logger = logger
	s.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (s *Supervisor) getLogger() Logger {
	s.loggerMu.RLock()
	defer s.loggerMu.RUnlock()
	return s.logger
}

// WaitForAttach requests attachment once, then polls status until attached.
//
// Polling runs at the configured fixed interval for at most the configured
// attempt count; the watchdog is fed on every iteration. Exceeding the
// bound is fatal to startup — the node cannot operate detached.
//
// Parameters:
//   - ctx: Cancels the wait between polls
//
// Returns:
//   - error: nil once attached; ErrAttachTimeout after the attempt bound,
//     or the context error on cancellation
func (s *Supervisor) WaitForAttach(ctx context.Context) error {
	if err := s.radio.Attach(); err != nil {
		return fmt.Errorf("requesting network attach: %w", err)
	}

	interval := s.cfg.GetPollInterval()

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		s.watchdog.Feed()

		attached, err := s.radio.Attached()
		if err != nil {
			return fmt.Errorf("checking attach status: %w", err)
		}
		if attached {
			s.logAttached(attempt)
			return nil
		}

		if logger := s.getLogger(); logger != nil {
			logger.Info("waiting for network attach",
				"attempt", attempt,
				"max_attempts", s.cfg.MaxAttempts,
			)
		}

		// The final attempt does not wait; the bound is on polls, not delays
		if attempt == s.cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("%w: not attached after %d attempts", ErrAttachTimeout, s.cfg.MaxAttempts)
}

// logAttached reports successful attachment with the acquired address.
func (s *Supervisor) logAttached(attempt int) {
	logger := s.getLogger()
	if logger == nil {
		return
	}

	addr, err := s.radio.Addr()
	if err != nil {
		logger.Warn("attached, address unavailable", "error", err)
		return
	}
	logger.Info("network attached", "addr", addr, "attempts", attempt)
}
