package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected session.
	ErrNotConnected = errors.New("mqtt: session not connected")

	// ErrConnectionFailed is returned when session construction fails.
	// Fatal at startup; the node does not retry the connection itself.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a payload is rejected at enqueue time.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when subscription could not be activated
	// within the configured attempt bound.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrEventsConsumed is returned when the event stream is requested a
	// second time. The stream is owned exclusively by its first taker;
	// a second take is a programming error.
	ErrEventsConsumed = errors.New("mqtt: event stream already consumed")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("mqtt: operation timed out")
)
