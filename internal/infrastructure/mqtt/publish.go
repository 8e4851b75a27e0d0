package mqtt

import (
	"fmt"
)

// Maximum payload size for outbound messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish enqueues a payload for delivery to the configured publish topic.
//
// Delivery is fire-and-forget at QoS 0: success means the payload was
// accepted into the transport's outbound queue, not that it reached the
// broker. No acknowledgment is awaited and nothing is retried — retry
// policy, if wanted, belongs to the caller.
//
// Parameters:
//   - payload: The message payload (UTF-8 text or raw bytes, max 1MB)
//
// Returns:
//   - error: ErrPublishFailed if the payload is rejected at enqueue time
func (s *Session) Publish(payload []byte) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !s.IsConnected() {
		return fmt.Errorf("%w: %w", ErrPublishFailed, ErrNotConnected)
	}

	token := s.client.Publish(s.cfg.Topics.Publish, qosAtMostOnce, false, payload)

	// Fire-and-forget: only synchronous enqueue rejection is surfaced.
	// Completion of the token is deliberately not awaited.
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishString is a convenience method that publishes a string payload.
//
// This is equivalent to calling Publish with []byte(payload).
func (s *Session) PublishString(payload string) error {
	return s.Publish([]byte(payload))
}
