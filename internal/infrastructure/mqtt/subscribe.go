package mqtt

import (
	"context"
	"fmt"
	"time"
)

// Subscribe activates the configured subscription topic, retrying until the
// broker acknowledges it.
//
// Subscription is a precondition for correct operation, so failures are
// retried at a fixed interval — unbounded by default, since there is no
// sensible definition of "give up". A maximum attempt count can be set in
// configuration for bounded behaviour (used in tests and supervised
// deployments). Each failed attempt is logged with the topic and error.
//
// Inbound messages on the topic are republished onto the session's event
// stream; Subscribe must therefore be called after the stream has been
// handed to the listener bridge, or buffered events will stall once the
// stream's buffer fills.
//
// Parameters:
//   - ctx: Cancels the retry loop (the only external bound on it)
//
// Returns:
//   - error: nil once acknowledged; ErrSubscribeFailed after a configured
//     attempt bound, or the context error on cancellation
func (s *Session) Subscribe(ctx context.Context) error {
	topic := s.cfg.Topics.Subscribe

	err := retry(ctx, s.cfg.GetSubscribeRetryInterval(), s.cfg.Subscribe.MaxAttempts,
		func() error {
			return s.trySubscribe(topic)
		},
		func(attempt int, err error) {
			if logger := s.getLogger(); logger != nil {
				logger.Warn("subscribe failed, retrying",
					"topic", topic,
					"attempt", attempt,
					"error", err,
				)
			}
		})
	if err != nil {
		return fmt.Errorf("%w: topic %q: %w", ErrSubscribeFailed, topic, err)
	}

	if logger := s.getLogger(); logger != nil {
		logger.Info("subscribed", "topic", topic)
	}
	return nil
}

// trySubscribe performs a single subscribe attempt at QoS 0.
func (s *Session) trySubscribe(topic string) error {
	token := s.client.Subscribe(topic, qosAtMostOnce, s.onMessage)
	if !token.WaitTimeout(defaultSubscribeTimeout) {
		return fmt.Errorf("%w after %v", ErrTimeout, defaultSubscribeTimeout)
	}
	return token.Error()
}

// retry runs attempt until it succeeds, waiting interval between failures.
//
// maxAttempts bounds the loop when positive; zero retries forever. onFailure
// is invoked after every failed attempt, before the wait. The context is
// only checked between attempts, so a single in-flight attempt is never
// interrupted.
func retry(ctx context.Context, interval time.Duration, maxAttempts int, attempt func() error, onFailure func(attempt int, err error)) error {
	for n := 1; ; n++ {
		err := attempt()
		if err == nil {
			return nil
		}

		onFailure(n, err)

		if maxAttempts > 0 && n >= maxAttempts {
			return fmt.Errorf("after %d attempts: %w", n, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
