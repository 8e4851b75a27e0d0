package mqtt

import (
	"errors"
	"testing"
)

func TestPublish_NotConnected(t *testing.T) {
	s := newTestSession()
	s.client = newDisconnectedClient(s.cfg)

	err := s.Publish([]byte("payload"))
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want wrapped ErrNotConnected", err)
	}
}

func TestPublish_PayloadTooLarge(t *testing.T) {
	s := newTestSession()
	s.client = newDisconnectedClient(s.cfg)

	err := s.Publish(make([]byte, maxPayloadSize+1))
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestPublishString_NotConnected(t *testing.T) {
	s := newTestSession()
	s.client = newDisconnectedClient(s.cfg)

	if err := s.PublishString("payload"); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishString() error = %v, want ErrPublishFailed", err)
	}
}
