package mqtt

// eventBufferSize is the capacity of the session's internal event queue.
// It models the protocol engine's delivery buffer, upstream of the listener
// bridge's own bounded channel; when both are full the paho router blocks,
// which is the intended backpressure.
const eventBufferSize = 16

// EventKind identifies the variant of a protocol event.
type EventKind int

const (
	// EventMessage is an inbound application message on the subscribed topic.
	EventMessage EventKind = iota

	// EventDisconnected reports a lost transport. It is the last event on
	// the stream.
	EventDisconnected
)

// String returns a human-readable name for logging.
func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is a single inbound protocol event.
//
// Only EventMessage carries Topic and Payload; EventDisconnected carries
// the transport error, if any.
type Event struct {
	Kind    EventKind
	Topic   string
	Payload []byte
	Err     error
}

// EventStream is the receive side of a session, obtained once via
// Session.Events() and owned exclusively by the listener bridge.
type EventStream struct {
	session *Session
}

// Next blocks until an event arrives or the stream ends.
//
// Events already buffered when the stream ends are still delivered, in
// order, before Next reports the end.
//
// Returns:
//   - Event: The next event, valid only when ok is true
//   - bool: false once the stream has ended and drained
func (st *EventStream) Next() (Event, bool) {
	select {
	case ev := <-st.session.events:
		return ev, true
	case <-st.session.closed:
		// Drain anything that raced with the close.
		select {
		case ev := <-st.session.events:
			return ev, true
		default:
			return Event{}, false
		}
	}
}
