// Package bridge turns the session's blocking event stream into a bounded,
// pollable message channel.
//
// The broker session delivers inbound protocol events through a blocking
// pull. The main loop must never block; it interleaves message handling
// with other periodic work. The bridge sits between the two scheduling
// contexts:
//
//	event stream ──(blocking pull)──▶ bridge goroutine ──▶ bounded channel ──▶ main loop
//
// Only message-delivery events cross the bridge; state changes and errors
// are logged and discarded. The channel is bounded (default capacity 10)
// and the bridge blocks when it is full — deliberate backpressure so a slow
// consumer cannot exhaust memory — while preserving FIFO order end to end.
//
// The bridge exits when the stream ends or Stop is called, closing its
// channel. Channel closure is the consumer's only "bridge died" signal.
package bridge
