// Package mqtt provides the node's secure broker session.
//
// This package manages:
//   - One mutually-authenticated connection, established at startup
//   - A paired send handle (subscribe, publish) and inbound event stream
//   - Subscription activation with fixed-interval retry
//   - Fire-and-forget publishing at QoS 0
//
// # Architecture
//
// The session splits the connection into two halves with distinct owners.
// The send handle stays with the main loop; the event stream is taken once
// (Session.Events) by the listener bridge, which drains it on a dedicated
// goroutine. A second take fails with ErrEventsConsumed rather than handing
// out a shared stream.
//
//	main loop ── publish/subscribe ──▶ Session ◀── Next() ── listener bridge
//
// There is no reconnect logic here: a dropped transport ends the event
// stream, the bridge exits, and the surrounding application decides what
// to do (the node restarts). Partial construction is not a valid state;
// Connect returns a whole session or an error.
//
// # Usage
//
//	session, err := mqtt.Connect(cfg.MQTT, bundle)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	stream, err := session.Events()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	br := bridge.Start(stream, cfg.Bridge.Capacity)
//
//	if err := session.Subscribe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	session.PublishString("hello")
package mqtt
