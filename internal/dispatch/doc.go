// Package dispatch routes inbound control commands to a local actuator.
//
// Commands arrive as small JSON objects on the node's subscribe topic:
//
//	{"action": "on"}
//	{"action": "off"}
//	{"action": "toggle"}
//
// Dispatcher decodes the payload and invokes the matching Actuator method.
// Malformed payloads and unrecognised actions are rejected with sentinel
// errors so callers can log and drop them without tearing down the session.
//
// # Actuators
//
// The Actuator interface abstracts the output being driven. Nodes with no
// physical output use LogActuator, which tracks the requested state and
// logs transitions; hardware-backed implementations live with the code
// that owns the GPIO or bus access.
package dispatch
