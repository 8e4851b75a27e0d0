// Package network supervises startup network attachment.
//
// The node cannot open its broker session until it has network-layer
// connectivity. The Supervisor requests attachment once via the Radio
// interface, then polls status on a fixed interval (default 1 second) up
// to a hard attempt bound (default 30); exhausting the bound is a fatal
// startup error. Every poll feeds the platform watchdog, since polling may
// occupy the only execution context during boot.
//
// The actual network stack is an external collaborator. InterfaceRadio is
// the default implementation, watching an OS-managed interface for an
// address; embedded targets substitute their own Radio.
package network
