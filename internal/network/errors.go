package network

import "errors"

// Domain-specific errors for network attachment.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAttachTimeout is returned when the node did not attach within the
	// configured retry budget. Fatal at startup.
	ErrAttachTimeout = errors.New("network: attach timed out")

	// ErrNoInterface is returned when the configured interface does not
	// exist or holds no usable address.
	ErrNoInterface = errors.New("network: interface unavailable")
)
