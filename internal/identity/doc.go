// Package identity prepares mutual TLS credentials for the broker session.
//
// The node authenticates with three PEM buffers: the broker's root
// authority, a client certificate, and the matching private key. This
// package turns those raw buffers into a session-lifetime Bundle:
//
//   - Each buffer is NUL-terminated (one NUL appended when missing), the
//     form embedded TLS stacks expect, so provisioning can ship identical
//     PEM files to every node build.
//   - The prepared buffers are owned by the Bundle so any borrowed view
//     stays valid for as long as the session does.
//   - A *tls.Config is built once, pinning the broker to the configured
//     root authority and presenting the client pair, TLS 1.2 minimum.
//
// Malformed PEM fails here, before any connection attempt, with
// ErrBadCredential; empty buffers fail with ErrEmptyCredential.
package identity
