package identity

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// tlsMinVersion is the minimum TLS version for broker connections.
const tlsMinVersion = tls.VersionTLS12

// Material holds the three raw PEM buffers required for mutual TLS:
// the broker's root authority, the node's certificate, and its private key.
//
// The buffers are opaque at this layer; malformed PEM is only discovered
// when the bundle is built.
type Material struct {
	CA   []byte
	Cert []byte
	Key  []byte
}

// Bundle is the prepared, session-lifetime form of the credential material.
//
// The prepared buffers are owned by the bundle and retained for as long as it
// lives, so views handed to the TLS layer never outlive their backing storage.
// The buffers are never mutated after preparation.
type Bundle struct {
	ca   []byte
	cert []byte
	key  []byte

	tlsConfig *tls.Config
}

// Load prepares raw credential material into a Bundle ready for session
// construction.
//
// Each buffer is NUL-terminated (a single NUL appended if not already
// present) and the TLS configuration is built from the view up to the first
// NUL. The termination mirrors the wire format expected by embedded TLS
// stacks, so the same PEM files can be shared between node builds.
//
// Parameters:
//   - m: Raw PEM buffers for CA, client certificate, and private key
//
// Returns:
//   - *Bundle: Prepared credentials with a ready *tls.Config
//   - error: ErrEmptyCredential or ErrBadCredential describing the failure
func Load(m Material) (*Bundle, error) {
	if len(m.CA) == 0 {
		return nil, fmt.Errorf("%w: server root authority", ErrEmptyCredential)
	}
	if len(m.Cert) == 0 {
		return nil, fmt.Errorf("%w: client certificate", ErrEmptyCredential)
	}
	if len(m.Key) == 0 {
		return nil, fmt.Errorf("%w: private key", ErrEmptyCredential)
	}

	b := &Bundle{
		ca:   terminate(m.CA),
		cert: terminate(m.Cert),
		key:  terminate(m.Key),
	}

	// Verify the broker against the configured root authority only,
	// not the host's system pool.
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(untilNUL(b.ca)) {
		return nil, fmt.Errorf("%w: server root authority is not valid PEM", ErrBadCredential)
	}

	pair, err := tls.X509KeyPair(untilNUL(b.cert), untilNUL(b.key))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCredential, err)
	}

	b.tlsConfig = &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{pair},
		MinVersion:   tlsMinVersion,
	}

	return b, nil
}

// LoadFiles reads the three credential files and prepares them into a Bundle.
//
// Parameters:
//   - caPath: Path to the broker's root authority PEM
//   - certPath: Path to the node's certificate PEM
//   - keyPath: Path to the node's private key PEM
//
// Returns:
//   - *Bundle: Prepared credentials
//   - error: If any file cannot be read or the material is invalid
func LoadFiles(caPath, certPath, keyPath string) (*Bundle, error) {
	ca, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("reading server root authority: %w", err)
	}

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("reading client certificate: %w", err)
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	return Load(Material{CA: ca, Cert: cert, Key: key})
}

// TLSConfig returns the TLS configuration built from the prepared material.
//
// The returned config borrows from buffers owned by the bundle; keep the
// bundle alive for the lifetime of any session using it.
func (b *Bundle) TLSConfig() *tls.Config {
	return b.tlsConfig
}

// terminate returns buf with a single trailing NUL byte, appending one only
// if the buffer is not already NUL-terminated. The input is copied, never
// mutated.
func terminate(buf []byte) []byte {
	out := make([]byte, len(buf), len(buf)+1)
	copy(out, buf)
	if len(out) == 0 || out[len(out)-1] != 0 {
		out = append(out, 0)
	}
	return out
}

// untilNUL returns the view of buf up to (not including) the first NUL byte.
func untilNUL(buf []byte) []byte {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return buf[:i]
	}
	return buf
}
