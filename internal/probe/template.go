// Package probe implements a single TCP-connect + optional-STARTTLS +
// TLS-handshake + close attempt (spec.md §4.2, component C2).
package probe

import (
	"crypto/tls"

	"github.com/nabbar/tlsbench/internal/tlsversion"
)

// SessionTemplate is the immutable TLS client configuration a run is built
// from. It is cloned (cheaply — a handle into an immutable root store) per
// probe and never mutated after construction, per spec.md §3.
type SessionTemplate struct {
	version tlsversion.Version
	zeroRTT bool
	cache   tls.ClientSessionCache
}

// NewSessionTemplate builds the template for a run. version must already be
// one of tlsversion.VersionTLS12 / VersionTLS13 (the CLI/config layer
// rejects anything else before this point).
func NewSessionTemplate(version tlsversion.Version, zeroRTT bool) *SessionTemplate {
	t := &SessionTemplate{version: version, zeroRTT: zeroRTT}
	if zeroRTT {
		t.cache = tls.NewLRUClientSessionCache(1)
	}
	return t
}

// Clone returns a fresh *tls.Config for one probe: the version is pinned as
// both min and max (spec.md §3: "either {TLS 1.2} or {TLS 1.3}, singleton"),
// and the certificate verifier unconditionally accepts — this tool is a
// probe, not a client, and certificate validation is an explicit Non-goal.
func (t *SessionTemplate) Clone(serverName string) *tls.Config {
	cfg := &tls.Config{
		MinVersion:         t.version.Uint16(),
		MaxVersion:         t.version.Uint16(),
		ServerName:         serverName,
		InsecureSkipVerify: true, //nolint:gosec // unconditional accept is this tool's whole point, see spec.md §1 Non-goals
	}

	if t.zeroRTT {
		// Go's client-side crypto/tls has no public 0-RTT send path outside
		// QUIC; a session cache is the prerequisite this library exposes for
		// resumption-based early data, so that is what the flag wires. The
		// cache is shared by every clone so later probes can resume.
		cfg.ClientSessionCache = t.cache
	}

	return cfg
}
