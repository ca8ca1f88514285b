// Package protocol names the preamble a probe runs before the TLS handshake.
//
// It follows the enum-with-Parse/String shape used throughout
// github.com/nabbar/golib's network/protocol package, trimmed to the two
// values spec.md names: a bare TCP connection, or an SMTP connection
// upgraded in-band via STARTTLS.
package protocol

import "strings"

// Protocol selects the preamble run between TCP connect and the TLS handshake.
type Protocol uint8

const (
	// TCP performs no preamble: the TLS handshake starts immediately after connect.
	TCP Protocol = iota
	// SMTP performs the ESMTP STARTTLS dialogue described in spec.md §4.2/§6.
	SMTP
)

// Parse returns the Protocol matching a CLI value ("tcp" or "smtp"),
// defaulting to TCP for anything else.
func Parse(s string) Protocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smtp":
		return SMTP
	default:
		return TCP
	}
}

func (p Protocol) String() string {
	switch p {
	case SMTP:
		return "smtp"
	default:
		return "tcp"
	}
}

// IsSMTP reports whether the probe must run the STARTTLS preamble.
func (p Protocol) IsSMTP() bool {
	return p == SMTP
}
