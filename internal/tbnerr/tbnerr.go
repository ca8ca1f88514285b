// Package tbnerr provides the coded error kinds observed by the benchmark core.
//
// It follows the numbering and registration style of github.com/nabbar/golib's
// errors package: each kind is a CodeError constant in a module-reserved
// range, with a message registered once at init time. Unlike the teacher's
// full error package, this is a narrow slice sized to the ten kinds this
// tool needs (no hierarchy, no pool, no gin integration).
package tbnerr

import "fmt"

// CodeError is a numeric classification for a probe or startup failure.
type CodeError uint16

// MinPkgBench reserves the code range for this module, following the
// teacher's MinPkg* convention (errors/modules.go) of giving every package
// its own block of the uint16 space.
const MinPkgBench CodeError = 9000

const (
	// UnknownError is the zero value: no specific kind assigned.
	UnknownError CodeError = 0

	// Resolve: DNS yielded no address for the endpoint. Fatal at startup.
	Resolve CodeError = MinPkgBench + iota
	// Precondition: a violated invariant, e.g. percentile called on an empty sample. Fatal.
	Precondition
	// ConnectRefused: TCP connect was refused by the remote peer.
	ConnectRefused
	// ConnectReset: TCP connection was reset during connect or I/O.
	ConnectReset
	// ConnectOther: any other TCP-layer failure.
	ConnectOther
	// Timeout: the probe exceeded its per-attempt deadline.
	Timeout
	// Unsupported: the SMTP server did not advertise "220" in response to STARTTLS.
	Unsupported
	// TlsHandshake: TLS negotiation failed.
	TlsHandshake
	// Shutdown: closing the TLS stream failed.
	Shutdown
	// InvalidConfig: CLI flags, config file or environment failed to parse or validate.
	InvalidConfig
)

var messages = map[CodeError]string{
	UnknownError:   "unknown error",
	Resolve:        "could not resolve endpoint to any address",
	Precondition:   "precondition violated",
	ConnectRefused: "connection refused",
	ConnectReset:   "connection reset",
	ConnectOther:   "tcp connect failed",
	Timeout:        "probe exceeded its deadline",
	Unsupported:    "STARTTLS seems to be unsupported",
	TlsHandshake:   "tls handshake failed",
	Shutdown:       "error during tls close",
	InvalidConfig:  "invalid configuration",
}

// Message returns the registered human-readable message for the code, or
// the zero-value message if the code is not registered.
func (c CodeError) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[UnknownError]
}

func (c CodeError) String() string {
	return c.Message()
}

// Error wraps a CodeError and an optional parent error, mirroring the
// teacher's errors.Error (trimmed to what this tool needs: a code, a
// message and one parent — no hierarchy, no stack capture).
type Error struct {
	Code   CodeError
	Parent error
}

func (e *Error) Error() string {
	if e.Parent != nil {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Code.Message(), e.Parent.Error())
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Code.Message())
}

func (e *Error) Unwrap() error {
	return e.Parent
}

// New builds an *Error for the given code, optionally wrapping a parent error.
func New(code CodeError, parent error) *Error {
	return &Error{Code: code, Parent: parent}
}

// Is reports whether err (or anything in its unwrap chain) carries code.
func Is(err error, code CodeError) bool {
	for err != nil {
		if te, ok := err.(*Error); ok && te.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return false
}
