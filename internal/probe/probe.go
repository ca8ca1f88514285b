package probe

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/nabbar/tlsbench/internal/protocol"
	"github.com/nabbar/tlsbench/internal/tbnerr"
)

// Timing holds the two elapsed durations a successful probe measures.
// Neither field is meaningful unless the probe succeeded (spec.md §3).
type Timing struct {
	TCPConnect time.Duration
	Handshake  time.Duration
}

// Outcome is what a probe hands back to its caller: either a Timing or an
// error kind, never both (spec.md §3).
type Outcome struct {
	Timing Timing
	Err    error
}

// Failed reports whether the probe did not complete successfully.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

var dialer net.Dialer

// Run performs one probe against (addr, port): TCP connect, optional SMTP
// STARTTLS preamble, TLS handshake, graceful close — timing the TCP and TLS
// phases, bounded end-to-end by deadline (spec.md §4.2).
func Run(addr string, port int, proto protocol.Protocol, host string, tmpl *SessionTemplate, deadline time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	t0 := time.Now()

	target := net.JoinHostPort(addr, fmt.Sprintf("%d", port))
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return Outcome{Err: classifyDialErr(ctx, err)}
	}
	defer func() { _ = conn.Close() }()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	if proto.IsSMTP() {
		if err = runStartTLS(conn, host); err != nil {
			return Outcome{Err: classifyIOErr(ctx, err)}
		}
	}

	tcpConnect := time.Since(t0)

	t1 := time.Now()
	tlsConn := tls.Client(conn, tmpl.Clone(addr))
	if err = tlsConn.HandshakeContext(ctx); err != nil {
		return Outcome{Err: classifyHandshakeErr(ctx, err)}
	}
	handshake := time.Since(t1)

	if err = tlsConn.Close(); err != nil {
		return Outcome{Err: tbnerr.New(tbnerr.Shutdown, err)}
	}

	return Outcome{Timing: Timing{TCPConnect: tcpConnect, Handshake: handshake}}
}

// runStartTLS performs the minimal ESMTP dialogue of spec.md §4.2/§6: read
// greeting, send EHLO, read, send STARTTLS, read, and check for "220"
// anywhere in the accumulated buffer. It reads once per step with a
// 1024-byte buffer and does no line framing (spec.md §9 Open Question 2:
// a server that splits its 220 line across segments may be misclassified).
func runStartTLS(conn net.Conn, host string) error {
	var acc bytes.Buffer

	if err := readOnce(conn, &acc); err != nil {
		return err
	}
	if err := writeAll(conn, fmt.Sprintf("EHLO %s\r\n", host)); err != nil {
		return err
	}
	if err := readOnce(conn, &acc); err != nil {
		return err
	}
	if err := writeAll(conn, "STARTTLS\r\n"); err != nil {
		return err
	}
	if err := readOnce(conn, &acc); err != nil {
		return err
	}

	if !strings.Contains(acc.String(), "220") {
		return tbnerr.New(tbnerr.Unsupported, nil)
	}
	return nil
}

func readOnce(conn net.Conn, acc *bytes.Buffer) error {
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if n > 0 {
		acc.Write(buf[:n])
	}
	if err != nil {
		return err
	}
	return nil
}

func writeAll(conn net.Conn, s string) error {
	_, err := conn.Write([]byte(s))
	return err
}

func classifyDialErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return tbnerr.New(tbnerr.Timeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return tbnerr.New(tbnerr.ConnectRefused, err)
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return tbnerr.New(tbnerr.ConnectReset, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return tbnerr.New(tbnerr.Timeout, err)
	}
	return tbnerr.New(tbnerr.ConnectOther, err)
}

func classifyIOErr(ctx context.Context, err error) error {
	if te, ok := err.(*tbnerr.Error); ok {
		// runStartTLS already classified this one (Unsupported).
		return te
	}
	if ctx.Err() != nil {
		return tbnerr.New(tbnerr.Timeout, err)
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return tbnerr.New(tbnerr.ConnectReset, err)
	}
	return tbnerr.New(tbnerr.ConnectOther, err)
}

func classifyHandshakeErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return tbnerr.New(tbnerr.Timeout, err)
	}
	return tbnerr.New(tbnerr.TlsHandshake, err)
}
