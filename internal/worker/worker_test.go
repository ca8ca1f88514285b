package worker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/tlsbench/internal/cancel"
	"github.com/nabbar/tlsbench/internal/probe"
	"github.com/nabbar/tlsbench/internal/protocol"
	"github.com/nabbar/tlsbench/internal/tlsversion"
	"github.com/nabbar/tlsbench/internal/traffic"
	"github.com/nabbar/tlsbench/internal/worker"
)

func TestRunExitsOnCancellation(t *testing.T) {
	sig := cancel.New()
	ctl := traffic.New(1000)
	go ctl.Flow(sig.Context(), 1000, 0)

	cfg := worker.Config{
		Addr:     "127.0.0.1",
		Port:     1, // nothing listens here: every probe fails fast with ConnectRefused
		Proto:    protocol.TCP,
		Template: probe.NewSessionTemplate(tlsversion.VersionTLS12, false),
		Timeout:  50 * time.Millisecond,
	}

	outcomes := make(chan probe.Outcome, 64)
	done := make(chan struct{})
	go func() {
		worker.Run(sig, ctl, cfg, outcomes)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	sig.Set()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after cancellation")
	}

	// drain whatever outcomes arrived; all should be failures against a
	// closed port.
	close(outcomes)
	for o := range outcomes {
		require.True(t, o.Failed())
	}
}
