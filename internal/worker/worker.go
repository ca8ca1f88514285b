// Package worker implements the worker fleet of spec.md §4.4 (component C4):
// N goroutines, each looping on "await a permit, run a probe, forward the
// outcome", exiting on cancellation.
package worker

import (
	"time"

	"github.com/nabbar/tlsbench/internal/cancel"
	"github.com/nabbar/tlsbench/internal/probe"
	"github.com/nabbar/tlsbench/internal/protocol"
	"github.com/nabbar/tlsbench/internal/traffic"
)

// Config bundles everything a worker needs to run one probe. Workers share
// Template and Outcomes by cheap clone/copy, per spec.md §4.4.
type Config struct {
	Addr     string
	Port     int
	Proto    protocol.Protocol
	Host     string
	Template *probe.SessionTemplate
	Timeout  time.Duration
}

// Run is one worker's loop. It exits when sig is set, observed either while
// waiting for a permit or — for an in-flight probe — only via the probe's
// own deadline (cancellation does not preempt a running probe, spec.md §5).
func Run(sig *cancel.Signal, ctl *traffic.Controller, cfg Config, outcomes chan<- probe.Outcome) {
	for {
		if err := ctl.Acquire(sig.Context()); err != nil {
			return
		}

		o := probe.Run(cfg.Addr, cfg.Port, cfg.Proto, cfg.Host, cfg.Template, cfg.Timeout)

		send(outcomes, o)

		if sig.IsSet() {
			return
		}
	}
}

// send forwards an outcome, swallowing the panic a send on an already-
// closed channel would raise. The orchestrator closes outcomes only after
// joining every worker, so its own runs never hit that case; the recover
// covers any caller that closes the channel earlier, and spec.md §7 says
// such sends are simply ignored.
func send(outcomes chan<- probe.Outcome, o probe.Outcome) {
	defer func() { _ = recover() }()
	outcomes <- o
}
