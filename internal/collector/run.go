package collector

import (
	"io"
	"math"
	"time"

	"github.com/vbauerster/mpb/v8"

	"github.com/nabbar/tlsbench/internal/cancel"
	"github.com/nabbar/tlsbench/internal/probe"
)

// Run drains outcomes until the channel closes or a termination rule fires
// (spec.md §4.5), driving the live progress line as it goes, and returns
// the final state for Render to summarize. It is meant to run on its own
// goroutine for the run's whole lifetime — the "dedicated thread" of
// spec.md §5, here a goroutine performing the blocking channel read and
// the (comparatively cheap) terminal redraw without needing its own OS
// thread the way the teacher's blocking-collector note discusses.
func Run(outcomes <-chan probe.Outcome, sig *cancel.Signal, opt Options, progressOut io.Writer) *State {
	st := &State{Start: time.Now()}

	total := int64(opt.Concurrently)
	if opt.Duration > 0 {
		total = int64(opt.Duration.Seconds())
	}

	noColor := opt.NoColor || !isTerminal(progressOut)

	p := mpb.New(mpb.WithOutput(progressOut))
	l := &live{}
	bar := newBar(p, total, l, noColor)

	for o := range outcomes {
		elapsed := time.Since(st.Start) - opt.RampUp

		if st.shouldTerminate(elapsed, opt) {
			sig.Set()
			break
		}

		bar.SetCurrent(int64(st.HandshakesCount + st.ErrCount + 1))
		l.set(st.HandshakesCount, st.ErrCount, st.ThroughputHPS, maxDuration(elapsed, 0))

		if o.Failed() {
			st.ErrCount++
			continue
		}

		st.HandshakesCount++

		te := elapsed
		if te <= 0 {
			te = elapsed + opt.RampUp
		}
		if te > 0 {
			st.ThroughputHPS = math.Ceil(float64(st.HandshakesCount) / te.Seconds())
		}

		st.HandshakeLatenciesMS = append(st.HandshakeLatenciesMS, o.Timing.Handshake.Milliseconds())
		st.TCPConnectLatenciesMS = append(st.TCPConnectLatenciesMS, o.Timing.TCPConnect.Milliseconds())

		if opt.Duration > 0 && elapsed >= 0 && !st.RampUpResetDone {
			st.HandshakesCount = 0
			st.RampUpResetDone = true
		}
	}

	// spec.md §4.5 finalize: "if ramp_up_sec > 0, elapsed += ramp_up_sec".
	// Since the per-outcome elapsed used during the loop was always
	// (wall - start - rampUp), adding rampUp back simply recovers the raw
	// wall-clock duration of the whole run, ramp-up included.
	st.FinalElapsed = time.Since(st.Start)

	bar.Abort(false)
	p.Wait()

	return st
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
