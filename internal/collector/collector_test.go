package collector_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/tlsbench/internal/cancel"
	"github.com/nabbar/tlsbench/internal/collector"
	"github.com/nabbar/tlsbench/internal/probe"
)

func success(tcp, hs time.Duration) probe.Outcome {
	return probe.Outcome{Timing: probe.Timing{TCPConnect: tcp, Handshake: hs}}
}

func failure() probe.Outcome {
	return probe.Outcome{Err: errTest}
}

var errTest = &testErr{}

type testErr struct{}

func (*testErr) Error() string { return "synthetic failure" }

func TestCountBoundedTerminatesAtExactlyConcurrently(t *testing.T) {
	sig := cancel.New()
	outcomes := make(chan probe.Outcome, 8)
	outcomes <- success(10*time.Millisecond, 20*time.Millisecond)
	outcomes <- success(11*time.Millisecond, 21*time.Millisecond)
	outcomes <- success(12*time.Millisecond, 22*time.Millisecond) // must not be counted
	close(outcomes)

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{Concurrently: 2}, &out)

	require.True(t, sig.IsSet())
	require.Equal(t, 2, st.HandshakesCount)
	require.Equal(t, 0, st.ErrCount)
	require.Len(t, st.HandshakeLatenciesMS, 2)
}

func TestZeroConcurrentlyWithNoDurationOrRampUpDoesNotTerminateImmediately(t *testing.T) {
	// Concurrently: 0 alongside Duration: 0 and RampUp: 0 must not be treated
	// as "terminate on the first outcome" — that combination only arises
	// from an explicit --concurrently 0 (the CLI defaults it to available
	// parallelism), which disables count-bounded termination, so it should
	// just keep draining until the channel closes.
	sig := cancel.New()
	outcomes := make(chan probe.Outcome, 8)
	outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
	outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
	close(outcomes)

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{}, &out)

	require.False(t, sig.IsSet())
	require.Equal(t, 2, st.HandshakesCount)
}

func TestDurationBoundedTerminates(t *testing.T) {
	sig := cancel.New()
	// Unbuffered, fed while Run is draining, so the sleep falls inside the
	// run's own clock.
	outcomes := make(chan probe.Outcome)
	go func() {
		outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
		time.Sleep(2 * time.Millisecond)
		outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
		close(outcomes)
	}()

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{Duration: time.Millisecond, Concurrently: 10}, &out)

	// The first outcome is the first steady-state success (no ramp-up), so
	// the one-time reset zeroes it; the second one ends the run uncounted.
	require.True(t, sig.IsSet())
	require.Equal(t, 0, st.HandshakesCount)
}

func TestRampUpOnlyTerminatesImmediatelyAtStartOfSteadyState(t *testing.T) {
	sig := cancel.New()
	outcomes := make(chan probe.Outcome)
	go func() {
		time.Sleep(2 * time.Millisecond)
		outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
		close(outcomes)
	}()

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{RampUp: time.Millisecond, Concurrently: 10}, &out)

	require.True(t, sig.IsSet())
	require.Equal(t, 0, st.HandshakesCount)
}

func TestErrorsCountedAndSuccessRatioZeroWhenAllFail(t *testing.T) {
	sig := cancel.New()
	outcomes := make(chan probe.Outcome, 8)
	outcomes <- failure()
	outcomes <- failure()
	close(outcomes)

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{Concurrently: 2}, &out)

	require.Equal(t, 0, st.HandshakesCount)
	require.Equal(t, 2, st.ErrCount)

	var report bytes.Buffer
	collector.Render(st, &report, true)
	require.Contains(t, report.String(), "success ratio 0%")
	require.Contains(t, report.String(), "latency table suppressed")
}

func TestRampUpResetDiscardsWarmupSamples(t *testing.T) {
	sig := cancel.New()
	outcomes := make(chan probe.Outcome)
	go func() {
		// still "ramp-up" at arrival time (elapsed < 0): counted, then reset away
		// once the first steady-state outcome lands.
		outcomes <- success(1*time.Millisecond, 1*time.Millisecond)
		time.Sleep(12 * time.Millisecond)
		outcomes <- success(2*time.Millisecond, 2*time.Millisecond)
		close(outcomes)
	}()

	var out bytes.Buffer
	st := collector.Run(outcomes, sig, collector.Options{Duration: time.Hour, RampUp: 10 * time.Millisecond, Concurrently: 10}, &out)

	require.True(t, st.RampUpResetDone)
	require.Equal(t, 0, st.HandshakesCount)
}
