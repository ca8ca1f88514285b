// Package collector implements spec.md §4.5 (component C5): the single
// consumer of probe outcomes. It owns CollectorState exclusively — no
// locking is needed because only this package's Run goroutine ever mutates
// it (spec.md §5 "Collector state: owned solely by the collector thread").
package collector

import "time"

// State is spec.md §3's CollectorState, consumed once at the end of a run
// to render statistics.
type State struct {
	HandshakesCount       int
	ErrCount              int
	HandshakeLatenciesMS  []int64
	TCPConnectLatenciesMS []int64
	ThroughputHPS         float64
	Start                 time.Time
	RampUpResetDone       bool

	// FinalElapsed is spec.md §4.5's finalize-time "elapsed", already
	// adjusted back to wall-clock time (ramp-up added back in if any) —
	// not part of the data model proper, but the one derived value the
	// summary line and table need once the run is over.
	FinalElapsed time.Duration
}

// Options configures one Run invocation: the same knobs the orchestrator
// resolved from CLI flags, passed down rather than read from a global.
type Options struct {
	Duration     time.Duration
	RampUp       time.Duration
	Concurrently int
	NoColor      bool
}

// successRatio is handshakes / (handshakes + errors) * 100, or 0 when
// nothing completed at all (spec.md §7: "If handshakes_count == 0 ... the
// summary line reports success ratio 0%").
func (s *State) successRatio() float64 {
	total := s.HandshakesCount + s.ErrCount
	if total == 0 {
		return 0
	}
	return float64(s.HandshakesCount) / float64(total) * 100
}

// shouldTerminate implements spec.md §4.5 step 3, evaluated against the
// state as it stood BEFORE the just-received outcome — the one that
// satisfies the condition is never itself folded into the counts.
func (s *State) shouldTerminate(elapsed time.Duration, opt Options) bool {
	switch {
	case opt.Duration > 0 && elapsed >= opt.Duration:
		return true
	case opt.Duration == 0 && opt.RampUp == 0 && opt.Concurrently > 0 && s.HandshakesCount+s.ErrCount >= opt.Concurrently:
		return true
	case opt.Duration == 0 && opt.RampUp > 0 && elapsed >= 0:
		return true
	default:
		return false
	}
}
