package collector

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// live mirrors the fields of State that the progress bar's decorators need
// to render, kept separate and atomic so mpb's own background refresh
// goroutine never reads State concurrently with the collector's writes
// (spec.md §5 keeps State itself single-writer/single-reader).
type live struct {
	handshakes atomic.Int64
	errs       atomic.Int64
	throughput atomic.Uint64 // math.Float64bits
	elapsedMS  atomic.Int64
}

func (l *live) set(handshakes, errs int, throughput float64, elapsed time.Duration) {
	l.handshakes.Store(int64(handshakes))
	l.errs.Store(int64(errs))
	l.throughput.Store(math.Float64bits(throughput))
	l.elapsedMS.Store(elapsed.Milliseconds())
}

func (l *live) text() string {
	hs := l.handshakes.Load()
	er := l.errs.Load()
	tp := math.Float64frombits(l.throughput.Load())
	el := time.Duration(l.elapsedMS.Load()) * time.Millisecond
	return fmt.Sprintf("handshakes=%d errors=%d throughput=%.0f/s elapsed=%s", hs, er, tp, el.Round(time.Millisecond))
}

// isTerminal reports whether w is a file descriptor attached to a terminal.
// Piped or redirected output (CI logs, `| tee`, a results file) gets a
// plain, uncolored bar rather than one full of carriage-return/ANSI
// sequences that would otherwise corrupt the capture.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// newBar sets up the single live progress line (spec.md §6 Stdout: "a live
// progress line (one terminal line, updated via carriage-return/ANSI)").
// total is a cosmetic bound only — exact completion point is decided by the
// collector's termination rules, not by the bar reaching 100%.
func newBar(p *mpb.Progress, total int64, l *live, noColor bool) *mpb.Bar {
	name := "tlsbench"
	if !noColor {
		name = color.CyanString(name)
	}

	return p.AddBar(total,
		mpb.PrependDecorators(decor.Name(name, decor.WCSyncSpaceR)),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return l.text()
			}),
		),
	)
}
