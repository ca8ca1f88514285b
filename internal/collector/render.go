package collector

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nabbar/tlsbench/internal/stats"
)

// Render writes the final summary line and, when at least one handshake
// succeeded, the latency table of spec.md §6 Stdout.
func Render(st *State, w io.Writer, noColor bool) {
	summary := fmt.Sprintf(
		"handshakes=%d errors=%d throughput=%.0f/s elapsed=%s success ratio %.0f%%",
		st.HandshakesCount, st.ErrCount, st.ThroughputHPS, st.FinalElapsed.Round(1e6), st.successRatio(),
	)

	if noColor || st.HandshakesCount == 0 {
		_, _ = fmt.Fprintln(w, summary)
	} else {
		_, _ = fmt.Fprintln(w, color.GreenString(summary))
	}

	if st.HandshakesCount == 0 || len(st.HandshakeLatenciesMS) == 0 || len(st.TCPConnectLatenciesMS) == 0 {
		_, _ = fmt.Fprintln(w, "no successful handshakes: latency table suppressed")
		return
	}

	renderTable(st, w)
}

func renderTable(st *State, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Min", "AVG", "50%'ile", "95%'ile", "99%'ile", "99.9%'ile", "Max"})

	table.Append(row("TLS Handshake", st.HandshakeLatenciesMS))
	table.Append(row("TCP Connect", st.TCPConnectLatenciesMS))

	table.Render()
}

func row(label string, xs []int64) []string {
	cp := append([]int64(nil), xs...)
	min := stats.Percentile(append([]int64(nil), cp...), 0)
	avg := stats.Avg(cp)
	p50 := stats.Percentile(append([]int64(nil), cp...), 50)
	p95 := stats.Percentile(append([]int64(nil), cp...), 95)
	p99 := stats.Percentile(append([]int64(nil), cp...), 99)
	p999 := stats.Percentile(append([]int64(nil), cp...), 99.9)
	max := stats.Percentile(append([]int64(nil), cp...), 100)

	return []string{
		label,
		fmt.Sprintf("%.2f", min),
		fmt.Sprintf("%.2f", avg),
		fmt.Sprintf("%.2f", p50),
		fmt.Sprintf("%.2f", p95),
		fmt.Sprintf("%.2f", p99),
		fmt.Sprintf("%.2f", p999),
		fmt.Sprintf("%.2f", max),
	}
}
