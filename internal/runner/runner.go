// Package runner wires the pipeline of spec.md §5 together: resolve the
// endpoint, build the shared session template, start the collector, the
// traffic controller and the worker fleet, and join them deterministically
// once the run is over.
package runner

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nabbar/tlsbench/internal/cancel"
	"github.com/nabbar/tlsbench/internal/collector"
	"github.com/nabbar/tlsbench/internal/config"
	"github.com/nabbar/tlsbench/internal/probe"
	"github.com/nabbar/tlsbench/internal/tbnerr"
	"github.com/nabbar/tlsbench/internal/traffic"
	"github.com/nabbar/tlsbench/internal/worker"
)

// workerCount picks how many probe goroutines to run: Concurrently when it
// is set (in any run mode), otherwise the per-second rate limit, capped at
// 64 either way. The traffic controller, not the worker count, is what
// paces attempts.
func workerCount(cfg config.Resolved) int {
	if cfg.Concurrently > 0 {
		return min(cfg.Concurrently, 64)
	}
	return min(max(cfg.MaxHandshakesPerSecond, 1), 64)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run executes one full benchmark: DNS resolution, session template
// construction, and the collector/controller/worker fleet, returning the
// collector's final state for the caller to render.
func Run(cfg config.Resolved, log *logrus.Logger, progressOut io.Writer) (*collector.State, error) {
	addrs, err := net.DefaultResolver.LookupHost(context.Background(), cfg.Host)
	if err != nil || len(addrs) == 0 {
		return nil, tbnerr.New(tbnerr.Resolve, err)
	}
	addr := addrs[0]

	log.WithField("endpoint", addr).WithField("port", cfg.Port).Info("resolved endpoint")

	tmpl := probe.NewSessionTemplate(cfg.TLSVersion, cfg.ZeroRTT)

	sig := cancel.New()
	ctl := traffic.New(cfg.MaxHandshakesPerSecond)

	outcomes := make(chan probe.Outcome, max(cfg.Concurrently, cfg.MaxHandshakesPerSecond))

	var collected *collector.State
	var collectorWG sync.WaitGroup
	collectorWG.Add(1)
	go func() {
		defer collectorWG.Done()
		collected = collector.Run(outcomes, sig, collector.Options{
			Duration:     cfg.Duration,
			RampUp:       cfg.RampUp,
			Concurrently: cfg.Concurrently,
			NoColor:      cfg.NoColor,
		}, progressOut)
	}()

	wc := workerCount(cfg)
	log.WithField("workers", wc).Debug("starting worker fleet")

	var workersWG sync.WaitGroup
	workerCfg := worker.Config{
		Addr:     addr,
		Port:     cfg.Port,
		Proto:    cfg.Protocol,
		Host:     cfg.Host,
		Template: tmpl,
		Timeout:  cfg.Timeout,
	}
	for i := 0; i < wc; i++ {
		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			worker.Run(sig, ctl, workerCfg, outcomes)
		}()
	}

	go ctl.Flow(sig.Context(), cfg.MaxHandshakesPerSecond, cfg.RampUp)

	workersWG.Wait()
	close(outcomes)

	collectorWG.Wait()

	log.Info("run complete")

	return collected, nil
}
