// Command tlsbench drives a TLS handshake load generator against a single
// endpoint and reports latency percentiles once the run ends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/nabbar/tlsbench/internal/collector"
	"github.com/nabbar/tlsbench/internal/config"
	"github.com/nabbar/tlsbench/internal/runner"
	"github.com/nabbar/tlsbench/internal/tbnlog"
)

func main() {
	v := viper.New()

	cmd := config.NewCommand(v, func(resolved config.Resolved) error {
		log := tbnlog.New(os.Stderr, resolved.LogLevel, resolved.LogFormat, resolved.NoColor)

		st, err := runner.Run(resolved, log, os.Stdout)
		if err != nil {
			log.WithError(err).Error("run aborted before completion")
			return err
		}

		collector.Render(st, os.Stdout, resolved.NoColor)
		return nil
	})

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
