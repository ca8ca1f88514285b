// Package config resolves the run's parameters from CLI flags, an optional
// config file and environment variables, layered the way the teacher's
// cobra/viper packages layer theirs, then validates the result with
// go-playground/validator struct tags before anything touches the network.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/tlsbench/internal/protocol"
	"github.com/nabbar/tlsbench/internal/tbnerr"
	"github.com/nabbar/tlsbench/internal/tbnlog"
	"github.com/nabbar/tlsbench/internal/tlsversion"
)

// Config is the fully-resolved, validated set of parameters a run is built
// from — spec.md §6's CLI surface plus the ambient logging/display flags
// SPEC_FULL.md adds on top of it.
type Config struct {
	Endpoint               string `mapstructure:"endpoint" validate:"required,hostname_port|fqdn|ip"`
	Protocol               string `mapstructure:"protocol" validate:"required,oneof=tcp smtp"`
	TLSVersion             string `mapstructure:"tls-version" validate:"required,tlsversion"`
	ZeroRTT                bool   `mapstructure:"zero-rtt"`
	DurationSec            int    `mapstructure:"duration" validate:"gte=0"`
	Concurrently           int    `mapstructure:"concurrently" validate:"gte=0"`
	TimeoutMS              int    `mapstructure:"timeout-ms" validate:"gt=0"`
	MaxHandshakesPerSecond int    `mapstructure:"max-handshakes-per-second" validate:"gt=0"`
	RampUpSec              int    `mapstructure:"ramp-up-sec" validate:"gte=0"`
	LogLevel               string `mapstructure:"log-level"`
	LogFormat              string `mapstructure:"log-format"`
	NoColor                bool   `mapstructure:"no-color"`
}

// Resolved is Config after its string fields have been turned into the
// internal domain types the runner actually consumes.
type Resolved struct {
	Host                   string
	Port                   int
	Protocol               protocol.Protocol
	TLSVersion             tlsversion.Version
	ZeroRTT                bool
	Duration               time.Duration
	Concurrently           int
	Timeout                time.Duration
	MaxHandshakesPerSecond int
	RampUp                 time.Duration
	LogLevel               tbnlog.Level
	LogFormat              tbnlog.Format
	NoColor                bool
}

var validate = validator.New()

func init() {
	// tls-version accepts the documented {tls12,tls13} token set (plus the
	// aliases tlsversion.Parse already tolerates, e.g. "1.2") rather than a
	// fixed oneof list, so validation and parsing never disagree.
	_ = validate.RegisterValidation("tlsversion", func(fl validator.FieldLevel) bool {
		return tlsversion.Parse(fl.Field().String()) != tlsversion.VersionUnknown
	})
}

// NewCommand builds the root cobra command, binding every flag spec.md §6
// and SPEC_FULL.md §6 name to both cobra and viper the way the teacher's
// cobra.AddFlag* + viper bind pairing does, so a flag, an environment
// variable (TLSBENCH_*) or a config file key can each set it.
func NewCommand(v *viper.Viper, run func(Resolved) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tlsbench",
		Short: "TLS handshake load generator and latency benchmark",
		Long:  "tlsbench drives concurrent TCP connections (optionally via SMTP STARTTLS) through a pinned TLS version and reports handshake latency percentiles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(v)
			if err != nil {
				return err
			}

			resolved, err := resolve(cfg)
			if err != nil {
				return err
			}

			return run(resolved)
		},
	}

	flags := cmd.Flags()
	flags.String("endpoint", "", "target host:port to benchmark")
	flags.String("protocol", "tcp", "application protocol before the TLS handshake: tcp or smtp")
	flags.String("tls-version", "tls12", "TLS version to pin: tls12 or tls13")
	flags.Bool("zero-rtt", false, "attempt session-resumption based early data")
	flags.Int("duration", 0, "steady-state duration of the run in seconds, counted after ramp-up (0 disables duration-bounded termination)")
	flags.Int("concurrently", runtime.NumCPU(), "number of parallel workers (capped at 64); with --duration 0 and --ramp-up-sec 0 the run ends after this many outcomes (0 disables count-bounded termination)")
	flags.Int("timeout-ms", 500, "per-probe deadline in milliseconds")
	flags.Int("max-handshakes-per-second", 1000, "token-bucket rate limit for new handshake attempts")
	flags.Int("ramp-up-sec", 0, "seconds over which the rate climbs to its target; with --duration > 0, warm-up handshakes are dropped from the reported handshake count")
	flags.String("log-level", "info", "operational log verbosity: debug, info, warn, error")
	flags.String("log-format", "text", "operational log format: text or json")
	flags.Bool("no-color", false, "disable ANSI color in the progress line, summary and table")
	flags.String("config", "", "optional config file (yaml, json or toml)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("TLSBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func load(v *viper.Viper) (Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, tbnerr.New(tbnerr.InvalidConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, tbnerr.New(tbnerr.InvalidConfig, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, tbnerr.New(tbnerr.InvalidConfig, err)
	}

	return cfg, nil
}

func resolve(cfg Config) (Resolved, error) {
	host, port, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return Resolved{}, err
	}

	ver := tlsversion.Parse(cfg.TLSVersion)
	if ver == tlsversion.VersionUnknown {
		return Resolved{}, tbnerr.New(tbnerr.InvalidConfig, fmt.Errorf("unsupported tls-version %q", cfg.TLSVersion))
	}

	return Resolved{
		Host:                   host,
		Port:                   port,
		Protocol:               protocol.Parse(cfg.Protocol),
		TLSVersion:             ver,
		ZeroRTT:                cfg.ZeroRTT,
		Duration:               time.Duration(cfg.DurationSec) * time.Second,
		Concurrently:           cfg.Concurrently,
		Timeout:                time.Duration(cfg.TimeoutMS) * time.Millisecond,
		MaxHandshakesPerSecond: cfg.MaxHandshakesPerSecond,
		RampUp:                 time.Duration(cfg.RampUpSec) * time.Second,
		LogLevel:               tbnlog.ParseLevel(cfg.LogLevel),
		LogFormat:              tbnlog.ParseFormat(cfg.LogFormat),
		NoColor:                cfg.NoColor,
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	idx := strings.LastIndex(endpoint, ":")
	if idx < 0 {
		return "", 0, tbnerr.New(tbnerr.InvalidConfig, fmt.Errorf("endpoint %q is missing a port", endpoint))
	}

	host := endpoint[:idx]
	var port int
	if _, err := fmt.Sscanf(endpoint[idx+1:], "%d", &port); err != nil || port <= 0 {
		return "", 0, tbnerr.New(tbnerr.InvalidConfig, fmt.Errorf("endpoint %q has an invalid port", endpoint))
	}

	return host, port, nil
}
