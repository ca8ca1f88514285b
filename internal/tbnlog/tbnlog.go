// Package tbnlog wires structured logging for a benchmark run. It keeps the
// level/format parsing shape of the teacher's logger/level package but drops
// that package's syslog and file-hook machinery: a benchmark run never
// persists logs, it only narrates to stderr while its results go to stdout.
package tbnlog

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level mirrors the --log-level flag's accepted values.
type Level int

const (
	LevelInfo Level = iota
	LevelDebug
	LevelWarn
	LevelError
)

// ParseLevel accepts the conventional level names, case-insensitively,
// defaulting to LevelInfo on anything unrecognized rather than failing the
// run over a cosmetic flag.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Format selects the logrus formatter: human-readable text for a terminal,
// structured JSON for anything piped or shipped elsewhere.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// New builds a logrus logger writing to out, configured per lvl/format. The
// benchmark's own progress line and result table never go through this
// logger — it is reserved for operational narration (config resolution, DNS
// failures, run lifecycle) so it can be redirected or silenced independently
// of the results.
func New(out io.Writer, lvl Level, format Format, noColor bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl.logrus())

	switch format {
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors:   noColor,
			FullTimestamp:   true,
			DisableQuote:    true,
			TimestampFormat: "15:04:05.000",
		})
	}

	return l
}
