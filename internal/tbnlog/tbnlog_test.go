package tbnlog_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/nabbar/tlsbench/internal/tbnlog"
)

func TestParseLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, tbnlog.LevelInfo, tbnlog.ParseLevel(""))
	require.Equal(t, tbnlog.LevelInfo, tbnlog.ParseLevel("bogus"))
	require.Equal(t, tbnlog.LevelDebug, tbnlog.ParseLevel("DEBUG"))
	require.Equal(t, tbnlog.LevelWarn, tbnlog.ParseLevel("warning"))
	require.Equal(t, tbnlog.LevelError, tbnlog.ParseLevel("error"))
}

func TestParseFormatDefaultsToText(t *testing.T) {
	require.Equal(t, tbnlog.FormatText, tbnlog.ParseFormat(""))
	require.Equal(t, tbnlog.FormatJSON, tbnlog.ParseFormat("JSON"))
}

func TestNewRespectsLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := tbnlog.New(&buf, tbnlog.LevelWarn, tbnlog.FormatJSON, true)

	l.Info("should be filtered out")
	require.Empty(t, buf.String())

	l.Warn("should appear")
	require.Contains(t, buf.String(), "should appear")
}

func TestNewJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := tbnlog.New(&buf, tbnlog.LevelInfo, tbnlog.FormatJSON, true)
	_, ok := l.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok)
}
