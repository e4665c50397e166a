package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
		"dpanic":  zapcore.DPanicLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextLogger verifies that scoped loggers travel through the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	// Without a logger the global one is returned.
	require.Same(t, Logger(), FromContext(context.Background()))

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "registry")
	ctx = WithKV(ctx, "alarm_id", "a-1")
	ctx = WithFields(ctx, "title", "Wake up")

	InfoKV(ctx, "alarm scheduled", "at", "07:00")
	Debugf(ctx, "next trigger in %d minutes", 5)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "registry", entries[0].LoggerName)
	require.Equal(t, "alarm scheduled", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "a-1", fields["alarm_id"])
	require.Equal(t, "Wake up", fields["title"])
	require.Equal(t, "07:00", fields["at"])
	require.Equal(t, "next trigger in 5 minutes", entries[1].Message)
}

// TestWithMinLevel verifies that a derived logger filters below its own level.
func TestWithMinLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	quiet := WithMinLevel(ctx, zapcore.WarnLevel)
	quiet = WithKV(quiet, "command", "list")

	InfoKV(quiet, "dialing daemon")
	WarnKV(quiet, "daemon slow", "latency", "2s")
	Debug(ctx, "still visible on the parent")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "daemon slow", entries[0].Message)
	require.Equal(t, "list", entries[0].ContextMap()["command"])
	require.Equal(t, "still visible on the parent", entries[1].Message)
}

// TestConfigure verifies level configuration by name.
//
//nolint:paralleltest // Mutates the global level.
func TestConfigure(t *testing.T) {
	previous := Level()
	t.Cleanup(func() { SetLevel(previous) })

	require.NoError(t, Configure("debug"))
	require.Equal(t, zapcore.DebugLevel, Level())

	require.ErrorIs(t, Configure("loud"), errUnknownLevel)
	require.Equal(t, zapcore.DebugLevel, Level())
}
