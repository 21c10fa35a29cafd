// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil logger uses default", func(t *testing.T) {
		ctx := New(context.Background(), nil)
		assert.Same(t, DefaultLogger, Logger(ctx))
	})

	t.Run("custom logger is returned", func(t *testing.T) {
		l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := New(context.Background(), l)
		assert.Same(t, l, Logger(ctx))
	})
}

func TestLogger_NoValue(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
}

func TestLoggingFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := New(context.Background(), l)

	Debug(ctx, "debug message", "k", "v")
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"debug message\" k=v")
	assert.Contains(t, out, "level=INFO msg=\"info message\"")
	assert.Contains(t, out, "level=WARN msg=\"warn message\"")
	assert.Contains(t, out, "level=ERROR msg=\"error message\"")
}

func TestNewForTUI(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := LevelVar.Level()
	LevelVar.Set(slog.LevelInfo)
	t.Cleanup(func() { LevelVar.Set(prev) })

	ctx := NewForTUI(context.Background(), buf)
	Info(ctx, "buffered")

	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), "buffered")
	assert.NotContains(t, buf.String(), "\033[", "TUI log output must not be coloured")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: " WARN ", want: slog.LevelWarn},
		{in: "ERROR", want: slog.LevelError},
		{in: "", want: slog.LevelWarn},
		{in: "verbose", want: slog.LevelWarn},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnvName(), "DEBUG")
	assert.Equal(t, slog.LevelDebug, logLevelFromEnv())

	t.Setenv(LevelEnvName(), "")
	assert.Equal(t, slog.LevelWarn, logLevelFromEnv())
}
