// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-FFFFFF/nbrun/internal/config"
	"github.com/matt-FFFFFF/nbrun/internal/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestNotebookName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		arg  string
		want string
	}{
		{arg: "fit", want: "fit"},
		{arg: "fit.ipynb", want: "fit"},
		{arg: "fit.IPYNB", want: "fit"},
		{arg: "dir/fit.ipynb", want: "dir/fit"},
		{arg: "fit.v2", want: "fit.v2"},
		{arg: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.arg, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NotebookName(tc.arg))
		})
	}
}

// runWith parses args with the global and engine flags and calls fn.
func runWith(t *testing.T, args []string, fn func(context.Context, *cli.Command) error) error {
	t.Helper()

	cmd := &cli.Command{
		Name:           "nbrun",
		Flags:          append(GlobalFlags(), EngineFlags()...),
		Action:         fn,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	return cmd.Run(t.Context(), append([]string{"nbrun"}, args...))
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	t.Parallel()

	var cfg *config.Config

	err := runWith(t, []string{
		"--engine", "command",
		"--engine-command", "sh",
		"--kernel", "python3",
		"--timeout", "90s",
		"--cwd", "/tmp",
	}, func(ctx context.Context, cmd *cli.Command) error {
		var err error
		cfg, err = LoadConfig(ctx, cmd)

		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "command", cfg.Engine.Kind)
	assert.Equal(t, "sh", cfg.Engine.Command)
	assert.Equal(t, "python3", cfg.Engine.Kernel)
	assert.Equal(t, "/tmp", cfg.Engine.Cwd)

	d, err := cfg.Engine.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nbrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env_var: SAMPLE\nengine:\n  kind: nbconvert\n"), 0o600))

	var cfg *config.Config

	err := runWith(t, []string{"--config", path, "--kernel", "ir"}, func(ctx context.Context, cmd *cli.Command) error {
		var err error
		cfg, err = LoadConfig(ctx, cmd)

		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "SAMPLE", cfg.EnvVar)
	assert.Equal(t, "nbconvert", cfg.Engine.Kind)
	assert.Equal(t, "ir", cfg.Engine.Kernel)
}

func TestLoadConfigInvalidOverride(t *testing.T) {
	t.Parallel()

	err := runWith(t, []string{"--engine", "command"}, func(ctx context.Context, cmd *cli.Command) error {
		_, err := LoadConfig(ctx, cmd)
		return err
	})
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewDisplay(t *testing.T) {
	t.Parallel()

	err := runWith(t, []string{"--format", "json"}, func(_ context.Context, cmd *cli.Command) error {
		d, err := NewDisplay(cmd, os.Stdout)
		require.NoError(t, err)
		assert.NotNil(t, d)

		return nil
	})
	require.NoError(t, err)

	err = runWith(t, []string{"--format", "yaml"}, func(_ context.Context, cmd *cli.Command) error {
		_, err := NewDisplay(cmd, os.Stdout)
		return err
	})
	require.ErrorIs(t, err, display.ErrUnknownFormat)
}
