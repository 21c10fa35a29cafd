// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit is not used on Windows")
	}

	first := t.TempDir()
	second := t.TempDir()

	writeExecutable(t, first, "papermill", 0o644)
	want := writeExecutable(t, second, "papermill", 0o755)
	require.NoError(t, os.Mkdir(filepath.Join(first, "jupyter"), 0o755))

	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	got, err := LookPath("papermill")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LookPath("jupyter")
	require.ErrorIs(t, err, ErrEngineNotFound)

	_, err = LookPath("")
	require.ErrorIs(t, err, ErrEngineNotFound)

	got, err = LookPath(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LookPath(filepath.Join(first, "papermill"))
	require.ErrorIs(t, err, ErrEngineNotFound)
}

func TestNew(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit is not used on Windows")
	}

	bin := t.TempDir()
	papermill := writeExecutable(t, bin, "papermill", 0o755)
	jupyter := writeExecutable(t, bin, "jupyter", 0o755)
	custom := writeExecutable(t, bin, "my-engine", 0o755)

	t.Setenv("PATH", bin)

	t.Run("papermill with kernel", func(t *testing.T) {
		c, err := New(Options{Kernel: "python3", Timeout: time.Minute, Args: []string{"--no-progress-bar"}})
		require.NoError(t, err)

		assert.Equal(t, papermill, c.Path)
		assert.False(t, c.Stdin)
		assert.Equal(t, time.Minute, c.Timeout)
		assert.Equal(t, []string{
			PlaceholderInput, PlaceholderOutput, "--cwd", PlaceholderCwd, "--log-output",
			"--kernel", "python3", "--no-progress-bar",
		}, c.Args)
	})

	t.Run("nbconvert", func(t *testing.T) {
		c, err := New(Options{Kind: KindNBConvert})
		require.NoError(t, err)

		assert.Equal(t, jupyter, c.Path)
		assert.True(t, c.Stdin)
		assert.Contains(t, c.Args, "--execute")
		assert.Contains(t, c.Args, PlaceholderDir)
	})

	t.Run("command", func(t *testing.T) {
		c, err := New(Options{Kind: KindCommand, Command: "my-engine", Args: []string{PlaceholderInput}, Kernel: "ignored"})
		require.NoError(t, err)

		assert.Equal(t, custom, c.Path)
		assert.Equal(t, []string{PlaceholderInput}, c.Args)
	})

	t.Run("command without executable", func(t *testing.T) {
		_, err := New(Options{Kind: KindCommand})
		require.ErrorIs(t, err, ErrNoCommand)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Options{Kind: "runipy"})
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("executable missing", func(t *testing.T) {
		_, err := New(Options{Kind: KindPapermill, Command: "papermill-nope"})
		require.ErrorIs(t, err, ErrEngineNotFound)
	})
}
