// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/internal/config"
	"github.com/matt-FFFFFF/nbrun/internal/runner"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const emptyNotebook = `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`

// engineConfig copies the notebook and appends "<NB_DATA_FILE> 1.0" to results/fit.txt.
const engineConfig = `engine:
  kind: command
  command: sh
  args:
    - -c
    - |
      mkdir -p results
      [ -f results/fit.txt ] || echo "sample value" > results/fit.txt
      echo "$NB_DATA_FILE 1.0" >> results/fit.txt
      cp "$1" "$2"
    - sh
    - "{input}"
    - "{output}"
`

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(runner.DefaultEnvVar, "")

	require.NoError(t, os.WriteFile("fit.ipynb", []byte(emptyNotebook), 0o600))
	require.NoError(t, os.WriteFile("nbrun.yaml", []byte(engineConfig), 0o600))
	require.NoError(t, os.MkdirAll("results", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("results", "fit.txt"), []byte("sample value\nold 9.9\n"), 0o600))

	out := new(bytes.Buffer)
	root := &cli.Command{
		Name:           "nbrun",
		Flags:          cmdstate.GlobalFlags(),
		Commands:       []*cli.Command{newBatchCmd()},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := root.Run(t.Context(), []string{
		"nbrun", "--config", "nbrun.yaml", "--no-hyperlinks", "--no-color",
		"batch", "--id", "7d", "--id", "12d", "fit.ipynb",
	})
	require.NoError(t, err)

	for _, id := range []string{"7d", "12d"} {
		assert.FileExists(t, filepath.Join(runner.DefaultOutputDir, "fit-out-"+id+".ipynb"))
	}

	assert.NoFileExists(t, filepath.Join(runner.DefaultOutputDir, "fit-out-17d.ipynb"))

	b, err := os.ReadFile(filepath.Join("results", "fit.txt"))
	require.NoError(t, err)
	assert.Equal(t, "sample value\n7d 1.0\n12d 1.0\n", string(b), "old rows are cleared")

	assert.Contains(t, out.String(), "fit.ipynb")
	assert.Contains(t, out.String(), "12d")
	assert.Contains(t, out.String(), "2 succeeded, 0 failed, 0 not run")
	assert.Equal(t, "12d", os.Getenv(runner.DefaultEnvVar))
}

func TestBatchOptions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		args      []string
		wantIDs   []string
		wantClear bool
		wantErr   error
	}{
		{
			name:      "defaults",
			wantIDs:   runner.DefaultIdentifiers(),
			wantClear: true,
		},
		{
			name:      "ids and no clear",
			args:      []string{"--id", "a", "--id", "b", "--no-clear"},
			wantIDs:   []string{"a", "b"},
			wantClear: false,
		},
		{
			name:    "invalid id",
			args:    []string{"--id", "a b"},
			wantErr: config.ErrInvalidIdentifier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var opts runner.BatchOptions

			cmd := &cli.Command{
				Name: "batch",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: idFlag},
					&cli.BoolFlag{Name: noClearFlag},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					var err error
					opts, err = batchOptions(cmd, config.Default())

					return err
				},
			}

			err := cmd.Run(t.Context(), append([]string{"batch"}, tc.args...))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantIDs, opts.Identifiers)
			assert.Equal(t, tc.wantClear, opts.Clear)
		})
	}
}

func TestConfirmNow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "fit.txt")
	require.NoError(t, os.WriteFile(existing, []byte("sample value\n"), 0o600))

	t.Run("missing file does not ask", func(t *testing.T) {
		t.Parallel()

		fn, err := confirmNow(filepath.Join(dir, "none.txt"), func(string) (bool, error) {
			t.Fatal("unexpected prompt")
			return false, nil
		})
		require.NoError(t, err)
		assert.Nil(t, fn)
	})

	t.Run("answer is replayed", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fn, err := confirmNow(existing, func(string) (bool, error) {
			calls++
			return false, nil
		})
		require.NoError(t, err)
		require.NotNil(t, fn)

		for range 2 {
			ok, err := fn(existing)
			require.NoError(t, err)
			assert.False(t, ok)
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("prompt error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		_, err := confirmNow(existing, func(string) (bool, error) { return false, boom })
		require.ErrorIs(t, err, boom)
	})
}

func TestBatchCommandClearDeclined(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(runner.DefaultEnvVar, "")

	stubs := gostub.Stub(&Confirm, func() func(string) (bool, error) {
		return func(string) (bool, error) { return false, nil }
	})
	defer stubs.Reset()

	const prior = "sample value\nold 9.9\n"

	require.NoError(t, os.WriteFile("fit.ipynb", []byte(emptyNotebook), 0o600))
	require.NoError(t, os.WriteFile("nbrun.yaml", []byte(engineConfig), 0o600))
	require.NoError(t, os.MkdirAll("results", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("results", "fit.txt"), []byte(prior), 0o600))

	out := new(bytes.Buffer)
	root := &cli.Command{
		Name:           "nbrun",
		Flags:          cmdstate.GlobalFlags(),
		Commands:       []*cli.Command{newBatchCmd()},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := root.Run(t.Context(), []string{
		"nbrun", "--config", "nbrun.yaml", "batch", "--confirm-clear", "--report=false", "fit",
	})
	require.Error(t, err)

	b, err := os.ReadFile(filepath.Join("results", "fit.txt"))
	require.NoError(t, err)
	assert.Equal(t, prior, string(b))
	assert.NoDirExists(t, runner.DefaultOutputDir)
}
