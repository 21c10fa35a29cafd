// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package results

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		arg  string
		want string
	}{
		{arg: "fit", want: filepath.Join("results", "fit.txt")},
		{arg: "fit.txt", want: "fit.txt"},
		{arg: filepath.Join("other", "fit"), want: filepath.Join("other", "fit")},
	}

	for _, tc := range testCases {
		t.Run(tc.arg, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, resolve(tc.arg, "results"))
		})
	}
}

func TestResultsCommandJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll("results", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("results", "fit.txt"),
		[]byte("sample value err\n7d 1.0 0.1\n12d 2.0 0.2\n"), 0o600))

	out := new(bytes.Buffer)
	root := &cli.Command{
		Name:           "nbrun",
		Flags:          cmdstate.GlobalFlags(),
		Commands:       []*cli.Command{ResultsCmd},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := root.Run(t.Context(), []string{"nbrun", "--format", "json", "--no-color", "results", "fit"})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, `"12d"`)
	assert.Less(t, strings.Index(got, `"7d"`), strings.Index(got, `"12d"`))

	// Columns keep file order rather than the sorted order of a JSON object.
	sample, value, errCol := strings.Index(got, `"sample"`), strings.Index(got, `"value"`), strings.Index(got, `"err"`)
	require.NotEqual(t, -1, sample)
	assert.Less(t, sample, value)
	assert.Less(t, value, errCol)
}
