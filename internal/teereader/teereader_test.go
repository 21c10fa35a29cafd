// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLineTeeReader_Lines(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantLast    string
		wantPartial string
	}{
		{
			name:     "single line with newline",
			input:    "hello world\n",
			wantLast: "hello world",
		},
		{
			name:        "single line without newline",
			input:       "hello world",
			wantPartial: "hello world",
		},
		{
			name:  "empty string",
			input: "",
		},
		{
			name:  "just newline",
			input: "\n",
		},
		{
			name:        "multiple lines with partial tail",
			input:       "one\ntwo\nthr",
			wantLast:    "two",
			wantPartial: "thr",
		},
		{
			name:     "trailing blank lines are ignored",
			input:    "cell 3 done\n\n\n",
			wantLast: "cell 3 done",
		},
		{
			name:     "carriage return progress bar",
			input:    "Executing:  10%\rExecuting:  50%\rExecuting: 100%\n",
			wantLast: "Executing: 100%",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewLastLineTeeReader(strings.NewReader(tc.input), 0)

			data, err := io.ReadAll(tr)
			require.NoError(t, err)

			assert.Equal(t, tc.input, string(data))
			assert.Equal(t, tc.input, string(tr.Captured()))
			assert.Equal(t, tc.wantLast, tr.LastLine(0))
			assert.Equal(t, tc.wantPartial, tr.PartialLine())
			assert.False(t, tr.Truncated())
		})
	}
}

func TestLastLineTeeReader_SmallReads(t *testing.T) {
	tr := NewLastLineTeeReader(iotest.OneByteReader(strings.NewReader("first\nsecond\n")), 0)

	_, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "second", tr.LastLine(0))
}

func TestLastLineTeeReader_Limit(t *testing.T) {
	tr := NewLastLineTeeReader(strings.NewReader("0123456789\nabc\n"), 4)

	data, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Len(t, data, 15, "the reader must pass everything through")
	assert.Equal(t, "0123", string(tr.Captured()))
	assert.True(t, tr.Truncated())
	assert.Equal(t, "abc", tr.LastLine(0), "line tracking is independent of the capture limit")
}

func TestLastLineTeeReader_LastLineMaxLength(t *testing.T) {
	tr := NewLastLineTeeReader(strings.NewReader("a rather long line of output\n"), 0)
	_, err := io.ReadAll(tr)
	require.NoError(t, err)

	assert.Equal(t, "a rathe...", tr.LastLine(10))
	assert.Equal(t, "a rather long line of output", tr.LastLine(100))
}

func TestLastLineTeeReader_Concurrent(t *testing.T) {
	pr, pw := io.Pipe()
	tr := NewLastLineTeeReader(pr, 0)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		_, _ = io.Copy(io.Discard, tr)
	}()

	go func() {
		defer wg.Done()

		for range 100 {
			_ = tr.LastLine(20)
			_ = tr.Captured()
		}
	}()

	for range 50 {
		_, err := pw.Write([]byte("line\n"))
		require.NoError(t, err)
	}

	require.NoError(t, pw.Close())
	wg.Wait()

	assert.Equal(t, "line", tr.LastLine(0))
	assert.Len(t, tr.Captured(), 250)
}
