// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

const ellipsis = "..."

// LastLineTeeReader is an io.Reader that records what passes through it.
// Both carriage return and newline end a line, so progress bars that redraw
// with "\r" report their latest state. It is safe for concurrent use.
type LastLineTeeReader struct {
	reader    io.Reader
	limit     int64
	captured  bytes.Buffer
	truncated bool
	lastLine  string
	partial   strings.Builder
	mu        sync.RWMutex
}

// NewLastLineTeeReader wraps r. At most limit bytes are kept;
// a limit <= 0 keeps everything.
func NewLastLineTeeReader(r io.Reader, limit int64) *LastLineTeeReader {
	return &LastLineTeeReader{
		reader: r,
		limit:  limit,
	}
}

// Read implements io.Reader.
func (lt *LastLineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		lt.capture(p[:n])
		lt.track(string(p[:n]))
		lt.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

// capture must be called with the lock held.
func (lt *LastLineTeeReader) capture(p []byte) {
	if lt.limit <= 0 {
		lt.captured.Write(p)
		return
	}

	room := lt.limit - int64(lt.captured.Len())
	if room <= 0 {
		lt.truncated = true
		return
	}

	if int64(len(p)) > room {
		p = p[:room]
		lt.truncated = true
	}

	lt.captured.Write(p)
}

// track must be called with the lock held.
func (lt *LastLineTeeReader) track(data string) {
	lt.partial.WriteString(data)
	combined := lt.partial.String()

	cut := strings.LastIndexAny(combined, "\r\n")
	if cut < 0 {
		return
	}

	lines := strings.FieldsFunc(combined[:cut], func(r rune) bool { return r == '\r' || r == '\n' })
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			lt.lastLine = l
			break
		}
	}

	lt.partial.Reset()
	lt.partial.WriteString(combined[cut+1:])
}

// LastLine returns the most recent complete, non-empty line.
// If maxLength > 0 longer lines are shortened and end in "...".
func (lt *LastLineTeeReader) LastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	l := lt.lastLine
	if maxLength > len(ellipsis) && len(l) > maxLength {
		l = l[:maxLength-len(ellipsis)] + ellipsis
	}

	return l
}

// PartialLine returns data read after the last line break.
func (lt *LastLineTeeReader) PartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.partial.String()
}

// Captured returns a copy of the retained output.
func (lt *LastLineTeeReader) Captured() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return bytes.Clone(lt.captured.Bytes())
}

// Truncated reports whether output beyond the limit was dropped.
func (lt *LastLineTeeReader) Truncated() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.truncated
}
