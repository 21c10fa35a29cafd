// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package display presents file references, messages and results tables to the user.
package display

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matt-FFFFFF/nbrun/internal/color"
	"github.com/matt-FFFFFF/nbrun/internal/results"
)

const jsonIndent = 2

// ErrUnknownFormat is returned by ParseFormat for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrRender is returned when a table cannot be rendered.
var ErrRender = errors.New("failed to render table")

// Display receives the user-facing side effects of a run.
type Display interface {
	// FileLink shows a clickable reference to path.
	FileLink(path string)
	// Message shows a diagnostic.
	Message(msg string)
	// Table presents a results table.
	Table(t *results.Table) error
}

// Format selects how tables are written.
type Format string

const (
	FormatText Format = "text" // Bordered table
	FormatJSON Format = "json" // Array of row objects
)

// ParseFormat validates s. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

var _ Display = (*Terminal)(nil)

// Terminal writes to a stream, normally stdout.
type Terminal struct {
	w          io.Writer
	format     Format
	hyperlinks bool
	mu         sync.Mutex
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithFormat sets the table format.
func WithFormat(f Format) Option {
	return func(t *Terminal) {
		t.format = f
	}
}

// WithHyperlinks turns OSC 8 links on or off.
// Links are only emitted while colour output is enabled.
func WithHyperlinks(v bool) Option {
	return func(t *Terminal) {
		t.hyperlinks = v
	}
}

// NewTerminal returns a Terminal writing to w, or stdout if w is nil.
func NewTerminal(w io.Writer, opts ...Option) *Terminal {
	if w == nil {
		w = os.Stdout
	}

	t := &Terminal{
		w:          w,
		format:     FormatText,
		hyperlinks: true,
	}

	for _, o := range opts {
		o(t)
	}

	return t
}

// FileLink implements Display.
func (t *Terminal) FileLink(path string) {
	text := path

	if t.hyperlinks {
		if abs, err := filepath.Abs(path); err == nil {
			text = color.Hyperlink(fileURL(abs), path)
		}
	}

	t.println(text)
}

// Message implements Display.
func (t *Terminal) Message(msg string) {
	t.println(msg)
}

// Table implements Display.
func (t *Terminal) Table(tbl *results.Table) error {
	var (
		out string
		err error
	)

	switch t.format {
	case FormatJSON:
		out, err = renderJSON(tbl)
	default:
		out = renderText(tbl)
	}

	if err != nil {
		return errors.Join(ErrRender, err)
	}

	t.println(out)

	return nil
}

func (t *Terminal) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.w, s) //nolint:errcheck
}

func renderText(tbl *results.Table) string {
	header := lipgloss.NewStyle().Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	index := cell

	if color.Enabled() {
		header = header.Bold(true)
		index = index.Faint(true)
	}

	tb := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tbl.Header()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0 && tbl.Index != "":
				return index
			default:
				return cell
			}
		})

	for _, r := range tbl.Rows {
		if tbl.Index == "" {
			tb.Row(r.Values...)
			continue
		}

		tb.Row(append([]string{r.Key}, r.Values...)...)
	}

	return tb.Render()
}

func renderJSON(tbl *results.Table) (string, error) {
	f := colorjson.NewFormatter()
	f.Indent = jsonIndent
	f.DisabledColor = !color.Enabled()

	b, err := f.Marshal(tbl.Document())
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return string(b), nil
}

func fileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return "file://" + p
}
