// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
)

// RowStatus is the state of one identifier in the TUI.
type RowStatus int

const (
	StatusPending RowStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
)

// String returns a string representation of the row status.
func (s RowStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Row is the display state of one run identifier.
type Row struct {
	Identifier string
	Status     RowStatus
	StartTime  *time.Time
	EndTime    *time.Time
	LastOutput string
	OutputPath string
	ErrorMsg   string
}

func (r *Row) updateStatus(status RowStatus, at time.Time) {
	r.Status = status

	switch status {
	case StatusRunning:
		if r.StartTime == nil {
			r.StartTime = &at
		}
	case StatusSuccess, StatusFailed:
		if r.EndTime == nil {
			r.EndTime = &at
		}
	}
}

func (r *Row) updateOutput(output string) {
	if output == "" {
		return
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	r.LastOutput = strings.TrimSpace(lines[len(lines)-1])
}

// Model is the bubbletea model of a batch.
type Model struct {
	notebook  string
	rows      []*Row
	index     map[string]*Row
	spinner   spinner.Model
	cancel    context.CancelFunc
	width     int
	completed bool
	err       error
	quitting  bool
	styles    *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Output  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// NewModel creates a model with one pending row per identifier.
// cancel is called when the user quits before the batch has finished.
func NewModel(notebook string, identifiers []string, cancel context.CancelFunc) *Model {
	m := &Model{
		notebook: notebook,
		index:    make(map[string]*Row, len(identifiers)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		cancel:   cancel,
		styles:   NewStyles(),
	}

	m.spinner.Style = m.styles.Running

	for _, id := range identifiers {
		r := &Row{Identifier: id}
		m.rows = append(m.rows, r)
		m.index[id] = r
	}

	return m
}

// Rows returns the rows in display order.
func (m *Model) Rows() []*Row {
	return m.rows
}

// row returns the row for id, appending one for identifiers not known up front.
func (m *Model) row(id string) *Row {
	if r, ok := m.index[id]; ok {
		return r
	}

	r := &Row{Identifier: id}
	m.rows = append(m.rows, r)
	m.index[id] = r

	return r
}

// processEvent applies a progress event to the rows.
func (m *Model) processEvent(event progress.Event) {
	if event.Identifier == "" {
		return
	}

	r := m.row(event.Identifier)

	switch event.Type {
	case progress.EventStarted, progress.EventExecuting:
		r.updateStatus(StatusRunning, event.Timestamp)

	case progress.EventOutput:
		r.updateOutput(event.Data.OutputLine)

	case progress.EventSaved:
		r.OutputPath = event.Data.OutputPath

	case progress.EventCompleted:
		r.updateStatus(StatusSuccess, event.Timestamp)

	case progress.EventFailed:
		r.updateStatus(StatusFailed, event.Timestamp)

		if event.Data.Error != nil {
			r.ErrorMsg = firstLine(event.Data.Error.Error())
		}
	}
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(s), "\n")

	return first
}
