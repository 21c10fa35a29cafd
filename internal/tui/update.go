// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
)

const (
	durationRounding = 100 * time.Millisecond
	defaultWidth     = 100
	minRightWidth    = 10
	identifierWidth  = 8
	ellipsis         = "..."
)

// EventMsg wraps a progress event for the tea framework.
type EventMsg struct {
	Event progress.Event
}

// DoneMsg tells the model the batch has finished.
type DoneMsg struct {
	Err error
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case EventMsg:
		m.processEvent(msg.Event)
		return m, nil

	case DoneMsg:
		m.completed = true
		m.err = msg.Err

		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
// Quitting while the batch runs cancels it; the program exits once it has stopped.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.completed {
			return m, tea.Quit
		}

		if !m.quitting && m.cancel != nil {
			m.quitting = true
			m.cancel()
		}
	}

	return m, nil
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("📓 " + m.notebook))
	b.WriteString("\n")

	for _, r := range m.rows {
		m.renderRow(&b, r)
	}

	switch {
	case m.completed && m.err != nil:
		b.WriteString("\n")
		b.WriteString(m.styles.Failed.Render("⚠️  Batch stopped: " + firstLine(m.err.Error())))
		b.WriteString("\n")
	case m.completed:
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("✅ Batch completed successfully"))
		b.WriteString("\n")
	case m.quitting:
		b.WriteString(m.styles.Help.Render("Stopping after the current notebook..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.styles.Help.Render("'q' to stop the batch"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow renders a single identifier with its output or error on the right.
func (m *Model) renderRow(b *strings.Builder, r *Row) {
	var icon, name string

	id := fmt.Sprintf("%-*s", identifierWidth, r.Identifier)

	switch r.Status {
	case StatusPending:
		icon = "⏳"
		name = m.styles.Pending.Render(id)
	case StatusRunning:
		icon = m.spinner.View()
		name = m.styles.Running.Render(id)
	case StatusSuccess:
		icon = "✅"
		name = m.styles.Success.Render(id)
	case StatusFailed:
		icon = "❌"
		name = m.styles.Failed.Render(id)
	default:
		icon = "❓"
		name = m.styles.Pending.Render(id)
	}

	left := fmt.Sprintf("%s %s", icon, name)

	if r.StartTime != nil {
		elapsed := time.Since(*r.StartTime)
		if r.EndTime != nil {
			elapsed = r.EndTime.Sub(*r.StartTime)
		}

		left += m.styles.Output.Render(fmt.Sprintf(" (%v)", elapsed.Round(durationRounding)))
	}

	var right string

	switch {
	case r.Status == StatusFailed && r.ErrorMsg != "":
		right = m.styles.Error.Render(truncate("Error: "+r.ErrorMsg, m.rightWidth(left)))
	case r.Status == StatusRunning && r.LastOutput != "":
		right = m.styles.Output.Render(truncate(r.LastOutput, m.rightWidth(left)))
	case r.Status == StatusSuccess && r.OutputPath != "":
		right = m.styles.Pending.Render(truncate(r.OutputPath, m.rightWidth(left)))
	}

	b.WriteString(left)

	if right != "" {
		b.WriteString("  ")
		b.WriteString(right)
	}

	b.WriteString("\n")
}

func (m *Model) rightWidth(left string) int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}

	return max(w-lipgloss.Width(left)-2, minRightWidth)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}

	r := []rune(s)
	if width <= len(ellipsis) {
		return string(r[:min(width, len(r))])
	}

	return string(r[:min(width-len(ellipsis), len(r))]) + ellipsis
}
