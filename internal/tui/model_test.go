// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string, et progress.EventType) progress.Event {
	return progress.NewEvent(id, "nb.ipynb", et, et.String())
}

func TestNewModel(t *testing.T) {
	m := NewModel("nb.ipynb", []string{"7d", "12d"}, nil)

	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "7d", rows[0].Identifier)
	assert.Equal(t, "12d", rows[1].Identifier)

	for _, r := range rows {
		assert.Equal(t, StatusPending, r.Status)
		assert.Nil(t, r.StartTime)
		assert.Nil(t, r.EndTime)
	}
}

func TestRowStatus_String(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", RowStatus(42).String())
}

func TestModel_ProcessEvent(t *testing.T) {
	m := NewModel("nb.ipynb", []string{"7d", "12d"}, nil)

	m.processEvent(event("7d", progress.EventStarted))

	r := m.Rows()[0]
	assert.Equal(t, StatusRunning, r.Status)
	require.NotNil(t, r.StartTime)
	assert.Nil(t, r.EndTime)

	out := event("7d", progress.EventOutput)
	out.Data.OutputLine = "Executing cell 3\n"
	m.processEvent(out)
	assert.Equal(t, "Executing cell 3", r.LastOutput)

	saved := event("7d", progress.EventSaved)
	saved.Data.OutputPath = "out_notebooks/nb-out-7d.ipynb"
	m.processEvent(saved)
	assert.Equal(t, "out_notebooks/nb-out-7d.ipynb", r.OutputPath)

	m.processEvent(event("7d", progress.EventCompleted))
	assert.Equal(t, StatusSuccess, r.Status)
	assert.NotNil(t, r.EndTime)

	failed := event("12d", progress.EventFailed)
	failed.Data.Error = errors.New("Error executing the notebook for sample \"12d\".\n\nSee notebook")
	m.processEvent(failed)

	r = m.Rows()[1]
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "Error executing the notebook for sample \"12d\".", r.ErrorMsg)
}

func TestModel_ProcessEvent_IgnoresUnidentified(t *testing.T) {
	m := NewModel("nb.ipynb", []string{"7d"}, nil)

	m.processEvent(event("", progress.EventStarted))
	assert.Len(t, m.Rows(), 1)
	assert.Equal(t, StatusPending, m.Rows()[0].Status)
}

func TestModel_ProcessEvent_UnknownIdentifier(t *testing.T) {
	m := NewModel("nb.ipynb", nil, nil)

	m.processEvent(event("x1", progress.EventStarted))
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "x1", m.Rows()[0].Identifier)
}

func TestModel_Update(t *testing.T) {
	cancelled := 0
	m := NewModel("nb.ipynb", []string{"7d"}, func() { cancelled++ })

	_, cmd := m.Update(EventMsg{Event: event("7d", progress.EventStarted)})
	assert.Nil(t, cmd)
	assert.Equal(t, StatusRunning, m.Rows()[0].Status)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd, "quitting a running batch waits for it to stop")
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, m.View(), "Stopping")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, cancelled)

	_, cmd = m.Update(DoneMsg{Err: context.Canceled})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("nb.ipynb", []string{"7d"}, nil)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Equal(t, 40, m.width)
}

func TestModel_View(t *testing.T) {
	m := NewModel("analysis.ipynb", []string{"7d", "12d", "17d"}, nil)

	m.processEvent(event("7d", progress.EventStarted))

	saved := event("7d", progress.EventSaved)
	saved.Data.OutputPath = "out_notebooks/analysis-out-7d.ipynb"
	m.processEvent(saved)
	m.processEvent(event("7d", progress.EventCompleted))

	m.processEvent(event("12d", progress.EventStarted))

	out := event("12d", progress.EventOutput)
	out.Data.OutputLine = "fitting model"
	m.processEvent(out)

	view := m.View()
	assert.Contains(t, view, "analysis.ipynb")
	assert.Contains(t, view, "7d")
	assert.Contains(t, view, "out_notebooks/analysis-out-7d.ipynb")
	assert.Contains(t, view, "fitting model")
	assert.Contains(t, view, "17d")
	assert.Contains(t, view, "'q' to stop")

	_, _ = m.Update(DoneMsg{})
	assert.Contains(t, m.View(), "Batch completed successfully")

	_, _ = m.Update(DoneMsg{Err: errors.New("boom\nmore")})
	assert.Contains(t, m.View(), "Batch stopped: boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo w...", truncate("héllo wörld and more", 10))
}

func TestRun(t *testing.T) {
	var seen []string

	err := Run(context.Background(), "nb.ipynb", []string{"7d", "12d"},
		func(ctx context.Context, reporter progress.Reporter) error {
			for _, id := range []string{"7d", "12d"} {
				seen = append(seen, id)
				reporter.Report(event(id, progress.EventStarted))
				reporter.Report(event(id, progress.EventCompleted))
			}

			return nil
		},
		tea.WithInput(nil), tea.WithOutput(io.Discard),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"7d", "12d"}, seen)
}

func TestRun_ReturnsBatchError(t *testing.T) {
	batchErr := errors.New("Error executing the notebook for sample \"7d\"")

	done := make(chan error, 1)

	go func() {
		done <- Run(context.Background(), "nb.ipynb", []string{"7d"},
			func(context.Context, progress.Reporter) error { return batchErr },
			tea.WithInput(nil), tea.WithOutput(io.Discard),
		)
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, batchErr)
		assert.NotErrorIs(t, err, ErrTUI)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, "nb.ipynb", []string{"7d"},
		func(ctx context.Context, _ progress.Reporter) error {
			return ctx.Err()
		},
		tea.WithInput(nil), tea.WithOutput(io.Discard),
	)

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, strings.Contains(err.Error(), "canceled"))
}
