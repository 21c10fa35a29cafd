// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
)

const eventBufferSize = 100

// ErrTUI is returned when the terminal UI fails.
var ErrTUI = errors.New("terminal UI failed")

// BatchFunc runs a batch, reporting progress to reporter.
type BatchFunc func(ctx context.Context, reporter progress.Reporter) error

// Run shows the progress of batch until it returns, and returns its error.
// Quitting the TUI cancels the context passed to batch.
func Run(ctx context.Context, notebook string, identifiers []string, batch BatchFunc, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(notebook, identifiers, cancel)
	program := tea.NewProgram(model, opts...)

	reporter := progress.NewChannelReporter(eventBufferSize)
	reporter.Listen(progress.ListenerFunc(func(e progress.Event) {
		program.Send(EventMsg{Event: e})
	}))

	batchErr := make(chan error, 1)

	go func() {
		err := batch(ctx, reporter)

		// Close delivers buffered events before the program is told to stop.
		reporter.Close()
		program.Send(DoneMsg{Err: err})

		batchErr <- err
	}()

	_, tuiErr := program.Run()
	if tuiErr != nil {
		cancel()
	}

	err := <-batchErr

	if tuiErr != nil {
		return errors.Join(err, ErrTUI, tuiErr)
	}

	return err
}
