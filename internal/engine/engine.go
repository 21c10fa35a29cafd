// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matt-FFFFFF/nbrun/internal/notebook"
)

var (
	// ErrExecution is matched by every notebook execution failure.
	ErrExecution = errors.New("notebook execution failed")
	// ErrTimeoutExceeded is returned when the engine runs past its timeout.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrEngineNotFound is returned when the engine executable cannot be located.
	ErrEngineNotFound = errors.New("notebook engine executable not found")
	// ErrUnknownKind is returned for an engine kind without a preset.
	ErrUnknownKind = errors.New("unknown engine kind")
	// ErrWorkspace is returned when the scratch directory for the engine cannot be prepared.
	ErrWorkspace = errors.New("failed to prepare engine workspace")
	// ErrStart is returned when the engine process cannot be started.
	ErrStart = errors.New("could not start engine process")
	// ErrNoOutput is returned when the engine exits cleanly without writing a notebook.
	ErrNoOutput = errors.New("engine did not produce an output notebook")
)

// Executor executes every cell of a notebook and updates it in place.
type Executor interface {
	Execute(ctx context.Context, doc *notebook.Document) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, doc *notebook.Document) error

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, doc *notebook.Document) error {
	return f(ctx, doc)
}

// ExecutionError describes a failed engine run.
type ExecutionError struct {
	Engine   string // Engine executable name
	Notebook string // Notebook being executed
	ExitCode int    // Process exit code, -1 if it did not exit normally
	Stderr   []byte // Captured engine stderr, possibly truncated
	Err      error  // Underlying cause
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	sb := strings.Builder{}
	sb.WriteString(ErrExecution.Error())
	fmt.Fprintf(&sb, ": %s exited with code %d", e.Engine, e.ExitCode)

	if _, ok := e.Err.(*exec.ExitError); e.Err != nil && !ok { //nolint:errorlint
		sb.WriteString(": ")
		sb.WriteString(strings.ReplaceAll(e.Err.Error(), "\n", ": "))
	}

	if last := lastLine(e.Stderr); last != "" {
		sb.WriteString(": ")
		sb.WriteString(last)
	}

	return sb.String()
}

// Unwrap exposes ErrExecution and the underlying cause to errors.Is and errors.As.
func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExecution}
	}

	return []error{ErrExecution, e.Err}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}

	return ""
}
