// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/nbrun/internal/color"
	"github.com/matt-FFFFFF/nbrun/internal/engine"
	"github.com/matt-FFFFFF/nbrun/internal/results"
)

// Run is the outcome of one identifier in a batch.
type Run struct {
	Identifier string
	OutputPath string
	State      State
	Duration   time.Duration
	Err        error
}

func (r *Run) fail(err error) {
	r.State = StateFailed
	r.Err = err
}

// Report summarises a batch.
type Report struct {
	Notebook    string         // Template notebook
	ResultsPath string         // Results file
	Cleared     bool           // An existing results file was deleted
	Runs        []Run          // One per identifier, in execution order
	Table       *results.Table // Set when every run succeeded
}

// Count returns the number of runs in state s.
func (r *Report) Count(s State) int {
	n := 0

	for _, run := range r.Runs {
		if run.State == s {
			n++
		}
	}

	return n
}

// Write writes one status line per run to w.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", color.Colorize("Batch", color.Bold), r.Notebook); err != nil {
		return err //nolint:wrapcheck
	}

	for _, run := range r.Runs {
		if err := writeRun(w, run); err != nil {
			return err
		}
	}

	notRun := 0

	for _, run := range r.Runs {
		if !run.State.Done() {
			notRun++
		}
	}

	_, err := fmt.Fprintf(w, "%d succeeded, %d failed, %d not run\n",
		r.Count(StateSucceeded), r.Count(StateFailed), notRun)

	return err //nolint:wrapcheck
}

func writeRun(w io.Writer, run Run) error {
	var status, label string

	switch run.State {
	case StateSucceeded:
		status = color.Colorize("✓", color.FgGreen)
		label = color.Colorize(run.Identifier, color.Bold, color.FgGreen)
	case StateFailed:
		status = color.Colorize("✗", color.FgRed)
		label = color.Colorize(run.Identifier, color.Bold, color.FgRed)
	case StatePending:
		status = color.Colorize("~", color.FgYellow)
		label = color.Colorize(run.Identifier, color.FgYellow)
	default:
		status = color.Colorize("?", color.FgWhite)
		label = run.Identifier
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "  %s %s", status, label)

	switch run.State {
	case StatePending:
		sb.WriteString(" (not run)")
	default:
		fmt.Fprintf(&sb, " [%s] %s", run.Duration.Round(time.Millisecond), run.OutputPath)
	}

	sb.WriteString("\n")

	if run.Err != nil {
		fmt.Fprintf(&sb, "    %s %s\n", color.Colorize("➜ Error:", color.FgRed), oneLine(run.Err))

		var execErr *engine.ExecutionError
		if errors.As(run.Err, &execErr) && len(execErr.Stderr) > 0 {
			fmt.Fprintf(&sb, "    %s\n", color.Colorize("➜ Engine output:", color.FgHiRed))
			sb.WriteString(indent(execErr.Stderr, "       ", maxStderrLines))
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

const maxStderrLines = 20

// oneLine folds a multi-line error message.
func oneLine(err error) string {
	var idErr *IdentifierError
	if errors.As(err, &idErr) && idErr.Err != nil {
		return idErr.Err.Error()
	}

	return strings.Join(strings.Fields(err.Error()), " ")
}

// indent prefixes each of the last limit lines of output, dropping blank ones.
func indent(output []byte, prefix string, limit int) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	sb := strings.Builder{}

	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}

		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteString("\n")
	}

	return sb.String()
}
