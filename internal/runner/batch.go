// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/notebook"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/results"
	"github.com/spf13/afero"
)

var (
	// ErrSetenv is returned when the identifier cannot be placed in the environment.
	ErrSetenv = errors.New("failed to set environment variable")
	// ErrClearDeclined is returned when the user declines to delete an existing results file.
	ErrClearDeclined = errors.New("existing results file was kept, run again without clearing to append to it")
	// ErrDuplicateIdentifier is returned when an identifier is listed twice.
	ErrDuplicateIdentifier = errors.New("duplicate run identifier")
)

// BatchOptions configures RunBatch. Use DefaultBatchOptions as a starting point.
type BatchOptions struct {
	Clear       bool     // Delete the results file before the first run
	Identifiers []string // Run identifiers in execution order, empty for DefaultIdentifiers
}

// DefaultBatchOptions clears the results file and runs DefaultIdentifiers.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Clear:       true,
		Identifiers: DefaultIdentifiers(),
	}
}

// IdentifierError is returned by RunBatch when a notebook fails for one identifier.
// It unwraps to the execution error.
type IdentifierError struct {
	Identifier string
	OutputPath string
	Err        error
}

// Error implements the error interface.
func (e *IdentifierError) Error() string {
	return fmt.Sprintf(
		"Error executing the notebook for sample \"%s\".\n\nSee notebook \"%s\" for the traceback.",
		e.Identifier, e.OutputPath,
	)
}

// Unwrap returns the execution error.
func (e *IdentifierError) Unwrap() error {
	return e.Err
}

// RunBatch executes the template "<name>.ipynb" once per identifier and shows the
// results table. It stops at the first failure; notebooks saved for earlier
// identifiers stay on disk. The returned Report is never nil.
func (r *Runner) RunBatch(ctx context.Context, name string, opts BatchOptions) (*Report, error) {
	ids := opts.Identifiers
	if len(ids) == 0 {
		ids = DefaultIdentifiers()
	}

	report := &Report{
		Notebook:    notebook.InputPath(name),
		ResultsPath: r.ResultsPath(name),
		Runs:        make([]Run, len(ids)),
	}

	for i, id := range ids {
		if slices.Contains(ids[:i], id) {
			return report, fmt.Errorf("%w: %q", ErrDuplicateIdentifier, id)
		}

		report.Runs[i] = Run{
			Identifier: id,
			OutputPath: notebook.BatchOutputPath(r.outputDir, name, id),
		}
	}

	logger := ctxlog.Logger(ctx).With("notebook", report.Notebook)

	if opts.Clear {
		cleared, err := r.clearResults(report.ResultsPath)
		if err != nil {
			return report, err
		}

		report.Cleared = cleared
		logger.Debug("results file cleared", "path", report.ResultsPath, "existed", cleared)
	}

	r.display.FileLink(report.Notebook)

	for i := range report.Runs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch cancelled", "remaining", len(report.Runs)-i)
			return report, err //nolint:wrapcheck
		}

		if stopRequested(ctx) {
			logger.Warn("batch stopped", "remaining", len(report.Runs)-i)
			return report, ErrStopped
		}

		if err := r.runIdentifier(ctx, report.Notebook, &report.Runs[i]); err != nil {
			return report, err
		}
	}

	tbl, err := results.Load(r.fs, report.ResultsPath, r.index)
	if err != nil {
		return report, err //nolint:wrapcheck
	}

	report.Table = tbl

	// Identifiers are sample labels, so only the default index can be checked against them.
	for _, run := range report.Runs {
		if tbl.Index != results.DefaultIndex {
			break
		}

		if _, ok := tbl.Lookup(run.Identifier); !ok {
			logger.Warn("no results row for identifier", "identifier", run.Identifier, "path", report.ResultsPath)
		}
	}

	if err := r.display.Table(tbl); err != nil {
		return report, err //nolint:wrapcheck
	}

	return report, nil
}

func (r *Runner) runIdentifier(ctx context.Context, in string, run *Run) error {
	start := time.Now()
	defer func() {
		run.Duration = time.Since(start)
	}()

	ctx = progress.WithIdentifier(ctx, run.Identifier)
	logger := ctxlog.Logger(ctx).With("identifier", run.Identifier)

	if err := Setenv(r.envVar, run.Identifier); err != nil {
		run.fail(errors.Join(ErrSetenv, err))
		r.reportFailed(ctx, in, run.Err)

		return run.Err
	}

	run.State = StateEnvironmentSet
	r.reporter.Report(progress.NewEvent(run.Identifier, in, progress.EventStarted, "run started"))
	logger.Debug("environment set", "name", r.envVar)

	doc, err := notebook.Read(r.fs, in)
	if err != nil {
		run.fail(err)
		r.reportFailed(ctx, in, err)

		return err //nolint:wrapcheck
	}

	run.State = StateLoaded
	logger.Debug("template loaded")

	run.State = StateExecuting
	r.reporter.Report(progress.NewEvent(run.Identifier, in, progress.EventExecuting, "executing notebook"))

	execErr := r.executor.Execute(ctx, doc)
	writeErr := r.save(ctx, in, run.OutputPath, doc)

	if execErr != nil {
		run.fail(&IdentifierError{
			Identifier: run.Identifier,
			OutputPath: run.OutputPath,
			Err:        execErr,
		})
		r.reportFailed(ctx, in, execErr)

		if writeErr != nil {
			logger.Error("failed to save executed notebook", "output", run.OutputPath, "error", writeErr)
		}

		return run.Err
	}

	if writeErr != nil {
		run.fail(writeErr)
		r.reportFailed(ctx, in, writeErr)

		return writeErr
	}

	run.State = StateSucceeded
	r.reporter.Report(progress.NewEvent(run.Identifier, in, progress.EventCompleted, "run completed"))

	return nil
}

// clearResults deletes the results file, asking first if a ConfirmFunc is set.
func (r *Runner) clearResults(path string) (bool, error) {
	if r.confirm != nil {
		exists, err := afero.Exists(r.fs, path)
		if err != nil {
			return false, errors.Join(results.ErrRead, err)
		}

		if exists {
			ok, err := r.confirm(path)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, ErrClearDeclined
			}
		}
	}

	return results.Remove(r.fs, path) //nolint:wrapcheck
}
