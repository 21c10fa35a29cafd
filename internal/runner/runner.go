// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"os"

	"github.com/matt-FFFFFF/nbrun/internal/display"
	"github.com/matt-FFFFFF/nbrun/internal/engine"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/results"
	"github.com/spf13/afero"
)

const (
	// DefaultEnvVar carries the run identifier to the notebook.
	DefaultEnvVar = "NB_DATA_FILE"
	// DefaultOutputDir holds the executed notebooks of a batch.
	DefaultOutputDir = "out_notebooks"
	// DefaultResultsDir holds the results files.
	DefaultResultsDir = "results"
)

// DefaultIdentifiers are the run identifiers of a batch when none are given.
func DefaultIdentifiers() []string {
	return []string{"7d", "12d", "17d", "22d", "27d"}
}

// Setenv sets the process environment variable read by batch notebooks.
var Setenv = os.Setenv

// ConfirmFunc asks whether the results file at path may be deleted.
type ConfirmFunc func(path string) (bool, error)

// Runner executes notebooks through an engine.Executor.
type Runner struct {
	fs         afero.Fs
	executor   engine.Executor
	display    display.Display
	reporter   progress.Reporter
	envVar     string
	outputDir  string
	resultsDir string
	index      string
	confirm    ConfirmFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithFs sets the filesystem notebooks and results are read from and written to.
func WithFs(fs afero.Fs) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

// WithDisplay sets where file references, messages and tables are shown.
func WithDisplay(d display.Display) Option {
	return func(r *Runner) {
		r.display = d
	}
}

// WithReporter sets the progress reporter.
func WithReporter(rep progress.Reporter) Option {
	return func(r *Runner) {
		r.reporter = rep
	}
}

// WithEnvVar sets the environment variable that carries the run identifier.
func WithEnvVar(name string) Option {
	return func(r *Runner) {
		if name != "" {
			r.envVar = name
		}
	}
}

// WithOutputDir sets the directory for executed batch notebooks.
func WithOutputDir(dir string) Option {
	return func(r *Runner) {
		if dir != "" {
			r.outputDir = dir
		}
	}
}

// WithResultsDir sets the directory of the results files.
func WithResultsDir(dir string) Option {
	return func(r *Runner) {
		if dir != "" {
			r.resultsDir = dir
		}
	}
}

// WithIndexColumn sets the results table index column.
func WithIndexColumn(col string) Option {
	return func(r *Runner) {
		if col != "" {
			r.index = col
		}
	}
}

// WithConfirmClear makes RunBatch ask before deleting an existing results file.
func WithConfirmClear(fn ConfirmFunc) Option {
	return func(r *Runner) {
		r.confirm = fn
	}
}

// New returns a Runner using executor.
func New(executor engine.Executor, opts ...Option) *Runner {
	r := &Runner{
		executor:   executor,
		envVar:     DefaultEnvVar,
		outputDir:  DefaultOutputDir,
		resultsDir: DefaultResultsDir,
		index:      results.DefaultIndex,
	}

	for _, o := range opts {
		o(r)
	}

	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}

	if r.display == nil {
		r.display = display.NewTerminal(nil)
	}

	if r.reporter == nil {
		r.reporter = progress.NewNullReporter()
	}

	return r
}

// ResultsPath returns the results file of the batch notebook name.
func (r *Runner) ResultsPath(name string) string {
	return results.Path(r.resultsDir, name)
}
