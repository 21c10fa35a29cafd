// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/nbrun/internal/engine"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/results"
	"github.com/matt-FFFFFF/nbrun/internal/runner"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings shared by every nbrun command.
type Config struct {
	Engine      *EngineConfig `yaml:"engine,omitempty" hcl:"engine,block" docdesc:"Execution engine settings"`
	EnvVar      string        `yaml:"env_var,omitempty" hcl:"env_var,optional" docdesc:"Environment variable carrying the run identifier"`
	OutputDir   string        `yaml:"output_dir,omitempty" hcl:"output_dir,optional" docdesc:"Directory for batch output notebooks"`
	ResultsDir  string        `yaml:"results_dir,omitempty" hcl:"results_dir,optional" docdesc:"Directory holding <name>.txt results files"`
	IndexColumn string        `yaml:"index_column,omitempty" hcl:"index_column,optional" docdesc:"Results column used as the table index"`
	Identifiers []string      `yaml:"identifiers,omitempty" hcl:"identifiers,optional" docdesc:"Run identifiers of a batch, in order"`
	Clear       *bool         `yaml:"clear,omitempty" hcl:"clear,optional" docdesc:"Delete the results file before a batch"`
}

// EngineConfig selects and configures the execution engine.
type EngineConfig struct {
	Kind    string   `yaml:"kind,omitempty" hcl:"kind,optional" docdesc:"Engine preset"`
	Command string   `yaml:"command,omitempty" hcl:"command,optional" docdesc:"Engine executable, required for the command kind"`
	Args    []string `yaml:"args,omitempty" hcl:"args,optional" docdesc:"Extra arguments, or the full argument list for the command kind. Supports {input}, {output}, {dir} and {cwd}"`
	Stdin   bool     `yaml:"stdin,omitempty" hcl:"stdin,optional" docdesc:"Feed the input notebook on stdin, command kind only"`
	Kernel  string   `yaml:"kernel,omitempty" hcl:"kernel,optional" docdesc:"Jupyter kernel name"`
	Timeout string   `yaml:"timeout,omitempty" hcl:"timeout,optional" docdesc:"Maximum duration of one notebook run, e.g. 30m"`
	Cwd     string   `yaml:"cwd,omitempty" hcl:"cwd,optional" docdesc:"Working directory of the notebook"`
}

// Default returns the built-in configuration.
func Default() *Config {
	clearResults := true

	return &Config{
		Engine:      &EngineConfig{Kind: string(engine.KindPapermill)},
		EnvVar:      runner.DefaultEnvVar,
		OutputDir:   runner.DefaultOutputDir,
		ResultsDir:  runner.DefaultResultsDir,
		IndexColumn: results.DefaultIndex,
		Identifiers: runner.DefaultIdentifiers(),
		Clear:       &clearResults,
	}
}

// withDefaults fills every unset field from Default.
func (c *Config) withDefaults() *Config {
	d := Default()

	if c.Engine == nil {
		c.Engine = d.Engine
	}

	if c.Engine.Kind == "" {
		c.Engine.Kind = d.Engine.Kind
	}

	if c.EnvVar == "" {
		c.EnvVar = d.EnvVar
	}

	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}

	if c.ResultsDir == "" {
		c.ResultsDir = d.ResultsDir
	}

	if c.IndexColumn == "" {
		c.IndexColumn = d.IndexColumn
	}

	if len(c.Identifiers) == 0 {
		c.Identifiers = d.Identifiers
	}

	if c.Clear == nil {
		c.Clear = d.Clear
	}

	return c
}

// Validate reports every problem with c.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Engine != nil {
		kind, err := engine.ParseKind(c.Engine.Kind)
		if err != nil {
			result = multierror.Append(result, err)
		}

		if kind == engine.KindCommand && c.Engine.Command == "" {
			result = multierror.Append(result, engine.ErrNoCommand)
		}

		if _, err := c.Engine.TimeoutDuration(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if strings.ContainsAny(c.EnvVar, "= \t") {
		result = multierror.Append(result, fmt.Errorf("env_var %q is not a valid environment variable name", c.EnvVar))
	}

	if strings.ContainsFunc(c.IndexColumn, isSpace) {
		result = multierror.Append(result, fmt.Errorf("index_column %q contains whitespace", c.IndexColumn))
	}

	for i, id := range c.Identifiers {
		if err := ValidateIdentifier(id); err != nil {
			result = multierror.Append(result, err)
		}

		if slices.Contains(c.Identifiers[:i], id) {
			result = multierror.Append(result, fmt.Errorf("%w: %q", runner.ErrDuplicateIdentifier, id))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrInvalid, err)
	}

	return nil
}

// ErrInvalidIdentifier is returned for an identifier that cannot name a file or a results row.
var ErrInvalidIdentifier = errors.New("invalid run identifier")

// ValidateIdentifier checks id can be used in an output file name and as a
// whitespace-delimited results value.
func ValidateIdentifier(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	case strings.ContainsFunc(id, isSpace):
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidIdentifier, id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, id)
	}

	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// TimeoutDuration parses Timeout. An empty timeout is zero, meaning none.
func (e *EngineConfig) TimeoutDuration() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine timeout: %w", err)
	}

	if d < 0 {
		return 0, fmt.Errorf("engine timeout %s is negative", e.Timeout)
	}

	return d, nil
}

// EngineOptions converts the engine block for engine.New.
func (c *Config) EngineOptions(reporter progress.Reporter) (engine.Options, error) {
	e := c.Engine
	if e == nil {
		e = Default().Engine
	}

	kind, err := engine.ParseKind(e.Kind)
	if err != nil {
		return engine.Options{}, err //nolint:wrapcheck
	}

	timeout, err := e.TimeoutDuration()
	if err != nil {
		return engine.Options{}, err
	}

	return engine.Options{
		Kind:     kind,
		Command:  e.Command,
		Args:     slices.Clone(e.Args),
		Stdin:    e.Stdin,
		Kernel:   e.Kernel,
		Timeout:  timeout,
		Cwd:      e.Cwd,
		Reporter: reporter,
	}, nil
}

// RunnerOptions converts the runner settings for runner.New.
func (c *Config) RunnerOptions() []runner.Option {
	return []runner.Option{
		runner.WithEnvVar(c.EnvVar),
		runner.WithOutputDir(c.OutputDir),
		runner.WithResultsDir(c.ResultsDir),
		runner.WithIndexColumn(c.IndexColumn),
	}
}

// BatchOptions returns the batch defaults from c.
func (c *Config) BatchOptions() runner.BatchOptions {
	opts := runner.DefaultBatchOptions()

	if len(c.Identifiers) > 0 {
		opts.Identifiers = slices.Clone(c.Identifiers)
	}

	if c.Clear != nil {
		opts.Clear = *c.Clear
	}

	return opts
}
