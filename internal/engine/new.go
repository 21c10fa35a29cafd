// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matt-FFFFFF/nbrun/internal/progress"
)

// ErrNoCommand is returned for KindCommand without a command.
var ErrNoCommand = errors.New("the command engine needs a command")

// Options configures New.
type Options struct {
	Kind     Kind              // Preset, defaults to papermill
	Command  string            // Executable, overrides the preset's
	Args     []string          // Extra arguments for presets, the full argument list for KindCommand
	Stdin    bool              // Feed the input notebook on stdin, KindCommand only
	Kernel   string            // Kernel name passed to presets that accept one
	Timeout  time.Duration     // Zero means no timeout
	Cwd      string            // Working directory, defaults to the current directory
	Reporter progress.Reporter // Receives engine output
}

// New builds a CommandExecutor from opts, resolving the executable in PATH.
func New(opts Options) (*CommandExecutor, error) {
	kind := opts.Kind
	if kind == "" {
		kind = KindPapermill
	}

	c := &CommandExecutor{
		Cwd:      opts.Cwd,
		Timeout:  opts.Timeout,
		Reporter: opts.Reporter,
	}

	command := opts.Command

	switch kind {
	case KindCommand:
		if command == "" {
			return nil, ErrNoCommand
		}

		c.Args = slices.Clone(opts.Args)
		c.Stdin = opts.Stdin

	default:
		p, ok := presets[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}

		if command == "" {
			command = p.command
		}

		c.Args = slices.Clone(p.args)
		if opts.Kernel != "" {
			c.Args = append(c.Args, p.kernel(opts.Kernel)...)
		}

		c.Args = append(c.Args, opts.Args...)
		c.Stdin = p.stdin
	}

	path, err := LookPath(command)
	if err != nil {
		return nil, err
	}

	c.Path = path

	return c, nil
}
