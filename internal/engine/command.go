// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/notebook"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/teereader"
)

const (
	maxCaptureSize        = 8 * 1024 * 1024 // 8MB
	defaultOutputInterval = 500 * time.Millisecond
	defaultWaitDelay      = 5 * time.Second
	maxOutputLineLength   = 200

	inputBase   = "input"
	outputBase  = "output"
	scratchDir  = "nbrun-*"
	scratchPerm = 0o600
)

var _ Executor = (*CommandExecutor)(nil)

// CommandExecutor executes a notebook by running an engine process.
//
// The notebook is written to a scratch directory, the process is started with
// the placeholders in Args expanded, and the notebook the process writes to
// {output} replaces the document content. The process inherits the environment
// of nbrun.
type CommandExecutor struct {
	Path     string            // Executable to run
	Args     []string          // Arguments, may contain placeholders
	Stdin    bool              // Feed the input notebook on stdin
	Cwd      string            // Working directory for the process and the notebook cells
	Timeout  time.Duration     // Zero means no timeout
	Reporter progress.Reporter // Receives EventOutput as the engine prints

	// OutputInterval is how often the latest output line is reported.
	OutputInterval time.Duration
	// WaitDelay bounds how long output is drained after the process is killed.
	WaitDelay time.Duration
}

// Execute implements Executor.
func (c *CommandExecutor) Execute(ctx context.Context, doc *notebook.Document) error {
	logger := ctxlog.Logger(ctx).With("engine", filepath.Base(c.Path), "notebook", doc.Path())

	dir, err := os.MkdirTemp("", scratchDir)
	if err != nil {
		return errors.Join(ErrWorkspace, err)
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Debug("failed to remove engine workspace", "dir", dir, "error", err)
		}
	}()

	in := filepath.Join(dir, inputBase+notebook.Extension)
	out := filepath.Join(dir, outputBase+notebook.Extension)

	if err := os.WriteFile(in, doc.Bytes(), scratchPerm); err != nil {
		return errors.Join(ErrWorkspace, err)
	}

	cwd := c.Cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return errors.Join(ErrWorkspace, err)
		}
	}

	runCtx := ctx

	if c.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := ExpandArgs(c.Args, in, out, dir, cwd)
	logger.Debug("starting engine", "path", c.Path, "args", args, "cwd", cwd)

	cmd := exec.CommandContext(runCtx, c.Path, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	cmd.WaitDelay = c.WaitDelay

	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	if c.Stdin {
		f, err := os.Open(in)
		if err != nil {
			return errors.Join(ErrWorkspace, err)
		}

		defer f.Close() //nolint:errcheck

		cmd.Stdin = f
	}

	stdout, stderr, drained := c.attachOutput(cmd)

	stopWatch := c.watch(ctx, doc.Path(), stdout, stderr)

	startTime := time.Now()
	runErr := cmd.Run()

	closeWriters(cmd)
	drained.Wait()
	stopWatch()

	logger.Debug("engine finished",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"exitCode", exitCode(cmd),
		"stdoutBytes", len(stdout.Captured()),
		"stderrBytes", len(stderr.Captured()),
	)

	produced := c.collect(ctx, doc, out)

	if runErr != nil {
		if cmd.Process == nil {
			return errors.Join(ErrStart, runErr)
		}

		return &ExecutionError{
			Engine:   filepath.Base(c.Path),
			Notebook: doc.Path(),
			ExitCode: exitCode(cmd),
			Stderr:   stderr.Captured(),
			Err:      c.cause(ctx, runCtx, runErr),
		}
	}

	if !produced {
		return &ExecutionError{
			Engine:   filepath.Base(c.Path),
			Notebook: doc.Path(),
			Stderr:   stderr.Captured(),
			Err:      ErrNoOutput,
		}
	}

	return nil
}

// attachOutput routes the process output through bounded tee readers.
// The returned WaitGroup is done once both streams reach EOF.
func (c *CommandExecutor) attachOutput(cmd *exec.Cmd) (*teereader.LastLineTeeReader, *teereader.LastLineTeeReader, *sync.WaitGroup) {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	stdout := teereader.NewLastLineTeeReader(outR, maxCaptureSize)
	stderr := teereader.NewLastLineTeeReader(errR, maxCaptureSize)

	wg := &sync.WaitGroup{}

	for _, r := range []io.Reader{stdout, stderr} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = io.Copy(io.Discard, r)
		}()
	}

	return stdout, stderr, wg
}

func closeWriters(cmd *exec.Cmd) {
	for _, w := range []io.Writer{cmd.Stdout, cmd.Stderr} {
		if pw, ok := w.(*io.PipeWriter); ok {
			_ = pw.Close()
		}
	}
}

// watch reports changes to the last output line until the returned func is called.
func (c *CommandExecutor) watch(ctx context.Context, nb string, stdout, stderr *teereader.LastLineTeeReader) func() {
	reporter := c.Reporter
	if reporter == nil {
		return func() {}
	}

	interval := c.OutputInterval
	if interval <= 0 {
		interval = defaultOutputInterval
	}

	id := progress.IdentifierFromContext(ctx)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastOut, lastErr string

		send := func(line string, isStderr bool) {
			e := progress.NewEvent(id, nb, progress.EventOutput, "engine output")
			e.Data.OutputLine = line
			e.Data.IsStderr = isStderr
			reporter.Report(e)
		}

		poll := func() {
			if l := stdout.LastLine(maxOutputLineLength); l != "" && l != lastOut {
				lastOut = l
				send(l, false)
			}

			if l := stderr.LastLine(maxOutputLineLength); l != "" && l != lastErr {
				lastErr = l
				send(l, true)
			}
		}

		for {
			select {
			case <-ticker.C:
				poll()
			case <-done:
				poll()
				return
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

// collect replaces the document with the engine output, if any was written.
func (c *CommandExecutor) collect(ctx context.Context, doc *notebook.Document, out string) bool {
	b, err := os.ReadFile(out)
	if err != nil {
		ctxlog.Debug(ctx, "engine wrote no output notebook", "error", err)
		return false
	}

	if err := doc.Replace(b); err != nil {
		ctxlog.Warn(ctx, "engine output is not a notebook, keeping input", "error", err)
		return false
	}

	return true
}

func (c *CommandExecutor) cause(parent, run context.Context, err error) error {
	switch {
	case parent.Err() != nil:
		return errors.Join(parent.Err(), err)
	case c.Timeout > 0 && errors.Is(run.Err(), context.DeadlineExceeded):
		return errors.Join(fmt.Errorf("%w after %s", ErrTimeoutExceeded, c.Timeout), err)
	default:
		return err
	}
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}

	return cmd.ProcessState.ExitCode()
}

// ExpandArgs substitutes the engine placeholders in args.
func ExpandArgs(args []string, input, output, dir, cwd string) []string {
	r := strings.NewReplacer(
		PlaceholderInput, input,
		PlaceholderOutput, output,
		PlaceholderDir, dir,
		PlaceholderCwd, cwd,
	)

	res := make([]string, len(args))
	for i, a := range args {
		res[i] = r.Replace(a)
	}

	return res
}
