// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/notebook"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
)

// RunSingle executes "<name>.ipynb" and saves it as "<name>-out.ipynb".
//
// The output is written even when execution fails, in which case a message
// pointing at the output notebook is displayed and the execution error is
// returned as is. A failure to write the output is only returned when
// execution succeeded; otherwise it is logged.
func (r *Runner) RunSingle(ctx context.Context, name string) error {
	in := notebook.InputPath(name)
	out := notebook.OutputPath(name)
	logger := ctxlog.Logger(ctx).With("notebook", in)

	r.display.FileLink(in)

	doc, err := notebook.Read(r.fs, in)
	if err != nil {
		r.reportFailed(ctx, in, err)
		return err
	}

	r.reporter.Report(progress.NewEvent("", in, progress.EventExecuting, "executing notebook"))
	logger.Debug("executing notebook", "output", out)

	execErr := r.executor.Execute(ctx, doc)
	if execErr != nil {
		r.display.Message(singleFailureMessage(name, out))
		r.reportFailed(ctx, in, execErr)
	}

	writeErr := r.save(ctx, in, out, doc)

	switch {
	case execErr != nil:
		if writeErr != nil {
			logger.Error("failed to save executed notebook", "output", out, "error", writeErr)
		}

		return execErr
	case writeErr != nil:
		return writeErr
	}

	r.reporter.Report(progress.NewEvent("", in, progress.EventCompleted, "notebook executed"))

	return nil
}

func singleFailureMessage(name, out string) string {
	return fmt.Sprintf("Error executing the notebook \"%s\".\n\nSee notebook \"%s\" for the traceback.", name, out)
}

// save writes doc to path and shows a reference to it.
func (r *Runner) save(ctx context.Context, in, path string, doc *notebook.Document) error {
	if err := notebook.Write(r.fs, path, doc); err != nil {
		return err
	}

	r.display.FileLink(path)

	e := progress.NewEvent(progress.IdentifierFromContext(ctx), in, progress.EventSaved, "executed notebook saved")
	e.Data.OutputPath = path
	r.reporter.Report(e)

	return nil
}

func (r *Runner) reportFailed(ctx context.Context, in string, err error) {
	e := progress.NewEvent(progress.IdentifierFromContext(ctx), in, progress.EventFailed, "notebook failed")
	e.Data.Error = err
	r.reporter.Report(e)
}
