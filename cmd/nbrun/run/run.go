// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the command that executes a single notebook.
package run

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/runner"
	"github.com/urfave/cli/v3"
)

const nameArg = "name"

// RunCmd executes NAME.ipynb and saves the result as NAME-out.ipynb.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "Execute a notebook and save the executed copy",
	Description: `Execute every cell of NAME.ipynb with the configured engine and write the
executed notebook to NAME-out.ipynb.

The output notebook is written even when execution fails, so the traceback
can be inspected in it.`,
	ArgsUsage: "NAME",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: nameArg,
		},
	},
	Flags:  cmdstate.EngineFlags(),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = cmdstate.Setup(ctx, cmd)
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	name := cmdstate.NotebookName(cmd.StringArg(nameArg))
	if name == "" {
		logger.Error("Please specify the notebook to run, e.g. nbrun run analysis")
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	reporter := progress.NewLogReporter(ctx)

	exec, err := cmdstate.NewExecutor(cfg, reporter)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create engine: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	disp, err := cmdstate.NewDisplay(cmd, cmd.Root().Writer)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	opts := append(cfg.RunnerOptions(),
		runner.WithDisplay(disp),
		runner.WithReporter(reporter),
	)

	if err := runner.New(exec, opts...).RunSingle(ctx, name); err != nil {
		logger.Error("Notebook run failed", "notebook", name, "error", err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}
