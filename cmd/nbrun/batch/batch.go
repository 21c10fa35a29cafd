// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch implements the command that re-runs a template notebook once
// per run identifier.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/internal/config"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/matt-FFFFFF/nbrun/internal/prompt"
	"github.com/matt-FFFFFF/nbrun/internal/results"
	"github.com/matt-FFFFFF/nbrun/internal/runner"
	"github.com/matt-FFFFFF/nbrun/internal/tui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	nameArg          = "name"
	idFlag           = "id"
	noClearFlag      = "no-clear"
	confirmClearFlag = "confirm-clear"
	tuiFlag          = "tui"
	reportFlag       = "report"
)

// Confirm asks before an existing results file is deleted.
var Confirm = prompt.ConfirmDelete

// BatchCmd runs NAME.ipynb once per identifier and shows the collected results.
var BatchCmd = newBatchCmd()

func newBatchCmd() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Execute a template notebook once per sample and show the results table",
		Description: `Execute NAME.ipynb once for every run identifier. Before each run the identifier
is placed in the NB_DATA_FILE environment variable so the notebook can choose its
input data. Each executed notebook is written to out_notebooks/NAME-out-ID.ipynb.

The notebook is expected to append a row to results/NAME.txt on every run. Once
all identifiers have succeeded the file is shown as a table indexed by its
sample column. The results file is deleted before the first run unless
--no-clear is given.

The batch stops at the first failing identifier.`,
		ArgsUsage: "NAME",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: nameArg,
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    idFlag,
				Aliases: []string{"i"},
				Usage: "Run identifier to execute. Specify multiple times to run several, in order. " +
					"Defaults to the configured identifiers",
			},
			&cli.BoolFlag{
				Name:        noClearFlag,
				Usage:       "Keep an existing results file and append to it",
				Value:       false,
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        confirmClearFlag,
				Usage:       "Ask before deleting an existing results file",
				Value:       false,
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        tuiFlag,
				Aliases:     []string{"t", "interactive"},
				Usage:       "Run with interactive Terminal User Interface (TUI) showing real-time progress",
				Value:       false,
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        reportFlag,
				Usage:       "Print a status line for every identifier after the batch",
				Value:       true,
				DefaultText: "true",
				OnlyOnce:    true,
			},
		}, cmdstate.EngineFlags()...),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = cmdstate.Setup(ctx, cmd)
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running batch command")

	name := cmdstate.NotebookName(cmd.StringArg(nameArg))
	if name == "" {
		logger.Error("Please specify the template notebook, e.g. nbrun batch fit")
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	opts, err := batchOptions(cmd, cfg)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	var confirm runner.ConfirmFunc
	if cmd.Bool(confirmClearFlag) && opts.Clear {
		confirm = Confirm()
	}

	var report *runner.Report

	switch cmd.Bool(tuiFlag) {
	case true:
		logger.Info("Starting interactive TUI mode...")

		// The TUI owns the terminal, so ask before it starts.
		if confirm != nil {
			confirm, err = confirmNow(results.Path(cfg.ResultsDir, name), confirm)
			if err != nil {
				logger.Error(err.Error())
				return cli.Exit(cmdstate.CliExitStr, 1)
			}
		}

		buf := new(bytes.Buffer)
		tuiCtx := ctxlog.NewForTUI(ctx, buf)

		err = tui.Run(tuiCtx, name, opts.Identifiers,
			func(ctx context.Context, reporter progress.Reporter) error {
				var batchErr error
				report, batchErr = runBatch(ctx, cmd, cfg, buf, reporter, confirm, name, opts)

				return batchErr
			},
			tea.WithContext(tuiCtx),
			tea.WithoutSignalHandler(),
		)

		buf.WriteTo(cmd.Root().Writer) //nolint:errcheck
	default:
		report, err = runBatch(ctx, cmd, cfg, cmd.Root().Writer, progress.NewLogReporter(ctx), confirm, name, opts)
	}

	if report != nil && cmd.Bool(reportFlag) {
		if werr := report.Write(cmd.Root().Writer); werr != nil {
			logger.Error(fmt.Sprintf("Failed to write report: %s", werr.Error()))
		}
	}

	if err != nil {
		var idErr *runner.IdentifierError
		if errors.As(err, &idErr) {
			logger.Error("Batch failed", "identifier", idErr.Identifier, "error", idErr.Err.Error())
		} else {
			logger.Error("Batch failed", "error", err.Error())
		}

		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

func runBatch(
	ctx context.Context,
	cmd *cli.Command,
	cfg *config.Config,
	w io.Writer,
	reporter progress.Reporter,
	confirm runner.ConfirmFunc,
	name string,
	opts runner.BatchOptions,
) (*runner.Report, error) {
	exec, err := cmdstate.NewExecutor(cfg, reporter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	disp, err := cmdstate.NewDisplay(cmd, w)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	ropts := append(cfg.RunnerOptions(),
		runner.WithDisplay(disp),
		runner.WithReporter(reporter),
	)

	if confirm != nil {
		ropts = append(ropts, runner.WithConfirmClear(confirm))
	}

	return runner.New(exec, ropts...).RunBatch(ctx, name, opts) //nolint:wrapcheck
}

func batchOptions(cmd *cli.Command, cfg *config.Config) (runner.BatchOptions, error) {
	opts := cfg.BatchOptions()

	if ids := cmd.StringSlice(idFlag); len(ids) > 0 {
		for _, id := range ids {
			if err := config.ValidateIdentifier(id); err != nil {
				return opts, err //nolint:wrapcheck
			}
		}

		opts.Identifiers = ids
	}

	if cmd.Bool(noClearFlag) {
		opts.Clear = false
	}

	return opts, nil
}

// confirmNow asks straight away if the results file exists and returns a
// ConfirmFunc that replays the answer.
func confirmNow(path string, confirm runner.ConfirmFunc) (runner.ConfirmFunc, error) {
	exists, err := afero.Exists(results.FsFactory(), path)
	if err != nil || !exists {
		return nil, err //nolint:wrapcheck
	}

	ok, err := confirm(path)
	if err != nil {
		return nil, err
	}

	return func(string) (bool, error) { return ok, nil }, nil
}
