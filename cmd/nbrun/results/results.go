// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package results implements the command that shows an existing results file.
package results

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/results"
	"github.com/urfave/cli/v3"
)

const (
	fileArg   = "file"
	indexFlag = "index"
)

// ResultsCmd shows a results file as a table without running anything.
var ResultsCmd = &cli.Command{
	Name:  "results",
	Usage: "Show a results file as a table",
	Description: `Show a whitespace-delimited results file as a table.

FILE is either a path to a results file or the name of a notebook, in which
case the file is looked up in the configured results directory.`,
	ArgsUsage: "FILE|NAME",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: fileArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        indexFlag,
			Usage:       "Column to index the table by. Defaults to the configured index column",
			DefaultText: results.DefaultIndex,
			OnlyOnce:    true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctx = cmdstate.Setup(ctx, cmd)
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running results command")

	arg := cmd.StringArg(fileArg)
	if arg == "" {
		logger.Error("Please specify a results file or notebook name")
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	index := cfg.IndexColumn
	if cmd.IsSet(indexFlag) {
		index = cmd.String(indexFlag)
	}

	tbl, err := results.Load(results.FsFactory(), resolve(arg, cfg.ResultsDir), index)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	disp, err := cmdstate.NewDisplay(cmd, cmd.Root().Writer)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	if err := disp.Table(tbl); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

// resolve treats a bare notebook name as results/<name>.txt.
func resolve(arg, dir string) string {
	if filepath.Ext(arg) != "" || filepath.Base(arg) != arg {
		return arg
	}

	return results.Path(dir, arg)
}
