// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the nbrun command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/nbrun"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/batch"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/config"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/results"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/run"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/runner"
	"github.com/matt-FFFFFF/nbrun/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		batch.BatchCmd,
		results.ResultsCmd,
		config.ConfigCmd,
	},
	Flags:     cmdstate.GlobalFlags(),
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "nbrun",
	Description: `nbrun executes Jupyter notebooks from the command line through an external
engine such as papermill or jupyter nbconvert.

A single notebook can be run and saved, or a template notebook can be run once
per sample with the sample identifier passed through the NB_DATA_FILE
environment variable, collecting a results table across the runs.`,
	Usage:     "nbrun batch fit",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	ctx, stop := runner.WithStop(ctx)

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, stop, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", nbrun.Version, nbrun.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
