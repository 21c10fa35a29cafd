// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the flags shared by the nbrun subcommands and builds
// the components they wire together.
package cmdstate

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/nbrun/internal/color"
	"github.com/matt-FFFFFF/nbrun/internal/config"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/matt-FFFFFF/nbrun/internal/display"
	"github.com/matt-FFFFFF/nbrun/internal/engine"
	"github.com/matt-FFFFFF/nbrun/internal/notebook"
	"github.com/matt-FFFFFF/nbrun/internal/progress"
	"github.com/urfave/cli/v3"
)

// Global flags, defined on the root command.
const (
	ConfigFlag       = "config"
	FormatFlag       = "format"
	NoHyperlinksFlag = "no-hyperlinks"
	NoColourFlag     = "no-color"
	LogFormatFlag    = "log-format"
)

// Engine flags, shared by run and batch.
const (
	EngineFlag        = "engine"
	EngineCommandFlag = "engine-command"
	KernelFlag        = "kernel"
	TimeoutFlag       = "timeout"
	CwdFlag           = "cwd"
)

// CliExitStr is passed to cli.Exit once the failure has been logged.
const CliExitStr = ""

// GlobalFlags returns the flags of the root command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "URL of a YAML or HCL configuration file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     FormatFlag,
			Usage:    "Results table format, text or json",
			Value:    string(display.FormatText),
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        NoHyperlinksFlag,
			Usage:       "Print file references as plain paths instead of terminal hyperlinks",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        NoColourFlag,
			Usage:       "Disable coloured output, same as setting NO_COLOR",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name: LogFormatFlag,
			Usage: "Log format, pretty or json. The level is read from the " +
				ctxlog.LevelEnvName() + " environment variable",
			Value:    "pretty",
			OnlyOnce: true,
		},
	}
}

// EngineFlags returns the flags that override the engine configuration.
func EngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     EngineFlag,
			Aliases:  []string{"e"},
			Usage:    "Execution engine: " + kinds(),
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     EngineCommandFlag,
			Usage:    "Engine executable, required for the command engine",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     KernelFlag,
			Aliases:  []string{"k"},
			Usage:    "Jupyter kernel to execute the notebook with",
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     TimeoutFlag,
			Usage:    "Stop the engine if a notebook runs longer than this, e.g. 30m",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      CwdFlag,
			Usage:     "Working directory for notebook cells, defaults to the current directory",
			TakesFile: true,
			OnlyOnce:  true,
		},
	}
}

func kinds() string {
	ks := engine.Kinds()
	s := make([]string, len(ks))

	for i, k := range ks {
		s[i] = string(k)
	}

	return strings.Join(s, ", ")
}

// Setup applies the logging and colour flags and returns the context to run with.
func Setup(ctx context.Context, cmd *cli.Command) context.Context {
	if cmd.Bool(NoColourFlag) {
		color.SetEnabled(false)
	}

	if strings.EqualFold(cmd.String(LogFormatFlag), "json") {
		ctx = ctxlog.New(ctx, ctxlog.JSONLogger)
	}

	return ctx
}

// LoadConfig loads the configuration file and applies the engine flags to it.
func LoadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx, cmd.String(ConfigFlag))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if cmd.IsSet(EngineFlag) {
		cfg.Engine.Kind = cmd.String(EngineFlag)
	}

	if cmd.IsSet(EngineCommandFlag) {
		cfg.Engine.Command = cmd.String(EngineCommandFlag)
	}

	if cmd.IsSet(KernelFlag) {
		cfg.Engine.Kernel = cmd.String(KernelFlag)
	}

	if cmd.IsSet(TimeoutFlag) {
		cfg.Engine.Timeout = cmd.Duration(TimeoutFlag).String()
	}

	if cmd.IsSet(CwdFlag) {
		cfg.Engine.Cwd = cmd.String(CwdFlag)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	ctxlog.Debug(ctx, "configuration loaded", "engine", cfg.Engine.Kind, "envVar", cfg.EnvVar)

	return cfg, nil
}

// NewExecutor builds the engine described by cfg.
func NewExecutor(cfg *config.Config, reporter progress.Reporter) (*engine.CommandExecutor, error) {
	opts, err := cfg.EngineOptions(reporter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return engine.New(opts) //nolint:wrapcheck
}

// NewDisplay builds the terminal display for w from the global flags.
func NewDisplay(cmd *cli.Command, w io.Writer) (*display.Terminal, error) {
	format, err := display.ParseFormat(cmd.String(FormatFlag))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return display.NewTerminal(w,
		display.WithFormat(format),
		display.WithHyperlinks(!cmd.Bool(NoHyperlinksFlag)),
	), nil
}

// NotebookName accepts a notebook given with or without its extension.
func NotebookName(arg string) string {
	if strings.EqualFold(filepath.Ext(arg), notebook.Extension) {
		return arg[:len(arg)-len(notebook.Extension)]
	}

	return arg
}
