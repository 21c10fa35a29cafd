// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the commands that describe nbrun configuration.
package config

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/nbrun/cmd/nbrun/cmdstate"
	"github.com/matt-FFFFFF/nbrun/internal/config"
	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// ConfigCmd groups the configuration subcommands.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "Get info on the configuration format",
	Commands: []*cli.Command{
		exampleCmd,
		showCmd,
		schemaCmd,
		debugCmd,
	},
}

var exampleCmd = &cli.Command{
	Name:  "example",
	Usage: "Print the default configuration as YAML",
	Action: func(_ context.Context, cmd *cli.Command) error {
		b, err := config.Example()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		_, err = cmd.Root().Writer.Write(b)

		return err //nolint:wrapcheck
	},
}

var showCmd = &cli.Command{
	Name: "show",
	Usage: "Print the effective configuration after the config file and defaults are applied. " +
		"Engine flags are applied too",
	Flags: cmdstate.EngineFlags(),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		ctx = cmdstate.Setup(ctx, cmd)

		cfg, err := cmdstate.LoadConfig(ctx, cmd)
		if err != nil {
			ctxlog.Error(ctx, fmt.Sprintf("Failed to load configuration: %s", err.Error()))
			return cli.Exit(cmdstate.CliExitStr, 1)
		}

		b, err := yaml.Marshal(cfg)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		_, err = cmd.Root().Writer.Write(b)

		return err //nolint:wrapcheck
	},
}

var schemaCmd = &cli.Command{
	Name:  "schema",
	Usage: "Print the JSON schema of YAML configuration files",
	Action: func(_ context.Context, cmd *cli.Command) error {
		b, err := config.JSONSchema()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		_, err = fmt.Fprintln(cmd.Root().Writer, string(b))

		return err //nolint:wrapcheck
	},
}

var debugCmd = &cli.Command{
	Name:  "debug",
	Usage: "Evaluate HCL expressions, such as env.HOME, the way configuration files see them",
	Action: func(_ context.Context, cmd *cli.Command) error {
		if err := config.Debug(cmd.Root().Writer); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		return nil
	},
}
