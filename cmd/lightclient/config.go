// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/ChainSafe/ibc-light-clients/config"
	"github.com/ChainSafe/ibc-light-clients/internal/log"
)

// createConfig loads the default configuration, the TOML configuration
// file if any, and applies the flag overrides.
func createConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	if path := stringFlag(ctx, ConfigFlag.Name); path != "" {
		logger.Debug("loading toml configuration from " + path + "...")
		err := cfg.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration file %s: %w", path, err)
		}
	}

	setGlobalConfig(ctx, &cfg.Global)

	if clientID := stringFlag(ctx, ClientIDFlag.Name); clientID != "" {
		cfg.Client.ID = clientID
	}

	err := cfg.ValidateBasic()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setGlobalConfig sets the global configuration from the flags.
func setGlobalConfig(ctx *cli.Context, cfg *config.GlobalConfig) {
	if basePath := stringFlag(ctx, BasePathFlag.Name); basePath != "" {
		cfg.BasePath = basePath
	}
	if level := stringFlag(ctx, LogFlag.Name); level != "" {
		cfg.LogLvl = level
	}
}

// stringFlag returns the value of the flag set on the command, falling
// back to the value set on the root command.
func stringFlag(ctx *cli.Context, name string) string {
	if value := ctx.String(name); value != "" {
		return value
	}
	return ctx.GlobalString(name)
}

// setupLogger patches the global logger with the configured options.
// Logs go to the standard error so that command output can be piped.
func setupLogger(cfg *config.Config) error {
	options, err := cfg.LogOptions()
	if err != nil {
		return err
	}
	log.Patch(append(options, log.SetWriter(os.Stderr))...)
	return nil
}
