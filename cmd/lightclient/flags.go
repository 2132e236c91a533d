// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/urfave/cli"
)

// Global flags
var (
	// ConfigFlag TOML configuration file
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	// LogFlag cli service settings
	LogFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Global log level. Supports levels crit (silent), eror, warn, info, dbug and trce (trace)",
	}
	// BasePathFlag data directory of the client store
	BasePathFlag = cli.StringFlag{
		Name:  "basepath",
		Usage: "Data directory of the client store",
	}
	// ClientIDFlag identifier of the stored client
	ClientIDFlag = cli.StringFlag{
		Name:  "client-id",
		Usage: "Identifier of the stored client, eg. --client-id=10-grandpa-0",
	}
)

// Proof flags
var (
	// FromFlag previous finalized relay chain block
	FromFlag = cli.UintFlag{
		Name:  "from",
		Usage: "Relay chain block already finalized by the client, defaults to the latest relay block of the stored client",
	}
	// ToFlag relay chain block to prove
	ToFlag = cli.UintFlag{
		Name:  "to",
		Usage: "Relay chain block to prove the finality of, defaults to the finalized head",
	}
	// ParaHeightsFlag parachain blocks to include in the proof
	ParaHeightsFlag = cli.StringFlag{
		Name:  "para-heights",
		Usage: "Parachain block numbers to include in the proof. eg. --para-heights=5,6,7",
	}
	// ProofFlag file holding a hex encoded proof
	ProofFlag = cli.StringFlag{
		Name:  "proof",
		Usage: "File holding the hex encoded parachain headers with finality proof",
	}
	// OutputFlag file to write the proof to
	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "File to write the hex encoded proof to, defaults to the standard output",
	}
	// MetricsFileFlag file to write the client metrics to
	MetricsFileFlag = cli.StringFlag{
		Name:  "metrics-file",
		Usage: "File to write the client metrics to, in the Prometheus text format",
	}
)

// flag sets that are shared by multiple commands
var (
	// GlobalFlags are flags that are valid for use with the root command and all subcommands
	GlobalFlags = []cli.Flag{
		LogFlag,
		ConfigFlag,
		BasePathFlag,
	}

	// InitFlags are flags that are valid for use with the init subcommand
	InitFlags = append([]cli.Flag{ClientIDFlag}, GlobalFlags...)

	// ProveFlags are flags that are valid for use with the prove subcommand
	ProveFlags = append([]cli.Flag{
		ClientIDFlag,
		FromFlag,
		ToFlag,
		ParaHeightsFlag,
		OutputFlag,
	}, GlobalFlags...)

	// VerifyFlags are flags that are valid for use with the verify subcommand
	VerifyFlags = append([]cli.Flag{
		ClientIDFlag,
		ProofFlag,
		MetricsFileFlag,
	}, GlobalFlags...)

	// StatusFlags are flags that are valid for use with the status subcommand
	StatusFlags = append([]cli.Flag{ClientIDFlag}, GlobalFlags...)
)

// FixFlagOrder allows us to use various flag order formats (ie, `lightclient status
// --config config.toml` and `lightclient --config config.toml status`). FixFlagOrder
// checks the action context for any global flags set as local flags, in which case
// it sets them as global flags.
func FixFlagOrder(f func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, flagName := range ctx.FlagNames() {
			if ctx.GlobalIsSet(flagName) || !ctx.IsSet(flagName) {
				continue
			}
			err := ctx.GlobalSet(flagName, ctx.String(flagName))
			if err == nil {
				logger.Trace("global flag fixed with name: " + flagName)
			}
		}
		return f(ctx)
	}
}
