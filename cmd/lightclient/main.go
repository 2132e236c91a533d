// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Command lightclient creates, updates and inspects IBC light clients of
// parachains finalized by a GRANDPA relay chain.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/ChainSafe/ibc-light-clients/internal/log"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// app is the cli application
var app = cli.NewApp()

func init() {
	app.Name = "lightclient"
	app.Usage = "IBC light client verification for GRANDPA parachains"
	app.Version = "0.1.0"
	app.Flags = GlobalFlags
	app.Commands = []cli.Command{
		initCommand,
		proveCommand,
		verifyCommand,
		statusCommand,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// commandContext returns a context canceled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func closeDatabase(db database.Database) {
	err := db.Close()
	if err != nil {
		logger.Errorf("closing database: %s", err)
	}
}
