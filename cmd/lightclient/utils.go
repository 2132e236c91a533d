// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/qdm12/gotree"

	"github.com/ChainSafe/ibc-light-clients/config"
	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/ChainSafe/ibc-light-clients/internal/database/badger"
	"github.com/ChainSafe/ibc-light-clients/internal/database/memory"
	"github.com/ChainSafe/ibc-light-clients/internal/database/pebble"
	"github.com/ChainSafe/ibc-light-clients/internal/metrics"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	grandpaclient "github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/utils"
)

// keeperTable is the database table prefix of the stored clients.
const keeperTable = "lightclient"

var errInvalidParaHeights = errors.New("invalid parachain heights")

// systemHost is the host of the command line client. It has no chain
// height of its own, so consensus states are recorded at height zero.
type systemHost struct{}

func (systemHost) Now() time.Time { return time.Now().UTC() }

func (systemHost) Height() exported.Height { return exported.Height{} }

// openDatabase opens the configured database backend.
func openDatabase(cfg *config.Config) (database.Database, error) {
	if cfg.Database.Backend == config.BackendMemory {
		return memory.New(), nil
	}

	dir, err := utils.EnsureDir(cfg.DatabaseDir())
	if err != nil {
		return nil, err
	}
	var db database.Database
	switch cfg.Database.Backend {
	case config.BackendPebble:
		db, err = pebble.New(dir)
	default:
		db, err = badger.New(badger.Settings{Path: &dir})
	}
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", dir, err)
	}
	logger.Debugf("opened %s database at %s", cfg.Database.Backend, dir)
	return db, nil
}

// openKeeper opens the database and returns a keeper recording its
// metrics in the registry. The returned database must be closed.
func openKeeper(cfg *config.Config, registry *prometheus.Registry) (
	*lightclient.Keeper, database.Database, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	var recorder lightclient.Metrics
	if registry != nil {
		recorder, err = metrics.NewPrometheus(registry)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return lightclient.NewKeeper(db.NewTable(keeperTable), systemHost{}, recorder), db, nil
}

// parseParaHeights parses a comma separated list of parachain block numbers.
func parseParaHeights(s string) (heights []uint32, err error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: no parachain height given", errInvalidParaHeights)
	}
	for _, field := range strings.Split(s, ",") {
		height, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errInvalidParaHeights, err)
		}
		heights = append(heights, uint32(height))
	}
	return heights, nil
}

// readProof reads a hex encoded proof from the file.
func readProof(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	proof, err := codec.HexDecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding proof file %s: %w", path, err)
	}
	return proof, nil
}

// writeProof writes the hex encoded proof to the file, or to the writer
// if no file is given.
func writeProof(w io.Writer, path string, proof []byte) error {
	encoded := codec.HexEncodeToString(proof) + "\n"
	if path == "" {
		_, err := io.WriteString(w, encoded)
		return err
	}
	return os.WriteFile(path, []byte(encoded), 0600)
}

func statusColor(status exported.Status) *color.Color {
	switch status {
	case exported.Active:
		return color.New(color.FgGreen)
	case exported.Expired:
		return color.New(color.FgYellow)
	case exported.Frozen:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

// printStatus writes the status and heights of the stored client.
func printStatus(w io.Writer, keeper *lightclient.Keeper, clientID string) error {
	clientState, err := keeper.ClientState(clientID)
	if err != nil {
		return err
	}
	status, err := keeper.Status(clientID)
	if err != nil {
		return err
	}

	tree := gotree.New("Client %s", clientID)
	tree.Appendf("Type: %s", clientState.ClientType())
	tree.Appendf("Status: %s", statusColor(status).Sprint(status))
	tree.Appendf("Latest height: %s", clientState.LatestHeight())
	if frozen := clientState.FrozenHeight(); !frozen.IsZero() {
		tree.Appendf("Frozen height: %s", frozen)
	}

	if grandpaState, ok := clientState.(grandpaclient.ClientState); ok {
		tree.Appendf("Relay chain: %s block %d (%s)", grandpaState.RelayChain,
			grandpaState.LatestRelayHeight, grandpaState.LatestRelayHash)
		tree.Appendf("Authority set: %d with %d authorities", grandpaState.CurrentSetID,
			len(grandpaState.CurrentAuthorities))
		tree.Appendf("Pending authority changes: %d", len(grandpaState.PendingChanges))
	}

	_, err = fmt.Fprintln(w, tree.String())
	return err
}
