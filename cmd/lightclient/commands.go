// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"

	"github.com/ChainSafe/ibc-light-clients/config"
	"github.com/ChainSafe/ibc-light-clients/internal/substrate"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	grandpaclient "github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

var (
	initCommand = cli.Command{
		Action:    FixFlagOrder(initAction),
		Name:      "init",
		Usage:     "Create a GRANDPA client trusting the finalized relay chain head",
		ArgsUsage: "",
		Flags:     InitFlags,
		Category:  "CLIENT",
		Description: "The init command reads the finalized relay chain head, its authority set and the\n" +
			"\tparachain head it includes, and stores a new client with them.\n" +
			"\tUsage: lightclient init --config config.toml --client-id 10-grandpa-0",
	}
	proveCommand = cli.Command{
		Action:    FixFlagOrder(proveAction),
		Name:      "prove",
		Usage:     "Generate a parachain headers with finality proof",
		ArgsUsage: "",
		Flags:     ProveFlags,
		Category:  "CLIENT",
		Description: "The prove command queries the relay chain finality proof from --from to --to\n" +
			"\tand the parachain headers at --para-heights, and writes them hex encoded.\n" +
			"\tUsage: lightclient prove --para-heights 5,6,7 --output proof.hex",
	}
	verifyCommand = cli.Command{
		Action:    FixFlagOrder(verifyAction),
		Name:      "verify",
		Usage:     "Update the stored client with a parachain headers with finality proof",
		ArgsUsage: "",
		Flags:     VerifyFlags,
		Category:  "CLIENT",
		Description: "The verify command verifies the proof against the stored client and\n" +
			"\tstores the resulting client and consensus states.\n" +
			"\tUsage: lightclient verify --proof proof.hex",
	}
	statusCommand = cli.Command{
		Action:    FixFlagOrder(statusAction),
		Name:      "status",
		Usage:     "Display the status of the stored client",
		ArgsUsage: "",
		Flags:     StatusFlags,
		Category:  "CLIENT",
		Description: "The status command displays the status and latest heights of the stored client.\n" +
			"\tUsage: lightclient status --client-id 10-grandpa-0",
	}
)

// dialChains connects to the configured relay chain and parachain nodes.
func dialChains(cfg *config.Config) (relay, para *substrate.Client, err error) {
	relayVersion, err := trie.ParseVersion(cfg.Relay.StateVersion)
	if err != nil {
		return nil, nil, err
	}
	paraVersion, err := trie.ParseVersion(cfg.Para.StateVersion)
	if err != nil {
		return nil, nil, err
	}

	relay, err = substrate.Dial(cfg.Relay.Endpoint, relayVersion)
	if err != nil {
		return nil, nil, fmt.Errorf("relay chain: %w", err)
	}
	para, err = substrate.Dial(cfg.Para.Endpoint, paraVersion)
	if err != nil {
		return nil, nil, fmt.Errorf("parachain: %w", err)
	}
	return relay, para, nil
}

// initAction is the action for the "init" subcommand
func initAction(ctx *cli.Context) error {
	cfg, err := createConfig(ctx)
	if err != nil {
		return err
	}
	err = setupLogger(cfg)
	if err != nil {
		return err
	}

	relayChain, err := grandpaclient.ParseRelayChain(cfg.Relay.Chain)
	if err != nil {
		return err
	}
	trustingPeriod, err := cfg.Client.TrustingPeriodDuration()
	if err != nil {
		return err
	}
	relay, para, err := dialChains(cfg)
	if err != nil {
		return err
	}

	keeper, db, err := openKeeper(cfg, nil)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	params := genesisParams{
		chainID:        cfg.Client.ChainID,
		relayChain:     relayChain,
		paraID:         cfg.Para.ID,
		trustingPeriod: trustingPeriod,
	}
	c, cancel := commandContext()
	defer cancel()
	clientState, err := createClient(c, keeper, cfg.Client.ID, relay, para, params)
	if err != nil {
		return err
	}

	logger.Infof("created client %s at parachain height %s trusting relay block %d",
		cfg.Client.ID, clientState.LatestHeight(), clientState.LatestRelayHeight)
	return nil
}

// createClient stores a new client built from the finalized chains.
func createClient(ctx context.Context, keeper *lightclient.Keeper, clientID string,
	relay GenesisRelayChain, para prover.Parachain, params genesisParams) (
	grandpaclient.ClientState, error) {
	clientState, consensusState, err := genesisStates(ctx, relay, para, params)
	if err != nil {
		return clientState, err
	}

	clientStateValue, err := lightclient.NewAny(clientState)
	if err != nil {
		return clientState, err
	}
	consensusStateValue, err := lightclient.NewAny(consensusState)
	if err != nil {
		return clientState, err
	}
	return clientState, keeper.CreateClient(ctx, clientID, clientStateValue, consensusStateValue)
}

// proveAction is the action for the "prove" subcommand
func proveAction(ctx *cli.Context) error {
	cfg, err := createConfig(ctx)
	if err != nil {
		return err
	}
	err = setupLogger(cfg)
	if err != nil {
		return err
	}

	paraHeights, err := parseParaHeights(ctx.String(ParaHeightsFlag.Name))
	if err != nil {
		return err
	}

	from := uint32(ctx.Uint(FromFlag.Name))
	if !ctx.IsSet(FromFlag.Name) {
		from, err = storedRelayHeight(cfg)
		if err != nil {
			return err
		}
	}

	relay, para, err := dialChains(cfg)
	if err != nil {
		return err
	}

	c, cancel := commandContext()
	defer cancel()
	proof, err := proveHeaders(c, relay, para, cfg.Para.ID,
		from, uint32(ctx.Uint(ToFlag.Name)), paraHeights)
	if err != nil {
		return err
	}
	return writeProof(ctx.App.Writer, ctx.String(OutputFlag.Name), proof)
}

// storedRelayHeight returns the latest relay chain height of the stored
// GRANDPA client.
func storedRelayHeight(cfg *config.Config) (uint32, error) {
	keeper, db, err := openKeeper(cfg, nil)
	if err != nil {
		return 0, err
	}
	defer closeDatabase(db)

	clientState, err := keeper.ClientState(cfg.Client.ID)
	if err != nil {
		return 0, err
	}
	grandpaState, ok := clientState.(grandpaclient.ClientState)
	if !ok {
		return 0, fmt.Errorf("%w: client %s is a %s client", exported.ErrInvalidClientType,
			cfg.Client.ID, clientState.ClientType())
	}
	return grandpaState.LatestRelayHeight, nil
}

// proveHeaders returns the encoded parachain headers with the finality
// proof of the relay chain from the block after from to the block to.
// A zero to proves up to the finalized head.
func proveHeaders(ctx context.Context, relay prover.RelayChain, para prover.Parachain,
	paraID, from, to uint32, paraHeights []uint32) ([]byte, error) {
	if to == 0 {
		head, err := relay.FinalizedHead(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting finalized head: %w", err)
		}
		header, err := relay.Header(ctx, head)
		if err != nil {
			return nil, fmt.Errorf("getting finalized header: %w", err)
		}
		to = uint32(header.Number)
	}

	p := prover.New(relay, para, paraID)
	proof, err := p.QueryParachainHeadersWithFinalityProof(ctx, from, to, paraHeights)
	if err != nil {
		return nil, err
	}
	encoded, err := grandpa.EncodeParachainHeadersWithFinalityProof(proof)
	if err != nil {
		return nil, fmt.Errorf("encoding proof: %w", err)
	}

	logger.Infof("proved relay blocks %d to %d with %d parachain headers up to parachain block %d",
		from, to, len(proof.ParachainHeaders), proof.LatestParaHeight)
	return encoded, nil
}

// verifyAction is the action for the "verify" subcommand
func verifyAction(ctx *cli.Context) error {
	cfg, err := createConfig(ctx)
	if err != nil {
		return err
	}
	err = setupLogger(cfg)
	if err != nil {
		return err
	}

	path := ctx.String(ProofFlag.Name)
	if path == "" {
		return fmt.Errorf("--%s is required", ProofFlag.Name)
	}
	proof, err := readProof(path)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	keeper, db, err := openKeeper(cfg, registry)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	c, cancel := commandContext()
	defer cancel()
	clientState, verifyErr := verifyProof(c, keeper, cfg.Client.ID, proof)

	if metricsFile := ctx.String(MetricsFileFlag.Name); metricsFile != "" {
		err = prometheus.WriteToTextfile(metricsFile, registry)
		if err != nil {
			logger.Errorf("writing metrics to %s: %s", metricsFile, err)
		}
	}

	if verifyErr != nil {
		return verifyErr
	}
	logger.Infof("client %s updated to height %s", cfg.Client.ID, clientState.LatestHeight())
	return nil
}

// verifyProof updates the stored client with the encoded parachain
// headers with finality proof.
func verifyProof(ctx context.Context, keeper *lightclient.Keeper, clientID string,
	encoded []byte) (exported.ClientState, error) {
	proof, err := grandpa.DecodeParachainHeadersWithFinalityProof(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding proof: %w", err)
	}

	clientState, err := keeper.ClientState(clientID)
	if err != nil {
		return nil, err
	}
	header, err := lightclient.NewAny(grandpaclient.Header{
		Proof:  proof,
		Height: exported.NewHeight(clientState.LatestHeight().RevisionNumber, uint64(proof.LatestParaHeight)),
	})
	if err != nil {
		return nil, err
	}
	return keeper.UpdateClient(ctx, clientID, header)
}

// statusAction is the action for the "status" subcommand
func statusAction(ctx *cli.Context) error {
	cfg, err := createConfig(ctx)
	if err != nil {
		return err
	}
	err = setupLogger(cfg)
	if err != nil {
		return err
	}

	keeper, db, err := openKeeper(cfg, nil)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	return printStatus(ctx.App.Writer, keeper, cfg.Client.ID)
}
