// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	grandpaclient "github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
)

var errParaHeadNotFound = errors.New("parachain head not found")

// genesisParams are the parameters of a new GRANDPA client.
type genesisParams struct {
	chainID        string
	relayChain     grandpaclient.RelayChain
	paraID         uint32
	trustingPeriod time.Duration
}

// genesisStates returns the client state trusting the finalized relay
// chain head, and the consensus state of the parachain block it includes.
func genesisStates(ctx context.Context, relay GenesisRelayChain, para prover.Parachain,
	params genesisParams) (clientState grandpaclient.ClientState,
	consensusState grandpaclient.ConsensusState, err error) {
	finalized, err := relay.FinalizedHead(ctx)
	if err != nil {
		return clientState, consensusState, fmt.Errorf("getting finalized head: %w", err)
	}
	relayHeader, err := relay.Header(ctx, finalized)
	if err != nil {
		return clientState, consensusState, fmt.Errorf("getting relay header %s: %w", finalized, err)
	}
	authorities, setID, err := relay.GrandpaAuthorities(ctx, finalized)
	if err != nil {
		return clientState, consensusState, fmt.Errorf("getting authorities at %s: %w", finalized, err)
	}

	value, err := relay.Storage(ctx, grandpa.ParaHeadStorageKey(params.paraID), finalized)
	if err != nil {
		return clientState, consensusState, fmt.Errorf("getting parachain head: %w", err)
	}
	if value == nil {
		return clientState, consensusState, fmt.Errorf("%w: parachain %d at relay block %d",
			errParaHeadNotFound, params.paraID, relayHeader.Number)
	}
	paraHeader, err := grandpa.DecodeParaHead(value)
	if err != nil {
		return clientState, consensusState, err
	}
	paraHash, err := grandpa.HeaderHash(paraHeader)
	if err != nil {
		return clientState, consensusState, err
	}

	extrinsic, _, err := para.TimestampExtrinsicWithProof(ctx, paraHash)
	if err != nil {
		return clientState, consensusState, fmt.Errorf("getting timestamp of parachain block %d: %w",
			paraHeader.Number, err)
	}
	timestampNs, err := grandpa.DecodeTimestampExtrinsic(extrinsic)
	if err != nil {
		return clientState, consensusState, err
	}

	clientState = grandpaclient.ClientState{
		ChainID:            params.chainID,
		RelayChain:         params.relayChain,
		ParaID:             params.paraID,
		LatestRelayHash:    finalized,
		LatestRelayHeight:  uint32(relayHeader.Number),
		LatestParaHeight:   uint32(paraHeader.Number),
		CurrentSetID:       setID,
		CurrentAuthorities: authorities,
		TrustingPeriodNs:   uint64(params.trustingPeriod),
	}
	consensusState = grandpaclient.ConsensusState{
		TimestampNs: timestampNs,
		StateRoot:   common.Hash(paraHeader.StateRoot),
	}

	logger.Debugf("genesis at relay block %d (%s) with parachain block %d and authority set %d",
		relayHeader.Number, finalized, paraHeader.Number, setID)
	return clientState, consensusState, nil
}
