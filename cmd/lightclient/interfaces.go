// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"context"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
)

// GenesisRelayChain is the relay chain collaborator of the client
// bootstrap and of the proof generation.
type GenesisRelayChain interface {
	prover.RelayChain
	// Storage returns the storage value at the block, or nil if unset.
	Storage(ctx context.Context, key []byte, at common.Hash) ([]byte, error)
	// GrandpaAuthorities returns the authority set finalizing the blocks
	// after the given block.
	GrandpaAuthorities(ctx context.Context, at common.Hash) (grandpa.AuthorityList, uint64, error)
}
