// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package prover_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/internal/substrate/simulated"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

func newTestNetwork(t *testing.T, signers int) *simulated.Network {
	t.Helper()

	network, err := simulated.NewNetwork(2000, 4)
	require.NoError(t, err)
	require.NoError(t, network.AddRelayBlocks(3, false))
	require.NoError(t, network.AddRelayBlocks(8, true))
	require.NoError(t, network.Finalize(10, signers))
	return network
}

func Test_Prover_network(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	network := newTestNetwork(t, 3)
	p := prover.New(network, network, network.ParaID())

	result, err := p.QueryParachainHeadersWithFinalityProof(ctx, 1, 10, []uint32{0, 2, 5, 7, 40})
	require.NoError(t, err)

	assert.Equal(t, uint32(7), result.LatestParaHeight)
	require.Len(t, result.ParachainHeaders, 3)

	authorities, setID := network.Authorities(10)
	set, err := grandpa.NewAuthoritySet(authorities, setID)
	require.NoError(t, err)

	_, finalizedHash, err := network.RelayHeader(10)
	require.NoError(t, err)
	assert.Equal(t, finalizedHash, result.FinalityProof.Block)
	_, err = grandpa.DecodeAndVerifyJustification(result.FinalityProof.Justification,
		finalizedHash, set)
	require.NoError(t, err)

	require.Len(t, result.FinalityProof.UnknownHeaders, 10)
	assert.EqualValues(t, 1, result.FinalityProof.UnknownHeaders[0].Number)

	key := grandpa.ParaHeadStorageKey(network.ParaID())
	seen := make(map[uint32]bool)
	for relayHash, proofs := range result.ParachainHeaders {
		relayHeader, err := network.Header(ctx, relayHash)
		require.NoError(t, err)

		value, err := trie.VerifyProof(proofs.StateProof, common.Hash(relayHeader.StateRoot), key)
		require.NoError(t, err)
		paraHeader, err := grandpa.DecodeParaHead(value)
		require.NoError(t, err)
		number := uint32(paraHeader.Number)
		seen[number] = true

		extrinsicKey, err := trie.OrderedKey(0)
		require.NoError(t, err)
		err = trie.Verify(proofs.ExtrinsicProof, paraHeader.ExtrinsicsRoot[:],
			extrinsicKey, proofs.Extrinsic)
		require.NoError(t, err)

		timestamp, err := grandpa.DecodeTimestampExtrinsic(proofs.Extrinsic)
		require.NoError(t, err)
		assert.Equal(t, simulated.ParaTimestampNs(number), timestamp)
	}
	assert.Equal(t, map[uint32]bool{2: true, 5: true, 7: true}, seen)
}

func Test_Prover_network_insufficientSignatures(t *testing.T) {
	t.Parallel()

	network := newTestNetwork(t, 2)
	p := prover.New(network, network, network.ParaID())

	proof, err := p.QueryFinalityProof(context.Background(), 1, 10, nil)
	require.NoError(t, err)

	authorities, setID := network.Authorities(10)
	set, err := grandpa.NewAuthoritySet(authorities, setID)
	require.NoError(t, err)

	_, err = grandpa.DecodeAndVerifyJustification(proof.Justification, proof.Block, set)
	assert.ErrorIs(t, err, grandpa.ErrQuorumNotReached)
}
