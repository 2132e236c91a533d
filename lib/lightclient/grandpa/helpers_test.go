// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/internal/substrate/simulated"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

const testParaID = 2000

// newTestNetwork creates a network whose relay blocks 4 to 11 include
// parachain blocks 1 to 8, with relay block 10 finalized.
func newTestNetwork(t *testing.T, paraID uint32, signers int) *simulated.Network {
	t.Helper()

	network, err := simulated.NewNetwork(paraID, 4)
	require.NoError(t, err)
	require.NoError(t, network.AddRelayBlocks(3, false))
	require.NoError(t, network.AddRelayBlocks(8, true))
	require.NoError(t, network.Finalize(10, signers))
	return network
}

// newTestClientState returns a client trusting the relay block number.
func newTestClientState(t *testing.T, network *simulated.Network, relayNumber uint32) ClientState {
	t.Helper()

	_, hash, err := network.RelayHeader(relayNumber)
	require.NoError(t, err)
	authorities, setID := network.Authorities(relayNumber)

	return ClientState{
		ChainID:            "parachain-testnet",
		RelayChain:         Rococo,
		ParaID:             network.ParaID(),
		LatestRelayHash:    hash,
		LatestRelayHeight:  relayNumber,
		CurrentSetID:       setID,
		CurrentAuthorities: authorities,
		TrustingPeriodNs:   uint64(time.Hour),
	}
}

func queryHeader(t *testing.T, network *simulated.Network, previous, latest uint32,
	paraHeights ...uint32) Header {
	t.Helper()

	p := prover.New(network, network, network.ParaID())
	proof, err := p.QueryParachainHeadersWithFinalityProof(context.Background(),
		previous, latest, paraHeights)
	require.NoError(t, err)

	return Header{
		Proof:  proof,
		Height: exported.NewHeight(uint64(network.ParaID()), uint64(proof.LatestParaHeight)),
	}
}

type testHost struct {
	now time.Time
}

func (h testHost) Now() time.Time { return h.now }

func (testHost) Height() exported.Height { return exported.NewHeight(0, 1) }

// testStore is an in memory client store.
type testStore map[exported.Height]exported.ConsensusState

var _ exported.ClientStore = testStore{}

func (s testStore) ConsensusState(height exported.Height) (exported.ConsensusState, error) {
	state, ok := s[height]
	if !ok {
		return nil, fmt.Errorf("%w: %s", exported.ErrConsensusStateNotFound, height)
	}
	return state, nil
}

func (s testStore) sortedHeights() []exported.Height {
	heights := make([]exported.Height, 0, len(s))
	for height := range s {
		heights = append(heights, height)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i].LT(heights[j]) })
	return heights
}

func (s testStore) PreviousConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	heights := s.sortedHeights()
	for i := len(heights) - 1; i >= 0; i-- {
		if heights[i].LT(height) {
			return heights[i], s[heights[i]], nil
		}
	}
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}

func (s testStore) NextConsensusState(height exported.Height) (
	exported.Height, exported.ConsensusState, error) {
	for _, h := range s.sortedHeights() {
		if h.GT(height) {
			return h, s[h], nil
		}
	}
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}
