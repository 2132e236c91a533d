// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package lightclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/internal/database/memory"
	"github.com/ChainSafe/ibc-light-clients/internal/substrate/simulated"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	libgrandpa "github.com/ChainSafe/ibc-light-clients/lib/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/grandpa/prover"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
)

const testParaID = 2000

// testHost is a host whose time can be advanced.
type testHost struct {
	mutex sync.Mutex
	now   time.Time
}

func (h *testHost) Now() time.Time {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.now
}

func (*testHost) Height() exported.Height { return exported.NewHeight(0, 42) }

func (h *testHost) advance(duration time.Duration) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.now = h.now.Add(duration)
}

// newTestNetwork creates a network whose relay blocks 4 to 11 include
// parachain blocks 1 to 8, with relay block 10 finalized.
func newTestNetwork(t *testing.T, paraID uint32) *simulated.Network {
	t.Helper()

	network, err := simulated.NewNetwork(paraID, 4)
	require.NoError(t, err)
	require.NoError(t, network.AddRelayBlocks(3, false))
	require.NoError(t, network.AddRelayBlocks(8, true))
	require.NoError(t, network.Finalize(10, 3))
	return network
}

// grandpaGenesis returns a client trusting relay block 4 which includes
// parachain block 1, with its consensus state.
func grandpaGenesis(t *testing.T, network *simulated.Network) (clientState, consensusState Any) {
	t.Helper()

	_, hash, err := network.RelayHeader(4)
	require.NoError(t, err)
	authorities, setID := network.Authorities(4)

	clientState, err = NewAny(grandpa.ClientState{
		ChainID:            "parachain-testnet",
		RelayChain:         grandpa.Rococo,
		ParaID:             network.ParaID(),
		LatestRelayHash:    hash,
		LatestRelayHeight:  4,
		LatestParaHeight:   1,
		CurrentSetID:       setID,
		CurrentAuthorities: authorities,
		TrustingPeriodNs:   uint64(time.Hour),
	})
	require.NoError(t, err)

	consensusState, err = NewAny(grandpa.ConsensusState{
		TimestampNs: simulated.ParaTimestampNs(1),
		StateRoot:   common.MustBlake2bHash([]byte{1, 0}),
	})
	require.NoError(t, err)
	return clientState, consensusState
}

func grandpaHeader(t *testing.T, network *simulated.Network, previous, latest uint32,
	paraHeights ...uint32) Any {
	t.Helper()

	p := prover.New(network, network, network.ParaID())
	proof, err := p.QueryParachainHeadersWithFinalityProof(context.Background(),
		previous, latest, paraHeights)
	require.NoError(t, err)

	header, err := NewAny(grandpa.Header{
		Proof:  proof,
		Height: exported.NewHeight(uint64(network.ParaID()), uint64(proof.LatestParaHeight)),
	})
	require.NoError(t, err)
	return header
}

func grandpaMisbehaviour(t *testing.T, network, fork *simulated.Network, number uint32) Any {
	t.Helper()

	finalityProof := func(network *simulated.Network) libgrandpa.FinalityProof {
		p := prover.New(network, network, network.ParaID())
		proof, err := p.QueryParachainHeadersWithFinalityProof(context.Background(),
			number-1, number, nil)
		require.NoError(t, err)
		return proof.FinalityProof
	}

	misbehaviour, err := NewAny(grandpa.Misbehaviour{
		First:  finalityProof(network),
		Second: finalityProof(fork),
	})
	require.NoError(t, err)
	return misbehaviour
}

func newTestKeeper(t *testing.T, metrics Metrics) (*Keeper, *testHost) {
	t.Helper()

	host := &testHost{now: time.Unix(0, int64(simulated.ParaTimestampNs(8))).UTC()}
	return NewKeeper(memory.New(), host, metrics), host
}
