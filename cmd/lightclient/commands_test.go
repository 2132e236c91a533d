// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/config"
	"github.com/ChainSafe/ibc-light-clients/internal/substrate/simulated"
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	grandpaclient "github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
)

const (
	testParaID   = 2000
	testClientID = "10-grandpa-0"
)

// newTestNetwork creates a network whose relay blocks 4 to 11 include
// parachain blocks 1 to 8, with relay block 10 finalized.
func newTestNetwork(t *testing.T) *simulated.Network {
	t.Helper()

	network, err := simulated.NewNetwork(testParaID, 4)
	require.NoError(t, err)
	require.NoError(t, network.AddRelayBlocks(3, false))
	require.NoError(t, network.AddRelayBlocks(8, true))
	require.NoError(t, network.Finalize(10, 3))
	return network
}

func testGenesisParams(trustingPeriod time.Duration) genesisParams {
	return genesisParams{
		chainID:        "parachain-testnet",
		relayChain:     grandpaclient.Rococo,
		paraID:         testParaID,
		trustingPeriod: trustingPeriod,
	}
}

func newMemoryKeeper(t *testing.T) *lightclient.Keeper {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Backend = config.BackendMemory
	keeper, db, err := openKeeper(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return keeper
}

func Test_genesisStates(t *testing.T) {
	t.Parallel()

	network := newTestNetwork(t)
	_, hash, err := network.RelayHeader(10)
	require.NoError(t, err)
	authorities, setID := network.Authorities(10)

	clientState, consensusState, err := genesisStates(context.Background(),
		network, network, testGenesisParams(time.Hour))
	require.NoError(t, err)

	expectedClientState := grandpaclient.ClientState{
		ChainID:            "parachain-testnet",
		RelayChain:         grandpaclient.Rococo,
		ParaID:             testParaID,
		LatestRelayHash:    hash,
		LatestRelayHeight:  10,
		LatestParaHeight:   7,
		CurrentSetID:       setID,
		CurrentAuthorities: authorities,
		TrustingPeriodNs:   uint64(time.Hour),
	}
	assert.Equal(t, expectedClientState, clientState)

	expectedConsensusState := grandpaclient.ConsensusState{
		TimestampNs: simulated.ParaTimestampNs(7),
		StateRoot:   common.MustBlake2bHash([]byte{7, 0}),
	}
	assert.Equal(t, expectedConsensusState, consensusState)
}

func Test_genesisStates_unknownParachain(t *testing.T) {
	t.Parallel()

	network := newTestNetwork(t)
	params := testGenesisParams(time.Hour)
	params.paraID = testParaID + 1

	_, _, err := genesisStates(context.Background(), network, network, params)
	assert.ErrorIs(t, err, errParaHeadNotFound)
}

func Test_createClient_proveHeaders_verifyProof(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	network := newTestNetwork(t)
	keeper := newMemoryKeeper(t)

	// the consensus states are from 2020, trust them for long enough
	const trustingPeriod = 100 * 365 * 24 * time.Hour
	clientState, err := createClient(ctx, keeper, testClientID, network, network,
		testGenesisParams(trustingPeriod))
	require.NoError(t, err)
	assert.Equal(t, uint32(10), clientState.LatestRelayHeight)

	status, err := keeper.Status(testClientID)
	require.NoError(t, err)
	assert.Equal(t, exported.Active, status)

	require.NoError(t, network.AddRelayBlocks(3, true))
	require.NoError(t, network.Finalize(14, 3))

	proof, err := proveHeaders(ctx, network, network, testParaID, 10, 0, []uint32{8, 9, 10, 11})
	require.NoError(t, err)

	updated, err := verifyProof(ctx, keeper, testClientID, proof)
	require.NoError(t, err)
	assert.Equal(t, exported.NewHeight(testParaID, 11), updated.LatestHeight())
	grandpaState, ok := updated.(grandpaclient.ClientState)
	require.True(t, ok)
	assert.Equal(t, uint32(14), grandpaState.LatestRelayHeight)

	consensusState, err := keeper.ConsensusState(testClientID, exported.NewHeight(testParaID, 9))
	require.NoError(t, err)
	assert.Equal(t, simulated.ParaTimestampNs(9), uint64(consensusState.Timestamp().UnixNano()))

	_, err = verifyProof(ctx, keeper, testClientID, proof)
	assert.ErrorIs(t, err, exported.ErrInvalidHeader)

	_, err = verifyProof(ctx, keeper, testClientID, []byte{1, 2, 3})
	assert.Error(t, err)

	buffer := bytes.NewBuffer(nil)
	err = printStatus(buffer, keeper, testClientID)
	require.NoError(t, err)
	output := buffer.String()
	assert.Contains(t, output, "Client "+testClientID)
	assert.Contains(t, output, "Type: 10-grandpa")
	assert.Contains(t, output, "Active")
	assert.Contains(t, output, "Latest height: 2000-11")
	assert.Contains(t, output, "Relay chain: rococo block 14")
	assert.NotContains(t, output, "Frozen height")
}

func Test_createClient_exists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	network := newTestNetwork(t)
	keeper := newMemoryKeeper(t)

	_, err := createClient(ctx, keeper, testClientID, network, network, testGenesisParams(time.Hour))
	require.NoError(t, err)

	_, err = createClient(ctx, keeper, testClientID, network, network, testGenesisParams(time.Hour))
	assert.ErrorIs(t, err, lightclient.ErrClientExists)
}

func Test_printStatus_unknownClient(t *testing.T) {
	t.Parallel()

	keeper := newMemoryKeeper(t)
	err := printStatus(bytes.NewBuffer(nil), keeper, testClientID)
	assert.Error(t, err)
}

func Test_parseParaHeights(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          string
		heights    []uint32
		errWrapped error
	}{
		"empty": {
			errWrapped: errInvalidParaHeights,
		},
		"single": {
			s:       "5",
			heights: []uint32{5},
		},
		"list_with_spaces": {
			s:       "5, 6 ,7",
			heights: []uint32{5, 6, 7},
		},
		"not_a_number": {
			s:          "5,six",
			errWrapped: errInvalidParaHeights,
		},
		"overflow": {
			s:          "4294967296",
			errWrapped: errInvalidParaHeights,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			heights, err := parseParaHeights(testCase.s)
			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.heights, heights)
		})
	}
}

func Test_writeProof_readProof(t *testing.T) {
	t.Parallel()

	proof := []byte{0xde, 0xad, 0xbe, 0xef}

	buffer := bytes.NewBuffer(nil)
	err := writeProof(buffer, "", proof)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef\n", buffer.String())

	path := filepath.Join(t.TempDir(), "proof.hex")
	err = writeProof(nil, path, proof)
	require.NoError(t, err)

	read, err := readProof(path)
	require.NoError(t, err)
	assert.Equal(t, proof, read)

	_, err = readProof(filepath.Join(t.TempDir(), "missing.hex"))
	assert.Error(t, err)
}
