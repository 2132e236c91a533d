// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AuthorityChanges(t *testing.T) {
	t.Parallel()

	next := AuthorityList{
		{Key: AuthorityID{1}, Weight: 1},
		{Key: AuthorityID{2}, Weight: 1},
	}
	scheduled, err := NewScheduledChangeDigest(next, 5)
	require.NoError(t, err)

	forcedPayload, err := codec.Encode(ForcedChange{
		BestFinalizedBlockNumber: 7,
		Change:                   ScheduledChange{Authorities: next, Delay: 0},
	})
	require.NoError(t, err)
	forced := types.DigestItem{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: grandpaEngineID(),
			Bytes:             append([]byte{forcedChangeLog}, forcedPayload...),
		},
	}

	otherEngine := types.DigestItem{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: types.ConsensusEngineID(1),
			Bytes:             types.Bytes{scheduledChangeLog},
		},
	}

	paused := types.DigestItem{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: grandpaEngineID(),
			Bytes:             types.Bytes{pauseLog, 1, 0, 0, 0},
		},
	}

	header := types.Header{
		Number: 10,
		Digest: types.Digest{otherEngine, scheduled, paused, forced},
	}

	changes, err := AuthorityChanges(header)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, AuthorityChange{
		Authorities:  next,
		SignalNumber: 10,
		Delay:        5,
	}, changes[0])
	assert.Equal(t, uint64(15), changes[0].ActivationNumber())

	assert.True(t, changes[1].Forced)
	assert.Equal(t, uint64(10), changes[1].ActivationNumber())

	header.Digest = types.Digest{{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: grandpaEngineID(),
			Bytes:             types.Bytes{9},
		},
	}}
	_, err = AuthorityChanges(header)
	assert.ErrorIs(t, err, ErrInvalidConsensusLog)
}
