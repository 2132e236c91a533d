// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package tendermint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/commitment"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
)

func Test_ClientState_UpdateState(t *testing.T) {
	t.Parallel()

	validators := newTestValidators(t, 4)
	nextValidators := newTestValidators(t, 4)
	host := testHost{now: genesisTime.Add(time.Hour)}
	store := testStore{
		exported.NewHeight(1, 5): trustedConsensusState(validators, genesisTime),
	}
	clientState := newTestClientState(5)
	require.NoError(t, clientState.Validate())

	testCases := map[string]struct {
		header   Header
		expected exported.ConsensusUpdate
	}{
		"adjacent": {
			header: validators.header(t, 6, genesisTime.Add(time.Minute), []byte("app hash 6"),
				validators, 5, validators),
			expected: exported.ConsensusUpdate{
				Height: exported.NewHeight(1, 6),
				State: ConsensusState{
					TimestampNs:        uint64(genesisTime.Add(time.Minute).UnixNano()),
					AppHash:            []byte("app hash 6"),
					NextValidatorsHash: validators.set.Hash(),
				},
			},
		},
		"non_adjacent_with_validator_change": {
			header: validators.header(t, 20, genesisTime.Add(10*time.Minute), []byte("app hash 20"),
				nextValidators, 5, validators),
			expected: exported.ConsensusUpdate{
				Height: exported.NewHeight(1, 20),
				State: ConsensusState{
					TimestampNs:        uint64(genesisTime.Add(10 * time.Minute).UnixNano()),
					AppHash:            []byte("app hash 20"),
					NextValidatorsHash: nextValidators.set.Hash(),
				},
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := clientState.VerifyClientMessage(host, store, testCase.header)
			require.NoError(t, err)

			misbehaving, err := clientState.CheckForMisbehaviour(host, store, testCase.header)
			require.NoError(t, err)
			assert.False(t, misbehaving)

			updated, updates, err := clientState.UpdateState(host, store, testCase.header)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected.Height, updated.LatestHeight())
			require.Len(t, updates, 1)
			assert.Equal(t, testCase.expected, updates[0])
			assert.Equal(t, exported.NewHeight(1, 5), clientState.LatestHeight())
		})
	}

	t.Run("already_stored", func(t *testing.T) {
		t.Parallel()

		header := testCases["adjacent"].header
		stored := testStore{
			exported.NewHeight(1, 5): store[exported.NewHeight(1, 5)],
			exported.NewHeight(1, 6): testCases["adjacent"].expected.State,
		}
		updated, updates, err := clientState.UpdateState(host, stored, header)
		require.NoError(t, err)
		assert.Empty(t, updates)
		assert.Equal(t, clientState.LatestHeight(), updated.LatestHeight())
	})

	t.Run("below_latest", func(t *testing.T) {
		t.Parallel()

		header := testCases["adjacent"].header
		_, updates, err := newTestClientState(20).UpdateState(host, store, header)
		assert.ErrorIs(t, err, exported.ErrHeightNotMonotonic)
		assert.Empty(t, updates)
	})
}

func Test_ClientState_VerifyClientMessage(t *testing.T) {
	t.Parallel()

	validators := newTestValidators(t, 4)
	otherValidators := newTestValidators(t, 4)
	trusted := trustedConsensusState(validators, genesisTime)
	minute := genesisTime.Add(time.Minute)

	testCases := map[string]struct {
		clientState ClientState
		header      Header
		store       testStore
		now         time.Time
		errs        []error
	}{
		"frozen": {
			clientState: newTestClientState(5).Freeze(exported.NewHeight(0, 1)).(ClientState),
			header:      validators.header(t, 6, minute, []byte("app"), validators, 5, validators),
			errs:        []error{exported.ErrClientFrozen},
		},
		"chain_id_mismatch": {
			clientState: func() ClientState {
				clientState := newTestClientState(5)
				clientState.ChainID = "otherchain-1"
				return clientState
			}(),
			header: validators.header(t, 6, minute, []byte("app"), validators, 5, validators),
			errs:   []error{exported.ErrInvalidHeader, ErrChainIDMismatch},
		},
		"trusted_consensus_state_missing": {
			header: validators.header(t, 6, minute, []byte("app"), validators, 5, validators),
			store:  testStore{},
			errs:   []error{exported.ErrConsensusStateNotFound},
		},
		"height_not_above_trusted": {
			header: validators.header(t, 5, minute, []byte("app"), validators, 5, validators),
			errs:   []error{exported.ErrHeightNotMonotonic},
		},
		"height_not_above_latest": {
			clientState: newTestClientState(20),
			header:      validators.header(t, 6, minute, []byte("app"), validators, 5, validators),
			errs:        []error{exported.ErrHeightNotMonotonic},
		},
		"trusted_validators_mismatch": {
			header: validators.header(t, 6, minute, []byte("app"), validators, 5, otherValidators),
			errs:   []error{exported.ErrInvalidHeader, ErrValidatorHashMismatch},
		},
		"insufficient_signatures": {
			header: func() Header {
				signedHeader := validators.signedHeader(t, 6, minute, []byte("app"), validators, 2)
				header, err := NewHeader(signedHeader, validators.set, exported.NewHeight(1, 5), validators.set)
				require.NoError(t, err)
				return header
			}(),
			errs: []error{exported.ErrInvalidHeader},
		},
		"untrusted_validators": {
			header: otherValidators.header(t, 20, minute, []byte("app"), otherValidators, 5, validators),
			errs:   []error{exported.ErrInvalidHeader},
		},
		"trusting_period_expired": {
			header: validators.header(t, 20, minute, []byte("app"), validators, 5, validators),
			now:    genesisTime.Add(15 * 24 * time.Hour),
			errs:   []error{exported.ErrInvalidHeader},
		},
		"header_in_future": {
			header: validators.header(t, 6, genesisTime.Add(2*time.Hour), []byte("app"), validators, 5, validators),
			errs:   []error{exported.ErrInvalidHeader},
		},
		"time_not_after_trusted": {
			header: validators.header(t, 6, genesisTime, []byte("app"), validators, 5, validators),
			errs:   []error{exported.ErrInvalidHeader},
		},
		"undecodable_signed_header": {
			header: Header{SignedHeader: []byte{0xff}, TrustedHeight: exported.NewHeight(1, 5)},
			errs:   []error{exported.ErrInvalidHeader, ErrDecodeProto},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clientState := testCase.clientState
			if clientState.ChainID == "" {
				clientState = newTestClientState(5)
			}
			store := testCase.store
			if store == nil {
				store = testStore{exported.NewHeight(1, 5): trusted}
			}
			now := testCase.now
			if now.IsZero() {
				now = genesisTime.Add(time.Hour)
			}

			err := clientState.VerifyClientMessage(testHost{now: now}, store, testCase.header)
			for _, expected := range testCase.errs {
				assert.ErrorIs(t, err, expected)
			}
		})
	}
}

func Test_ClientState_Misbehaviour(t *testing.T) {
	t.Parallel()

	validators := newTestValidators(t, 4)
	clientState := newTestClientState(5)
	host := testHost{now: genesisTime.Add(time.Hour)}
	store := testStore{
		exported.NewHeight(1, 5): trustedConsensusState(validators, genesisTime),
	}
	header := func(height int64, minutes time.Duration, appHash string) Header {
		return validators.header(t, height, genesisTime.Add(minutes*time.Minute), []byte(appHash),
			validators, 5, validators)
	}

	testCases := map[string]struct {
		misbehaviour Misbehaviour
		valid        bool
	}{
		"fork": {
			misbehaviour: Misbehaviour{Header1: header(6, 1, "a"), Header2: header(6, 1, "b")},
			valid:        true,
		},
		"time_violation": {
			misbehaviour: Misbehaviour{Header1: header(8, 1, "a"), Header2: header(6, 2, "b")},
			valid:        true,
		},
		"same_block": {
			misbehaviour: Misbehaviour{Header1: header(6, 1, "a"), Header2: header(6, 1, "a")},
		},
		"monotonic_time": {
			misbehaviour: Misbehaviour{Header1: header(8, 3, "a"), Header2: header(6, 2, "b")},
		},
		"first_header_lower": {
			misbehaviour: Misbehaviour{Header1: header(6, 1, "a"), Header2: header(8, 3, "b")},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := clientState.VerifyClientMessage(host, store, testCase.misbehaviour)
			if !testCase.valid {
				assert.ErrorIs(t, err, exported.ErrInvalidMisbehaviour)
				return
			}
			require.NoError(t, err)

			misbehaving, err := clientState.CheckForMisbehaviour(host, store, testCase.misbehaviour)
			require.NoError(t, err)
			assert.True(t, misbehaving)
		})
	}

	t.Run("conflicting_header", func(t *testing.T) {
		t.Parallel()

		conflicting := testStore{
			exported.NewHeight(1, 5): store[exported.NewHeight(1, 5)],
			exported.NewHeight(1, 6): ConsensusState{
				TimestampNs:        uint64(genesisTime.Add(time.Minute).UnixNano()),
				AppHash:            []byte("b"),
				NextValidatorsHash: validators.set.Hash(),
			},
		}
		misbehaving, err := clientState.CheckForMisbehaviour(host, conflicting, header(6, 1, "a"))
		require.NoError(t, err)
		assert.True(t, misbehaving)
	})
}

func Test_ClientState_Validate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		mutate func(*ClientState)
		err    error
	}{
		"valid": {
			mutate: func(*ClientState) {},
		},
		"empty_chain_id": {
			mutate: func(c *ClientState) { c.ChainID = " " },
			err:    exported.ErrInvalidClientState,
		},
		"trusting_period_above_unbonding": {
			mutate: func(c *ClientState) { c.TrustingPeriodNs = c.UnbondingPeriodNs },
			err:    ErrTrustingPeriod,
		},
		"trust_level_below_one_third": {
			mutate: func(c *ClientState) { c.TrustLevel = TrustLevel{Numerator: 1, Denominator: 4} },
			err:    ErrInvalidTrustLevel,
		},
		"revision_mismatch": {
			mutate: func(c *ClientState) { c.Latest = exported.NewHeight(2, 5) },
			err:    ErrRevisionMismatch,
		},
		"no_proof_specs": {
			mutate: func(c *ClientState) { c.ProofSpecs = nil },
			err:    exported.ErrInvalidClientState,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clientState := newTestClientState(5)
			testCase.mutate(&clientState)
			err := clientState.Validate()
			if testCase.err == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, testCase.err)
		})
	}
}

func Test_ParseChainID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(1), ParseChainID("testchain-1"))
	assert.Equal(t, uint64(42), ParseChainID("cosmoshub-42"))
	assert.Equal(t, uint64(0), ParseChainID("testchain"))
	assert.Equal(t, uint64(0), ParseChainID("testchain-01"))
}

func Test_ClientState_VerifyUpgrade(t *testing.T) {
	t.Parallel()

	clientState := newTestClientState(5)
	consensus := ConsensusState{TimestampNs: 1, AppHash: []byte("app")}

	err := clientState.VerifyUpgrade(newTestClientState(6), consensus)
	require.NoError(t, err)

	err = clientState.VerifyUpgrade(newTestClientState(5), consensus)
	assert.ErrorIs(t, err, exported.ErrInvalidUpgrade)

	frozen := clientState.Freeze(exported.NewHeight(0, 1))
	err = frozen.VerifyMembership(consensus, nil, commitment.NewMerklePath("ibc", "key"), []byte("value"))
	assert.ErrorIs(t, err, exported.ErrClientFrozen)
}

func Test_ClientState_codec(t *testing.T) {
	t.Parallel()

	validators := newTestValidators(t, 4)
	clientState := newTestClientState(5)

	encoded, err := Encode(clientState)
	require.NoError(t, err)
	decoded, err := DecodeClientState(encoded)
	require.NoError(t, err)
	assert.Equal(t, clientState, decoded)

	header := validators.header(t, 6, genesisTime.Add(time.Minute), []byte("app"), validators, 5, validators)
	encoded, err = Encode(Misbehaviour{Header1: header, Header2: header})
	require.NoError(t, err)
	misbehaviour, err := DecodeMisbehaviour(encoded)
	require.NoError(t, err)
	assert.Equal(t, header, misbehaviour.Header1)
}
