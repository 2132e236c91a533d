// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package lightclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/wasm"
)

func Test_UnmarshalAny(t *testing.T) {
	t.Parallel()

	value := Any{TypeURL: grandpa.HeaderTypeURL, Value: []byte{1, 2, 3}}
	encoded, err := value.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalAny(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)

	_, err = UnmarshalAny(nil)
	assert.ErrorIs(t, err, ErrUnknownTypeURL)

	_, err = UnmarshalAny([]byte{0xff})
	assert.ErrorIs(t, err, ErrUnknownTypeURL)
}

func Test_NewAny_unsupported(t *testing.T) {
	t.Parallel()

	_, err := NewAny(struct{}{})
	assert.ErrorIs(t, err, exported.ErrInvalidClientType)
}

func wrapTimes(t *testing.T, value Any, times int) Any {
	t.Helper()

	for i := 0; i < times; i++ {
		var err error
		value, err = WrapWasm(value, [32]byte{byte(i + 1)}, exported.NewHeight(0, 1))
		require.NoError(t, err)
	}
	return value
}

func Test_UnwrapRecursive(t *testing.T) {
	t.Parallel()

	inner := Any{TypeURL: grandpa.ClientStateTypeURL, Value: []byte{1, 2, 3}}

	testCases := map[string]struct {
		depth      int
		errWrapped error
	}{
		"no_envelope": {},
		"one_envelope": {
			depth: 1,
		},
		"max_depth": {
			depth: MaxWasmDepth,
		},
		"max_depth_exceeded": {
			depth:      MaxWasmDepth + 1,
			errWrapped: ErrWasmDepthExceeded,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			wrapped := wrapTimes(t, inner, testCase.depth)
			unwrapped, err := UnwrapRecursive(wrapped)
			if testCase.errWrapped != nil {
				assert.ErrorIs(t, err, testCase.errWrapped)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, inner, unwrapped)

			_, envelopes, err := unwrap(wrapped)
			require.NoError(t, err)
			require.Len(t, envelopes, testCase.depth)
			for i, envelope := range envelopes {
				assert.Equal(t, [32]byte{byte(testCase.depth - i)}, envelope.CodeHash)
			}
		})
	}
}

func Test_WrapWasm_kinds(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		typeURL        string
		wrappedTypeURL string
	}{
		"client_state": {
			typeURL:        grandpa.ClientStateTypeURL,
			wrappedTypeURL: wasm.ClientStateTypeURL,
		},
		"consensus_state": {
			typeURL:        grandpa.ConsensusStateTypeURL,
			wrappedTypeURL: wasm.ConsensusStateTypeURL,
		},
		"header": {
			typeURL:        grandpa.HeaderTypeURL,
			wrappedTypeURL: wasm.ClientMessageTypeURL,
		},
		"misbehaviour": {
			typeURL:        grandpa.MisbehaviourTypeURL,
			wrappedTypeURL: wasm.ClientMessageTypeURL,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			wrapped, err := WrapWasm(Any{TypeURL: testCase.typeURL, Value: []byte{1}},
				[32]byte{1}, exported.NewHeight(0, 1))
			require.NoError(t, err)
			assert.Equal(t, testCase.wrappedTypeURL, wrapped.TypeURL)
		})
	}
}

func Test_Decode_unknownTypeURL(t *testing.T) {
	t.Parallel()

	header := Any{TypeURL: grandpa.HeaderTypeURL, Value: []byte{1}}
	_, err := DecodeClientState(header)
	assert.ErrorIs(t, err, ErrUnknownTypeURL)

	_, err = DecodeConsensusState(header)
	assert.ErrorIs(t, err, ErrUnknownTypeURL)

	clientState := Any{TypeURL: grandpa.ClientStateTypeURL, Value: []byte{1}}
	_, err = DecodeClientMessage(clientState)
	assert.ErrorIs(t, err, ErrUnknownTypeURL)

	_, err = DecodeClientMessage(wrapTimes(t, clientState, 2))
	assert.ErrorIs(t, err, ErrUnknownTypeURL)
}

func Test_encodeClientState(t *testing.T) {
	t.Parallel()

	network := newTestNetwork(t, testParaID)
	value, _ := grandpaGenesis(t, network)
	wrapped := wrapTimes(t, value, 2)

	clientState, envelopes, err := decodeClientState(wrapped)
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	assert.Equal(t, exported.NewHeight(testParaID, 1), clientState.LatestHeight())

	reencoded, err := encodeClientState(clientState, envelopes)
	require.NoError(t, err)
	assert.Equal(t, wasm.ClientStateTypeURL, reencoded.TypeURL)

	_, reencodedEnvelopes, err := unwrap(reencoded)
	require.NoError(t, err)
	require.Len(t, reencodedEnvelopes, 2)
	for i, envelope := range reencodedEnvelopes {
		assert.Equal(t, envelopes[i].CodeHash, envelope.CodeHash)
		assert.Equal(t, clientState.LatestHeight(), envelope.Latest)
	}

	inner, err := UnwrapRecursive(reencoded)
	require.NoError(t, err)
	assert.Equal(t, value, inner)
}
