// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

func Test_BuildAncestryMap(t *testing.T) {
	t.Parallel()

	headers := newTestChain(t, common.Hash{}, 0, 3, 0)

	ancestry, err := BuildAncestryMap(headers)
	require.NoError(t, err)
	assert.Len(t, ancestry, 3)
	for _, header := range headers {
		assert.Equal(t, header, ancestry[mustHeaderHash(t, header)])
	}

	_, err = BuildAncestryMap(append(headers, headers[1]))
	assert.ErrorIs(t, err, ErrDuplicateHeader)
}

func Test_VerifyAncestry(t *testing.T) {
	t.Parallel()

	// base is block 10, the chain continues up to block 14
	base := newTestChain(t, common.Hash{0xaa}, 9, 1, 0)[0]
	baseHash := mustHeaderHash(t, base)
	chain := newTestChain(t, baseHash, 10, 4, 0)
	ancestry, err := BuildAncestryMap(chain)
	require.NoError(t, err)

	// fork from block 11
	fork := newTestChain(t, mustHeaderHash(t, chain[0]), 11, 2, 1)
	// unrelated chain at the same heights
	unrelated := newTestChain(t, common.Hash{0xbb}, 10, 2, 2)

	commitWith := func(targets ...Precommit) Commit {
		commit := Commit{TargetHash: baseHash, TargetNumber: 10}
		for _, target := range targets {
			commit.Precommits = append(commit.Precommits, SignedPrecommit{Precommit: target})
		}
		return commit
	}

	withFork, err := BuildAncestryMap(append(append([]types.Header{}, chain...), fork...))
	require.NoError(t, err)
	withUnrelated, err := BuildAncestryMap(append(append([]types.Header{}, chain...), unrelated...))
	require.NoError(t, err)

	testCases := map[string]struct {
		commit     Commit
		ancestry   AncestryMap
		errWrapped error
	}{
		"target equals base": {
			commit:   commitWith(Precommit{TargetHash: baseHash, TargetNumber: 10}),
			ancestry: AncestryMap{},
		},
		"descendants": {
			commit: commitWith(
				precommitFor(t, chain[3]),
				precommitFor(t, chain[1]),
				precommitFor(t, chain[3]),
			),
			ancestry: ancestry,
		},
		"fork descending from base": {
			commit:   commitWith(precommitFor(t, fork[1]), precommitFor(t, chain[2])),
			ancestry: withFork,
		},
		"unrelated block": {
			commit:     commitWith(precommitFor(t, chain[2]), precommitFor(t, unrelated[1])),
			ancestry:   withUnrelated,
			errWrapped: ErrNotAnAncestor,
		},
		"unrelated block without ancestry": {
			commit:     commitWith(precommitFor(t, unrelated[1])),
			ancestry:   ancestry,
			errWrapped: ErrMissingAncestryHeader,
		},
		"missing intermediate header": {
			commit: commitWith(precommitFor(t, chain[3])),
			ancestry: AncestryMap{
				mustHeaderHash(t, chain[3]): chain[3],
				mustHeaderHash(t, chain[2]): chain[2],
				mustHeaderHash(t, chain[0]): chain[0],
			},
			errWrapped: ErrMissingAncestryHeader,
		},
		"target below base": {
			commit:     commitWith(Precommit{TargetHash: common.Hash{1}, TargetNumber: 9}),
			ancestry:   ancestry,
			errWrapped: ErrNotAnAncestor,
		},
		"base hash with wrong number": {
			commit:     commitWith(Precommit{TargetHash: baseHash, TargetNumber: 11}),
			ancestry:   ancestry,
			errWrapped: ErrPrecommitTargetMismatch,
		},
		"target number does not match header": {
			commit: commitWith(Precommit{
				TargetHash:   mustHeaderHash(t, chain[2]),
				TargetNumber: 14,
			}),
			ancestry:   ancestry,
			errWrapped: ErrNotAnAncestor,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := VerifyAncestry(testCase.commit, testCase.ancestry, baseHash, 10)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.ErrorIs(t, err, ErrAncestry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
