// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"bytes"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/ed25519"
)

type testVoter struct {
	keypair *ed25519.Keypair
	id      AuthorityID
}

func newTestVoters(t *testing.T, count int) []testVoter {
	t.Helper()

	voters := make([]testVoter, count)
	for i := range voters {
		keypair, err := ed25519.NewKeypairFromSeed(bytes.Repeat([]byte{byte(i + 1)}, 32))
		require.NoError(t, err)
		voters[i].keypair = keypair
		copy(voters[i].id[:], keypair.Public().Encode())
	}
	return voters
}

func newTestAuthoritySet(t *testing.T, voters []testVoter, setID uint64) *AuthoritySet {
	t.Helper()

	authorities := make(AuthorityList, len(voters))
	for i, voter := range voters {
		authorities[i] = Authority{Key: voter.id, Weight: 1}
	}
	set, err := NewAuthoritySet(authorities, setID)
	require.NoError(t, err)
	return set
}

func signPrecommit(t *testing.T, voter testVoter, precommit Precommit,
	round, setID uint64) SignedPrecommit {
	t.Helper()

	msg, err := PrecommitPayload(precommit, round, setID)
	require.NoError(t, err)
	sig, err := voter.keypair.Sign(msg)
	require.NoError(t, err)

	signed := SignedPrecommit{
		Precommit: precommit,
		ID:        voter.id,
	}
	copy(signed.Signature[:], sig)
	return signed
}

// newTestChain returns length headers following the parent, numbered from
// parentNumber+1. The fork byte makes headers of different forks distinct.
func newTestChain(t *testing.T, parent common.Hash, parentNumber uint32,
	length int, fork byte) (headers []types.Header) {
	t.Helper()

	for i := 0; i < length; i++ {
		header := types.Header{
			ParentHash:     types.Hash(parent),
			Number:         types.BlockNumber(parentNumber + uint32(i) + 1),
			StateRoot:      types.Hash{fork},
			ExtrinsicsRoot: types.Hash{fork, byte(i)},
			Digest:         types.Digest{},
		}
		headers = append(headers, header)

		hash, err := HeaderHash(header)
		require.NoError(t, err)
		parent = hash
	}
	return headers
}

func mustHeaderHash(t *testing.T, header types.Header) common.Hash {
	t.Helper()

	hash, err := HeaderHash(header)
	require.NoError(t, err)
	return hash
}

func precommitFor(t *testing.T, header types.Header) Precommit {
	t.Helper()

	return Precommit{
		TargetHash:   mustHeaderHash(t, header),
		TargetNumber: uint32(header.Number),
	}
}
