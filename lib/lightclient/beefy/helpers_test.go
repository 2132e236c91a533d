// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/secp256k1"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/exported"
	"github.com/ChainSafe/ibc-light-clients/pkg/mmr"
)

type testAuthorities struct {
	keys      []*secp256k1.Keypair
	addresses [][secp256k1.AddressLength]byte
	set       AuthoritySet
}

func newTestAuthorities(t *testing.T, id uint64, count int) testAuthorities {
	t.Helper()

	authorities := testAuthorities{}
	for i := 0; i < count; i++ {
		kp, err := secp256k1.GenerateKeypair()
		require.NoError(t, err)
		authorities.keys = append(authorities.keys, kp)
		authorities.addresses = append(authorities.addresses, kp.Public().(*secp256k1.PublicKey).Address())
	}
	authorities.set = NewAuthoritySet(id, authorities.addresses)
	return authorities
}

// sign returns the commitment signed by the authorities at the indexes.
func (a testAuthorities) sign(t *testing.T, commitment Commitment, signers ...int) SignedCommitment {
	t.Helper()

	hash, err := commitment.Hash()
	require.NoError(t, err)

	signed := SignedCommitment{Commitment: commitment}
	for _, index := range signers {
		signature, err := a.keys[index].Sign(hash[:])
		require.NoError(t, err)

		authoritySignature := AuthoritySignature{
			AuthorityIndex: uint32(index),
			Address:        a.addresses[index],
			Proof:          AuthorityProof(a.addresses, index),
		}
		copy(authoritySignature.Signature[:], signature)
		signed.Signatures = append(signed.Signatures, authoritySignature)
	}
	return signed
}

func signers(count int) []int {
	indexes := make([]int, count)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}

// testChain is a relay chain MMR with a leaf per block from block 1.
type testChain struct {
	tree   *mmr.MMR
	leaves []MmrLeaf
}

func newTestChain() *testChain {
	return &testChain{tree: mmr.NewKeccakMMR()}
}

func blockHash(number uint32) common.Hash {
	return common.Keccak256(binary.BigEndian.AppendUint32(nil, number))
}

// advance appends the leaves up to the block, committing to the next
// authority set.
func (c *testChain) advance(t *testing.T, block uint32, next AuthoritySet) {
	t.Helper()

	for uint32(len(c.leaves)) < block {
		parent := uint32(len(c.leaves))
		leaf := MmrLeaf{
			ParentNumber:     parent,
			ParentHash:       blockHash(parent),
			NextAuthoritySet: next,
		}
		hash, err := leaf.Hash()
		require.NoError(t, err)
		_, err = c.tree.Push(hash.ToBytes())
		require.NoError(t, err)
		c.leaves = append(c.leaves, leaf)
	}
}

func (c *testChain) root(t *testing.T) common.Hash {
	t.Helper()
	root, err := c.tree.Root()
	require.NoError(t, err)
	return common.NewHash(root)
}

func (c *testChain) commitment(t *testing.T, setID uint64) Commitment {
	t.Helper()
	root := c.root(t)
	return Commitment{
		Payload:        []PayloadItem{{ID: MmrRootID, Data: root.ToBytes()}},
		BlockNumber:    uint32(len(c.leaves)),
		ValidatorSetID: setID,
	}
}

// header returns the header of the latest block signed by the authorities.
func (c *testChain) header(t *testing.T, authorities testAuthorities, signers ...int) Header {
	t.Helper()

	proof, err := c.tree.GenerateProof(uint64(len(c.leaves) - 1))
	require.NoError(t, err)
	return Header{
		SignedCommitment: authorities.sign(t, c.commitment(t, authorities.set.ID), signers...),
		Leaf:             c.leaves[len(c.leaves)-1],
		LeafProof:        proof,
	}
}

type testHost struct {
	now time.Time
}

func (h testHost) Now() time.Time { return h.now }

func (testHost) Height() exported.Height { return exported.NewHeight(0, 1) }

type testStore map[exported.Height]exported.ConsensusState

var _ exported.ClientStore = testStore{}

func (s testStore) ConsensusState(height exported.Height) (exported.ConsensusState, error) {
	state, ok := s[height]
	if !ok {
		return nil, fmt.Errorf("%w: %s", exported.ErrConsensusStateNotFound, height)
	}
	return state, nil
}

func (testStore) PreviousConsensusState(exported.Height) (exported.Height, exported.ConsensusState, error) {
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}

func (testStore) NextConsensusState(exported.Height) (exported.Height, exported.ConsensusState, error) {
	return exported.Height{}, nil, exported.ErrConsensusStateNotFound
}
