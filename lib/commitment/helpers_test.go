// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	ics23 "github.com/cosmos/ics23/go"
	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/merkle"
	tmcrypto "github.com/tendermint/tendermint/proto/tendermint/crypto"

	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// lengthPrefixed returns the uvarint length of each slice followed by the slice.
func lengthPrefixed(slices ...[]byte) (out []byte) {
	for _, s := range slices {
		out = binary.AppendUvarint(out, uint64(len(s)))
		out = append(out, s...)
	}
	return out
}

func sha256Sum(data ...[]byte) []byte {
	hasher := sha256.New()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

var tendermintLeaf = &ics23.LeafOp{
	Hash:         ics23.HashOp_SHA256,
	PrehashKey:   ics23.HashOp_NO_HASH,
	PrehashValue: ics23.HashOp_SHA256,
	Length:       ics23.LengthOp_VAR_PROTO,
	Prefix:       []byte{0},
}

func tendermintLeafHash(key, value []byte) []byte {
	return sha256Sum([]byte{0}, lengthPrefixed(key, sha256Sum(value)))
}

// twoLeafTree holds ics23 proofs of a tendermint spec tree with two leaves.
type twoLeafTree struct {
	root       []byte
	leftProof  *ics23.ExistenceProof
	rightProof *ics23.ExistenceProof
}

func newTwoLeafTree(leftKey, leftValue, rightKey, rightValue []byte) twoLeafTree {
	leftHash := tendermintLeafHash(leftKey, leftValue)
	rightHash := tendermintLeafHash(rightKey, rightValue)

	return twoLeafTree{
		root: sha256Sum([]byte{1}, leftHash, rightHash),
		leftProof: &ics23.ExistenceProof{
			Key:   leftKey,
			Value: leftValue,
			Leaf:  tendermintLeaf,
			Path: []*ics23.InnerOp{{
				Hash:   ics23.HashOp_SHA256,
				Prefix: []byte{1},
				Suffix: rightHash,
			}},
		},
		rightProof: &ics23.ExistenceProof{
			Key:   rightKey,
			Value: rightValue,
			Leaf:  tendermintLeaf,
			Path: []*ics23.InnerOp{{
				Hash:   ics23.HashOp_SHA256,
				Prefix: append([]byte{1}, leftHash...),
			}},
		},
	}
}

func marshalCommitmentProof(t *testing.T, proof *ics23.CommitmentProof) []byte {
	t.Helper()

	encoded, err := proto.Marshal(proof)
	require.NoError(t, err)
	return encoded
}

func existenceProof(t *testing.T, exist *ics23.ExistenceProof) []byte {
	t.Helper()

	return marshalCommitmentProof(t, &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Exist{Exist: exist},
	})
}

func nonExistenceProof(t *testing.T, key []byte, left, right *ics23.ExistenceProof) []byte {
	t.Helper()

	return marshalCommitmentProof(t, &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Nonexist{Nonexist: &ics23.NonExistenceProof{
			Key:   key,
			Left:  left,
			Right: right,
		}},
	})
}

// simpleMerkleProof returns the root of a tree of the key value pairs and
// the encoded value operation proving the pair at index.
func simpleMerkleProof(t *testing.T, keys, values [][]byte, index int) (root, encoded []byte) {
	t.Helper()

	items := make([][]byte, len(keys))
	for i := range keys {
		items[i] = lengthPrefixed(keys[i], sha256Sum(values[i]))
	}
	root, proofs := merkle.ProofsFromByteSlices(items)

	op := merkle.NewValueOp(keys[index], proofs[index])
	ops := tmcrypto.ProofOps{Ops: []tmcrypto.ProofOp{op.ProofOp()}}
	encoded, err := proto.Marshal(&ops)
	require.NoError(t, err)
	return root, encoded
}

// trieProof returns the root of a substrate trie of the entries and the
// encoded proof of the keys.
func trieProof(t *testing.T, entries map[string][]byte, keys ...string) (root, encoded []byte) {
	t.Helper()

	tr := trie.NewTrie(trie.V1)
	for key, value := range entries {
		tr.Put([]byte(key), value)
	}

	proofKeys := make([][]byte, len(keys))
	for i, key := range keys {
		proofKeys[i] = []byte(key)
	}
	nodes, err := tr.GenerateProof(proofKeys)
	require.NoError(t, err)

	encoded, err = codec.Encode(nodes)
	require.NoError(t, err)
	return tr.MustHash().ToBytes(), encoded
}
