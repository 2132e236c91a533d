// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

func newTestTrie(t *testing.T, version Version) *Trie {
	t.Helper()

	trie := NewTrie(version)
	for i := 0; i < 64; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		trie.Put(key, bytes.Repeat([]byte{byte(i)}, i))
	}
	trie.Put([]byte("key"), []byte("branch value"))
	return trie
}

func Test_GenerateProof_Verify(t *testing.T) {
	t.Parallel()

	for _, version := range []Version{V0, V1} {
		version := version
		t.Run(version.String(), func(t *testing.T) {
			t.Parallel()

			trie := newTestTrie(t, version)
			root := trie.MustHash()

			keys := [][]byte{[]byte("key"), []byte("key-0"), []byte("key-1"), []byte("key-63")}
			for _, key := range keys {
				proof, err := trie.GenerateProof([][]byte{key})
				require.NoError(t, err)

				err = Verify(proof, root.ToBytes(), key, trie.Get(key))
				require.NoError(t, err)
			}

			proof, err := trie.GenerateProof(keys)
			require.NoError(t, err)
			for _, key := range keys {
				value, err := VerifyProof(proof, root, key)
				require.NoError(t, err)
				assert.Equal(t, trie.Get(key), value)
			}
		})
	}
}

func Test_Verify_errors(t *testing.T) {
	t.Parallel()

	trie := newTestTrie(t, V1)
	root := trie.MustHash()
	key := []byte("key-40")
	proof, err := trie.GenerateProof([][]byte{key})
	require.NoError(t, err)

	err = Verify(nil, root.ToBytes(), key, trie.Get(key))
	assert.ErrorIs(t, err, ErrEmptyProof)

	err = Verify(proof, root.ToBytes()[1:], key, trie.Get(key))
	assert.ErrorIs(t, err, ErrInvalidRootLength)

	otherRoot := common.MustBlake2bHash([]byte("other"))
	err = Verify(proof, otherRoot.ToBytes(), key, trie.Get(key))
	assert.ErrorIs(t, err, ErrRootNodeNotFound)

	err = Verify(proof, root.ToBytes(), key, []byte("wrong value"))
	assert.ErrorIs(t, err, ErrValueMismatchProofTrie)

	err = Verify(proof, root.ToBytes(), []byte("key-400"), nil)
	assert.ErrorIs(t, err, ErrKeyNotFoundInProofTrie)
}

func Test_Verify_mutations(t *testing.T) {
	t.Parallel()

	trie := newTestTrie(t, V1)
	root := trie.MustHash()
	key := []byte("key-50")
	value := trie.Get(key)
	proof, err := trie.GenerateProof([][]byte{key})
	require.NoError(t, err)

	for i := range value {
		mutated := bytes.Clone(value)
		mutated[i] ^= 0x01
		assert.Error(t, Verify(proof, root.ToBytes(), key, mutated), "value byte %d", i)
	}

	for i := range proof {
		for j := range proof[i] {
			mutated := make([][]byte, len(proof))
			copy(mutated, proof)
			mutated[i] = bytes.Clone(proof[i])
			mutated[i][j] ^= 0x01
			assert.Error(t, Verify(mutated, root.ToBytes(), key, value), "proof node %d byte %d", i, j)
		}
	}

	for i := range root {
		mutated := root
		mutated[i] ^= 0x01
		assert.Error(t, Verify(proof, mutated.ToBytes(), key, value), "root byte %d", i)
	}
}

func Test_VerifyAbsence(t *testing.T) {
	t.Parallel()

	trie := newTestTrie(t, V0)
	root := trie.MustHash()

	absent := []byte("key-64")
	proof, err := trie.GenerateProof([][]byte{absent})
	require.NoError(t, err)

	err = VerifyAbsence(proof, root.ToBytes(), absent)
	assert.NoError(t, err)

	present := []byte("key-1")
	proof, err = trie.GenerateProof([][]byte{present})
	require.NoError(t, err)

	err = VerifyAbsence(proof, root.ToBytes(), present)
	assert.ErrorIs(t, err, ErrKeyFoundInProofTrie)
}

func Test_GenerateProof_emptyTrie(t *testing.T) {
	t.Parallel()

	trie := NewEmptyTrie()
	proof, err := trie.GenerateProof([][]byte{[]byte("key")})
	require.NoError(t, err)

	_, err = VerifyProof(proof, EmptyHash, []byte("key"))
	assert.ErrorIs(t, err, ErrKeyNotFoundInProofTrie)
}

func Test_GenerateProofForRoot(t *testing.T) {
	t.Parallel()

	trie := newTestTrie(t, V0)
	_, err := trie.GenerateProofForRoot(EmptyHash, [][]byte{[]byte("key")})
	assert.ErrorIs(t, err, ErrRootNodeNotFound)

	proof, err := trie.GenerateProofForRoot(trie.MustHash(), [][]byte{[]byte("key")})
	require.NoError(t, err)
	assert.NotEmpty(t, proof)
}

func Test_ProofRoot(t *testing.T) {
	t.Parallel()

	trie := newTestTrie(t, V1)
	keys := [][]byte{[]byte("key-2"), []byte("key-63"), []byte("key")}
	proof, err := trie.GenerateProof(keys)
	require.NoError(t, err)

	root, err := ProofRoot(proof)
	require.NoError(t, err)
	assert.Equal(t, trie.MustHash(), root)

	reversed := make([][]byte, len(proof))
	for i := range proof {
		reversed[len(proof)-1-i] = proof[i]
	}
	root, err = ProofRoot(reversed)
	require.NoError(t, err)
	assert.Equal(t, trie.MustHash(), root)

	_, err = ProofRoot(nil)
	assert.ErrorIs(t, err, ErrEmptyProof)

	other := NewTrie(V1)
	other.Put([]byte("other"), []byte("value"))
	otherProof, err := other.GenerateProof([][]byte{[]byte("other")})
	require.NoError(t, err)

	_, err = ProofRoot(append(otherProof, proof...))
	assert.ErrorIs(t, err, ErrAmbiguousProofRoot)
}
