// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie/codec"
)

var (
	ErrKeyNotFoundInProofTrie = errors.New("key not found in proof trie")
	ErrValueMismatchProofTrie = errors.New("value found in proof trie does not match")
	ErrKeyFoundInProofTrie    = errors.New("key found in proof trie")
	ErrEmptyProof             = errors.New("proof slice empty")
	ErrRootNodeNotFound       = errors.New("root node not found in proof")
	ErrIncompleteProof        = errors.New("proof is missing a node on the key path")
	ErrInvalidRootLength      = errors.New("root hash must be 32 bytes")
	ErrAmbiguousProofRoot     = errors.New("proof has several root candidates")
)

// Verify verifies the key and value belong to the trie with the given
// root, using the encoded proof nodes given. The order of proof nodes
// is ignored. A nil error is returned on success.
func Verify(encodedProofNodes [][]byte, rootHash, key, value []byte) (err error) {
	if len(rootHash) != common.HashLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidRootLength, len(rootHash))
	}

	proofTrieValue, err := VerifyProof(encodedProofNodes, common.NewHash(rootHash), key)
	if err != nil {
		return err
	}

	if !bytes.Equal(value, proofTrieValue) {
		return fmt.Errorf("%w: expected value 0x%x but got value 0x%x from proof trie",
			ErrValueMismatchProofTrie, value, proofTrieValue)
	}

	return nil
}

// VerifyAbsence verifies the key is not present in the trie with the given root.
func VerifyAbsence(encodedProofNodes [][]byte, rootHash, key []byte) (err error) {
	if len(rootHash) != common.HashLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidRootLength, len(rootHash))
	}

	_, err = VerifyProof(encodedProofNodes, common.NewHash(rootHash), key)
	switch {
	case errors.Is(err, ErrKeyNotFoundInProofTrie):
		return nil
	case err != nil:
		return err
	default:
		return fmt.Errorf("%w: 0x%x", ErrKeyFoundInProofTrie, key)
	}
}

// VerifyProof looks up the key in the partial trie formed by the
// encoded proof nodes and returns its value. ErrKeyNotFoundInProofTrie
// is returned if the proof shows the key is absent.
func VerifyProof(encodedProofNodes [][]byte, rootHash common.Hash, key []byte) (value []byte, err error) {
	if len(encodedProofNodes) == 0 {
		return nil, fmt.Errorf("%w: for Merkle root hash %s",
			ErrEmptyProof, rootHash)
	}

	database := make(map[common.Hash][]byte, len(encodedProofNodes))
	for _, encoded := range encodedProofNodes {
		digest, err := common.Blake2bHash(encoded)
		if err != nil {
			return nil, fmt.Errorf("hashing proof node: %w", err)
		}
		database[digest] = encoded
	}

	encoded, ok := database[rootHash]
	if !ok {
		return nil, fmt.Errorf("%w: for root hash %s", ErrRootNodeNotFound, rootHash)
	}

	nibbles := codec.KeyToNibbles(key)
	for depth := 0; ; depth++ {
		n, err := codec.DecodeBytes(encoded)
		if err != nil {
			return nil, fmt.Errorf("decoding node at depth %d: %w", depth, err)
		}

		if n.Kind == codec.Empty || !bytes.HasPrefix(nibbles, n.PartialKey) {
			return nil, fmt.Errorf("%w: 0x%x", ErrKeyNotFoundInProofTrie, key)
		}
		nibbles = nibbles[len(n.PartialKey):]

		if len(nibbles) == 0 {
			switch {
			case !n.HasValue():
				return nil, fmt.Errorf("%w: 0x%x", ErrKeyNotFoundInProofTrie, key)
			case n.HashedValue:
				value, ok := database[common.NewHash(n.Value)]
				if !ok {
					return nil, fmt.Errorf("%w: hashed value 0x%x", ErrIncompleteProof, n.Value)
				}
				return value, nil
			default:
				return n.Value, nil
			}
		}

		if n.Kind == codec.Leaf {
			return nil, fmt.Errorf("%w: 0x%x", ErrKeyNotFoundInProofTrie, key)
		}

		index := int(nibbles[0])
		nibbles = nibbles[1:]
		child := n.Children[index]
		switch {
		case child == nil:
			return nil, fmt.Errorf("%w: 0x%x", ErrKeyNotFoundInProofTrie, key)
		case n.ChildIsHashed(index):
			encoded, ok = database[common.NewHash(child)]
			if !ok {
				return nil, fmt.Errorf("%w: child 0x%x at depth %d", ErrIncompleteProof, child, depth)
			}
		default:
			encoded = child
		}
	}
}

// ProofRoot returns the hash of the only proof node that no other proof
// node references. Entries that do not decode as nodes are taken to be
// hashed values.
func ProofRoot(encodedProofNodes [][]byte) (root common.Hash, err error) {
	if len(encodedProofNodes) == 0 {
		return root, ErrEmptyProof
	}

	referenced := make(map[common.Hash]struct{})
	var candidates []common.Hash
	for _, encoded := range encodedProofNodes {
		digest, err := common.Blake2bHash(encoded)
		if err != nil {
			return root, fmt.Errorf("hashing proof node: %w", err)
		}

		n, err := codec.DecodeBytes(encoded)
		if err != nil {
			continue
		}
		candidates = append(candidates, digest)

		if n.HashedValue {
			referenced[common.NewHash(n.Value)] = struct{}{}
		}
		for i := range n.Children {
			if n.ChildIsHashed(i) {
				referenced[common.NewHash(n.Children[i])] = struct{}{}
			}
		}
	}

	found := false
	for _, candidate := range candidates {
		if _, ok := referenced[candidate]; ok || candidate == root {
			continue
		}
		if found {
			return common.Hash{}, fmt.Errorf("%w: %s and %s", ErrAmbiguousProofRoot, root, candidate)
		}
		root, found = candidate, true
	}
	if !found {
		return root, ErrRootNodeNotFound
	}
	return root, nil
}
