// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie/codec"
)

// GenerateProof returns the encoded nodes needed to look up each of
// the given keys from the root, together with the values stored as
// hashes on those paths. Keys absent from the trie produce the nodes
// proving their absence.
func (t *Trie) GenerateProof(keys [][]byte) (encodedProofNodes [][]byte, err error) {
	if len(t.entries) == 0 {
		return [][]byte{codec.EmptyEncoding}, nil
	}

	root, err := t.build()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	add := func(encoding []byte) {
		if _, ok := seen[string(encoding)]; ok {
			return
		}
		seen[string(encoding)] = struct{}{}
		encodedProofNodes = append(encodedProofNodes, encoding)
	}

	for _, key := range keys {
		add(root.encoding)

		current := root
		nibbles := codec.KeyToNibbles(key)
		for {
			if !bytes.HasPrefix(nibbles, current.partialKey) {
				break
			}
			nibbles = nibbles[len(current.partialKey):]

			if len(nibbles) == 0 {
				if current.hashedValue {
					add(current.value)
				}
				break
			}

			child := current.children[nibbles[0]]
			if child == nil {
				break
			}
			nibbles = nibbles[1:]

			if len(child.merkleValue) == common.HashLength {
				add(child.encoding)
			}
			current = child
		}
	}

	return encodedProofNodes, nil
}

// GenerateProofForRoot checks the trie root matches before generating the proof.
func (t *Trie) GenerateProofForRoot(rootHash common.Hash, keys [][]byte) ([][]byte, error) {
	hash, err := t.Hash()
	if err != nil {
		return nil, fmt.Errorf("hashing trie: %w", err)
	}
	if hash != rootHash {
		return nil, fmt.Errorf("%w: expected %s but trie root is %s",
			ErrRootNodeNotFound, rootHash, hash)
	}
	return t.GenerateProof(keys)
}
