// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commitment

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// substrateTrieVerifier checks SCALE encoded lists of trie proof nodes.
type substrateTrieVerifier struct{}

func decodeTrieProof(encoded []byte) (nodes [][]byte, err error) {
	err = common.DecodeScale(encoded, &nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding trie proof: %s", ErrMalformedProof, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no trie proof nodes", ErrMalformedProof)
	}
	return nodes, nil
}

func trieError(err error) error {
	switch {
	case errors.Is(err, trie.ErrKeyNotFoundInProofTrie),
		errors.Is(err, trie.ErrValueMismatchProofTrie),
		errors.Is(err, trie.ErrKeyFoundInProofTrie),
		errors.Is(err, trie.ErrIncompleteProof):
		return fmt.Errorf("%w: %s", ErrInvalidProof, err)
	default:
		return fmt.Errorf("%w: %s", ErrMalformedProof, err)
	}
}

func (substrateTrieVerifier) CalculateRoot(encoded, key, value []byte) ([]byte, error) {
	nodes, err := decodeTrieProof(encoded)
	if err != nil {
		return nil, err
	}

	root, err := trie.ProofRoot(nodes)
	if err != nil {
		return nil, trieError(err)
	}

	err = trie.Verify(nodes, root[:], key, value)
	if err != nil {
		return nil, trieError(err)
	}
	return root.ToBytes(), nil
}

func (substrateTrieVerifier) AbsenceRoot(encoded []byte) ([]byte, error) {
	nodes, err := decodeTrieProof(encoded)
	if err != nil {
		return nil, err
	}

	root, err := trie.ProofRoot(nodes)
	if err != nil {
		return nil, trieError(err)
	}
	return root.ToBytes(), nil
}

func (substrateTrieVerifier) VerifyAbsence(encoded, root, key []byte) error {
	nodes, err := decodeTrieProof(encoded)
	if err != nil {
		return err
	}

	err = trie.VerifyAbsence(nodes, root, key)
	if err != nil {
		return trieError(err)
	}
	return nil
}
