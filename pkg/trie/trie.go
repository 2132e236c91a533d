// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie/codec"
)

// EmptyHash is the root hash of the empty trie.
var EmptyHash = common.MustBlake2bHash(codec.EmptyEncoding)

// Trie is an in-memory base-16 Merkle Patricia trie. The node
// structure is rebuilt from the sorted entries when hashing or
// generating proofs.
type Trie struct {
	version Version
	entries map[string][]byte
}

// NewEmptyTrie creates an empty trie using state version V0.
func NewEmptyTrie() *Trie {
	return NewTrie(V0)
}

// NewTrie creates an empty trie using the given state version.
func NewTrie(version Version) *Trie {
	return &Trie{
		version: version,
		entries: make(map[string][]byte),
	}
}

// NewOrderedTrie builds a trie where each value is keyed by the
// SCALE compact encoding of its index, as done for extrinsics roots.
func NewOrderedTrie(version Version, values [][]byte) (*Trie, error) {
	t := NewTrie(version)
	for i, value := range values {
		key, err := OrderedKey(uint64(i))
		if err != nil {
			return nil, fmt.Errorf("encoding key for index %d: %w", i, err)
		}
		t.Put(key, value)
	}
	return t, nil
}

// OrderedKey returns the SCALE compact encoding of the index.
func OrderedKey(index uint64) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	err := scale.NewEncoder(buffer).EncodeUintCompact(*new(big.Int).SetUint64(index))
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Version returns the state version of the trie.
func (t *Trie) Version() Version {
	return t.version
}

// Put inserts or replaces the value at the given key.
// A nil value is stored as an empty value.
func (t *Trie) Put(key, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	t.entries[string(key)] = stored
}

// Get returns the value at the given key, or nil if not found.
func (t *Trie) Get(key []byte) (value []byte) {
	stored, ok := t.entries[string(key)]
	if !ok {
		return nil
	}
	value = make([]byte, len(stored))
	copy(value, stored)
	return value
}

// Delete removes the given key from the trie.
func (t *Trie) Delete(key []byte) {
	delete(t.entries, string(key))
}

// Len returns the number of keys in the trie.
func (t *Trie) Len() int {
	return len(t.entries)
}

// Hash returns the root hash of the trie.
func (t *Trie) Hash() (common.Hash, error) {
	if len(t.entries) == 0 {
		return EmptyHash, nil
	}

	root, err := t.build()
	if err != nil {
		return common.Hash{}, err
	}
	return common.NewHash(root.merkleValue), nil
}

// MustHash returns the root hash of the trie and panics on error.
func (t *Trie) MustHash() common.Hash {
	hash, err := t.Hash()
	if err != nil {
		panic(err)
	}
	return hash
}

type entry struct {
	nibbles []byte
	value   []byte
}

func (t *Trie) build() (root *node, err error) {
	entries := make([]entry, 0, len(t.entries))
	for key, value := range t.entries {
		entries = append(entries, entry{
			nibbles: codec.KeyToNibbles([]byte(key)),
			value:   value,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].nibbles, entries[j].nibbles) < 0
	})

	root = buildNode(entries, 0)
	const isRoot = true
	err = root.encode(t.version, isRoot)
	if err != nil {
		return nil, fmt.Errorf("encoding root: %w", err)
	}
	return root, nil
}
