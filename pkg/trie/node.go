// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"fmt"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie/codec"
)

type node struct {
	partialKey []byte
	value      []byte // nil if the node has no value
	children   [codec.ChildrenCapacity]*node

	// set by encode
	hashedValue bool
	encoding    []byte
	merkleValue []byte
}

func (n *node) isLeaf() bool {
	for _, child := range n.children {
		if child != nil {
			return false
		}
	}
	return true
}

// buildNode builds the sub-trie holding the sorted entries, all of
// which share their first depth nibbles.
func buildNode(entries []entry, depth int) *node {
	if len(entries) == 1 {
		return &node{
			partialKey: entries[0].nibbles[depth:],
			value:      entries[0].value,
		}
	}

	first, last := entries[0].nibbles, entries[len(entries)-1].nibbles
	commonLength := depth
	for commonLength < len(first) && commonLength < len(last) &&
		first[commonLength] == last[commonLength] {
		commonLength++
	}

	n := &node{partialKey: first[depth:commonLength]}
	if len(first) == commonLength {
		n.value = entries[0].value
		entries = entries[1:]
	}

	for len(entries) > 0 {
		index := entries[0].nibbles[commonLength]
		end := 1
		for end < len(entries) && entries[end].nibbles[commonLength] == index {
			end++
		}
		n.children[index] = buildNode(entries[:end], commonLength+1)
		entries = entries[end:]
	}

	return n
}

// encode encodes the node and its descendants bottom up.
func (n *node) encode(version Version, isRoot bool) (err error) {
	decoded := codec.Node{
		Kind:       codec.Branch,
		PartialKey: n.partialKey,
		Value:      n.value,
	}
	if n.isLeaf() {
		decoded.Kind = codec.Leaf
	}

	if n.value != nil && len(n.value) > version.MaxInlineValue() {
		digest, err := common.Blake2bHash(n.value)
		if err != nil {
			return fmt.Errorf("hashing value: %w", err)
		}
		decoded.Value = digest.ToBytes()
		decoded.HashedValue = true
		n.hashedValue = true
	}

	for i, child := range n.children {
		if child == nil {
			continue
		}
		err = child.encode(version, false)
		if err != nil {
			return err
		}
		decoded.Children[i] = child.merkleValue
	}

	n.encoding, err = codec.EncodeBytes(decoded)
	if err != nil {
		return fmt.Errorf("encoding node: %w", err)
	}

	n.merkleValue, err = codec.MerkleValue(n.encoding, isRoot)
	if err != nil {
		return fmt.Errorf("computing merkle value: %w", err)
	}
	return nil
}
