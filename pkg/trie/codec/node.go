// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

import "github.com/ChainSafe/ibc-light-clients/lib/common"

// ChildrenCapacity is the maximum number of children of a branch.
const ChildrenCapacity = 16

// Kind is the kind of a trie node.
type Kind byte

const (
	// Empty is the node of an empty trie.
	Empty Kind = iota
	// Leaf always carries a value.
	Leaf
	// Branch may or may not carry a value.
	Branch
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Leaf:
		return "Leaf"
	case Branch:
		return "Branch"
	default:
		return "Unknown"
	}
}

// Node is a decoded trie node. Children hold the merkle value of
// each child: the child encoding itself when shorter than 32 bytes,
// its blake2b digest otherwise.
type Node struct {
	Kind       Kind
	PartialKey []byte // nibbles
	// Value is nil when the node has no value. When HashedValue
	// is true, Value holds the blake2b digest of the stored value.
	Value       []byte
	HashedValue bool
	Children    [ChildrenCapacity][]byte
}

// HasValue returns true if the node carries a value.
func (n Node) HasValue() bool {
	return n.Value != nil
}

// ChildIsHashed returns true if the merkle value of the child
// at the given index is a hash reference rather than an inline node.
func (n Node) ChildIsHashed(index int) bool {
	return len(n.Children[index]) == common.HashLength
}

// NumChildren returns the number of children of a branch.
func (n Node) NumChildren() (count int) {
	for _, child := range n.Children {
		if child != nil {
			count++
		}
	}
	return count
}

func (n Node) variant() variant {
	switch n.Kind {
	case Leaf:
		if n.HashedValue {
			return leafWithHashedValueVariant
		}
		return leafVariant
	case Branch:
		switch {
		case n.Value == nil:
			return branchVariant
		case n.HashedValue:
			return branchWithHashedValueVariant
		default:
			return branchWithValueVariant
		}
	default:
		return emptyVariant
	}
}
