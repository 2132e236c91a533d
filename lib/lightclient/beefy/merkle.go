// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package beefy

import (
	"github.com/ChainSafe/ibc-light-clients/lib/common"
	"github.com/ChainSafe/ibc-light-clients/lib/crypto/secp256k1"
)

// The authority merkle tree hashes pairs of nodes with keccak256. A node
// without a sibling is promoted to the next layer unchanged.

func authorityLeaves(addresses [][secp256k1.AddressLength]byte) []common.Hash {
	leaves := make([]common.Hash, len(addresses))
	for i := range addresses {
		leaves[i] = common.Keccak256(addresses[i][:])
	}
	return leaves
}

func nextLayer(layer []common.Hash) []common.Hash {
	next := make([]common.Hash, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		if i+1 == len(layer) {
			next = append(next, layer[i])
			continue
		}
		next = append(next, common.Keccak256(layer[i][:], layer[i+1][:]))
	}
	return next
}

func merkleRoot(leaves []common.Hash) common.Hash {
	if len(leaves) == 0 {
		return common.Hash{}
	}
	layer := leaves
	for len(layer) > 1 {
		layer = nextLayer(layer)
	}
	return layer[0]
}

// AuthorityProof returns the merkle proof of the address at the index in
// the authority set of the addresses.
func AuthorityProof(addresses [][secp256k1.AddressLength]byte, index int) []common.Hash {
	var proof []common.Hash
	layer := authorityLeaves(addresses)
	for len(layer) > 1 {
		sibling := index ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		layer = nextLayer(layer)
		index /= 2
	}
	return proof
}

// verifyAuthorityProof checks the address is the leaf at the index of the
// set's merkle tree.
func verifyAuthorityProof(set AuthoritySet, address [secp256k1.AddressLength]byte,
	index uint32, proof []common.Hash) bool {
	if index >= set.Len {
		return false
	}

	current := common.Keccak256(address[:])
	for width := set.Len; width > 1; width = (width + 1) / 2 {
		if sibling := index ^ 1; sibling < width {
			if len(proof) == 0 {
				return false
			}
			if index%2 == 0 {
				current = common.Keccak256(current[:], proof[0][:])
			} else {
				current = common.Keccak256(proof[0][:], current[:])
			}
			proof = proof[1:]
		}
		index /= 2
	}
	return len(proof) == 0 && current == set.Root
}
