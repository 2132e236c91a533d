// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package mmr

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
	"math/bits"

	"golang.org/x/exp/slices"
)

var (
	ErrLeafNotFound = errors.New("leaf not found")
	ErrInvalidProof = errors.New("invalid mmr proof")
	ErrRootMismatch = errors.New("mmr root mismatch")
)

// Proof is an inclusion proof of one leaf. Items holds the siblings on the
// path from the leaf to its peak, followed by the other peaks left to right.
type Proof struct {
	LeafIndex uint64
	LeafCount uint64
	Items     []MMRElement
}

// LeafIndexToPos returns the node position of the leaf at the index.
func LeafIndexToPos(index uint64) uint64 {
	return LeafIndexToMMRSize(index) - uint64(bits.TrailingZeros64(index+1)) - 1
}

// LeafIndexToMMRSize returns the size of the MMR once the leaf at the
// index has been pushed.
func LeafIndexToMMRSize(index uint64) uint64 {
	leaves := index + 1
	return 2*leaves - uint64(bits.OnesCount64(leaves))
}

// GenerateProof builds the inclusion proof of the leaf at the index
// against the current root.
func (mmr *MMR) GenerateProof(leafIndex uint64) (Proof, error) {
	count := mmr.LeafCount()
	if leafIndex >= count {
		return Proof{}, fmt.Errorf("%w: index %d, leaf count %d", ErrLeafNotFound, leafIndex, count)
	}

	peaks := peakPositions(mmr.size)
	pos := LeafIndexToPos(leafIndex)
	var items []MMRElement
	for height := 0; !slices.Contains(peaks, pos); height++ {
		var sibling uint64
		if posHeight(pos+1) > height {
			sibling = pos - siblingOffset(height)
			pos++
		} else {
			sibling = pos + siblingOffset(height)
			pos = sibling + 1
		}

		element, err := mmr.element(sibling)
		if err != nil {
			return Proof{}, err
		}
		items = append(items, element)
	}

	for _, peak := range peaks {
		if peak == pos {
			continue
		}
		element, err := mmr.element(peak)
		if err != nil {
			return Proof{}, err
		}
		items = append(items, element)
	}

	return Proof{
		LeafIndex: leafIndex,
		LeafCount: count,
		Items:     items,
	}, nil
}

// VerifyProof checks the leaf hash is committed to by the root.
func VerifyProof(hasher hash.Hash, root, leaf MMRElement, proof Proof) error {
	computed, err := CalculateRoot(hasher, leaf, proof)
	if err != nil {
		return err
	}
	if !bytes.Equal(computed, root) {
		return fmt.Errorf("%w: computed 0x%x, expected 0x%x", ErrRootMismatch, computed, root)
	}
	return nil
}

// CalculateRoot returns the root the proof commits the leaf hash to.
func CalculateRoot(hasher hash.Hash, leaf MMRElement, proof Proof) (MMRElement, error) {
	if proof.LeafCount == 0 || proof.LeafIndex >= proof.LeafCount {
		return nil, fmt.Errorf("%w: leaf index %d out of %d leaves",
			ErrInvalidProof, proof.LeafIndex, proof.LeafCount)
	}

	peaks := peakPositions(LeafIndexToMMRSize(proof.LeafCount - 1))
	pos := LeafIndexToPos(proof.LeafIndex)
	items := proof.Items
	current := leaf
	for height := 0; !slices.Contains(peaks, pos); height++ {
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: missing sibling at height %d", ErrInvalidProof, height)
		}
		sibling := items[0]
		items = items[1:]

		if posHeight(pos+1) > height {
			current = merge(hasher, sibling, current)
			pos++
		} else {
			current = merge(hasher, current, sibling)
			pos += siblingOffset(height) + 1
		}
	}

	if len(items) != len(peaks)-1 {
		return nil, fmt.Errorf("%w: expected %d peaks, got %d items",
			ErrInvalidProof, len(peaks)-1, len(items))
	}

	peakHashes := make([]MMRElement, 0, len(peaks))
	for _, peak := range peaks {
		if peak == pos {
			peakHashes = append(peakHashes, current)
			continue
		}
		peakHashes = append(peakHashes, items[0])
		items = items[1:]
	}
	return bagPeaks(hasher, peakHashes), nil
}

func siblingOffset(height int) uint64 {
	return (2 << height) - 1
}

// posHeight returns the height of the node at the position, leaves being 0.
func posHeight(pos uint64) int {
	pos++
	for !allOnes(pos) {
		pos = jumpLeft(pos)
	}
	return bits.Len64(pos) - 1
}

func allOnes(n uint64) bool {
	return n != 0 && bits.OnesCount64(n) == bits.Len64(n)
}

func jumpLeft(pos uint64) uint64 {
	mostSignificant := uint64(1) << (bits.Len64(pos) - 1)
	return pos - (mostSignificant - 1)
}
