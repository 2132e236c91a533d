// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/ChainSafe/ibc-light-clients/lib/common"
)

// HeaderHashesCapacity is the number of relay chain header hashes remembered.
const HeaderHashesCapacity = 500

// ErrHeaderHashesOverflow is returned when decoding more hashes than the capacity.
var ErrHeaderHashesOverflow = errors.New("header hashes exceed capacity")

// HeaderHashes is a fixed capacity ring buffer of header hashes with
// constant time membership. When full, the oldest hash is evicted first.
type HeaderHashes struct {
	capacity int
	ring     []common.Hash
	start    int
	set      map[common.Hash]struct{}
}

// NewHeaderHashes creates an empty ring buffer of the given capacity.
func NewHeaderHashes(capacity int) *HeaderHashes {
	if capacity <= 0 {
		capacity = HeaderHashesCapacity
	}
	return &HeaderHashes{
		capacity: capacity,
		ring:     make([]common.Hash, 0, capacity),
		set:      make(map[common.Hash]struct{}, capacity),
	}
}

// Len returns the number of hashes held.
func (h *HeaderHashes) Len() int {
	return len(h.ring)
}

// Contains returns true if the hash is held.
func (h *HeaderHashes) Contains(hash common.Hash) bool {
	_, ok := h.set[hash]
	return ok
}

// Insert adds the hash, evicting the oldest hash if the buffer is full.
// It returns ErrHeaderAlreadyProcessed if the hash is already held.
// The zero value holds up to HeaderHashesCapacity hashes.
func (h *HeaderHashes) Insert(hash common.Hash) error {
	if h.set == nil {
		*h = *NewHeaderHashes(h.capacity)
	}
	if h.Contains(hash) {
		return fmt.Errorf("%w: %s", ErrHeaderAlreadyProcessed, hash)
	}

	if len(h.ring) < h.capacity {
		h.ring = append(h.ring, hash)
	} else {
		delete(h.set, h.ring[h.start])
		h.ring[h.start] = hash
		h.start = (h.start + 1) % h.capacity
	}
	h.set[hash] = struct{}{}
	return nil
}

// Hashes returns the hashes held, oldest first.
func (h *HeaderHashes) Hashes() []common.Hash {
	hashes := make([]common.Hash, 0, len(h.ring))
	hashes = append(hashes, h.ring[h.start:]...)
	hashes = append(hashes, h.ring[:h.start]...)
	return hashes
}

// Clone returns a deep copy of the buffer.
func (h *HeaderHashes) Clone() *HeaderHashes {
	clone := NewHeaderHashes(h.capacity)
	for _, hash := range h.Hashes() {
		clone.ring = append(clone.ring, hash)
		clone.set[hash] = struct{}{}
	}
	return clone
}

// Encode encodes the hashes as a vector, oldest first.
func (h HeaderHashes) Encode(encoder scale.Encoder) error {
	return encoder.Encode(h.Hashes())
}

// Decode decodes a vector of hashes into a buffer of default capacity.
func (h *HeaderHashes) Decode(decoder scale.Decoder) error {
	length, err := common.DecodeCompact(&decoder)
	if err != nil {
		return err
	}
	if length > HeaderHashesCapacity {
		return fmt.Errorf("%w: %d", ErrHeaderHashesOverflow, length)
	}

	*h = *NewHeaderHashes(HeaderHashesCapacity)
	for i := uint64(0); i < length; i++ {
		var hash common.Hash
		err = decoder.Decode(&hash)
		if err != nil {
			return fmt.Errorf("decoding hash at index %d: %w", i, err)
		}
		err = h.Insert(hash)
		if err != nil {
			return err
		}
	}
	return nil
}
