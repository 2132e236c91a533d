// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package exported

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// HeightKeyLength is the length of the big endian encoding of a height.
const HeightKeyLength = 16

// Height is a block height within a chain revision.
type Height struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

// NewHeight returns the height at the revision.
func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}
}

// ParseHeight parses a height formatted as "revision-height".
func ParseHeight(s string) (height Height, err error) {
	revision, blockHeight, ok := strings.Cut(s, "-")
	if !ok {
		return height, fmt.Errorf("%w: %q is not formatted as revision-height", ErrInvalidHeight, s)
	}

	height.RevisionNumber, err = strconv.ParseUint(revision, 10, 64)
	if err != nil {
		return height, fmt.Errorf("%w: revision number: %s", ErrInvalidHeight, err)
	}
	height.RevisionHeight, err = strconv.ParseUint(blockHeight, 10, 64)
	if err != nil {
		return height, fmt.Errorf("%w: revision height: %s", ErrInvalidHeight, err)
	}
	return height, nil
}

// Compare returns -1, 0 or 1 if h is lower than, equal to or greater than other.
// Revision numbers are compared first.
func (h Height) Compare(other Height) int {
	switch {
	case h.RevisionNumber < other.RevisionNumber:
		return -1
	case h.RevisionNumber > other.RevisionNumber:
		return 1
	case h.RevisionHeight < other.RevisionHeight:
		return -1
	case h.RevisionHeight > other.RevisionHeight:
		return 1
	default:
		return 0
	}
}

// LT returns true if h is lower than other.
func (h Height) LT(other Height) bool { return h.Compare(other) < 0 }

// LTE returns true if h is lower than or equal to other.
func (h Height) LTE(other Height) bool { return h.Compare(other) <= 0 }

// GT returns true if h is greater than other.
func (h Height) GT(other Height) bool { return h.Compare(other) > 0 }

// GTE returns true if h is greater than or equal to other.
func (h Height) GTE(other Height) bool { return h.Compare(other) >= 0 }

// IsZero returns true for the zero height.
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Increment returns the next height within the same revision.
func (h Height) Increment() Height {
	return Height{
		RevisionNumber: h.RevisionNumber,
		RevisionHeight: h.RevisionHeight + 1,
	}
}

// Key returns the big endian encoding of the height, which sorts in
// ascending height order.
func (h Height) Key() []byte {
	key := make([]byte, 0, HeightKeyLength)
	key = binary.BigEndian.AppendUint64(key, h.RevisionNumber)
	return binary.BigEndian.AppendUint64(key, h.RevisionHeight)
}

// HeightFromKey decodes a height encoded by Key.
func HeightFromKey(key []byte) (Height, error) {
	if len(key) != HeightKeyLength {
		return Height{}, fmt.Errorf("%w: key length %d", ErrInvalidHeight, len(key))
	}
	return Height{
		RevisionNumber: binary.BigEndian.Uint64(key[:8]),
		RevisionHeight: binary.BigEndian.Uint64(key[8:]),
	}, nil
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}
