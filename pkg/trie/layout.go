// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// NoMaxInlineValueSize indicates values are never hashed.
	NoMaxInlineValueSize = math.MaxInt
	// V1MaxInlineValueSize is the maximum size of a value stored
	// inline in state trie version 1.
	V1MaxInlineValueSize = 32
)

// Version is the state trie version which dictates how a
// Merkle root is constructed.
// See https://spec.polkadot.network/#defn-state-version
type Version uint8

const (
	// V0 inserts values directly in trie nodes.
	V0 Version = iota
	// V1 stores values larger than 32 bytes as hashed values.
	V1
)

// ErrParseVersion is returned when parsing a state trie version fails.
var ErrParseVersion = errors.New("parsing version failed")

func (v Version) String() string {
	switch v {
	case V0:
		return "v0"
	case V1:
		return "v1"
	default:
		return fmt.Sprintf("unknown version %d", uint8(v))
	}
}

// MaxInlineValue returns the maximum size of a value stored inline.
func (v Version) MaxInlineValue() int {
	if v == V1 {
		return V1MaxInlineValueSize
	}
	return NoMaxInlineValueSize
}

// ParseVersion parses a state trie version from a string or number.
func ParseVersion(s string) (version Version, err error) {
	switch strings.ToLower(s) {
	case "v0", "0":
		return V0, nil
	case "v1", "1":
		return V1, nil
	default:
		return version, fmt.Errorf("%w: %q must be one of [v0, v1]", ErrParseVersion, s)
	}
}
