// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2bHash returns the 256-bit blake2b hash of the input data
func Blake2bHash(in []byte) (Hash, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return Hash{}, err
	}

	_, err = h.Write(in)
	if err != nil {
		return Hash{}, err
	}

	return NewHash(h.Sum(nil)), nil
}

// MustBlake2bHash returns the 256-bit blake2b hash of the input data.
// It panics if it fails to hash.
func MustBlake2bHash(in []byte) Hash {
	hash, err := Blake2bHash(in)
	if err != nil {
		panic(err)
	}
	return hash
}

// Keccak256 returns the legacy keccak256 hash of the input data
func Keccak256(in ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range in {
		// hash.Hash writes never fail
		_, _ = h.Write(b)
	}
	return NewHash(h.Sum(nil))
}

// Twox64 returns the xx64 hash of the input data
func Twox64(in []byte) ([]byte, error) {
	return twox(in, 1)
}

// Twox128Hash computes xxHash64 twice with seeds 0 and 1 applied on given byte array
func Twox128Hash(in []byte) ([]byte, error) {
	return twox(in, 2)
}

// Twox64Concat returns the xx64 hash of the input data followed by the data itself,
// as used by storage maps with a `Twox64Concat` hasher.
func Twox64Concat(in []byte) ([]byte, error) {
	h, err := Twox64(in)
	if err != nil {
		return nil, err
	}
	return append(h, in...), nil
}

func twox(in []byte, rounds int) ([]byte, error) {
	out := make([]byte, 0, 8*rounds)
	for seed := 0; seed < rounds; seed++ {
		hasher := xxhash.NewS64(uint64(seed))
		_, err := hasher.Write(in)
		if err != nil {
			return nil, err
		}
		out = binary.LittleEndian.AppendUint64(out, hasher.Sum64())
	}
	return out, nil
}
