// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

// CopyBytes returns a copy of b which is never nil.
func CopyBytes(b []byte) []byte {
	bCopy := make([]byte, len(b))
	copy(bCopy, b)
	return bCopy
}

// PrefixedKey returns a new slice holding the table prefix followed by
// the key. It never aliases the prefix backing array.
func PrefixedKey(prefix, key []byte) []byte {
	prefixedKey := make([]byte, 0, len(prefix)+len(key))
	prefixedKey = append(prefixedKey, prefix...)
	return append(prefixedKey, key...)
}

// KeyUpperBound returns the smallest key greater than all keys
// starting with the prefix, or nil if there is none.
func KeyUpperBound(prefix []byte) []byte {
	end := CopyBytes(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
