// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package codec

// KeyToNibbles converts a byte key to its nibbles, most significant first.
func KeyToNibbles(in []byte) (nibbles []byte) {
	if len(in) == 0 {
		return []byte{}
	}

	nibbles = make([]byte, 2*len(in))
	for i, b := range in {
		nibbles[2*i] = b >> 4
		nibbles[2*i+1] = b & 0x0f
	}
	return nibbles
}

// NibblesToKeyLE packs nibbles into bytes. For an odd number of
// nibbles, the first nibble sits alone in the low half of the first byte.
func NibblesToKeyLE(nibbles []byte) (key []byte) {
	odd := len(nibbles) % 2
	key = make([]byte, len(nibbles)/2+odd)
	if odd == 1 {
		key[0] = nibbles[0] & 0x0f
	}
	for i := odd; i < len(nibbles); i += 2 {
		key[i/2+odd] = nibbles[i]<<4 | nibbles[i+1]&0x0f
	}
	return key
}
