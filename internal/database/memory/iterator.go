// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

type keyValue struct {
	key   []byte
	value []byte
}

// iterator iterates over a sorted snapshot of key values.
type iterator struct {
	keyValues []keyValue
	index     int
}

func (i *iterator) Next() bool {
	if i.index < len(i.keyValues) {
		i.index++
	}
	return i.index < len(i.keyValues)
}

func (i *iterator) Key() []byte { return i.keyValues[i.index].key }

func (i *iterator) Value() []byte { return i.keyValues[i.index].value }

func (i *iterator) Release() { i.keyValues = nil }
