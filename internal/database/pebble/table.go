// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pebble

import "github.com/ChainSafe/ibc-light-clients/internal/database"

type table struct {
	prefix   []byte
	database *Database
}

func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(database.PrefixedKey(t.prefix, key))
}

func (t *table) Has(key []byte) (has bool, err error) {
	return t.database.Has(database.PrefixedKey(t.prefix, key))
}

func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(database.PrefixedKey(t.prefix, key), value)
}

func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(database.PrefixedKey(t.prefix, key))
}

// NewWriteBatch returns a write batch prefixing all keys
// with the table prefix.
func (t *table) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch(t.prefix, t.database)
}

// NewIterator returns an iterator over the table keys
// starting with the given prefix.
func (t *table) NewIterator(prefix []byte) database.Iterator {
	return t.database.newIterator(t.prefix, prefix)
}
