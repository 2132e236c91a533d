// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

type table struct {
	prefix   []byte
	database *Database
}

// Get retrieves a value from the database using the given key
// prefixed with the table prefix.
// It returns the wrapped error `database.ErrKeyNotFound` if the
// prefixed key is not found.
func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(database.PrefixedKey(t.prefix, key))
}

// Has returns true if the key prefixed with the table prefix exists.
func (t *table) Has(key []byte) (has bool, err error) {
	return t.database.Has(database.PrefixedKey(t.prefix, key))
}

// Set sets a value at the given key prefixed with the table prefix
// in the database.
func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(database.PrefixedKey(t.prefix, key), value)
}

// Delete deletes the given key prefixed with the table prefix
// from the database. If the key is not found, no error is returned.
func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(database.PrefixedKey(t.prefix, key))
}

// NewWriteBatch returns a new write batch for the database,
// using the table prefix to prefix all keys.
func (t *table) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch(t.prefix, t.database.badgerDatabase)
}

// NewIterator returns an iterator over the table keys starting
// with the given prefix.
func (t *table) NewIterator(prefix []byte) database.Iterator {
	return newIterator(t.database.badgerDatabase, t.prefix, prefix)
}
