// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

import "github.com/ChainSafe/ibc-light-clients/internal/database"

type table struct {
	prefix   string
	database *Database
}

func newTable(prefix string, database *Database) *table {
	return &table{
		prefix:   prefix,
		database: database,
	}
}

// Get retrieves a value from the database using the given key
// prefixed with the table prefix.
func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get([]byte(t.prefix + string(key)))
}

// Has returns true if the prefixed key exists.
func (t *table) Has(key []byte) (has bool, err error) {
	return t.database.Has([]byte(t.prefix + string(key)))
}

// Set sets a value at the given key prefixed with the table prefix.
func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set([]byte(t.prefix+string(key)), value)
}

// Delete deletes the given key prefixed with the table prefix.
func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete([]byte(t.prefix + string(key)))
}

// NewWriteBatch returns a write batch prefixing all keys
// with the table prefix.
func (t *table) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch(t.prefix, t.database)
}

// NewIterator returns an iterator over the table keys
// starting with the given prefix.
func (t *table) NewIterator(prefix []byte) database.Iterator {
	return t.database.newIterator(t.prefix, string(prefix))
}
