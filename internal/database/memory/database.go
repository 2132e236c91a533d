// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package memory provides an in-memory database implementation.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

// Database is an in-memory database implementation.
type Database struct {
	closed    bool
	keyValues map[string][]byte
	mutex     sync.RWMutex
}

var _ database.Database = (*Database)(nil)

// New returns a new in-memory database.
func New() *Database {
	return &Database{
		keyValues: make(map[string][]byte),
	}
}

// Get retrieves a value from the database using the given key.
// It returns `ErrKeyNotFound` if the key is not found.
func (db *Database) Get(key []byte) (value []byte, err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	db.panicOnClosed()

	value, ok := db.keyValues[string(key)]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", database.ErrKeyNotFound, key)
	}

	return database.CopyBytes(value), nil
}

// Has returns true if the key exists in the database.
func (db *Database) Has(key []byte) (has bool, err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	db.panicOnClosed()

	_, has = db.keyValues[string(key)]
	return has, nil
}

// Set sets a value at the given key in the database.
// The value byte slice is deep copied to avoid any mutation surprises.
// The error returned is always nil.
func (db *Database) Set(key, value []byte) (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.panicOnClosed()

	db.keyValues[string(key)] = database.CopyBytes(value)

	return nil
}

// Delete deletes a the given key in the database.
// If the key is not found, no error is returned.
func (db *Database) Delete(key []byte) (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.panicOnClosed()

	delete(db.keyValues, string(key))

	return nil
}

// NewWriteBatch returns a new write batch for the database.
// It is not thread-safe to write to the batch, but flushing it is
// thread-safe for the database.
func (db *Database) NewWriteBatch() (writeBatch database.WriteBatch) {
	db.panicOnClosed()
	const prefix = ""
	return newWriteBatch(prefix, db)
}

// NewIterator returns an iterator over a snapshot of the keys
// starting with the given prefix, in ascending order.
func (db *Database) NewIterator(prefix []byte) database.Iterator {
	const tablePrefix = ""
	return db.newIterator(tablePrefix, string(prefix))
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (db *Database) NewTable(prefix string) (dbTable database.Table) {
	db.panicOnClosed()
	return newTable(prefix, db)
}

// Close closes the database.
func (db *Database) Close() (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.closed = true
	db.keyValues = nil
	return nil
}

// DropAll drops all data from the database.
func (db *Database) DropAll() (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.panicOnClosed()

	db.keyValues = make(map[string][]byte)
	return nil
}

func (db *Database) newIterator(tablePrefix, prefix string) *iterator {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	db.panicOnClosed()

	fullPrefix := tablePrefix + prefix
	var keyValues []keyValue
	for key, value := range db.keyValues {
		if !strings.HasPrefix(key, fullPrefix) {
			continue
		}
		keyValues = append(keyValues, keyValue{
			key:   []byte(key[len(tablePrefix):]),
			value: database.CopyBytes(value),
		})
	}

	sort.Slice(keyValues, func(i, j int) bool {
		return string(keyValues[i].key) < string(keyValues[j].key)
	})

	return &iterator{
		keyValues: keyValues,
		index:     -1,
	}
}

func (db *Database) panicOnClosed() {
	if db.closed {
		panic(database.ErrClosed.Error())
	}
}
