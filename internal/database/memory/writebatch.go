// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

import "github.com/ChainSafe/ibc-light-clients/internal/database"

// writeBatch buffers key changes and applies them to the
// database all at once, under the database lock.
type writeBatch struct {
	prefix   string
	database *Database
	// keyToValue maps a key to its new value, or to nil
	// if the key is to be deleted.
	keyToValue map[string][]byte
}

func newWriteBatch(prefix string, db *Database) *writeBatch {
	return &writeBatch{
		prefix:     prefix,
		database:   db,
		keyToValue: make(map[string][]byte),
	}
}

// Set buffers a value at the given key prefixed with the batch prefix.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.keyToValue[wb.prefix+string(key)] = database.CopyBytes(value)
	return nil
}

// Delete buffers the deletion of the given key prefixed with the batch prefix.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.keyToValue[wb.prefix+string(key)] = nil
	return nil
}

// Flush applies all buffered changes atomically.
func (wb *writeBatch) Flush() (err error) {
	wb.database.mutex.Lock()
	defer wb.database.mutex.Unlock()
	wb.database.panicOnClosed()

	for key, value := range wb.keyToValue {
		if value == nil {
			delete(wb.database.keyValues, key)
			continue
		}
		wb.database.keyValues[key] = value
	}

	wb.keyToValue = make(map[string][]byte)
	return nil
}

// Cancel discards all buffered changes.
func (wb *writeBatch) Cancel() {
	wb.keyToValue = make(map[string][]byte)
}
