// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pebble

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

// writeBatch buffers operations in a pebble batch, prefixing
// every key, and commits them atomically on Flush.
type writeBatch struct {
	prefix   []byte
	database *Database
	batch    *pebble.Batch
	mutex    sync.Mutex
}

func newWriteBatch(prefix []byte, db *Database) *writeBatch {
	return &writeBatch{
		prefix:   prefix,
		database: db,
		batch:    db.pebbleDB.NewBatch(),
	}
}

// Set buffers a value at the given key prefixed with the batch prefix.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	err = wb.batch.Set(database.PrefixedKey(wb.prefix, key), value, nil)
	if err != nil {
		return fmt.Errorf("setting to batch: %w", err)
	}
	return nil
}

// Delete buffers the deletion of the given key prefixed with the batch prefix.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	err = wb.batch.Delete(database.PrefixedKey(wb.prefix, key), nil)
	if err != nil {
		return fmt.Errorf("deleting in batch: %w", err)
	}
	return nil
}

// Flush commits all buffered operations atomically.
// The batch can be reused afterwards.
func (wb *writeBatch) Flush() (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	wb.database.mutex.RLock()
	defer wb.database.mutex.RUnlock()
	if wb.database.closed {
		return fmt.Errorf("%w", database.ErrClosed)
	}

	err = wb.batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	wb.batch.Reset()
	return nil
}

// Cancel discards all buffered operations.
func (wb *writeBatch) Cancel() {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()
	wb.batch.Reset()
}
