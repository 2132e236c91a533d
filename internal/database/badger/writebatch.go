// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"sync"

	badger "github.com/dgraph-io/badger/v2"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

type operation struct {
	key    []byte
	value  []byte
	delete bool
}

// writeBatch buffers operations with keys prefixed with a
// certain given prefix, and applies them in a single badger
// transaction on Flush.
type writeBatch struct {
	prefix         []byte
	badgerDatabase *badger.DB
	operations     []operation
	mutex          sync.Mutex
}

func newWriteBatch(prefix []byte, badgerDatabase *badger.DB) *writeBatch {
	return &writeBatch{
		prefix:         prefix,
		badgerDatabase: badgerDatabase,
	}
}

// Set sets a value at the given key prefixed with the given prefix.
func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	wb.operations = append(wb.operations, operation{
		key:   database.PrefixedKey(wb.prefix, key),
		value: valueCopy,
	})
	return nil
}

// Delete deletes the given key prefixed with the table prefix
// from the database.
func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	wb.operations = append(wb.operations, operation{
		key:    database.PrefixedKey(wb.prefix, key),
		delete: true,
	})
	return nil
}

// Flush commits all the buffered operations in one transaction.
// Either all operations are committed or none are.
func (wb *writeBatch) Flush() (err error) {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()

	err = wb.badgerDatabase.Update(func(txn *badger.Txn) error {
		for _, op := range wb.operations {
			var err error
			if op.delete {
				err = txn.Delete(op.key)
			} else {
				err = txn.Set(op.key, op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	wb.operations = nil
	return transformError(err)
}

// Cancel discards the buffered operations.
func (wb *writeBatch) Cancel() {
	wb.mutex.Lock()
	defer wb.mutex.Unlock()
	wb.operations = nil
}
