// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package pebble

import (
	"github.com/cockroachdb/pebble"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/ChainSafe/ibc-light-clients/internal/log"
)

var logger = log.NewFromGlobal(log.AddContext("database", "pebble"))

// iterator iterates over the keys of a prefix in ascending order.
type iterator struct {
	pebbleIterator *pebble.Iterator
	tablePrefix    []byte
	started        bool
}

func (db *Database) newIterator(tablePrefix, prefix []byte) *iterator {
	fullPrefix := database.PrefixedKey(tablePrefix, prefix)

	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.closed {
		panic("database is closed")
	}

	pebbleIterator, err := db.pebbleDB.NewIter(&pebble.IterOptions{
		LowerBound: fullPrefix,
		UpperBound: database.KeyUpperBound(fullPrefix),
	})
	if err != nil {
		logger.Errorf("creating iterator: %s", err)
		return &iterator{}
	}

	return &iterator{
		pebbleIterator: pebbleIterator,
		tablePrefix:    tablePrefix,
	}
}

// Next moves to the next key value pair and returns
// false once the iteration is exhausted.
func (i *iterator) Next() bool {
	if i.pebbleIterator == nil {
		return false
	}
	if !i.started {
		i.started = true
		return i.pebbleIterator.First()
	}
	return i.pebbleIterator.Next()
}

// Key returns a copy of the current key without the table prefix.
func (i *iterator) Key() []byte {
	return database.CopyBytes(i.pebbleIterator.Key()[len(i.tablePrefix):])
}

// Value returns a copy of the current value.
func (i *iterator) Value() []byte {
	return database.CopyBytes(i.pebbleIterator.Value())
}

// Release closes the iterator.
func (i *iterator) Release() {
	if i.pebbleIterator == nil {
		return
	}
	err := i.pebbleIterator.Close()
	if err != nil {
		logger.Errorf("closing iterator: %s", err)
	}
	i.pebbleIterator = nil
}
