// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	badger "github.com/dgraph-io/badger/v2"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

// iterator iterates over a read only badger transaction snapshot.
type iterator struct {
	txn            *badger.Txn
	badgerIterator *badger.Iterator
	tablePrefix    []byte
	prefix         []byte
	started        bool
}

func newIterator(badgerDatabase *badger.DB, tablePrefix, prefix []byte) *iterator {
	fullPrefix := database.PrefixedKey(tablePrefix, prefix)
	txn := badgerDatabase.NewTransaction(false)
	options := badger.DefaultIteratorOptions
	options.Prefix = fullPrefix
	return &iterator{
		txn:            txn,
		badgerIterator: txn.NewIterator(options),
		tablePrefix:    tablePrefix,
		prefix:         fullPrefix,
	}
}

// Next moves to the next key value pair and returns
// false once the iteration is exhausted.
func (i *iterator) Next() bool {
	if !i.started {
		i.started = true
		i.badgerIterator.Rewind()
	} else {
		i.badgerIterator.Next()
	}
	return i.badgerIterator.ValidForPrefix(i.prefix)
}

// Key returns a copy of the current key without the table prefix.
func (i *iterator) Key() []byte {
	key := i.badgerIterator.Item().KeyCopy(nil)
	return key[len(i.tablePrefix):]
}

// Value returns a copy of the current value.
func (i *iterator) Value() []byte {
	value, err := i.badgerIterator.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return value
}

// Release closes the iterator and discards its transaction.
func (i *iterator) Release() {
	i.badgerIterator.Close()
	i.txn.Discard()
}
