// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package pebble provides a database implementation backed by pebble.
package pebble

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
)

var _ database.Database = (*Database)(nil)

// Database is a pebble backed database.
type Database struct {
	path     string
	pebbleDB *pebble.DB
	closed   bool
	mutex    sync.RWMutex
}

// New opens a pebble database at the given path, creating the directory
// if needed. An empty path opens a database held in memory.
func New(path string) (*Database, error) {
	options := &pebble.Options{}
	if path == "" {
		options.FS = vfs.NewMem()
	} else if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	pebbleDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, fmt.Errorf("opening pebble database: %w", err)
	}

	return &Database{
		path:     path,
		pebbleDB: pebbleDB,
	}, nil
}

// Path returns the directory of the database, or the empty string
// for an in memory database.
func (db *Database) Path() string {
	return db.path
}

// Get retrieves a copy of the value at the given key.
// It returns the wrapped error `database.ErrKeyNotFound` if the key is not found.
func (db *Database) Get(key []byte) (value []byte, err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.closed {
		return nil, fmt.Errorf("%w", database.ErrClosed)
	}

	value, closer, err := db.pebbleDB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: 0x%x", database.ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("getting 0x%x from database: %w", key, err)
	}
	value = database.CopyBytes(value)

	err = closer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing after get: %w", err)
	}
	return value, nil
}

// Has returns true if the key exists in the database.
func (db *Database) Has(key []byte) (has bool, err error) {
	_, err = db.Get(key)
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set sets a value at the given key, syncing it to disk.
func (db *Database) Set(key, value []byte) (err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.closed {
		return fmt.Errorf("%w", database.ErrClosed)
	}

	err = db.pebbleDB.Set(key, value, pebble.Sync)
	if err != nil {
		return fmt.Errorf("writing 0x%x to database: %w", key, err)
	}
	return nil
}

// Delete deletes the given key from the database.
// If the key is not found, no error is returned.
func (db *Database) Delete(key []byte) (err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.closed {
		return fmt.Errorf("%w", database.ErrClosed)
	}

	err = db.pebbleDB.Delete(key, pebble.Sync)
	if err != nil {
		return fmt.Errorf("deleting 0x%x from database: %w", key, err)
	}
	return nil
}

// NewWriteBatch returns a new write batch for the database.
func (db *Database) NewWriteBatch() (writeBatch database.WriteBatch) {
	const prefix = ""
	return newWriteBatch([]byte(prefix), db)
}

// NewIterator returns an iterator over the keys starting with the given prefix.
func (db *Database) NewIterator(prefix []byte) database.Iterator {
	const tablePrefix = ""
	return db.newIterator([]byte(tablePrefix), prefix)
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (db *Database) NewTable(prefix string) (dbTable database.Table) {
	return &table{
		prefix:   []byte(prefix),
		database: db,
	}
}

// DropAll deletes all keys of the database.
func (db *Database) DropAll() (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.closed {
		return fmt.Errorf("%w", database.ErrClosed)
	}

	pebbleIterator, err := db.pebbleDB.NewIter(nil)
	if err != nil {
		return fmt.Errorf("creating iterator: %w", err)
	}

	batch := db.pebbleDB.NewBatch()
	defer batch.Close()
	for valid := pebbleIterator.First(); valid; valid = pebbleIterator.Next() {
		err = batch.Delete(pebbleIterator.Key(), nil)
		if err != nil {
			_ = pebbleIterator.Close()
			return fmt.Errorf("deleting in batch: %w", err)
		}
	}

	err = pebbleIterator.Close()
	if err != nil {
		return fmt.Errorf("closing iterator: %w", err)
	}

	err = batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Close flushes and closes the database. Closing it again is a no-op.
func (db *Database) Close() (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true

	err = db.pebbleDB.Flush()
	if err != nil {
		_ = db.pebbleDB.Close()
		return fmt.Errorf("flushing database: %w", err)
	}
	return db.pebbleDB.Close()
}
