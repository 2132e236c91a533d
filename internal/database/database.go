// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package database defines the key value store interfaces used
// to persist light client states, and their sentinel errors.
package database

import "errors"

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = errors.New("key not found")
	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database is closed")
)

// Reader reads values from the database.
type Reader interface {
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (has bool, err error)
}

// Writer writes values to the database.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// WriteBatch buffers writes which are all applied atomically
// on Flush, or discarded on Cancel.
type WriteBatch interface {
	Writer
	Flush() error
	Cancel()
}

// Iterator iterates over key value pairs in ascending key order.
// Keys returned are stripped of the table prefix.
// It must be released after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

// Table is a key value store scoped to a prefix.
type Table interface {
	Reader
	Writer
	NewWriteBatch() WriteBatch
	NewIterator(prefix []byte) Iterator
}

// Database wraps all database operations. All methods are safe for concurrent use.
type Database interface {
	Table
	NewTable(prefix string) Table
	Close() error
	DropAll() error
}
