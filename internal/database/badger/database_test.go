// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"testing"

	"github.com/ChainSafe/ibc-light-clients/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTo[T any](value T) *T { return &value }

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := New(Settings{InMemory: ptrTo(true)})
	require.NoError(t, err)
	t.Cleanup(func() {
		err := db.Close()
		assert.NoError(t, err)
	})
	return db
}

func Test_Settings_Validate(t *testing.T) {
	t.Parallel()

	settings := Settings{}
	settings.SetDefaults()
	err := settings.Validate()
	assert.ErrorIs(t, err, ErrPathNotSet)

	settings = Settings{Path: ptrTo(t.TempDir())}
	settings.SetDefaults()
	err = settings.Validate()
	assert.NoError(t, err)
}

func Test_Database(t *testing.T) {
	t.Parallel()

	db := newTestDatabase(t)

	err := db.Set([]byte{1}, []byte{2})
	require.NoError(t, err)

	value, err := db.Get([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, value)

	has, err := db.Has([]byte{1})
	require.NoError(t, err)
	assert.True(t, has)

	err = db.Delete([]byte{1})
	require.NoError(t, err)

	_, err = db.Get([]byte{1})
	assert.ErrorIs(t, err, database.ErrKeyNotFound)

	has, err = db.Has([]byte{1})
	require.NoError(t, err)
	assert.False(t, has)
}

func Test_writeBatch(t *testing.T) {
	t.Parallel()

	db := newTestDatabase(t)
	require.NoError(t, db.Set([]byte{3}, []byte{2}))

	batch := db.NewWriteBatch()
	require.NoError(t, batch.Set([]byte{1}, []byte{2}))
	require.NoError(t, batch.Delete([]byte{3}))
	batch.Cancel()

	_, err := db.Get([]byte{1})
	assert.ErrorIs(t, err, database.ErrKeyNotFound)

	require.NoError(t, batch.Set([]byte{1}, []byte{2}))
	require.NoError(t, batch.Delete([]byte{3}))
	require.NoError(t, batch.Flush())

	value, err := db.Get([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, value)
	_, err = db.Get([]byte{3})
	assert.ErrorIs(t, err, database.ErrKeyNotFound)
}

func Test_table_iterator(t *testing.T) {
	t.Parallel()

	db := newTestDatabase(t)
	table := db.NewTable("consensus/")

	for _, key := range [][]byte{{0, 3}, {0, 1}, {1, 0}, {0, 2}} {
		require.NoError(t, table.Set(key, key))
	}
	require.NoError(t, db.Set([]byte("other"), []byte{9}))

	iterator := table.NewIterator([]byte{0})
	var keys, values [][]byte
	for iterator.Next() {
		keys = append(keys, iterator.Key())
		values = append(values, iterator.Value())
	}
	iterator.Release()

	expected := [][]byte{{0, 1}, {0, 2}, {0, 3}}
	assert.Equal(t, expected, keys)
	assert.Equal(t, expected, values)
}
