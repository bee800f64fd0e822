package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests checks the behaviour the funding state relies on against
// stores built by newStore: reads, savepoints that are written or
// discarded, and iteration over pending writes.
//
// It is shared by the in-memory and the iavl backed stores.
func RunStoreTests(t *testing.T, newStore func() CacheableKVStore) {
	t.Run("get set delete", func(t *testing.T) {
		db := newStore()
		AssertGetHas(t, db, []byte("alice"), nil, false)
		require.NoError(t, db.Set([]byte("alice"), []byte("1000")))
		AssertGetHas(t, db, []byte("alice"), []byte("1000"), true)
		require.NoError(t, db.Delete([]byte("alice")))
		AssertGetHas(t, db, []byte("alice"), nil, false)
	})

	t.Run("savepoints", func(t *testing.T) {
		db := newStore()
		require.NoError(t, db.Set([]byte("bob"), []byte("8")))

		dropped := db.CacheWrap()
		require.NoError(t, dropped.Set([]byte("carol"), []byte("7")))
		require.NoError(t, dropped.Delete([]byte("bob")))
		AssertGetHas(t, dropped, []byte("bob"), nil, false)
		AssertGetHas(t, db, []byte("bob"), []byte("8"), true)
		dropped.Discard()
		AssertGetHas(t, db, []byte("carol"), nil, false)

		kept := db.CacheWrap()
		nested := kept.CacheWrap()
		require.NoError(t, nested.Set([]byte("carol"), []byte("7")))
		require.NoError(t, nested.Delete([]byte("bob")))
		AssertGetHas(t, kept, []byte("carol"), nil, false)
		require.NoError(t, nested.Write())
		AssertGetHas(t, kept, []byte("carol"), []byte("7"), true)
		AssertGetHas(t, db, []byte("carol"), nil, false)
		require.NoError(t, kept.Write())
		AssertGetHas(t, db, []byte("carol"), []byte("7"), true)
		AssertGetHas(t, db, []byte("bob"), nil, false)
	})

	t.Run("iterator", func(t *testing.T) {
		db := newStore()
		for _, k := range []string{"a", "b", "c", "d"} {
			require.NoError(t, db.Set([]byte(k), []byte("parent")))
		}
		cache := db.CacheWrap()
		require.NoError(t, cache.Delete([]byte("b")))
		require.NoError(t, cache.Set([]byte("c"), []byte("cache")))
		require.NoError(t, cache.Set([]byte("bb"), []byte("cache")))
		require.NoError(t, cache.Delete([]byte("x")))

		AssertIterates(t, cache, nil, nil, []Model{
			Pair([]byte("a"), []byte("parent")),
			Pair([]byte("bb"), []byte("cache")),
			Pair([]byte("c"), []byte("cache")),
			Pair([]byte("d"), []byte("parent")),
		})
		AssertIterates(t, cache, []byte("b"), []byte("d"), []Model{
			Pair([]byte("bb"), []byte("cache")),
			Pair([]byte("c"), []byte("cache")),
		})
		AssertIterates(t, cache, []byte("c"), nil, []Model{
			Pair([]byte("c"), []byte("cache")),
			Pair([]byte("d"), []byte("parent")),
		})
		AssertIterates(t, db, nil, []byte("c"), []Model{
			Pair([]byte("a"), []byte("parent")),
			Pair([]byte("b"), []byte("parent")),
		})
	})
}

// AssertGetHas checks Get and Has agree on the value stored under key.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// AssertIterates checks the pairs of [start, end) in kv.
func AssertIterates(t testing.TB, kv ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()
	itr, err := kv.Iterator(start, end)
	require.NoError(t, err)
	defer itr.Close()
	var got []Model
	for ; itr.Valid(); require.NoError(t, itr.Next()) {
		got = append(got, Pair(itr.Key(), itr.Value()))
	}
	assert.Equal(t, want, got)
}
