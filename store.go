package versioned

// ReadOnlyKVStore is the read side of every store the funding state lives
// in: committed iavl trees, block caches and savepoints.
type ReadOnlyKVStore interface {
	// Get returns nil if the key is not present.
	Get(key []byte) ([]byte, error)

	// Has returns true if a value is stored under the key.
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil start or
	// end leaves that side of the range open.
	// No writes may happen within the range while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side of a store.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore can be read from and written to.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

/*
Iterator reads a range of key value pairs.

  itr, err := db.Iterator(start, end)
  if err != nil {
    return err
  }
  defer itr.Close()
  for ; itr.Valid(); itr.Next() {
    k, v := itr.Key(), itr.Value()
    // ...
  }
*/
type Iterator interface {
	// Valid is false once the iterator moved past the last pair.
	Valid() bool
	// Next moves to the following pair. It panics on an invalid iterator.
	Next() error
	// Key and Value must not be modified by the caller.
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can open savepoints on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds writes on top of another store until they are either
// written down with Write or dropped with Discard. Reads see the pending
// writes.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the durable root store. Changes reach it through a
// CacheWrap and are persisted as a new version by Commit.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	Commit() (CommitID, error)

	// LoadLatestVersion loads the last version that was fully persisted.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
