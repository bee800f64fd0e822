package store

import (
	"bytes"

	"github.com/google/btree"
)

// degree of the btree holding pending writes
const degree = 2

// pending is a write held by a Cache. A deleted entry hides the key of the
// parent store.
type pending struct {
	key     []byte
	value   []byte
	deleted bool
}

func (p pending) Less(than btree.Item) bool {
	return bytes.Compare(p.key, than.(pending).key) < 0
}

// Cache keeps writes ordered by key in a btree on top of a parent store.
// Reads see the pending writes first. Write applies them to the parent in
// key order, Discard drops them.
//
// Every savepoint of a block, including the block itself, is a Cache.
type Cache struct {
	// parent is nil for a standalone in-memory store
	parent KVStore
	writes *btree.BTree
}

var _ KVCacheWrap = (*Cache)(nil)

// NewCache returns a cache holding writes for parent.
func NewCache(parent KVStore) *Cache {
	return &Cache{parent: parent, writes: btree.New(degree)}
}

// MemStore returns a store living only in memory, used by tests.
func MemStore() CacheableKVStore {
	return NewCache(nil)
}

// CacheWrap opens a savepoint on top of this cache.
func (c *Cache) CacheWrap() KVCacheWrap {
	return NewCache(c)
}

// Write applies all pending writes to the parent and empties the cache.
func (c *Cache) Write() error {
	var err error
	if c.parent != nil {
		c.writes.Ascend(func(item btree.Item) bool {
			p := item.(pending)
			if p.deleted {
				err = c.parent.Delete(p.key)
			} else {
				err = c.parent.Set(p.key, p.value)
			}
			return err == nil
		})
	}
	c.Discard()
	return err
}

// Discard drops all pending writes.
func (c *Cache) Discard() {
	c.writes = btree.New(degree)
}

// Set implements KVStore
func (c *Cache) Set(key, value []byte) error {
	c.writes.ReplaceOrInsert(pending{key: key, value: value})
	return nil
}

// Delete implements KVStore
func (c *Cache) Delete(key []byte) error {
	c.writes.ReplaceOrInsert(pending{key: key, deleted: true})
	return nil
}

// Get implements ReadOnlyKVStore
func (c *Cache) Get(key []byte) ([]byte, error) {
	if item := c.writes.Get(pending{key: key}); item != nil {
		return item.(pending).value, nil
	}
	if c.parent == nil {
		return nil, nil
	}
	return c.parent.Get(key)
}

// Has implements ReadOnlyKVStore
func (c *Cache) Has(key []byte) (bool, error) {
	if item := c.writes.Get(pending{key: key}); item != nil {
		return !item.(pending).deleted, nil
	}
	if c.parent == nil {
		return false, nil
	}
	return c.parent.Has(key)
}

// Iterator returns the pairs of [start, end) as they are at the time of
// the call. Later writes are not visible to it.
func (c *Cache) Iterator(start, end []byte) (Iterator, error) {
	var writes []pending
	collect := func(item btree.Item) bool {
		writes = append(writes, item.(pending))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.writes.Ascend(collect)
	case start == nil:
		c.writes.AscendLessThan(pending{key: end}, collect)
	case end == nil:
		c.writes.AscendGreaterOrEqual(pending{key: start}, collect)
	default:
		c.writes.AscendRange(pending{key: start}, pending{key: end}, collect)
	}

	if c.parent == nil {
		return NewSliceIterator(merge(writes, nil)), nil
	}
	itr, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer itr.Close()
	var below []Model
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return nil, err
		}
		below = append(below, Pair(itr.Key(), itr.Value()))
	}
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(merge(writes, below)), nil
}

// merge lays the sorted writes over the sorted pairs of the parent.
func merge(writes []pending, below []Model) []Model {
	res := make([]Model, 0, len(writes)+len(below))
	for len(writes) > 0 || len(below) > 0 {
		if len(writes) == 0 || (len(below) > 0 && bytes.Compare(below[0].Key, writes[0].key) < 0) {
			res = append(res, below[0])
			below = below[1:]
			continue
		}
		w := writes[0]
		writes = writes[1:]
		if len(below) > 0 && bytes.Equal(below[0].Key, w.key) {
			below = below[1:]
		}
		if !w.deleted {
			res = append(res, Pair(w.key, w.value))
		}
	}
	return res
}
