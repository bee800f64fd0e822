package store

import "github.com/iov-one/versioned"

// Short names for the store interfaces of the root package.

type ReadOnlyKVStore = versioned.ReadOnlyKVStore
type SetDeleter = versioned.SetDeleter
type KVStore = versioned.KVStore
type Iterator = versioned.Iterator
type CacheableKVStore = versioned.CacheableKVStore
type KVCacheWrap = versioned.KVCacheWrap
type CommitKVStore = versioned.CommitKVStore
type CommitID = versioned.CommitID
type Model = versioned.Model

// Pair constructs a model from a key-value pair
var Pair = versioned.Pair
