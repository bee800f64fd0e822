/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket owns every key starting with its name followed by a colon, so
two buckets never see each other's data. A bucket knows nothing about the
encoding of its values; typed wrappers (like migration.Bucket) add that.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// IsBucketName returns true if name can be used to create a bucket
func IsBucketName(name string) bool {
	return isBucketName(name)
}

// Bucket is a prefixed subspace of the DB
type Bucket struct {
	name   string
	prefix []byte
}

var _ versioned.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data.
// panics if name is not a valid bucket name.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name the bucket was created with
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket for queries.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b Bucket) Register(name string, r versioned.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db versioned.ReadOnlyKVStore, mod string, data []byte) ([]versioned.Model, error) {
	switch mod {
	case versioned.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []versioned.Model{{Key: key, Value: value}}, nil
	case versioned.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under key, nil if missing
func (b Bucket) Get(db versioned.ReadOnlyKVStore, key []byte) ([]byte, error) {
	return db.Get(b.DBKey(key))
}

// Has returns true if anything is stored under key
func (b Bucket) Has(db versioned.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Set stores the raw value under key.
// Empty values are rejected as they cannot be told apart from a miss.
func (b Bucket) Set(db versioned.KVStore, key, value []byte) error {
	if len(value) == 0 {
		return errors.Wrapf(errors.ErrEmpty, "value for %q in %s", key, b.name)
	}
	return db.Set(b.DBKey(key), value)
}

// Delete will remove the value at a key
func (b Bucket) Delete(db versioned.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Iterate calls fn for every entry of the bucket in ascending key order.
// Keys are passed without the bucket prefix. Iteration stops at the first
// error, which is returned.
func (b Bucket) Iterate(db versioned.ReadOnlyKVStore, fn func(key, value []byte) error) error {
	models, err := queryPrefix(db, b.prefix)
	if err != nil {
		return err
	}
	l := len(b.prefix)
	for _, m := range models {
		if err := fn(m.Key[l:], m.Value); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of entries stored in this bucket
func (b Bucket) Count(db versioned.ReadOnlyKVStore) (int, error) {
	var n int
	err := b.Iterate(db, func(key, value []byte) error {
		n++
		return nil
	})
	return n, err
}
