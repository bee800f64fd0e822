package migration

import (
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/orm"
)

// Bucket is a storage engine that supports and requires schema versioning.
// Values are migrated on the fly, before returning to the user, and the
// migrated form is written back.
//
// This bucket does not migrate the data returned by the queries. Register
// and Query use the plain orm.Bucket implementation to return data as stored
// in the database.
type Bucket struct {
	orm.Bucket
	codec Codec
}

// NewBucket returns a bucket named name storing values encoded with codec.
func NewBucket(name string, codec Codec) Bucket {
	return Bucket{
		Bucket: orm.NewBucket(name),
		codec:  codec,
	}
}

// Get returns the latest variant of the value stored under key, or nil if
// nothing is stored. A stale value is upgraded and written back, so it is
// upgraded at most once.
func (b Bucket) Get(db versioned.KVStore, key []byte) (Versioned, error) {
	stored, err := b.Peek(db, key)
	if err != nil || stored == nil {
		return stored, err
	}
	if !stored.NeedsUpgrade() {
		return stored, nil
	}
	latest := Latest(stored)
	if err := b.Save(db, key, latest); err != nil {
		return nil, errors.Wrap(err, "write back")
	}
	return latest, nil
}

// Peek returns the value exactly as stored, without upgrading it.
func (b Bucket) Peek(db versioned.ReadOnlyKVStore, key []byte) (Versioned, error) {
	bz, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if bz == nil {
		return nil, nil
	}
	v, err := b.codec.Unmarshal(bz)
	if err != nil {
		return nil, errors.Wrapf(err, "%s:%s", b.Name(), key)
	}
	return v, nil
}

// Save stores the given variant as it is. Writing an older variant is
// allowed, it is how legacy data is created.
func (b Bucket) Save(db versioned.KVStore, key []byte, v Versioned) error {
	bz, err := b.codec.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	return b.Bucket.Set(db, key, bz)
}
