package funding

import (
	"encoding/binary"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/migration"
	"github.com/iov-one/versioned/orm"
	"lukechampine.com/uint128"
)

const (
	// DefaultFundersName is the bucket holding the funders collection
	DefaultFundersName = "funders"
	// DefaultRecordsName is the bucket holding the records collection
	DefaultRecordsName = "records"
)

// Funders is a handle of the collection mapping an account to its
// deposited balance. Only the handle is stored in the root, the entries
// live in the bucket it names.
type Funders struct {
	Name string
}

func (f Funders) bucket() orm.Bucket {
	if !orm.IsBucketName(f.Name) {
		panic(errors.Wrapf(errors.ErrState, "funders handle %q", f.Name))
	}
	return orm.NewBucket(f.Name)
}

// Get returns the balance of account and whether it has ever deposited.
func (f Funders) Get(db versioned.ReadOnlyKVStore, account string) (Balance, bool, error) {
	raw, err := f.bucket().Get(db, []byte(account))
	if err != nil {
		return uint128.Zero, false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return uint128.Zero, false, nil
	}
	b, err := decodeBalance(raw)
	if err != nil {
		return uint128.Zero, false, errors.Wrapf(err, "funder %q", account)
	}
	return b, true, nil
}

// Add credits amount to the balance of account, starting from zero for
// an unknown account, and returns the new balance. Nothing is written
// when the result does not fit into 128 bits.
func (f Funders) Add(db versioned.KVStore, account string, amount Balance) (Balance, error) {
	prev, _, err := f.Get(db, account)
	if err != nil {
		return uint128.Zero, err
	}
	sum := prev.AddWrap(amount)
	if sum.Cmp(prev) < 0 {
		return uint128.Zero, errors.Wrapf(errors.ErrOverflow, "balance of %q", account)
	}
	if err := f.bucket().Set(db, []byte(account), encodeBalance(sum)); err != nil {
		return uint128.Zero, err
	}
	return sum, nil
}

// Iterate calls fn with every funder in account order.
func (f Funders) Iterate(db versioned.ReadOnlyKVStore, fn func(account string, balance Balance) error) error {
	return f.bucket().Iterate(db, func(key, value []byte) error {
		b, err := decodeBalance(value)
		if err != nil {
			return errors.Wrapf(err, "funder %q", key)
		}
		return fn(string(key), b)
	})
}

// encodeBalance writes a balance as 16 bytes, big endian, so that the
// stored form sorts like the numbers.
func encodeBalance(b Balance) []byte {
	raw := make([]byte, 16)
	binary.BigEndian.PutUint64(raw[:8], b.Hi)
	binary.BigEndian.PutUint64(raw[8:], b.Lo)
	return raw
}

func decodeBalance(raw []byte) (Balance, error) {
	if len(raw) != 16 {
		return uint128.Zero, errors.Wrapf(errors.ErrState, "balance of %d bytes", len(raw))
	}
	return uint128.New(binary.BigEndian.Uint64(raw[8:]), binary.BigEndian.Uint64(raw[:8])), nil
}

// Records is a handle of the collection mapping a key to a balance record.
// Only the handle is stored in the root, the entries live in the bucket it
// names, each in the schema version it was last written with.
type Records struct {
	Name string
}

func (r Records) bucket() migration.Bucket {
	if !orm.IsBucketName(r.Name) {
		panic(errors.Wrapf(errors.ErrState, "records handle %q", r.Name))
	}
	return migration.NewBucket(r.Name, balancesCodec)
}

// Has returns true if a record is stored under key.
func (r Records) Has(db versioned.ReadOnlyKVStore, key string) (bool, error) {
	return r.bucket().Has(db, []byte(key))
}

// Insert stores v under key as it is, without upgrading it.
func (r Records) Insert(db versioned.KVStore, key string, v VersionedBalances) error {
	return r.bucket().Save(db, []byte(key), v)
}

// Peek returns the record stored under key in its stored shape, or nil.
func (r Records) Peek(db versioned.ReadOnlyKVStore, key string) (VersionedBalances, error) {
	v, err := r.bucket().Peek(db, []byte(key))
	if err != nil || v == nil {
		return nil, err
	}
	return asBalances(v)
}

// Get returns the latest shape of the record under key. A stale record is
// upgraded and written back. Missing records result in ErrNotFound.
func (r Records) Get(db versioned.KVStore, key string) (BalancesV1, error) {
	v, err := r.bucket().Get(db, []byte(key))
	if err != nil {
		return BalancesV1{}, err
	}
	if v == nil {
		return BalancesV1{}, errors.Wrapf(errors.ErrNotFound, "record %q", key)
	}
	b, err := asBalances(v)
	if err != nil {
		return BalancesV1{}, err
	}
	return IntoLatest(b), nil
}

func asBalances(v migration.Versioned) (VersionedBalances, error) {
	b, ok := v.(VersionedBalances)
	if !ok {
		return nil, errors.WithType(errors.ErrSchema, v)
	}
	return b, nil
}
