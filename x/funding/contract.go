package funding

import (
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/migration"
)

// VersionedContract is the aggregate root in any of its schema versions.
// Only the variants declared in this package implement it.
type VersionedContract interface {
	migration.Versioned
	isContract()
}

// ContractV0 is the root shape used by the first schema.
type ContractV0 struct {
	Funders Funders
	Records Records
}

var _ VersionedContract = (*ContractV0)(nil)

func (*ContractV0) isContract() {}

// Schema implements migration.Versioned
func (*ContractV0) Schema() uint32 { return 0 }

// NeedsUpgrade implements migration.Versioned
func (*ContractV0) NeedsUpgrade() bool { return true }

// Upgrade returns the ContractV1 equivalent. The collection handles are
// moved as they are, the collections themselves are not touched. The
// nonce starts at zero.
func (c *ContractV0) Upgrade() migration.Versioned {
	return &ContractV1{
		Funders: c.Funders,
		Nonce:   0,
		Records: c.Records,
	}
}

// ContractV1 is the latest root shape.
type ContractV1 struct {
	Funders Funders
	// Nonce counts successful deposits since the root was upgraded.
	Nonce   uint64
	Records Records
}

var _ VersionedContract = (*ContractV1)(nil)

func (*ContractV1) isContract() {}

// Schema implements migration.Versioned
func (*ContractV1) Schema() uint32 { return 1 }

// NeedsUpgrade implements migration.Versioned
func (*ContractV1) NeedsUpgrade() bool { return false }

// Upgrade returns a copy of the root.
func (c *ContractV1) Upgrade() migration.Versioned {
	cp := *c
	return &cp
}

// Root holds the aggregate root in whatever shape it was stored.
//
// MutableCurrent is the only way to obtain a mutable current shape and it
// upgrades the root in place. All other accessors work on any shape and
// never upgrade.
type Root struct {
	contract VersionedContract
}

// DefaultRoot returns a root in the current shape with the default
// collection handles and a zero nonce.
func DefaultRoot() *Root {
	return &Root{contract: &ContractV1{
		Funders: Funders{Name: DefaultFundersName},
		Records: Records{Name: DefaultRecordsName},
	}}
}

// LegacyRoot returns a root in the oldest shape with the default
// collection handles.
func LegacyRoot() *Root {
	return &Root{contract: &ContractV0{
		Funders: Funders{Name: DefaultFundersName},
		Records: Records{Name: DefaultRecordsName},
	}}
}

// NewRoot wraps a stored root.
func NewRoot(c VersionedContract) *Root {
	if c == nil {
		panic(errors.Wrap(errors.ErrHuman, "nil contract"))
	}
	return &Root{contract: c}
}

// MutableCurrent upgrades the root in place when it is stale and returns
// the current shape. Once upgraded, further calls return the same value
// without any work. The upgrade is persisted only when the root is saved.
func (r *Root) MutableCurrent() *ContractV1 {
	if c, ok := r.contract.(*ContractV1); ok {
		return c
	}
	c, ok := migration.Latest(r.contract).(*ContractV1)
	if !ok {
		panic(errors.Wrapf(errors.ErrSchema, "%T does not upgrade to ContractV1", r.contract))
	}
	r.contract = c
	return c
}

// Funders returns the funders collection of the stored shape.
func (r *Root) Funders() Funders {
	switch c := r.contract.(type) {
	case *ContractV0:
		return c.Funders
	case *ContractV1:
		return c.Funders
	default:
		panic(errors.WithType(errors.ErrSchema, r.contract))
	}
}

// Records returns the records collection of the stored shape. Inserts and
// record write-backs go through it as well, they do not change the root.
func (r *Root) Records() Records {
	switch c := r.contract.(type) {
	case *ContractV0:
		return c.Records
	case *ContractV1:
		return c.Records
	default:
		panic(errors.WithType(errors.ErrSchema, r.contract))
	}
}

// Nonce returns the stored nonce, zero for a root that was never
// upgraded.
func (r *Root) Nonce() uint64 {
	switch c := r.contract.(type) {
	case *ContractV0:
		return 0
	case *ContractV1:
		return c.Nonce
	default:
		panic(errors.WithType(errors.ErrSchema, r.contract))
	}
}

// IsCurrent returns true if the root is stored in the latest shape.
func (r *Root) IsCurrent() bool {
	return !r.contract.NeedsUpgrade()
}

// Schema returns the schema version of the stored shape.
func (r *Root) Schema() uint32 {
	return r.contract.Schema()
}

// Contract returns the stored shape.
func (r *Root) Contract() VersionedContract {
	return r.contract
}

// rootKey is where the root lives inside its bucket
var rootKey = []byte("_root")

// RootBucket persists the single aggregate root.
type RootBucket struct {
	migration.Bucket
}

// NewRootBucket returns the bucket holding the root.
func NewRootBucket() RootBucket {
	return RootBucket{
		Bucket: migration.NewBucket("funding", contractCodec),
	}
}

// Load returns the root exactly as stored, without upgrading it. A missing
// root is the default root.
func (b RootBucket) Load(db versioned.ReadOnlyKVStore) (*Root, error) {
	v, err := b.Peek(db, rootKey)
	if err != nil {
		return nil, errors.Wrap(err, "load root")
	}
	if v == nil {
		return DefaultRoot(), nil
	}
	c, ok := v.(VersionedContract)
	if !ok {
		return nil, errors.WithType(errors.ErrSchema, v)
	}
	return NewRoot(c), nil
}

// Save writes the root in its current in-memory shape.
func (b RootBucket) Save(db versioned.KVStore, r *Root) error {
	return b.Bucket.Save(db, rootKey, r.contract)
}
