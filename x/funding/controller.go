package funding

import (
	"fmt"
	"math"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"lukechampine.com/uint128"
)

// Controller is the operation surface of the funding extension. Every
// method runs on the store it is given and never keeps a view of the root
// between calls.
type Controller struct {
	roots RootBucket
}

// NewController returns a controller over the default root bucket.
func NewController() Controller {
	return Controller{roots: NewRootBucket()}
}

// Root returns the root as stored. It never upgrades it.
func (c Controller) Root(db versioned.ReadOnlyKVStore) (*Root, error) {
	return c.roots.Load(db)
}

// Deposit credits amount to the balance of account and increments the
// nonce. The root is upgraded to its current shape before it is changed.
// The new balance of account is returned.
func (c Controller) Deposit(ctx versioned.Context, db versioned.KVStore, account string, amount Balance) (Balance, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return uint128.Zero, err
	}
	root, err := c.roots.Load(db)
	if err != nil {
		return uint128.Zero, err
	}
	current := root.MutableCurrent()
	if current.Nonce == math.MaxUint64 {
		return uint128.Zero, errors.Wrap(errors.ErrOverflow, "nonce")
	}
	balance, err := current.Funders.Add(db, account, amount)
	if err != nil {
		return uint128.Zero, err
	}
	current.Nonce++
	if err := c.roots.Save(db, root); err != nil {
		return uint128.Zero, errors.Wrap(err, "save root")
	}
	versioned.GetLogger(ctx).Info(fmt.Sprintf("%s deposited %s %s", account, amount, conf.Denomination),
		"nonce", current.Nonce)
	return balance, nil
}

// Nonce returns the number of deposits made since the root was upgraded.
// A root that was never upgraded reports zero and is left as it is.
func (c Controller) Nonce(db versioned.ReadOnlyKVStore) (uint64, error) {
	root, err := c.roots.Load(db)
	if err != nil {
		return 0, err
	}
	return root.Nonce(), nil
}

// Deposited returns the balance of account and whether it ever deposited.
func (c Controller) Deposited(db versioned.ReadOnlyKVStore, account string) (Balance, bool, error) {
	root, err := c.roots.Load(db)
	if err != nil {
		return uint128.Zero, false, err
	}
	return root.Funders().Get(db, account)
}

// RegisterRecord inserts a new record under key in the oldest shape,
// seeded with one unit deposited.
//
// Registration is only supported while the root has its oldest shape.
// Calling it on a root past schema 0 panics with ErrHuman.
func (c Controller) RegisterRecord(db versioned.KVStore, key string) error {
	root, err := c.roots.Load(db)
	if err != nil {
		return err
	}
	if root.Schema() != 0 {
		panic(errors.Wrapf(errors.ErrHuman, "register record %q on a root of schema %d", key, root.Schema()))
	}
	records := root.Records()
	switch has, err := records.Has(db, key); {
	case err != nil:
		return err
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "record %q", key)
	}
	one := uint128.From64(1)
	return records.Insert(db, key, BalancesV0{Deposited: one, Total: one})
}

// Record returns the record under key in its latest shape. A stale record
// is upgraded and the upgraded form is written back, so a record is
// upgraded at most once. ErrNotFound is returned for a missing key.
func (c Controller) Record(db versioned.KVStore, key string) (BalancesV1, error) {
	root, err := c.roots.Load(db)
	if err != nil {
		return BalancesV1{}, err
	}
	return root.Records().Get(db, key)
}
