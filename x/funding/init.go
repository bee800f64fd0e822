package funding

import (
	"math/big"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/gconf"
	"lukechampine.com/uint128"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ versioned.Initializer = (*Initializer)(nil)

// genesis is the "funding" section of the app state. Schema selects the
// shape the root starts in, the current one if not set. Records can only
// be registered on a root of schema 0.
type genesis struct {
	Schema  *uint32 `json:"schema"`
	Funders []struct {
		Account string `json:"account"`
		Amount  string `json:"amount"`
	} `json:"funders"`
	Records []string `json:"records"`
}

// FromGenesis stores the configuration and seeds the root with the funders
// and records listed in the genesis.
func (*Initializer) FromGenesis(opts versioned.Options, db versioned.KVStore) error {
	switch err := gconf.InitConfig(db, opts, configPkg, &Configuration{}); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "init config")
	}

	if _, ok := opts["funding"]; !ok {
		return nil
	}
	var gen genesis
	if err := opts.ReadOptions("funding", &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	root := DefaultRoot()
	if gen.Schema != nil {
		switch *gen.Schema {
		case 0:
			root = LegacyRoot()
		case 1:
		default:
			return errors.Wrapf(errors.ErrSchema, "root schema %d", *gen.Schema)
		}
	}
	if len(gen.Records) != 0 && root.IsCurrent() {
		return errors.Wrap(errors.ErrInput, "records can be registered only on a root of schema 0")
	}

	ctrl := NewController()
	if err := ctrl.roots.Save(db, root); err != nil {
		return errors.Wrap(err, "save root")
	}
	for i, f := range gen.Funders {
		if !IsAccount(f.Account) {
			return errors.Wrapf(errors.ErrInput, "funder %d: account %q", i, f.Account)
		}
		amount, err := ParseBalance(f.Amount)
		if err != nil {
			return errors.Wrapf(err, "funder %d", i)
		}
		if _, err := root.Funders().Add(db, f.Account, amount); err != nil {
			return errors.Wrapf(err, "funder %d", i)
		}
	}
	for _, key := range gen.Records {
		if err := validateKey(key); err != nil {
			return errors.Wrapf(err, "record %q", key)
		}
		if err := ctrl.RegisterRecord(db, key); err != nil {
			return err
		}
	}
	return nil
}

// ParseBalance reads a balance written as a decimal number.
func ParseBalance(s string) (Balance, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return uint128.Zero, errors.Wrapf(errors.ErrAmount, "%q is not a number", s)
	}
	if n.Sign() < 0 || n.BitLen() > 128 {
		return uint128.Zero, errors.Wrapf(errors.ErrAmount, "%s does not fit into 128 bits", s)
	}
	return uint128.FromBig(n), nil
}
