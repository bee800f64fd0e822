package gconf

import (
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

// ReadStore is the part of versioned.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of versioned.KVStore Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler encodes a configuration that passed its own checks.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler decodes a stored configuration.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the contract of every configuration singleton.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and writes it as the singleton of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := configKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "configuration %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode configuration %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the singleton of pkg into dst. ErrNotFound is returned when
// none was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := configKey(pkg)
	switch raw, err := db.Get(key); {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "configuration %q", key)
	default:
		return errors.Wrapf(dst.Unmarshal(raw), "decode configuration %q", key)
	}
}

// InitConfig saves the section of pkg found under "conf" in the genesis.
//
//   {"conf": {"funding": {"denomination": "atto"}}}
func InitConfig(db Store, opts versioned.Options, pkg string, conf Configuration) error {
	var sections versioned.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return err
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration of %q in genesis", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return err
	}
	return Save(db, pkg, conf)
}
