package migration

import (
	"github.com/iov-one/versioned/errors"
)

// Versioned is implemented by every variant of a persisted entity.
type Versioned interface {
	// Schema returns the schema generation this variant belongs to.
	// Generations are numbered from zero without gaps.
	Schema() uint32

	// NeedsUpgrade returns true unless this is the latest variant.
	NeedsUpgrade() bool

	// Upgrade returns the immediate successor with old fields copied
	// verbatim and new fields set to their defaults. Upgrading the
	// latest variant returns an equal copy.
	Upgrade() Versioned
}

// Latest upgrades v one generation at a time until it is the latest
// variant. A nil value is returned as it is.
//
// This function panics with ErrSchema if an upgrade step does not advance
// the schema by exactly one generation. That means the variant set is broken
// and no stored data can be trusted.
func Latest(v Versioned) Versioned {
	if v == nil {
		return nil
	}
	for v.NeedsUpgrade() {
		next := v.Upgrade()
		if next == nil || next.Schema() != v.Schema()+1 {
			panic(errors.Wrapf(errors.ErrSchema, "%T (schema %d) upgraded to %T", v, v.Schema(), next))
		}
		v = next
	}
	return v
}
