package funding

import (
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/migration"
	"lukechampine.com/uint128"
)

// Balance is an unsigned 128 bit amount
type Balance = uint128.Uint128

// VersionedBalances is a balance record in any of its schema versions.
// Only the variants declared in this package implement it.
type VersionedBalances interface {
	migration.Versioned
	isBalances()
}

// BalancesV0 is the record shape used by the first schema.
type BalancesV0 struct {
	Deposited Balance
	Total     Balance
}

var _ VersionedBalances = BalancesV0{}

func (BalancesV0) isBalances() {}

// Schema implements migration.Versioned
func (BalancesV0) Schema() uint32 { return 0 }

// NeedsUpgrade implements migration.Versioned
func (BalancesV0) NeedsUpgrade() bool { return true }

// Upgrade returns the BalancesV1 equivalent. Earned starts at zero, it is
// not computed retroactively.
func (b BalancesV0) Upgrade() migration.Versioned {
	return BalancesV1{
		Deposited: b.Deposited,
		Total:     b.Total,
		Earned:    uint128.Zero,
	}
}

// BalancesV1 is the latest record shape.
type BalancesV1 struct {
	Deposited Balance
	Total     Balance
	Earned    Balance
}

var _ VersionedBalances = BalancesV1{}

func (BalancesV1) isBalances() {}

// Schema implements migration.Versioned
func (BalancesV1) Schema() uint32 { return 1 }

// NeedsUpgrade implements migration.Versioned
func (BalancesV1) NeedsUpgrade() bool { return false }

// Upgrade returns the record itself.
func (b BalancesV1) Upgrade() migration.Versioned { return b }

// IntoLatest upgrades v as many times as needed and returns the latest
// shape. It panics with ErrSchema if v cannot reach BalancesV1, which
// means stored data was written under an unknown schema.
func IntoLatest(v VersionedBalances) BalancesV1 {
	latest, ok := migration.Latest(v).(BalancesV1)
	if !ok {
		panic(errors.Wrapf(errors.ErrSchema, "%T does not upgrade to BalancesV1", v))
	}
	return latest
}
