package funding

import (
	"testing"

	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestBalancesUpgradePreservesFields(t *testing.T) {
	cases := map[string]BalancesV0{
		"zero":  {},
		"small": {Deposited: uint128.From64(1), Total: uint128.From64(1)},
		"large": {Deposited: uint128.Max, Total: uint128.New(7, 1<<63)},
	}
	for testName, v0 := range cases {
		t.Run(testName, func(t *testing.T) {
			v1, ok := v0.Upgrade().(BalancesV1)
			require.True(t, ok)
			assert.Equal(t, v0.Deposited, v1.Deposited)
			assert.Equal(t, v0.Total, v1.Total)
			assert.Equal(t, uint128.Zero, v1.Earned)
			assert.False(t, v1.NeedsUpgrade())
			assert.True(t, v0.NeedsUpgrade())
		})
	}
}

func TestBalancesUpgradeIsIdempotent(t *testing.T) {
	values := []VersionedBalances{
		BalancesV0{Deposited: uint128.From64(3), Total: uint128.From64(5)},
		BalancesV1{Deposited: uint128.From64(3), Total: uint128.From64(5), Earned: uint128.From64(2)},
	}
	for _, v := range values {
		once := IntoLatest(v.Upgrade().(VersionedBalances))
		twice := IntoLatest(v.Upgrade().Upgrade().(VersionedBalances))
		assert.Equal(t, once, twice)
		assert.Equal(t, IntoLatest(v), once)
	}
}

// unknownBalances is a variant no upgrade path leads to BalancesV1 from.
type unknownBalances struct{}

func (unknownBalances) isBalances()                    {}
func (unknownBalances) Schema() uint32                 { return 7 }
func (unknownBalances) NeedsUpgrade() bool             { return false }
func (u unknownBalances) Upgrade() migration.Versioned { return u }

func TestIntoLatestUnknownVariant(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.ErrSchema.Is(err))
	}()
	IntoLatest(unknownBalances{})
}

func TestBalancesCodecKeepsVariant(t *testing.T) {
	values := []VersionedBalances{
		BalancesV0{},
		BalancesV0{Deposited: uint128.From64(1), Total: uint128.From64(1)},
		BalancesV1{Deposited: uint128.Max, Total: uint128.From64(9), Earned: uint128.From64(4)},
	}
	for _, v := range values {
		raw, err := MarshalBalances(v)
		require.NoError(t, err)
		got, err := UnmarshalBalances(raw)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, v.Schema(), got.Schema())
	}

	v0, err := MarshalBalances(BalancesV0{})
	require.NoError(t, err)
	v1, err := MarshalBalances(BalancesV1{})
	require.NoError(t, err)
	assert.NotEqual(t, v0[:4], v1[:4], "variants must carry distinct tags")

	_, err = UnmarshalBalances([]byte{0x01, 0x02, 0x03, 0x04})
	assert.True(t, errors.ErrSchema.Is(err))
}
