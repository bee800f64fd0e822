package funding

import (
	"github.com/iov-one/versioned/migration"
	amino "github.com/tendermint/go-amino"
)

// The amino prefix of each concrete name is the persisted variant tag.
// Names must never change once data was written with them.
var cdc = amino.NewCodec()

func init() {
	RegisterAmino(cdc)
}

// RegisterAmino registers all persisted variants of this package.
func RegisterAmino(cdc *amino.Codec) {
	cdc.RegisterInterface((*VersionedBalances)(nil), nil)
	cdc.RegisterConcrete(BalancesV0{}, "funding/BalancesV0", nil)
	cdc.RegisterConcrete(BalancesV1{}, "funding/BalancesV1", nil)

	cdc.RegisterInterface((*VersionedContract)(nil), nil)
	cdc.RegisterConcrete(&ContractV0{}, "funding/ContractV0", nil)
	cdc.RegisterConcrete(&ContractV1{}, "funding/ContractV1", nil)
}

// RegisterMsgs registers the messages of this package as concrete types
// of a transaction codec. The interface they implement must be registered
// by the caller.
func RegisterMsgs(cdc *amino.Codec) {
	cdc.RegisterConcrete(&DepositMsg{}, "funding/DepositMsg", nil)
	cdc.RegisterConcrete(&RegisterRecordMsg{}, "funding/RegisterRecordMsg", nil)
	cdc.RegisterConcrete(&GetRecordMsg{}, "funding/GetRecordMsg", nil)
}

var (
	balancesCodec = migration.NewAminoCodec(cdc, (*VersionedBalances)(nil))
	contractCodec = migration.NewAminoCodec(cdc, (*VersionedContract)(nil))
)

// MarshalBalances encodes a record together with its variant tag.
func MarshalBalances(v VersionedBalances) ([]byte, error) {
	return balancesCodec.Marshal(v)
}

// UnmarshalBalances decodes a record into the variant it was written as.
func UnmarshalBalances(bz []byte) (VersionedBalances, error) {
	v, err := balancesCodec.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return v.(VersionedBalances), nil
}

// UnmarshalContract decodes a root into the variant it was written as.
func UnmarshalContract(bz []byte) (VersionedContract, error) {
	v, err := contractCodec.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return v.(VersionedContract), nil
}
