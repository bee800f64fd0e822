package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/orm"
	"github.com/iov-one/versioned/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ResultSet is the protobuf message carrying the keys or the values of a
// query result.
//
//   message ResultSet {
//     repeated bytes results = 1;
//   }
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

var _ proto.Message = (*ResultSet)(nil)

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// EncodeResults splits models into the encoded sets of their keys and of
// their values.
func EncodeResults(models []versioned.Model) (keys, values []byte, err error) {
	var k, v ResultSet
	for _, m := range models {
		k.Results = append(k.Results, m.Key)
		v.Results = append(v.Results, m.Value)
	}
	if keys, err = proto.Marshal(&k); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if values, err = proto.Marshal(&v); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return keys, values, nil
}

// DecodeResults inverts EncodeResults.
func DecodeResults(keys, values []byte) ([]versioned.Model, error) {
	var k, v ResultSet
	if err := proto.Unmarshal(keys, &k); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "keys: %s", err)
	}
	if err := proto.Unmarshal(values, &v); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "values: %s", err)
	}
	if len(k.Results) != len(v.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(k.Results), len(v.Results))
	}
	models := make([]versioned.Model, len(k.Results))
	for i := range models {
		models[i] = versioned.Pair(k.Results[i], v.Results[i])
	}
	return models, nil
}

// RawQuery serves the whole store by full database key. Register it
// under "/" to make an application readable through ABCIStore.
func RawQuery(db versioned.ReadOnlyKVStore, mod string, data []byte) ([]versioned.Model, error) {
	switch mod {
	case versioned.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []versioned.Model{versioned.Pair(data, value)}, nil
	case versioned.PrefixQueryMod:
		itr, err := db.Iterator(data, orm.PrefixEnd(data))
		if err != nil {
			return nil, err
		}
		return orm.ConsumeIterator(itr)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// RegisterRawQuery registers RawQuery under "/"
func RegisterRawQuery(qr versioned.QueryRouter) {
	qr.Register("/", versioned.QueryFunc(RawQuery))
}

// ABCIStore reads the committed state of an application through its raw
// query, so buckets can be used on the client side as they are on the
// server side.
type ABCIStore struct {
	app abci.Application
}

var _ versioned.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store over app, which must serve RawQuery.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get implements ReadOnlyKVStore
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(versioned.KeyQueryMod, key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d values for one key", len(models))
	}
}

// Has implements ReadOnlyKVStore
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator only supports the entire range.
func (a *ABCIStore) Iterator(start, end []byte) (versioned.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only the entire range can be iterated")
	}
	models, err := a.query(versioned.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(mod string, data []byte) ([]versioned.Model, error) {
	path := "/"
	if mod != "" {
		path += "?" + mod
	}
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return DecodeResults(res.Key, res.Value)
}
