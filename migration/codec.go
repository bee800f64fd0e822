package migration

import (
	"reflect"

	"github.com/iov-one/versioned/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec serializes all variants of one entity kind. Decoding must recover
// the exact variant that was encoded.
type Codec interface {
	Marshal(Versioned) ([]byte, error)
	Unmarshal([]byte) (Versioned, error)
}

// AminoCodec stores a variant as its amino encoding prefixed with the
// registered concrete type prefix, which acts as the persisted variant tag.
type AminoCodec struct {
	cdc   *amino.Codec
	iface reflect.Type
}

var _ Codec = AminoCodec{}

// NewAminoCodec returns a codec decoding into the interface pointed to by
// iface, for example (*VersionedBalances)(nil). All variants must be
// registered as concrete types of that interface within cdc.
func NewAminoCodec(cdc *amino.Codec, iface interface{}) AminoCodec {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		panic(errors.Wrapf(errors.ErrHuman, "%T is not a pointer to an interface", iface))
	}
	return AminoCodec{cdc: cdc, iface: t.Elem()}
}

// Marshal implements Codec.
func (c AminoCodec) Marshal(v Versioned) ([]byte, error) {
	if v == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "versioned value")
	}
	if !reflect.TypeOf(v).Implements(c.iface) {
		return nil, errors.WithType(errors.ErrType, v)
	}
	bz, err := c.cdc.MarshalBinaryBare(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return bz, nil
}

// Unmarshal implements Codec. Data carrying a tag that no known variant is
// registered under results in ErrSchema.
func (c AminoCodec) Unmarshal(bz []byte) (Versioned, error) {
	ptr := reflect.New(c.iface)
	if err := c.cdc.UnmarshalBinaryBare(bz, ptr.Interface()); err != nil {
		return nil, errors.Wrap(errors.ErrSchema, err.Error())
	}
	v, ok := ptr.Elem().Interface().(Versioned)
	if !ok {
		return nil, errors.Wrapf(errors.ErrSchema, "%s decoded to %T", c.iface, ptr.Elem().Interface())
	}
	return v, nil
}
