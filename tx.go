package versioned

import (
	"reflect"

	"github.com/iov-one/versioned/errors"
)

// Msg is a single state transition requested by a client.
type Msg interface {
	Persistent

	// Path routes the message to its handler, like "funding/deposit".
	// Only [a-zA-Z0-9_/] are allowed.
	Path() string

	// Validate checks the message without reading any state.
	Validate() error
}

// Marshaller encodes a value into bytes.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written to and read back from bytes. Unmarshal
// usually needs a pointer receiver while Marshal does not.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the envelope a client sends to the chain. Every application
// brings its own envelope.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// GetPath returns the path of the message carried by tx, or "(missing)".
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(raw []byte) (Tx, error)

// LoadMsg copies the message of tx into dst, which must point to a value
// of the message type, and validates it.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "get msg")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", dst)
	}
	value := reflect.Indirect(reflect.ValueOf(msg))
	if value.Type() != target.Elem().Type() {
		return errors.Wrapf(errors.ErrType, "cannot load %T into %T", msg, dst)
	}
	target.Elem().Set(value)

	return errors.Wrap(msg.Validate(), "validate")
}
