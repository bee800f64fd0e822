package app

import (
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/x/funding"
	amino "github.com/tendermint/go-amino"
)

// Tx is the envelope of every fundingd transaction. It is amino encoded,
// so the prefix of the message tells its kind.
type Tx struct {
	Msg versioned.Msg `json:"msg"`
}

var _ versioned.Tx = (*Tx)(nil)

var txCodec = amino.NewCodec()

func init() {
	txCodec.RegisterInterface((*versioned.Msg)(nil), nil)
	funding.RegisterMsgs(txCodec)
}

// NewTx wraps msg into a transaction.
func NewTx(msg versioned.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the message of the transaction.
func (tx *Tx) GetMsg() (versioned.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// Marshal implements versioned.Persistent
func (tx *Tx) Marshal() ([]byte, error) {
	if _, err := tx.GetMsg(); err != nil {
		return nil, err
	}
	bz, err := txCodec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "%T: %s", tx.Msg, err)
	}
	return bz, nil
}

// Unmarshal implements versioned.Persistent
func (tx *Tx) Unmarshal(bz []byte) error {
	*tx = Tx{}
	if err := txCodec.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (versioned.Tx, error) {
	if len(bz) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}
