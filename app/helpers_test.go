package app

import (
	"bytes"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

// setMsg stores Value under Key. An empty value makes the handler fail
// after writing, a "panic" value makes it panic after writing.
type setMsg struct {
	Key   []byte
	Value []byte
}

var _ versioned.Msg = (*setMsg)(nil)

func (m setMsg) Marshal() ([]byte, error) {
	return bytes.Join([][]byte{m.Key, m.Value}, []byte("=")), nil
}

func (m *setMsg) Unmarshal(bz []byte) error {
	parts := bytes.SplitN(bz, []byte("="), 2)
	if len(parts) != 2 {
		return errors.Wrap(errors.ErrInput, "missing =")
	}
	m.Key, m.Value = parts[0], parts[1]
	return nil
}

func (setMsg) Path() string { return "test/set" }

func (m setMsg) Validate() error {
	if len(m.Key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return nil
}

type setTx struct {
	msg setMsg
}

func (tx setTx) Marshal() ([]byte, error)        { return tx.msg.Marshal() }
func (tx *setTx) Unmarshal(bz []byte) error     { return tx.msg.Unmarshal(bz) }
func (tx setTx) GetMsg() (versioned.Msg, error) { return &tx.msg, nil }

func decodeSetTx(bz []byte) (versioned.Tx, error) {
	var tx setTx
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return &tx, nil
}

type setHandler struct{}

func (setHandler) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	var msg setMsg
	if err := versioned.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return &versioned.CheckResult{Log: "ok"}, nil
}

func (setHandler) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	var msg setMsg
	if err := versioned.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if err := db.Set(msg.Key, []byte("partial")); err != nil {
		return nil, err
	}
	switch string(msg.Value) {
	case "":
		return nil, errors.Wrap(errors.ErrState, "empty value")
	case "panic":
		panic("unreachable variant")
	}
	if err := db.Set(msg.Key, msg.Value); err != nil {
		return nil, err
	}
	return &versioned.DeliverResult{Data: msg.Value, Log: "stored"}, nil
}

// countingDecorator counts how many times it was passed through.
type countingDecorator struct {
	count *int
}

func (d countingDecorator) Check(ctx versioned.Context, store versioned.KVStore, tx versioned.Tx, next versioned.Checker) (*versioned.CheckResult, error) {
	*d.count++
	return next.Check(ctx, store, tx)
}

func (d countingDecorator) Deliver(ctx versioned.Context, store versioned.KVStore, tx versioned.Tx, next versioned.Deliverer) (*versioned.DeliverResult, error) {
	*d.count++
	return next.Deliver(ctx, store, tx)
}
