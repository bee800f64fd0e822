package utils

import (
	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

type testMsg struct{}

func (testMsg) Marshal() ([]byte, error) { return nil, nil }
func (*testMsg) Unmarshal([]byte) error  { return nil }
func (testMsg) Path() string             { return "test/msg" }
func (testMsg) Validate() error          { return nil }

type testTx struct{}

func (testTx) Marshal() ([]byte, error)       { return nil, nil }
func (*testTx) Unmarshal([]byte) error        { return nil }
func (testTx) GetMsg() (versioned.Msg, error) { return &testMsg{}, nil }

// writeHandler writes key before failing, panicking or succeeding.
type writeHandler struct {
	key   []byte
	err   error
	panic interface{}
}

var _ versioned.Handler = writeHandler{}

func (h writeHandler) run(store versioned.KVStore) error {
	if err := store.Set(h.key, []byte("written")); err != nil {
		return err
	}
	if h.panic != nil {
		panic(h.panic)
	}
	return h.err
}

func (h writeHandler) Check(ctx versioned.Context, store versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	if err := h.run(store); err != nil {
		return nil, err
	}
	return &versioned.CheckResult{Log: "checked"}, nil
}

func (h writeHandler) Deliver(ctx versioned.Context, store versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	if err := h.run(store); err != nil {
		return nil, err
	}
	return &versioned.DeliverResult{Log: "delivered"}, nil
}

var errBoom = errors.Wrap(errors.ErrState, "boom")
