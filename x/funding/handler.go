package funding

import (
	"encoding/binary"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/orm"
)

// RegisterRoutes registers handlers for all funding messages.
func RegisterRoutes(r versioned.Registry, ctrl Controller) {
	r.Handle(&DepositMsg{}, &depositHandler{ctrl: ctrl})
	r.Handle(&RegisterRecordMsg{}, &registerRecordHandler{ctrl: ctrl})
	r.Handle(&GetRecordMsg{}, &getRecordHandler{ctrl: ctrl})
}

// RegisterQuery registers the funding queries. None of them upgrades
// anything, data is returned as stored.
func RegisterQuery(qr versioned.QueryRouter) {
	ctrl := NewController()
	qr.Register("/funding/nonce", nonceQuery{ctrl: ctrl})
	qr.Register("/funding/funders", collectionQuery{ctrl: ctrl, name: func(r *Root) string { return r.Funders().Name }})
	qr.Register("/funding/records", collectionQuery{ctrl: ctrl, name: func(r *Root) string { return r.Records().Name }})
	NewRootBucket().Register("funding/state", qr)
}

type depositHandler struct {
	ctrl Controller
}

var _ versioned.Handler = (*depositHandler)(nil)

func (h *depositHandler) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	if _, err := h.validate(tx); err != nil {
		return nil, err
	}
	return &versioned.CheckResult{}, nil
}

func (h *depositHandler) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ctrl.Deposit(ctx, db, msg.Account, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &versioned.DeliverResult{Data: encodeBalance(balance)}, nil
}

func (h *depositHandler) validate(tx versioned.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := versioned.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

type registerRecordHandler struct {
	ctrl Controller
}

var _ versioned.Handler = (*registerRecordHandler)(nil)

func (h *registerRecordHandler) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.RegisterRecord(db, msg.Key); err != nil {
		return nil, err
	}
	return &versioned.DeliverResult{}, nil
}

func (h *registerRecordHandler) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	// Deliver panics on an upgraded root, the mempool must not take it.
	root, err := h.ctrl.Root(db)
	if err != nil {
		return nil, err
	}
	if root.Schema() != 0 {
		return nil, errors.Wrapf(errors.ErrState, "register record %q on a root of schema %d", msg.Key, root.Schema())
	}
	return &versioned.CheckResult{}, nil
}

func (h *registerRecordHandler) validate(db versioned.ReadOnlyKVStore, tx versioned.Tx) (*RegisterRecordMsg, error) {
	var msg RegisterRecordMsg
	if err := versioned.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := checkKeyLength(db, msg.Key); err != nil {
		return nil, err
	}
	return &msg, nil
}

type getRecordHandler struct {
	ctrl Controller
}

var _ versioned.Handler = (*getRecordHandler)(nil)

func (h *getRecordHandler) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	if _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &versioned.CheckResult{}, nil
}

// Deliver returns the record in its latest shape, encoded like a stored
// record.
func (h *getRecordHandler) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	rec, err := h.ctrl.Record(db, msg.Key)
	if err != nil {
		return nil, err
	}
	raw, err := MarshalBalances(rec)
	if err != nil {
		return nil, errors.Wrap(err, "marshal record")
	}
	return &versioned.DeliverResult{Data: raw}, nil
}

func (h *getRecordHandler) validate(db versioned.ReadOnlyKVStore, tx versioned.Tx) (*GetRecordMsg, error) {
	var msg GetRecordMsg
	if err := versioned.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := checkKeyLength(db, msg.Key); err != nil {
		return nil, err
	}
	return &msg, nil
}

func checkKeyLength(db versioned.ReadOnlyKVStore, key string) error {
	conf, err := loadConfiguration(db)
	if err != nil {
		return err
	}
	if len(key) > int(conf.MaxKeyLength) {
		return errors.Wrapf(errors.ErrInput, "key longer than %d", conf.MaxKeyLength)
	}
	return nil
}

// nonceQuery returns the nonce as an 8 byte big endian value under the
// "nonce" key.
type nonceQuery struct {
	ctrl Controller
}

func (q nonceQuery) Query(db versioned.ReadOnlyKVStore, mod string, data []byte) ([]versioned.Model, error) {
	if mod != versioned.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	nonce, err := q.ctrl.Nonce(db)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, nonce)
	return []versioned.Model{versioned.Pair([]byte("nonce"), raw)}, nil
}

// collectionQuery serves a collection the root holds a handle of. The
// handle is resolved on every query, from the root as stored.
type collectionQuery struct {
	ctrl Controller
	name func(*Root) string
}

func (q collectionQuery) Query(db versioned.ReadOnlyKVStore, mod string, data []byte) ([]versioned.Model, error) {
	root, err := q.ctrl.Root(db)
	if err != nil {
		return nil, err
	}
	return orm.NewBucket(q.name(root)).Query(db, mod, data)
}
