package utils

import (
	"time"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

// Logging logs the outcome and the duration of every transaction. Failed
// deliveries are logged as errors, successful ones as info. Checks only
// log at debug level unless they fail.
type Logging struct{}

var _ versioned.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check implements Decorator
func (Logging) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Checker) (res *versioned.CheckResult, err error) {
	defer func(start time.Time) {
		var msg string
		if res != nil {
			msg = res.Log
		}
		logOutcome(ctx, start, msg, err, true)
	}(time.Now())
	return next.Check(ctx, db, tx)
}

// Deliver implements Decorator
func (Logging) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Deliverer) (res *versioned.DeliverResult, err error) {
	defer func(start time.Time) {
		var msg string
		if res != nil {
			msg = res.Log
		}
		logOutcome(ctx, start, msg, err, false)
	}(time.Now())
	return next.Deliver(ctx, db, tx)
}

func logOutcome(ctx versioned.Context, start time.Time, msg string, err error, check bool) {
	logger := versioned.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}

// Recovery turns a panic of the wrapped handler into an ErrPanic error.
// Registering a record on an upgraded root is one such panic.
type Recovery struct{}

var _ versioned.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check implements Decorator
func (Recovery) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Checker) (_ *versioned.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver implements Decorator
func (Recovery) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Deliverer) (_ *versioned.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Savepoint runs the wrapped handler on a cache of the store. The cache is
// written down only when the handler succeeds, so a failed or panicking
// transaction leaves the state as it was.
//
// It is disabled for both phases until OnCheck or OnDeliver is called.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ versioned.Decorator = Savepoint{}

// NewSavepoint creates a disabled Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check implements Decorator
func (s Savepoint) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Checker) (res *versioned.CheckResult, err error) {
	err = isolate(db, s.onCheck, func(db versioned.KVStore) error {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver implements Decorator
func (s Savepoint) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx, next versioned.Deliverer) (res *versioned.DeliverResult, err error) {
	err = isolate(db, s.onDeliver, func(db versioned.KVStore) error {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache of db and writes it down if fn succeeds.
// When disabled, or when db cannot be cached, fn works on db directly.
func isolate(db versioned.KVStore, enabled bool, fn func(versioned.KVStore) error) error {
	cacheable, ok := db.(versioned.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
