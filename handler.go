package versioned

import (
	"encoding/json"

	"github.com/iov-one/versioned/errors"
)

// Handler processes the messages of one path, like "funding/deposit".
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction before it enters the mempool.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer applies a transaction of a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler of a chain, for logging, panic
// recovery or savepoints.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to the path of a message.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the app_state of the genesis, one raw section per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the section under key into obj. A missing section
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer seeds the state of an extension from the genesis.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs inits in order and stops at the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (inits initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, init := range inits {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
