package app

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router sends every transaction to the handler registered for the path
// of its message.
type Router struct {
	routes map[string]versioned.Handler
}

var _ versioned.Registry = (*Router)(nil)
var _ versioned.Handler = (*Router)(nil)

// NewRouter returns a router without routes.
func NewRouter() *Router {
	return &Router{routes: make(map[string]versioned.Handler)}
}

// Handle routes messages with the path of msg to h. An invalid path or a
// path registered twice panics.
func (r *Router) Handle(msg versioned.Msg, h versioned.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

func (r *Router) route(tx versioned.Tx) (versioned.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", msg.Path())
	}
	return h, nil
}

// Check implements Handler
func (r *Router) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver implements Handler
func (r *Router) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

/*
Decorators is a chain of decorators waiting for the handler they wrap.
The first decorator of the chain runs first.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(router)
*/
type Decorators []versioned.Decorator

// ChainDecorators starts a chain. Nil decorators are skipped.
func ChainDecorators(ds ...versioned.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new chain with ds appended.
func (d Decorators) Chain(ds ...versioned.Decorator) Decorators {
	res := make(Decorators, 0, len(d)+len(ds))
	res = append(res, d...)
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		res = append(res, dec)
	}
	return res
}

// WithHandler wraps h with the whole chain.
func (d Decorators) WithHandler(h versioned.Handler) versioned.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = decorated{dec: d[i], next: h}
	}
	return h
}

// decorated is a handler running dec around next.
type decorated struct {
	dec  versioned.Decorator
	next versioned.Handler
}

func (h decorated) Check(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.CheckResult, error) {
	return h.dec.Check(ctx, db, tx, h.next)
}

func (h decorated) Deliver(ctx versioned.Context, db versioned.KVStore, tx versioned.Tx) (*versioned.DeliverResult, error) {
	return h.dec.Deliver(ctx, db, tx, h.next)
}
