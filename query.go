package versioned

import (
	"fmt"
	"strings"
)

// Query modifiers understood by bucket queries. They follow the "?" of a
// query path.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler serves one query path. Queries read state and never write,
// not even to upgrade stale data.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryFunc lets a plain function serve a query path.
type QueryFunc func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)

// Query implements QueryHandler
func (fn QueryFunc) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return fn(db, mod, data)
}

// QueryRegister adds the queries of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches a query path to its handler.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register serves path with h. Registering a path twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Lookup resolves a full query path like "/funding/funders?prefix" into
// the handler of "/funding/funders" and the "prefix" modifier.
func (r QueryRouter) Lookup(fullPath string) (QueryHandler, string) {
	path, mod := fullPath, KeyQueryMod
	if i := strings.IndexByte(fullPath, '?'); i >= 0 {
		path, mod = fullPath[:i], fullPath[i+1:]
	}
	return r.routes[path], mod
}
