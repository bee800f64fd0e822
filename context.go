/*
Package versioned holds the interfaces shared by the stores, the lazily
migrating buckets and the application layer, plus the few helpers too
small to deserve a package.

Block information travels to handlers in a context.Context. Every value
has a WithXYZ setter and a GetXYZ getter. Block values (header, height,
chain id) are set once per context, setting them again panics.
*/
package versioned

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/versioned/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int

const (
	contextKeyHeader contextKey = iota
	contextKeyHeight
	contextKeyChainID
	contextKeyLogger
)

func (k contextKey) String() string {
	switch k {
	case contextKeyHeader:
		return "header"
	case contextKeyHeight:
		return "height"
	case contextKeyChainID:
		return "chain id"
	default:
		return "logger"
	}
}

var (
	// DefaultLogger is returned by GetLogger when none was set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID accepts 6 to 20 characters of [a-zA-Z0-9_-].
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Context is the standard context, extended by the functions below.
type Context = context.Context

func setOnce(ctx Context, key contextKey, val interface{}) Context {
	if ctx.Value(key) != nil {
		panic(fmt.Sprintf("%s already set", key))
	}
	return context.WithValue(ctx, key, val)
}

// WithHeader sets the header of the current block.
func WithHeader(ctx Context, header abci.Header) Context {
	return setOnce(ctx, contextKeyHeader, header)
}

// GetHeader returns the header of the current block.
func GetHeader(ctx Context) (abci.Header, bool) {
	val, ok := ctx.Value(contextKeyHeader).(abci.Header)
	return val, ok
}

// WithHeight sets the height of the current block.
func WithHeight(ctx Context, height int64) Context {
	return setOnce(ctx, contextKeyHeight, height)
}

// GetHeight returns the height of the current block.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id. An invalid chain id panics with ErrInput.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic(errors.Wrapf(errors.ErrInput, "chain id: %q", chainID))
	}
	return setOnce(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id, which is missing before InitChain.
func GetChainID(ctx Context) (string, bool) {
	val, ok := ctx.Value(contextKeyChainID).(string)
	return val, ok
}

// WithLogger replaces the logger of ctx.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo adds keyvals to every line logged through ctx.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the logger of ctx, or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
