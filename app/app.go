package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// chainIDKey holds the chain id written by InitChain.
const chainIDKey = "_vs:chainID"

// App serves a handler stack and its queries over ABCI.
//
// Failures of Info, InitChain and Commit cannot be reported to tendermint,
// they panic instead.
type App struct {
	name    string
	logger  log.Logger
	debug   bool
	init    versioned.Initializer
	decoder versioned.TxDecoder
	handler versioned.Handler
	queries versioned.QueryRouter

	committed versioned.CommitKVStore
	deliver   versioned.KVCacheWrap
	check     versioned.KVCacheWrap

	chainID string
	header  *abci.Header
	height  int64
}

var _ abci.Application = (*App)(nil)

// New returns an application serving the latest version of kv. It panics
// if that version cannot be loaded.
func New(name string, kv versioned.CommitKVStore, decoder versioned.TxDecoder,
	handler versioned.Handler, queries versioned.QueryRouter) *App {
	if err := kv.LoadLatestVersion(); err != nil {
		panic(err)
	}
	latest, err := kv.LatestVersion()
	if err != nil {
		panic(err)
	}
	chainID, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return &App{
		name:      name,
		logger:    log.NewNopLogger(),
		decoder:   decoder,
		handler:   handler,
		queries:   queries,
		committed: kv,
		deliver:   kv.CacheWrap(),
		check:     kv.CacheWrap(),
		chainID:   string(chainID),
		height:    latest.Version,
	}
}

// WithInit sets the genesis initializer run by InitChain.
func (a *App) WithInit(init versioned.Initializer) *App {
	a.init = init
	return a
}

// WithLogger sets the logger handed to every handler.
func (a *App) WithLogger(logger log.Logger) *App {
	a.logger = logger
	return a
}

// WithDebug reports unregistered errors in full instead of redacting them.
func (a *App) WithDebug(debug bool) *App {
	a.debug = debug
	return a
}

// ChainID returns the chain id, or "" before InitChain ran.
func (a *App) ChainID() string {
	return a.chainID
}

// context returns the context of the current block.
func (a *App) context(call string, tx versioned.Tx) versioned.Context {
	ctx := versioned.WithLogger(context.Background(), a.logger)
	if a.chainID != "" {
		ctx = versioned.WithChainID(ctx, a.chainID)
	}
	if a.header != nil {
		ctx = versioned.WithHeader(ctx, *a.header)
	}
	ctx = versioned.WithHeight(ctx, a.height)
	return versioned.WithLogInfo(ctx, "call", call, "path", versioned.GetPath(tx))
}

func (a *App) decode(raw []byte) (tx versioned.Tx, err error) {
	defer errors.Recover(&err)
	return a.decoder(raw)
}

// Info implements abci.Application
func (a *App) Info(abci.RequestInfo) abci.ResponseInfo {
	latest, err := a.committed.LatestVersion()
	if err != nil {
		panic(err)
	}
	a.logger.Info("Info synced", "height", latest.Version, "hash", fmt.Sprintf("%X", latest.Hash))
	return abci.ResponseInfo{
		Data:             a.name,
		LastBlockHeight:  latest.Version,
		LastBlockAppHash: latest.Hash,
	}
}

// SetOption implements abci.Application
func (a *App) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain stores the chain id and runs the initializer over the genesis
// app state. A chain is initialized only once.
func (a *App) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := a.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (a *App) initChain(chainID string, appState []byte) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %s already initialized", a.chainID)
	}
	if !versioned.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "app_state missing in genesis")
	}
	var opts versioned.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := a.deliver.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	a.chainID = chainID
	if a.init == nil {
		return nil
	}
	return a.init.FromGenesis(opts, a.deliver)
}

// BeginBlock implements abci.Application
func (a *App) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	header := req.Header
	a.header = &header
	a.height = header.Height
	return abci.ResponseBeginBlock{}
}

// CheckTx runs the check phase of the handler against the check cache.
func (a *App) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := a.decode(raw)
	if err != nil {
		return versioned.CheckTxResponse(nil, err, a.debug)
	}
	res, err := a.handler.Check(a.context("check_tx", tx), a.check, tx)
	return versioned.CheckTxResponse(res, err, a.debug)
}

// DeliverTx runs the delivery phase of the handler against the block
// cache.
func (a *App) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := a.decode(raw)
	if err != nil {
		return versioned.DeliverTxResponse(nil, err, a.debug)
	}
	res, err := a.handler.Deliver(a.context("deliver_tx", tx), a.deliver, tx)
	return versioned.DeliverTxResponse(res, err, a.debug)
}

// EndBlock implements abci.Application
func (a *App) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit writes the block down, persists it as a new version and starts
// fresh caches on top of it.
func (a *App) Commit() abci.ResponseCommit {
	if err := a.deliver.Write(); err != nil {
		panic(err)
	}
	a.check.Discard()
	id, err := a.committed.Commit()
	if err != nil {
		panic(err)
	}
	a.deliver = a.committed.CacheWrap()
	a.check = a.committed.CacheWrap()
	a.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

/*
Query reads the last committed state.

The path selects the handler, like "/funding/records", and may end with a
"?prefix" modifier. Keys and values of the result are returned as two
encoded ResultSet messages of equal length.
*/
func (a *App) Query(req abci.RequestQuery) abci.ResponseQuery {
	h, mod := a.queries.Lookup(req.Path)
	if h == nil {
		return a.queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	latest, err := a.committed.LatestVersion()
	if err != nil {
		return a.queryError(err)
	}
	db := a.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return a.queryError(err)
	}
	keys, values, err := EncodeResults(models)
	if err != nil {
		return a.queryError(err)
	}
	return abci.ResponseQuery{Height: latest.Version, Key: keys, Value: values}
}

func (a *App) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, a.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
