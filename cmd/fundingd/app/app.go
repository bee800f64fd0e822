/*
Package app links together all the various components
to construct the fundingd app.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/app"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/store/iavl"
	"github.com/iov-one/versioned/x/funding"
	"github.com/iov-one/versioned/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by abci Info
const Name = "fundingd"

// Chain returns a chain of decorators, to handle logging and recovery.
// Every delivered transaction runs in its own savepoint, so a failing or
// panicking one leaves no partial writes behind.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all funding messages.
func Router() *app.Router {
	r := app.NewRouter()
	funding.RegisterRoutes(r, funding.NewController())
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/", "/funding/nonce", "/funding/funders",
// "/funding/records" and "/funding/state"
func QueryRouter() versioned.QueryRouter {
	r := versioned.NewQueryRouter()
	r.RegisterAll(
		app.RegisterRawQuery,
		funding.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into Application.
func Stack() versioned.Handler {
	return Chain().WithHandler(Router())
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h versioned.Handler, tx versioned.TxDecoder, kv versioned.CommitKVStore, debug bool) *app.App {
	return app.New(name, kv, tx, h, QueryRouter()).
		WithInit(versioned.ChainInitializers(&funding.Initializer{})).
		WithDebug(debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path results in a memory
// backed store, for testing.
func CommitKVStore(dbPath string) (versioned.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStoreFromDB(dbm.NewMemDB()), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "funding.db")
	}

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return Application(Name, Stack(), TxDecoder, kv, debug).WithLogger(logger), nil
}
