package app

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/app"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/store/iavl"
	"github.com/iov-one/versioned/x/funding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	"lukechampine.com/uint128"
)

const chainID = "funding-test"

const legacyGenesis = `
{
	"conf": {"funding": {"denomination": "atto", "max_key_length": 32}},
	"funding": {
		"schema": 0,
		"funders": [{"account": "bob", "amount": "8"}]
	}
}`

func newTestApp(t *testing.T, db dbm.DB) *app.App {
	t.Helper()
	return Application(Name, Stack(), TxDecoder, iavl.NewCommitStoreFromDB(db), false).
		WithLogger(log.NewNopLogger())
}

func deliver(t *testing.T, a *app.App, msg versioned.Msg) abci.ResponseDeliverTx {
	t.Helper()
	raw, err := NewTx(msg).Marshal()
	require.NoError(t, err)
	return a.DeliverTx(raw)
}

func check(t *testing.T, a *app.App, msg versioned.Msg) abci.ResponseCheckTx {
	t.Helper()
	raw, err := NewTx(msg).Marshal()
	require.NoError(t, err)
	return a.CheckTx(raw)
}

func query(t *testing.T, a *app.App, path string, data []byte) []versioned.Model {
	t.Helper()
	res := a.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(t, uint32(0), res.Code, res.Log)
	models, err := app.DecodeResults(res.Key, res.Value)
	require.NoError(t, err)
	return models
}

func queryNonce(t *testing.T, a *app.App) uint64 {
	t.Helper()
	models := query(t, a, "/funding/nonce", nil)
	require.Len(t, models, 1)
	return binary.BigEndian.Uint64(models[0].Value)
}

func queryRecordSchema(t *testing.T, a *app.App, key string) uint32 {
	t.Helper()
	models := query(t, a, "/funding/records", []byte(key))
	require.Len(t, models, 1)
	rec, err := funding.UnmarshalBalances(models[0].Value)
	require.NoError(t, err)
	return rec.Schema()
}

func TestLegacyChain(t *testing.T) {
	db := dbm.NewMemDB()
	myApp := newTestApp(t, db)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(legacyGenesis)})

	// block 1: register a record on the legacy root and read it back
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: chainID}})
	res := deliver(t, myApp, &funding.RegisterRecordMsg{Key: "k"})
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = deliver(t, myApp, &funding.GetRecordMsg{Key: "k"})
	require.Equal(t, uint32(0), res.Code, res.Log)
	rec, err := funding.UnmarshalBalances(res.Data)
	require.NoError(t, err)
	assert.Equal(t, funding.BalancesV1{Deposited: uint128.From64(1), Total: uint128.From64(1)}, rec)

	res = deliver(t, myApp, &funding.GetRecordMsg{Key: "missing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
	myApp.EndBlock(abci.RequestEndBlock{Height: 1})
	myApp.Commit()

	// the record was written back, the root was not touched
	assert.Equal(t, uint32(1), queryRecordSchema(t, myApp, "k"))
	assert.Equal(t, uint64(0), queryNonce(t, myApp))
	models := query(t, myApp, "/funding/state", []byte("_root"))
	require.Len(t, models, 1)
	c, err := funding.UnmarshalContract(models[0].Value)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), c.Schema())

	// block 2: the first deposit upgrades the root
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2, ChainID: chainID}})
	res = deliver(t, myApp, &funding.DepositMsg{Account: "alice", Amount: uint128.From64(1000)})
	require.Equal(t, uint32(0), res.Code, res.Log)

	// registering on the upgraded root is a coding error, recovered and
	// rolled back
	res = deliver(t, myApp, &funding.RegisterRecordMsg{Key: "late"})
	assert.Equal(t, errors.ErrPanic.ABCICode(), res.Code)

	cres := check(t, myApp, &funding.RegisterRecordMsg{Key: "this key is far longer than thirty two bytes"})
	assert.Equal(t, errors.ErrInput.ABCICode(), cres.Code)
	myApp.EndBlock(abci.RequestEndBlock{Height: 2})
	myApp.Commit()

	assert.Equal(t, uint64(1), queryNonce(t, myApp))
	assert.Empty(t, query(t, myApp, "/funding/funders", []byte("carol")))
	funders := query(t, myApp, "/funding/funders?prefix", nil)
	require.Len(t, funders, 2)
	assert.Equal(t, []byte("funders:alice"), funders[0].Key)
	assert.Equal(t, []byte("funders:bob"), funders[1].Key)
	assert.Empty(t, query(t, myApp, "/funding/records", []byte("late")))

	// state survives a restart
	restarted := newTestApp(t, db)
	assert.Equal(t, chainID, restarted.ChainID())
	assert.Equal(t, uint64(1), queryNonce(t, restarted))

	client := app.NewABCIStore(restarted)
	bob, ok, err := funding.NewController().Deposited(client, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint128.From64(8), bob)
	alice, ok, err := funding.NewController().Deposited(client, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint128.From64(1000), alice)
}

func TestGenInitOptions(t *testing.T) {
	for _, args := range [][]string{nil, {"legacy"}, {"current", "atto"}} {
		raw, err := GenInitOptions(args)
		require.NoError(t, err)

		var opts versioned.Options
		require.NoError(t, json.Unmarshal(raw, &opts))

		// the generated options must be accepted by a fresh chain
		myApp := newTestApp(t, dbm.NewMemDB())
		appState, err := json.Marshal(opts)
		require.NoError(t, err)
		myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: appState})
		myApp.Commit()

		root, err := funding.NewController().Root(app.NewABCIStore(myApp))
		require.NoError(t, err)
		assert.Equal(t, len(args) == 0 || args[0] != "legacy", root.IsCurrent())
	}

	_, err := GenInitOptions([]string{"future"})
	assert.True(t, errors.ErrInput.Is(err))
	_, err = GenInitOptions([]string{"legacy", "?"})
	assert.True(t, errors.ErrInput.Is(err))
}
