package app

import (
	"testing"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/orm"
	"github.com/iov-one/versioned/store/iavl"
	"github.com/iov-one/versioned/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
)

type initValues struct{}

func (initValues) FromGenesis(opts versioned.Options, db versioned.KVStore) error {
	var values map[string]string
	if err := opts.ReadOptions("values", &values); err != nil {
		return err
	}
	for k, v := range values {
		if err := db.Set([]byte(k), []byte(v)); err != nil {
			return err
		}
	}
	return nil
}

func newTestApp(t *testing.T, db dbm.DB) *App {
	t.Helper()
	qr := versioned.NewQueryRouter()
	qr.RegisterAll(RegisterRawQuery)
	orm.NewBucket("things").Register("", qr)

	router := NewRouter()
	router.Handle(&setMsg{}, setHandler{})
	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)

	return New("test-app", iavl.NewCommitStoreFromDB(db), decodeSetTx, handler, qr).
		WithInit(initValues{})
}

func TestApp(t *testing.T) {
	db := dbm.NewMemDB()
	myApp := newTestApp(t, db)

	chainID := "test-chain-1"
	myApp.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(`{"values": {"things:genesis": "yes"}}`),
	})
	assert.Equal(t, chainID, myApp.ChainID())

	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: chainID}})

	// a successful delivery
	dres := myApp.DeliverTx([]byte("things:a=1"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.Equal(t, []byte("1"), dres.Data)

	// a failed delivery leaves no partial write behind
	dres = myApp.DeliverTx([]byte("things:b="))
	assert.Equal(t, errors.ErrState.ABCICode(), dres.Code)

	// a panic is recovered and leaves no partial write behind
	dres = myApp.DeliverTx([]byte("things:c=panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), dres.Code)

	// undecodable transactions are rejected
	dres = myApp.DeliverTx([]byte("garbage"))
	assert.Equal(t, errors.ErrInput.ABCICode(), dres.Code)

	cres := myApp.CheckTx([]byte("=1"))
	assert.Equal(t, errors.ErrEmpty.ABCICode(), cres.Code)
	cres = myApp.CheckTx([]byte("things:d=1"))
	assert.Equal(t, uint32(0), cres.Code, cres.Log)

	myApp.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := myApp.Commit()
	assert.NotEmpty(t, commit.Data)

	// query committed state through the client store
	client := NewABCIStore(myApp)
	things := orm.NewBucket("things")
	for key, want := range map[string][]byte{
		"genesis": []byte("yes"),
		"a":       []byte("1"),
		"b":       nil,
		"c":       nil,
		"d":       nil,
	} {
		got, err := things.Get(client, []byte(key))
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	// bucket prefix query
	qres := myApp.Query(abci.RequestQuery{Path: "/things?prefix"})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	assert.Equal(t, int64(1), qres.Height)
	models, err := DecodeResults(qres.Key, qres.Value)
	require.NoError(t, err)
	assert.Equal(t, []versioned.Model{
		versioned.Pair([]byte("things:a"), []byte("1")),
		versioned.Pair([]byte("things:genesis"), []byte("yes")),
	}, models)

	qres = myApp.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)

	info := myApp.Info(abci.RequestInfo{})
	assert.Equal(t, "test-app", info.Data)
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	// restarting on the same database keeps the state and the chain id
	restarted := newTestApp(t, db)
	assert.Equal(t, chainID, restarted.ChainID())
	got, err := things.Get(NewABCIStore(restarted), []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	// genesis cannot be loaded twice
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(`{}`)})
	})
}

func TestInitChainValidation(t *testing.T) {
	cases := map[string]abci.RequestInitChain{
		"missing app state": {ChainId: "test-chain-1"},
		"malformed app state": {ChainId: "test-chain-1", AppStateBytes: []byte(`[`)},
		"invalid chain id":    {ChainId: "x", AppStateBytes: []byte(`{}`)},
	}
	for testName, req := range cases {
		t.Run(testName, func(t *testing.T) {
			myApp := newTestApp(t, dbm.NewMemDB())
			assert.Panics(t, func() { myApp.InitChain(req) })
		})
	}
}

func TestResults(t *testing.T) {
	models := []versioned.Model{
		versioned.Pair([]byte("funding:_root"), []byte{1, 2, 3}),
		versioned.Pair([]byte("funders:alice"), make([]byte, 16)),
	}
	keys, values, err := EncodeResults(models)
	require.NoError(t, err)
	got, err := DecodeResults(keys, values)
	require.NoError(t, err)
	assert.Equal(t, models, got)

	got, err = DecodeResults(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	// field 1, length 10, but only two bytes follow
	_, err = DecodeResults([]byte{0x0a, 0x0a, 0x01, 0x02}, nil)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = DecodeResults(keys, nil)
	assert.True(t, errors.ErrState.Is(err))
}
