package app

import (
	"context"
	"testing"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherMsg struct {
	setMsg
	path string
}

func (m otherMsg) Path() string { return m.path }

func TestRouter(t *testing.T) {
	r := NewRouter()
	r.Handle(&setMsg{}, setHandler{})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(&setMsg{}, setHandler{}) })
	assert.Panics(t, func() { r.Handle(&otherMsg{path: "l:7"}, setHandler{}) })

	ctx := context.Background()
	db := store.MemStore()

	tx := &setTx{msg: setMsg{Key: []byte("a"), Value: []byte("1")}}
	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	res, err := r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), res.Data)

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}

type unroutedTx struct {
	setTx
}

func (unroutedTx) GetMsg() (versioned.Msg, error) {
	return &otherMsg{path: "nowhere"}, nil
}

func TestRouterMissingPath(t *testing.T) {
	r := NewRouter()
	r.Handle(&setMsg{}, setHandler{})

	ctx := context.Background()
	db := store.MemStore()

	_, err := r.Deliver(ctx, db, &unroutedTx{})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, db, &unroutedTx{})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestChain(t *testing.T) {
	var count int
	c := countingDecorator{count: &count}
	var nilDecorator *countingDecorator

	h := ChainDecorators(c, nil).Chain(nilDecorator, c).WithHandler(setHandler{})

	ctx := context.Background()
	db := store.MemStore()
	tx := &setTx{msg: setMsg{Key: []byte("a"), Value: []byte("1")}}

	_, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = h.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
