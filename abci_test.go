package versioned_test

import (
	"fmt"
	"testing"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxResponseErrors(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"registered error": {
			err:      errors.Wrap(errors.ErrNotFound, "record"),
			wantCode: errors.ErrNotFound.ABCICode(),
			wantLog:  "cannot deliver tx: record: not found",
		},
		"internal error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "cannot deliver tx: internal error",
		},
		"internal error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "cannot deliver tx: disk on fire",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res := versioned.DeliverTxResponse(nil, tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantLog, res.Log)

			cres := versioned.CheckTxResponse(nil, tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, cres.Code)
		})
	}
}

func TestTxResponseSuccess(t *testing.T) {
	res := versioned.DeliverTxResponse(&versioned.DeliverResult{Data: []byte("data"), Log: "ok"}, nil, false)
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, []byte("data"), res.Data)

	parsed, err := versioned.ParseDeliverTx(res)
	require.NoError(t, err)
	assert.Equal(t, "ok", parsed.Log)

	res = versioned.DeliverTxResponse(nil, errors.Wrap(errors.ErrSchema, "record"), false)
	assert.Equal(t, errors.ErrSchema.ABCICode(), res.Code)
	_, err = versioned.ParseDeliverTx(res)
	assert.True(t, errors.ErrSchema.Is(err))

	cres := versioned.CheckTxResponse(&versioned.CheckResult{Log: "checked"}, nil, false)
	assert.Equal(t, uint32(0), cres.Code)
	assert.Equal(t, "checked", cres.Log)
}

func TestQueryRouterLookup(t *testing.T) {
	qr := versioned.NewQueryRouter()
	echo := versioned.QueryFunc(func(db versioned.ReadOnlyKVStore, mod string, data []byte) ([]versioned.Model, error) {
		return []versioned.Model{versioned.Pair([]byte(mod), data)}, nil
	})
	qr.Register("/funding/funders", echo)

	h, mod := qr.Lookup("/funding/funders?prefix")
	require.NotNil(t, h)
	assert.Equal(t, versioned.PrefixQueryMod, mod)
	res, err := h.Query(nil, mod, []byte("al"))
	require.NoError(t, err)
	assert.Equal(t, []versioned.Model{versioned.Pair([]byte("prefix"), []byte("al"))}, res)

	h, mod = qr.Lookup("/funding/funders")
	assert.NotNil(t, h)
	assert.Equal(t, versioned.KeyQueryMod, mod)

	h, _ = qr.Lookup("/funding/unknown")
	assert.Nil(t, h)

	assert.Panics(t, func() { qr.Register("/funding/funders", echo) })
}
