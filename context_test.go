package versioned

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/versioned/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBlockValuesAreSetOnce(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeader(ctx)
	assert.False(t, ok)
	_, ok = GetHeight(ctx)
	assert.False(t, ok)
	_, ok = GetChainID(ctx)
	assert.False(t, ok)

	header := abci.Header{Height: 3, ChainID: "funding-test"}
	ctx = WithChainID(WithHeight(WithHeader(ctx, header), 3), "funding-test")

	gotHeader, ok := GetHeader(ctx)
	require.True(t, ok)
	assert.Equal(t, header, gotHeader)
	height, ok := GetHeight(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), height)
	chainID, ok := GetChainID(ctx)
	require.True(t, ok)
	assert.Equal(t, "funding-test", chainID)

	assert.PanicsWithValue(t, "header already set", func() { WithHeader(ctx, header) })
	assert.PanicsWithValue(t, "height already set", func() { WithHeight(ctx, 4) })
	assert.PanicsWithValue(t, "chain id already set", func() { WithChainID(ctx, "funding-test") })
}

func TestLogInfo(t *testing.T) {
	assert.Equal(t, DefaultLogger, GetLogger(context.Background()))

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	ctx = WithHeight(ctx, 7)
	tagged := WithLogInfo(ctx, "path", "funding/deposit")

	GetLogger(tagged).Info("delivered")
	assert.Contains(t, buf.String(), "path=funding/deposit")
	buf.Reset()
	GetLogger(ctx).Info("delivered")
	assert.NotContains(t, buf.String(), "path=")

	height, _ := GetHeight(tagged)
	assert.Equal(t, int64(7), height)
}

func TestInvalidChainIDPanics(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		assert.True(t, ok)
		assert.True(t, errors.ErrInput.Is(err))
	}()
	WithChainID(context.Background(), "no")
}

func TestChainID(t *testing.T) {
	cases := map[string]bool{
		"":                              false,
		"foo":                           false,
		"funding":                       true,
		"funding-TEST_42":               true,
		"invalid;;chars":                false,
		"this-chain-id-is-way-too-long": false,
	}
	for chainID, valid := range cases {
		assert.Equal(t, valid, IsValidChainID(chainID), chainID)
	}
}
