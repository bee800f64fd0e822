package server

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestServeBlocksUntilStopped(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	addr := "unix://" + filepath.Join(home, "abci.sock")
	svr, err := server.NewServer(addr, "socket", abci.NewBaseApplication())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- serve(svr, log.NewNopLogger()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !svr.IsRunning() {
		require.True(t, time.Now().Before(deadline), "server did not start")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case err := <-done:
		t.Fatalf("serve returned while the server was running: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, svr.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after the server stopped")
	}
}

func TestStartRejectsBadFlags(t *testing.T) {
	gen := func(string, log.Logger, bool) (abci.Application, error) {
		t.Fatal("app must not be generated")
		return nil, nil
	}
	err := StartCmd(gen, log.NewNopLogger(), "", []string{"-unknown"})
	assert.Error(t, err)
}
