package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/storage"
)

func testSSHConfig(t *testing.T) SSHServerConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	cfg.DBPath = filepath.Join(dir, "scores.db")
	cfg.NewGame = func(*log.Logger) (core.Game, error) { return &fakeGame{}, nil }
	return cfg
}

func TestNewSSHServerNeedsFactory(t *testing.T) {
	cfg := testSSHConfig(t)
	cfg.NewGame = nil

	_, err := NewSSHServer(cfg, nil)
	require.Error(t, err)
	assert.NoFileExists(t, cfg.DBPath)
}

func TestNewSSHServerFailureLeavesNoStore(t *testing.T) {
	cfg := testSSHConfig(t)
	blocker := filepath.Join(filepath.Dir(cfg.DBPath), "keys")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o600))

	_, err := NewSSHServer(cfg, nil)
	require.Error(t, err)
	assert.NoFileExists(t, cfg.DBPath, "store was opened before the failure")
}

func TestSSHServerShutdownClosesStore(t *testing.T) {
	cfg := testSSHConfig(t)

	srv, err := NewSSHServer(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, srv.store)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	_, err = srv.store.SaveResult(storage.Result{GameID: "fake", Score: 10})
	require.NoError(t, err)

	require.NoError(t, srv.Shutdown())
	_, err = srv.store.SaveResult(storage.Result{GameID: "fake", Score: 20})
	assert.Error(t, err, "store is closed after shutdown")
}
