package mergecfg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Workspace)
	assert.Equal(t, "sqlite", cfg.HistoryBackend)
	assert.Equal(t, "HEAD", cfg.BaselineRev)
	assert.Equal(t, filepath.Join(dir, ".treemend", "history.db"), cfg.HistoryPath)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Workspace = dir
	cfg.HistoryBackend = "file"
	cfg.HistoryPath = filepath.Join(dir, "merges.json")
	cfg.ServerAddr = ":9000"
	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "file", loaded.HistoryBackend)
	assert.Equal(t, ":9000", loaded.ServerAddr)
	assert.Equal(t, cfg.HistoryPath, loaded.HistoryPath)
}

func TestNormalizeRelativeHistoryPath(t *testing.T) {
	cfg := Config{Workspace: "/ws", HistoryPath: "state/history.db"}
	cfg.normalize("/ws")
	assert.Equal(t, filepath.Join("/ws", "state", "history.db"), cfg.HistoryPath)
}
