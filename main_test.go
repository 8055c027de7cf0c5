package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Project-Sylos/Cabinet/internal/config"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig saves a config pointing into a temp dir
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "cabinet.db")
	cfg.Storage.Backend = types.StorageDatabase
	cfg.Seed = types.SeedConfig{MaxDepth: 2, MinFolders: 1, MaxFolders: 1, MinFiles: 1, MaxFiles: 1, FileSize: 16, Seed: 1}

	path := filepath.Join(dir, "cabinet.yaml")
	require.NoError(t, config.SaveToFile(&cfg, path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.json")

	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, types.StorageDisk, cfg.Storage.Backend)

	_, err = run(t, "init", path)
	assert.Error(t, err, "existing file must not be overwritten")

	_, err = run(t, "init", "--force", path)
	assert.NoError(t, err)
}

func TestSeedCommand(t *testing.T) {
	path := writeConfig(t)

	out, err := run(t, "seed", "--config", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 2 folders and 2 files (32 bytes)")

	_, err = run(t, "seed", "--config", path, "--parent", "999", "--log-level", "error")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	path := writeConfig(t)

	out, err := run(t, "demo", "--config", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `Read back via fs.FS: "Cabinet keeps folders in DuckDB and payloads in the configured store."`)
	assert.Contains(t, out, "ancestors: demo-docs(1)")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
