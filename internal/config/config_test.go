package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content into a temp file with the given extension
func writeConfig(t *testing.T, ext, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config"+ext)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFromFile tests the LoadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T) string // Returns config path
		expectError bool
		validate    func(*testing.T, *types.Config)
	}{
		{
			name: "valid json config",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".json", `{
					"database": {"path": "./test.db"},
					"storage": {"backend": "disk", "directory": "./blobs"},
					"api": {"host": "0.0.0.0", "port": 9001},
					"catalog": {"max_depth": 64}
				}`)
			},
			validate: func(t *testing.T, cfg *types.Config) {
				assert.Equal(t, "0.0.0.0", cfg.API.Host)
				assert.Equal(t, 9001, cfg.API.Port)
				assert.Equal(t, 64, cfg.Catalog.MaxDepth)
				assert.True(t, filepath.IsAbs(cfg.Database.Path), "db path should be absolute")
				assert.True(t, filepath.IsAbs(cfg.Storage.Directory), "storage dir should be absolute")
				assert.Equal(t, "test.db", filepath.Base(cfg.Database.Path))
			},
		},
		{
			name: "valid yaml config",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".yaml", `
storage:
  backend: database
api:
  port: 7070
  allow_reset: true
log:
  level: debug
  format: json
`)
			},
			validate: func(t *testing.T, cfg *types.Config) {
				assert.Equal(t, types.StorageDatabase, cfg.Storage.Backend)
				assert.Equal(t, 7070, cfg.API.Port)
				assert.True(t, cfg.API.AllowReset)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
		{
			name: "missing sections fall back to defaults",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".json", `{}`)
			},
			validate: func(t *testing.T, cfg *types.Config) {
				d := DefaultConfig()
				assert.Equal(t, d.API.Port, cfg.API.Port)
				assert.Equal(t, d.Storage.Backend, cfg.Storage.Backend)
				assert.Equal(t, d.Catalog.MaxDepth, cfg.Catalog.MaxDepth)
				assert.Equal(t, d.Seed.Seed, cfg.Seed.Seed)
				assert.Equal(t, d.API.MaxUploadBytes, cfg.API.MaxUploadBytes)
			},
		},
		{
			name: "nonexistent config file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nonexistent.json")
			},
			expectError: true,
		},
		{
			name: "invalid JSON config",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".json", `{"invalid": json}`)
			},
			expectError: true,
		},
		{
			name: "unknown storage backend",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".json", `{"storage": {"backend": "tape"}}`)
			},
			expectError: true,
		},
		{
			name: "invalid port",
			setup: func(t *testing.T) string {
				return writeConfig(t, ".json", `{"api": {"port": 70000}}`)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromFile(tt.setup(t))
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestLoadFromFileEnvOverride tests CABINET_* environment overrides
func TestLoadFromFileEnvOverride(t *testing.T) {
	path := writeConfig(t, ".json", `{"api": {"port": 9001}}`)

	t.Setenv("CABINET_API_PORT", "9444")
	t.Setenv("CABINET_STORAGE_BACKEND", "badger")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9444, cfg.API.Port)
	assert.Equal(t, types.StorageBadger, cfg.Storage.Backend)
}

// TestValidate tests the Validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*types.Config)
		expectError bool
	}{
		{name: "defaults", mutate: func(*types.Config) {}},
		{name: "database backend needs no directory", mutate: func(c *types.Config) {
			c.Storage.Backend = types.StorageDatabase
			c.Storage.Directory = ""
		}},
		{name: "disk backend without directory", mutate: func(c *types.Config) {
			c.Storage.Directory = ""
		}, expectError: true},
		{name: "zero catalog depth", mutate: func(c *types.Config) {
			c.Catalog.MaxDepth = 0
		}, expectError: true},
		{name: "max folders below min", mutate: func(c *types.Config) {
			c.Seed.MinFolders = 3
			c.Seed.MaxFolders = 1
		}, expectError: true},
		{name: "max files below min", mutate: func(c *types.Config) {
			c.Seed.MinFiles = 5
			c.Seed.MaxFiles = 2
		}, expectError: true},
		{name: "negative upload limit", mutate: func(c *types.Config) {
			c.API.MaxUploadBytes = -1
		}, expectError: true},
		{name: "unknown log format", mutate: func(c *types.Config) {
			c.Log.Format = "xml"
		}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, Validate(nil))
}

// TestSaveToFile round-trips a config through both supported formats
func TestSaveToFile(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.API.Port = 9123
			cfg.Storage.Backend = types.StorageBadger

			path := filepath.Join(t.TempDir(), "saved"+ext)
			require.NoError(t, SaveToFile(&cfg, path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, 9123, loaded.API.Port)
			assert.Equal(t, types.StorageBadger, loaded.Storage.Backend)
			assert.Equal(t, cfg.Seed, loaded.Seed)
		})
	}
}
