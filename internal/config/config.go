package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. CABINET_API_PORT=9000
const EnvPrefix = "CABINET"

// DefaultConfig returns a default configuration
func DefaultConfig() types.Config {
	return types.Config{
		Database: types.DatabaseConfig{
			Path: "./cabinet.db",
		},
		Storage: types.StorageConfig{
			Backend:   types.StorageDisk,
			Directory: "./data",
		},
		API: types.APIConfig{
			Host:           "localhost",
			Port:           8086,
			MaxUploadBytes: 512 << 20,
			AllowedOrigins: []string{"*"},
			AllowReset:     false,
			TimeoutSeconds: 60,
		},
		Catalog: types.CatalogConfig{
			MaxDepth: 1024,
		},
		Seed: types.SeedConfig{
			MaxDepth:   3,
			MinFolders: 1,
			MaxFolders: 3,
			MinFiles:   1,
			MaxFiles:   4,
			FileSize:   1024,
			Seed:       42,
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setDefaults registers every key so that environment overrides and
// partially filled files both resolve against DefaultConfig.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.directory", d.Storage.Directory)

	v.SetDefault("api.host", d.API.Host)
	v.SetDefault("api.port", d.API.Port)
	v.SetDefault("api.max_upload_bytes", d.API.MaxUploadBytes)
	v.SetDefault("api.allowed_origins", d.API.AllowedOrigins)
	v.SetDefault("api.allow_reset", d.API.AllowReset)
	v.SetDefault("api.timeout_seconds", d.API.TimeoutSeconds)

	v.SetDefault("catalog.max_depth", d.Catalog.MaxDepth)

	v.SetDefault("seed.max_depth", d.Seed.MaxDepth)
	v.SetDefault("seed.min_folders", d.Seed.MinFolders)
	v.SetDefault("seed.max_folders", d.Seed.MaxFolders)
	v.SetDefault("seed.min_files", d.Seed.MinFiles)
	v.SetDefault("seed.max_files", d.Seed.MaxFiles)
	v.SetDefault("seed.file_size", d.Seed.FileSize)
	v.SetDefault("seed.seed", d.Seed.Seed)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(configPath string) (*types.Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Normalize validates cfg and resolves its relative paths
func Normalize(cfg *types.Config) error {
	// Validate configuration
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Ensure DB path is absolute
	if cfg.Database.Path != "" && !filepath.IsAbs(cfg.Database.Path) {
		absPath, err := filepath.Abs(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve DB path: %w", err)
		}
		cfg.Database.Path = absPath
	}

	if cfg.Storage.Directory != "" && !filepath.IsAbs(cfg.Storage.Directory) {
		absPath, err := filepath.Abs(cfg.Storage.Directory)
		if err != nil {
			return fmt.Errorf("failed to resolve storage directory: %w", err)
		}
		cfg.Storage.Directory = absPath
	}

	return nil
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	switch cfg.Storage.Backend {
	case types.StorageDisk, types.StorageBadger:
		if cfg.Storage.Directory == "" {
			return fmt.Errorf("storage directory is required for the %s backend", cfg.Storage.Backend)
		}
	case types.StorageDatabase:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// Validate API config
	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535, got %d", cfg.API.Port)
	}

	if cfg.API.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", cfg.API.MaxUploadBytes)
	}

	if cfg.API.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative, got %d", cfg.API.TimeoutSeconds)
	}

	if cfg.Catalog.MaxDepth < 1 {
		return fmt.Errorf("catalog max_depth must be at least 1, got %d", cfg.Catalog.MaxDepth)
	}

	// Validate seed config
	if cfg.Seed.MaxDepth < 0 {
		return fmt.Errorf("seed max_depth must be non-negative, got %d", cfg.Seed.MaxDepth)
	}

	if cfg.Seed.MinFolders < 0 {
		return fmt.Errorf("min_folders must be non-negative, got %d", cfg.Seed.MinFolders)
	}

	if cfg.Seed.MaxFolders < cfg.Seed.MinFolders {
		return fmt.Errorf("max_folders (%d) must be >= min_folders (%d)", cfg.Seed.MaxFolders, cfg.Seed.MinFolders)
	}

	if cfg.Seed.MinFiles < 0 {
		return fmt.Errorf("min_files must be non-negative, got %d", cfg.Seed.MinFiles)
	}

	if cfg.Seed.MaxFiles < cfg.Seed.MinFiles {
		return fmt.Errorf("max_files (%d) must be >= min_files (%d)", cfg.Seed.MaxFiles, cfg.Seed.MinFiles)
	}

	if cfg.Seed.FileSize < 0 {
		return fmt.Errorf("file_size must be non-negative, got %d", cfg.Seed.FileSize)
	}

	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	return nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func SaveToFile(cfg *types.Config, configPath string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
