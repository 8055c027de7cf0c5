package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/Project-Sylos/Cabinet/internal/catalog"
	"github.com/Project-Sylos/Cabinet/internal/config"
	"github.com/Project-Sylos/Cabinet/internal/db"
	"github.com/Project-Sylos/Cabinet/internal/generator"
	"github.com/Project-Sylos/Cabinet/internal/payload"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/rs/zerolog/log"
)

// Public names for the catalog's value types
type (
	Folder      = types.Folder
	File        = types.File
	FolderRef   = types.FolderRef
	FolderView  = types.FolderView
	FileSummary = types.FileSummary
	Stats       = types.Stats
	Config      = types.Config
	FileUpload  = catalog.FileUpload
	SeedSummary = generator.Summary
)

// Errors callers can match with errors.Is
var (
	ErrNotFound         = catalog.ErrNotFound
	ErrPayloadWrite     = catalog.ErrPayloadWrite
	ErrCorruptHierarchy = catalog.ErrCorruptHierarchy
	ErrFolderNotEmpty   = catalog.ErrFolderNotEmpty
	ErrInvalidName      = catalog.ErrInvalidName
)

// Cabinet is the public SDK for the folder/file store.
// It owns the metadata database, the payload store and the catalog over both.
type Cabinet struct {
	cfg     *types.Config
	db      *db.DB
	store   payload.Store
	catalog *catalog.Catalog
}

// New creates a Cabinet using the specified config file
func New(configPath string) (*Cabinet, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewFromConfig(cfg)
}

// NewFromConfig creates a Cabinet from an already built configuration
func NewFromConfig(cfg *types.Config) (*Cabinet, error) {
	if err := config.Normalize(cfg); err != nil {
		return nil, err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := payload.Open(cfg.Storage, database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open %s payload store: %w", cfg.Storage.Backend, err)
	}

	log.Info().
		Str("database", database.Path()).
		Str("backend", cfg.Storage.Backend).
		Str("directory", cfg.Storage.Directory).
		Msg("cabinet opened")

	return &Cabinet{
		cfg:     cfg,
		db:      database,
		store:   store,
		catalog: catalog.New(database, store, cfg.Catalog),
	}, nil
}

// CreateFolder creates a folder under parentID; nil creates it at the root level
func (c *Cabinet) CreateFolder(ctx context.Context, name string, parentID *int64) (*Folder, error) {
	return c.catalog.CreateFolder(ctx, name, parentID)
}

// UploadFile stores a file's payload and metadata
func (c *Cabinet) UploadFile(ctx context.Context, upload FileUpload) (*File, error) {
	return c.catalog.CreateFile(ctx, upload)
}

// GetFile returns file metadata
func (c *Cabinet) GetFile(ctx context.Context, id int64) (*File, error) {
	return c.catalog.GetFile(ctx, id)
}

// OpenFile returns file metadata and its content. The reader must be closed.
func (c *Cabinet) OpenFile(ctx context.Context, id int64) (*File, io.ReadCloser, error) {
	return c.catalog.OpenFile(ctx, id)
}

// ListFiles returns the files directly inside parentID; nil lists root-level files
func (c *Cabinet) ListFiles(ctx context.Context, parentID *int64) ([]*File, error) {
	return c.catalog.ListFiles(ctx, parentID)
}

// DeleteFile removes a file and its payload
func (c *Cabinet) DeleteFile(ctx context.Context, id int64) error {
	return c.catalog.DeleteFile(ctx, id)
}

// ListFolders returns every folder
func (c *Cabinet) ListFolders(ctx context.Context) ([]*Folder, error) {
	return c.catalog.ListFolders(ctx)
}

// GetFolder returns a folder's children and ancestor chain
func (c *Cabinet) GetFolder(ctx context.Context, id int64) (*FolderView, error) {
	return c.catalog.GetFolder(ctx, id)
}

// GetRootFolder returns the root-level children
func (c *Cabinet) GetRootFolder(ctx context.Context) (*FolderView, error) {
	return c.catalog.GetRootFolder(ctx)
}

// Ancestors returns a folder's ancestor chain, nearest parent first
func (c *Cabinet) Ancestors(ctx context.Context, id int64) ([]FolderRef, error) {
	return c.catalog.Ancestors(ctx, id)
}

// DeleteFolder removes an empty folder, or its whole subtree when recursive is set
func (c *Cabinet) DeleteFolder(ctx context.Context, id int64, recursive bool) error {
	return c.catalog.DeleteFolder(ctx, id, recursive)
}

// GetStats returns folder and file counts and the total declared size
func (c *Cabinet) GetStats(ctx context.Context) (Stats, error) {
	return c.catalog.Stats(ctx)
}

// Reset deletes every folder, file and payload
func (c *Cabinet) Reset(ctx context.Context) error {
	return c.catalog.Reset(ctx)
}

// Seed populates a random tree below parentID using the configured seed settings
func (c *Cabinet) Seed(ctx context.Context, parentID *int64) (SeedSummary, error) {
	return generator.Populate(ctx, c.catalog, parentID, c.cfg.Seed)
}

// GetConfig returns the current configuration
func (c *Cabinet) GetConfig() *Config {
	return c.cfg
}

// AsFS returns a read-only fs.FS view of the tree.
// Files are addressed by folder and file names, e.g. "docs/readme.md".
func (c *Cabinet) AsFS(ctx context.Context) fs.FS {
	return c.catalog.FS(ctx)
}

// Close releases the payload store and the database.
// Always call this during shutdown so badger and DuckDB flush to disk.
func (c *Cabinet) Close() error {
	return errors.Join(c.store.Close(), c.db.Close())
}
