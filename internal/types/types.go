package types

import (
	"time"
)

// Config represents the complete configuration for Cabinet
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database" mapstructure:"database"`
	Storage  StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
	API      APIConfig      `json:"api" yaml:"api" mapstructure:"api"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Seed     SeedConfig     `json:"seed" yaml:"seed" mapstructure:"seed"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// DatabaseConfig points at the DuckDB file holding folder and file metadata
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// StorageConfig selects where file payloads are kept
type StorageConfig struct {
	Backend   string `json:"backend" yaml:"backend" mapstructure:"backend"`       // "disk", "badger" or "database"
	Directory string `json:"directory" yaml:"directory" mapstructure:"directory"` // data dir for disk and badger
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Host           string   `json:"host" yaml:"host" mapstructure:"host"`
	Port           int      `json:"port" yaml:"port" mapstructure:"port"`
	MaxUploadBytes int64    `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowReset     bool     `json:"allow_reset" yaml:"allow_reset" mapstructure:"allow_reset"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// CatalogConfig bounds hierarchy traversal
type CatalogConfig struct {
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
}

// SeedConfig drives the demo tree generator
type SeedConfig struct {
	MaxDepth   int   `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
	MinFolders int   `json:"min_folders" yaml:"min_folders" mapstructure:"min_folders"`
	MaxFolders int   `json:"max_folders" yaml:"max_folders" mapstructure:"max_folders"`
	MinFiles   int   `json:"min_files" yaml:"min_files" mapstructure:"min_files"`
	MaxFiles   int   `json:"max_files" yaml:"max_files" mapstructure:"max_files"`
	FileSize   int   `json:"file_size" yaml:"file_size" mapstructure:"file_size"`
	Seed       int64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// LogConfig controls the global zerolog logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "console" or "json"
}

// Storage backend constants
const (
	StorageDisk     = "disk"
	StorageBadger   = "badger"
	StorageDatabase = "database"
)

// Folder is a stored folder row. ParentID is nil for root-level folders.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"-"`
}

// File is a stored file row. The payload itself lives in the payload store under StorageKey.
type File struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ParentID    *int64    `json:"parent_id"`
	Checksum    string    `json:"-"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// FolderRef is the (id, name) pair used for ancestors and child folders
type FolderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FileSummary is a child file as listed inside a folder view (no parent, no payload)
type FileSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// FolderView is the browse result for a folder or for the implicit root.
// Ancestors are ordered nearest parent first and never include the root.
type FolderView struct {
	ID        *int64        `json:"id"`
	Name      string        `json:"name"`
	Path      string        `json:"path"`
	Ancestors []FolderRef   `json:"ancestors"`
	Folders   []FolderRef   `json:"folders"`
	Files     []FileSummary `json:"files"`
}

// Stats summarizes the catalog contents
type Stats struct {
	Folders int   `json:"folders"`
	Files   int   `json:"files"`
	Bytes   int64 `json:"bytes"`
}

// APIResponse represents a generic API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RootName is the display name of the implicit root folder
const RootName = "root"

// Summary returns the folder-view projection of a file
func (f *File) Summary() FileSummary {
	return FileSummary{
		ID:          f.ID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
	}
}

// Ref returns the (id, name) projection of a folder
func (f *Folder) Ref() FolderRef {
	return FolderRef{ID: f.ID, Name: f.Name}
}
