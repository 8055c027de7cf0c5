package generator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Project-Sylos/Cabinet/internal/catalog"
	"github.com/Project-Sylos/Cabinet/internal/db"
	"github.com/Project-Sylos/Cabinet/internal/payload"
	"github.com/Project-Sylos/Cabinet/internal/types"
)

// TestRNG tests the random number generator functionality
func TestRNG(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 100; i++ {
		val1 := rng1.Intn(1000)
		val2 := rng2.Intn(1000)
		if val1 != val2 {
			t.Errorf("Same seed should produce same sequence. Iteration %d: got %d and %d", i, val1, val2)
		}
	}

	n := 10
	for i := 0; i < 1000; i++ {
		val := rng1.Intn(n)
		if val < 0 || val >= n {
			t.Errorf("Intn(%d) should return value in range [0, %d), got %d", n, n, val)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	valid := types.SeedConfig{MaxDepth: 2, MinFolders: 1, MaxFolders: 2, MinFiles: 0, MaxFiles: 1, FileSize: 16}

	tests := []struct {
		name    string
		mutate  func(cfg *types.SeedConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(cfg *types.SeedConfig) {}},
		{name: "zero depth", mutate: func(cfg *types.SeedConfig) { cfg.MaxDepth = 0 }, wantErr: true},
		{name: "folder range inverted", mutate: func(cfg *types.SeedConfig) { cfg.MinFolders = 3 }, wantErr: true},
		{name: "negative files", mutate: func(cfg *types.SeedConfig) { cfg.MinFiles = -1 }, wantErr: true},
		{name: "negative file size", mutate: func(cfg *types.SeedConfig) { cfg.FileSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store, err := payload.Open(types.StorageConfig{Backend: types.StorageDatabase}, database)
	if err != nil {
		t.Fatalf("Failed to open payload store: %v", err)
	}

	return catalog.New(database, store, types.CatalogConfig{})
}

// TestPopulate builds a fixed-shape tree and checks it landed in the catalog
func TestPopulate(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog(t)
	cfg := types.SeedConfig{MaxDepth: 2, MinFolders: 2, MaxFolders: 2, MinFiles: 1, MaxFiles: 1, FileSize: 64, Seed: 5}

	summary, err := Populate(ctx, cat, nil, cfg)
	if err != nil {
		t.Fatalf("Populate() failed: %v", err)
	}

	want := Summary{Folders: 6, Files: 3, Bytes: 3 * 64}
	if summary != want {
		t.Errorf("Populate() = %+v, want %+v", summary, want)
	}

	stats, err := cat.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Folders != want.Folders || stats.Files != want.Files || stats.Bytes != want.Bytes {
		t.Errorf("catalog stats %+v do not match summary %+v", stats, want)
	}

	root, err := cat.GetRootFolder(ctx)
	if err != nil {
		t.Fatalf("GetRootFolder() failed: %v", err)
	}
	if len(root.Folders) != 2 || root.Folders[0].Name != "folder_1" {
		t.Errorf("unexpected root folders: %+v", root.Folders)
	}
	if len(root.Files) != 1 || root.Files[0].Name != "file_1.txt" {
		t.Errorf("unexpected root files: %+v", root.Files)
	}
}

// TestPopulateDeterministic checks that a seed reproduces the same content
func TestPopulateDeterministic(t *testing.T) {
	ctx := context.Background()
	cfg := types.SeedConfig{MaxDepth: 3, MinFolders: 0, MaxFolders: 3, MinFiles: 0, MaxFiles: 3, FileSize: 32, Seed: 11}

	first, err := Populate(ctx, newTestCatalog(t), nil, cfg)
	if err != nil {
		t.Fatalf("Populate() failed: %v", err)
	}
	second, err := Populate(ctx, newTestCatalog(t), nil, cfg)
	if err != nil {
		t.Fatalf("Populate() failed: %v", err)
	}
	if first != second {
		t.Errorf("same seed produced different trees: %+v vs %+v", first, second)
	}
}

func TestPopulateUnderFolder(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog(t)

	parent, err := cat.CreateFolder(ctx, "seeded", nil)
	if err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}

	cfg := types.SeedConfig{MaxDepth: 1, MinFolders: 1, MaxFolders: 1, MinFiles: 2, MaxFiles: 2, FileSize: 8}
	if _, err := Populate(ctx, cat, &parent.ID, cfg); err != nil {
		t.Fatalf("Populate() failed: %v", err)
	}

	view, err := cat.GetFolder(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetFolder() failed: %v", err)
	}
	if len(view.Folders) != 1 || len(view.Files) != 2 {
		t.Errorf("expected 1 folder and 2 files under parent, got %d and %d", len(view.Folders), len(view.Files))
	}

	missing := int64(999)
	if _, err := Populate(ctx, cat, &missing, cfg); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Populate() under a missing folder returned %v, want not found", err)
	}
}

func TestPopulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := types.SeedConfig{MaxDepth: 1, MinFolders: 1, MaxFolders: 1, FileSize: 8}
	if _, err := Populate(ctx, newTestCatalog(t), nil, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("Populate() with cancelled context returned %v", err)
	}
}
