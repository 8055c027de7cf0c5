package generator

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"

	"github.com/Project-Sylos/Cabinet/internal/catalog"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/rs/zerolog/log"
)

// RNG wraps math/rand.Rand for seeded random generation
type RNG struct {
	*rand.Rand
}

// NewRNG creates a new seeded random number generator
func NewRNG(seed int64) *RNG {
	return &RNG{
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// Target is what Populate writes into; *catalog.Catalog satisfies it
type Target interface {
	CreateFolder(ctx context.Context, name string, parentID *int64) (*types.Folder, error)
	CreateFile(ctx context.Context, upload catalog.FileUpload) (*types.File, error)
}

// Summary counts what Populate created
type Summary struct {
	Folders int   `json:"folders"`
	Files   int   `json:"files"`
	Bytes   int64 `json:"bytes"`
}

// Populate fills target with a random tree below parentID (nil for the root level).
// Each level gets between MinFolders..MaxFolders folders and MinFiles..MaxFiles
// files until MaxDepth levels exist. The same seed always yields the same tree.
func Populate(ctx context.Context, target Target, parentID *int64, cfg types.SeedConfig) (Summary, error) {
	if err := ValidateConfig(cfg); err != nil {
		return Summary{}, err
	}

	rng := NewRNG(cfg.Seed)
	var summary Summary

	type pending struct {
		parentID *int64
		depth    int
	}
	queue := []pending{{parentID: parentID, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		folders, files, err := generateChildren(ctx, target, current.parentID, rng, cfg)
		if err != nil {
			return summary, err
		}
		summary.Folders += len(folders)
		summary.Files += len(files)
		for _, file := range files {
			summary.Bytes += file.Size
		}

		if current.depth+1 >= cfg.MaxDepth {
			continue
		}
		for _, folder := range folders {
			id := folder.ID
			queue = append(queue, pending{parentID: &id, depth: current.depth + 1})
		}
	}

	log.Info().
		Int("folders", summary.Folders).
		Int("files", summary.Files).
		Int64("bytes", summary.Bytes).
		Int64("seed", cfg.Seed).
		Msg("catalog populated")
	return summary, nil
}

// generateChildren creates one level of folders and files under parentID
func generateChildren(ctx context.Context, target Target, parentID *int64, rng *RNG, cfg types.SeedConfig) ([]*types.Folder, []*types.File, error) {
	folderCount := rng.Intn(cfg.MaxFolders-cfg.MinFolders+1) + cfg.MinFolders
	folders := make([]*types.Folder, 0, folderCount)
	for i := 0; i < folderCount; i++ {
		folder, err := target.CreateFolder(ctx, fmt.Sprintf("folder_%d", i+1), parentID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate folder %d: %w", i+1, err)
		}
		folders = append(folders, folder)
	}

	fileCount := rng.Intn(cfg.MaxFiles-cfg.MinFiles+1) + cfg.MinFiles
	files := make([]*types.File, 0, fileCount)
	for i := 0; i < fileCount; i++ {
		data, _ := GenerateFileData(rng, cfg.FileSize)
		file, err := target.CreateFile(ctx, catalog.FileUpload{
			Name:        fmt.Sprintf("file_%d.txt", i+1),
			ContentType: "application/octet-stream",
			Size:        int64(len(data)),
			ParentID:    parentID,
			Body:        bytes.NewReader(data),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate file %d: %w", i+1, err)
		}
		files = append(files, file)
	}

	return folders, files, nil
}

// ValidateConfig validates the generator configuration
func ValidateConfig(cfg types.SeedConfig) error {
	if cfg.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1")
	}
	if cfg.MinFolders < 0 || cfg.MaxFolders < cfg.MinFolders {
		return fmt.Errorf("invalid folder count range: min=%d, max=%d", cfg.MinFolders, cfg.MaxFolders)
	}
	if cfg.MinFiles < 0 || cfg.MaxFiles < cfg.MinFiles {
		return fmt.Errorf("invalid file count range: min=%d, max=%d", cfg.MinFiles, cfg.MaxFiles)
	}
	if cfg.FileSize < 0 {
		return fmt.Errorf("file_size must not be negative")
	}
	return nil
}
