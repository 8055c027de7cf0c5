package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/db"
	"github.com/Project-Sylos/Cabinet/internal/payload"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/rs/zerolog/log"
)

// DefaultContentType is recorded when an upload declares none
const DefaultContentType = "application/octet-stream"

// Catalog owns the folder/file tree: metadata lives in DuckDB, payload bytes in a payload.Store.
// Every operation runs as one unit of work.
type Catalog struct {
	db       *db.DB
	store    payload.Store
	maxDepth int
}

// New creates a catalog over an open database and payload store
func New(database *db.DB, store payload.Store, cfg types.CatalogConfig) *Catalog {
	maxDepth := cfg.MaxDepth
	if maxDepth < 1 {
		maxDepth = 1024
	}
	return &Catalog{
		db:       database,
		store:    store,
		maxDepth: maxDepth,
	}
}

// FileUpload describes a file to be created. Size is the declared size;
// a negative value means unknown, in which case the written byte count is kept.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	ParentID    *int64
	Body        io.Reader
}

// CreateFolder creates a folder under parentID (nil for the root level)
func (c *Catalog) CreateFolder(ctx context.Context, name string, parentID *int64) (folder *types.Folder, err error) {
	defer func(start time.Time) { observe("create_folder", start, err) }(time.Now())

	if err := validateName(name); err != nil {
		return nil, err
	}

	folder = &types.Folder{Name: name, ParentID: parentID}
	err = c.db.WithTx(ctx, func(tx *db.Tx) error {
		if err := requireParent(ctx, tx, parentID); err != nil {
			return err
		}
		return tx.InsertFolder(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	foldersCreated.Inc()
	log.Debug().Int64("folder_id", folder.ID).Str("name", name).Msg("folder created")
	return folder, nil
}

// CreateFile stores upload's payload and records its metadata. If the payload
// cannot be written the unit of work is rolled back and no row survives; if
// anything fails after the payload was written, the payload is removed again.
func (c *Catalog) CreateFile(ctx context.Context, upload FileUpload) (file *types.File, err error) {
	defer func(start time.Time) { observe("create_file", start, err) }(time.Now())

	if err := validateName(upload.Name); err != nil {
		return nil, err
	}
	if upload.Body == nil {
		return nil, fmt.Errorf("upload %q has no body", upload.Name)
	}

	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}

	var (
		key     string
		written int64
		stored  bool
	)
	err = c.db.WithTx(ctx, func(tx *db.Tx) error {
		if err := requireParent(ctx, tx, upload.ParentID); err != nil {
			return err
		}

		id, err := tx.NextFileID(ctx)
		if err != nil {
			return err
		}
		key = payload.Key(id, upload.Name)

		hash := sha256.New()
		written, err = c.store.Put(ctx, key, io.TeeReader(upload.Body, hash))
		if err != nil {
			payloadWriteFailures.Inc()
			log.Error().Err(err).Int64("file_id", id).Str("key", key).Msg("payload write failed, rolling back upload")
			return &PayloadWriteError{Key: key, Err: err}
		}
		stored = true

		size := upload.Size
		if size < 0 {
			size = written
		}

		file = &types.File{
			ID:          id,
			Name:        upload.Name,
			ContentType: contentType,
			Size:        size,
			ParentID:    upload.ParentID,
			Checksum:    hex.EncodeToString(hash.Sum(nil)),
			StorageKey:  key,
		}
		return tx.InsertFile(ctx, file)
	})
	if err != nil {
		if stored {
			c.discardPayload(ctx, key)
		}
		return nil, err
	}

	filesUploaded.Inc()
	bytesUploaded.Add(float64(written))
	log.Debug().Int64("file_id", file.ID).Str("name", file.Name).Int64("bytes", written).Msg("file stored")
	return file, nil
}

// GetFile returns file metadata
func (c *Catalog) GetFile(ctx context.Context, id int64) (*types.File, error) {
	var file *types.File
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		var err error
		file, err = getFile(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// OpenFile returns file metadata and a reader over its payload. Callers must close the reader.
func (c *Catalog) OpenFile(ctx context.Context, id int64) (*types.File, io.ReadCloser, error) {
	file, err := c.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := c.store.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open payload of file %d: %w", id, err)
	}
	return file, body, nil
}

// ListFiles returns the direct child files of parentID; nil lists root-level files
func (c *Catalog) ListFiles(ctx context.Context, parentID *int64) ([]*types.File, error) {
	var files []*types.File
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		if parentID != nil {
			if _, err := getFolder(ctx, tx, *parentID); err != nil {
				return err
			}
		}
		var err error
		files, err = tx.ListFiles(ctx, db.ChildrenOf(parentID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteFile removes the file row, then its payload
func (c *Catalog) DeleteFile(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { observe("delete_file", start, err) }(time.Now())

	var file *types.File
	err = c.db.WithTx(ctx, func(tx *db.Tx) error {
		var err error
		if file, err = getFile(ctx, tx, id); err != nil {
			return err
		}
		return tx.DeleteFile(ctx, id)
	})
	if err != nil {
		return err
	}

	filesDeleted.Inc()
	c.discardPayload(ctx, file.StorageKey)
	return nil
}

// ListFolders returns every folder, unfiltered
func (c *Catalog) ListFolders(ctx context.Context) ([]*types.Folder, error) {
	var folders []*types.Folder
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		var err error
		folders, err = tx.ListFolders(ctx, db.AnyParent())
		return err
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// GetFolder returns a folder with its direct children and its ancestor chain
func (c *Catalog) GetFolder(ctx context.Context, id int64) (view *types.FolderView, err error) {
	defer func(start time.Time) { observe("get_folder", start, err) }(time.Now())

	err = c.db.WithTx(ctx, func(tx *db.Tx) error {
		folder, err := getFolder(ctx, tx, id)
		if err != nil {
			return err
		}
		view, err = c.folderView(ctx, tx, folder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetRootFolder returns the implicit root: everything without a parent
func (c *Catalog) GetRootFolder(ctx context.Context) (*types.FolderView, error) {
	var view *types.FolderView
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		var err error
		view, err = c.folderView(ctx, tx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Ancestors returns the ancestor chain of a folder, nearest parent first
func (c *Catalog) Ancestors(ctx context.Context, id int64) ([]types.FolderRef, error) {
	var chain []types.FolderRef
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		folder, err := getFolder(ctx, tx, id)
		if err != nil {
			return err
		}
		chain, err = c.ancestors(ctx, tx, folder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// DeleteFolder removes an empty folder. With recursive set, the whole subtree
// (folders, files and payloads) is removed instead of failing with ErrFolderNotEmpty.
func (c *Catalog) DeleteFolder(ctx context.Context, id int64, recursive bool) (err error) {
	defer func(start time.Time) { observe("delete_folder", start, err) }(time.Now())

	var (
		folderIDs []int64
		keys      []string
	)
	err = c.db.WithTx(ctx, func(tx *db.Tx) error {
		if _, err := getFolder(ctx, tx, id); err != nil {
			return err
		}

		folders, files, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if folders+files > 0 && !recursive {
			return fmt.Errorf("folder %d has %d folders and %d files: %w", id, folders, files, ErrFolderNotEmpty)
		}

		folderIDs, keys, err = c.collectSubtree(ctx, tx, id)
		if err != nil {
			return err
		}

		for _, folderID := range folderIDs {
			if err := tx.DeleteFolder(ctx, folderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	foldersDeleted.Add(float64(len(folderIDs)))
	filesDeleted.Add(float64(len(keys)))
	for _, key := range keys {
		c.discardPayload(ctx, key)
	}
	log.Info().Int64("folder_id", id).Int("folders", len(folderIDs)).Int("files", len(keys)).Msg("folder deleted")
	return nil
}

// collectSubtree deletes every file below root (root included) breadth first
// and returns the folder ids to remove together with the freed payload keys.
func (c *Catalog) collectSubtree(ctx context.Context, tx *db.Tx, root int64) ([]int64, []string, error) {
	var (
		folderIDs []int64
		keys      []string
	)
	visited := map[int64]struct{}{root: {}}
	queue := []int64{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		folderIDs = append(folderIDs, current)

		files, err := tx.ListFiles(ctx, db.ChildrenOf(&current))
		if err != nil {
			return nil, nil, err
		}
		for _, file := range files {
			if err := tx.DeleteFile(ctx, file.ID); err != nil {
				return nil, nil, err
			}
			keys = append(keys, file.StorageKey)
		}

		children, err := tx.ListFolders(ctx, db.ChildrenOf(&current))
		if err != nil {
			return nil, nil, err
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				return nil, nil, &CorruptHierarchyError{FolderID: child.ID, Depth: len(folderIDs), Reason: "folder reachable twice"}
			}
			visited[child.ID] = struct{}{}
			queue = append(queue, child.ID)
		}
	}
	return folderIDs, keys, nil
}

// Stats returns folder and file counts and the declared byte total
func (c *Catalog) Stats(ctx context.Context) (types.Stats, error) {
	var stats types.Stats
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		var err error
		stats, err = tx.Stats(ctx)
		return err
	})
	return stats, err
}

// Reset deletes every folder, file and payload
func (c *Catalog) Reset(ctx context.Context) error {
	var keys []string
	err := c.db.WithTx(ctx, func(tx *db.Tx) error {
		files, err := tx.ListFiles(ctx, db.AnyParent())
		if err != nil {
			return err
		}
		for _, file := range files {
			keys = append(keys, file.StorageKey)
		}
		return tx.DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}

	for _, key := range keys {
		c.discardPayload(ctx, key)
	}
	log.Warn().Int("files", len(keys)).Msg("catalog reset")
	return nil
}

// discardPayload removes a payload whose metadata is gone. Failures only
// leave an unreferenced payload behind, so they are logged, not returned.
func (c *Catalog) discardPayload(ctx context.Context, key string) {
	if err := c.store.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, payload.ErrNotExist) {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete payload")
	}
}

func requireParent(ctx context.Context, tx *db.Tx, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	exists, err := tx.FolderExists(ctx, *parentID)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Kind: KindParentFolder, ID: *parentID}
	}
	return nil
}

func getFolder(ctx context.Context, tx *db.Tx, id int64) (*types.Folder, error) {
	folder, err := tx.GetFolder(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindFolder, ID: id}
		}
		return nil, err
	}
	return folder, nil
}

func getFile(ctx context.Context, tx *db.Tx, id int64) (*types.File, error) {
	file, err := tx.GetFile(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &NotFoundError{Kind: KindFile, ID: id}
		}
		return nil, err
	}
	return file, nil
}

// validateName rejects names that cannot serve as a storage key suffix or path element
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name must not be empty: %w", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("name %q is reserved: %w", name, ErrInvalidName)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("name %q contains a path separator: %w", name, ErrInvalidName)
	}
	return nil
}
