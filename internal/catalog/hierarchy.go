package catalog

import (
	"context"
	"errors"

	"github.com/Project-Sylos/Cabinet/internal/db"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/internal/utils"
)

// ancestors walks parent references from folder up to the root by explicit id lookups.
// The walk stops with a CorruptHierarchyError on a revisit, a dangling parent,
// or after maxDepth steps.
func (c *Catalog) ancestors(ctx context.Context, tx *db.Tx, folder *types.Folder) ([]types.FolderRef, error) {
	chain := make([]types.FolderRef, 0)
	visited := map[int64]struct{}{folder.ID: {}}

	for next := folder.ParentID; next != nil; {
		if len(chain) >= c.maxDepth {
			return nil, &CorruptHierarchyError{FolderID: folder.ID, Depth: len(chain), Reason: "depth limit exceeded"}
		}
		if _, seen := visited[*next]; seen {
			return nil, &CorruptHierarchyError{FolderID: folder.ID, Depth: len(chain), Reason: "parent cycle"}
		}
		visited[*next] = struct{}{}

		parent, err := tx.GetFolder(ctx, *next)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, &CorruptHierarchyError{FolderID: folder.ID, Depth: len(chain), Reason: "dangling parent reference"}
			}
			return nil, err
		}

		chain = append(chain, parent.Ref())
		next = parent.ParentID
	}
	return chain, nil
}

// folderView builds the browse result for folder, or for the root when folder is nil
func (c *Catalog) folderView(ctx context.Context, tx *db.Tx, folder *types.Folder) (*types.FolderView, error) {
	view := &types.FolderView{
		Name:      types.RootName,
		Path:      "/",
		Ancestors: make([]types.FolderRef, 0),
		Folders:   make([]types.FolderRef, 0),
		Files:     make([]types.FileSummary, 0),
	}

	var parentID *int64
	if folder != nil {
		id := folder.ID
		parentID = &id
		view.ID = &id
		view.Name = folder.Name

		chain, err := c.ancestors(ctx, tx, folder)
		if err != nil {
			return nil, err
		}
		view.Ancestors = chain
		view.Path = pathOf(chain, folder.Name)
	}

	folders, err := tx.ListFolders(ctx, db.ChildrenOf(parentID))
	if err != nil {
		return nil, err
	}
	for _, child := range folders {
		view.Folders = append(view.Folders, child.Ref())
	}

	files, err := tx.ListFiles(ctx, db.ChildrenOf(parentID))
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		view.Files = append(view.Files, file.Summary())
	}

	return view, nil
}

// pathOf renders "/a/b/name" from a nearest-first ancestor chain
func pathOf(chain []types.FolderRef, name string) string {
	parts := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, chain[i].Name)
	}
	parts = append(parts, name)
	return utils.JoinPath(parts...)
}
