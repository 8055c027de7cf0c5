package catalog

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/Project-Sylos/Cabinet/internal/db"
)

// FS returns a read-only fs.FS view of the catalog. Paths resolve by name;
// since sibling names may repeat, a folder shadows a file of the same name
// and among equal kinds the lowest id wins.
func (c *Catalog) FS(ctx context.Context) fs.FS {
	return &catalogFS{ctx: ctx, catalog: c}
}

type catalogFS struct {
	ctx     context.Context
	catalog *Catalog
}

// Open implements fs.FS
func (cfs *catalogFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	var (
		target  *node
		entries []fs.DirEntry
	)
	err := cfs.catalog.db.WithTx(cfs.ctx, func(tx *db.Tx) error {
		var err error
		target, err = resolve(cfs.ctx, tx, name)
		if err != nil || !target.dir {
			return err
		}
		entries, err = readDir(cfs.ctx, tx, target.folderID)
		return err
	})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	if target.dir {
		return &catalogDir{node: target, entries: entries}, nil
	}

	body, err := cfs.catalog.store.Open(cfs.ctx, target.file.StorageKey)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return &catalogFile{Reader: bytes.NewReader(data), node: target}, nil
}

// resolve walks name one element at a time from the root
func resolve(ctx context.Context, tx *db.Tx, name string) (*node, error) {
	current := rootNode()
	if name == "." {
		return current, nil
	}

	elems := strings.Split(name, "/")
	for i, elem := range elems {
		if !current.dir {
			return nil, fs.ErrNotExist
		}
		children, err := childNodes(ctx, tx, current.folderID)
		if err != nil {
			return nil, err
		}
		next, ok := children[elem]
		if !ok {
			return nil, fs.ErrNotExist
		}
		if !next.dir && i < len(elems)-1 {
			return nil, fs.ErrNotExist
		}
		current = next
	}
	return current, nil
}

// childNodes maps each visible name under parentID to the node it resolves to
func childNodes(ctx context.Context, tx *db.Tx, parentID *int64) (map[string]*node, error) {
	folders, err := tx.ListFolders(ctx, db.ChildrenOf(parentID))
	if err != nil {
		return nil, err
	}
	files, err := tx.ListFiles(ctx, db.ChildrenOf(parentID))
	if err != nil {
		return nil, err
	}

	// rows arrive ordered by id, so the first hit for a name is the lowest id
	children := make(map[string]*node, len(folders)+len(files))
	for _, folder := range folders {
		if _, taken := children[folder.Name]; !taken {
			children[folder.Name] = folderNode(folder)
		}
	}
	for _, file := range files {
		if _, taken := children[file.Name]; !taken {
			children[file.Name] = fileNode(file)
		}
	}
	return children, nil
}

func readDir(ctx context.Context, tx *db.Tx, parentID *int64) ([]fs.DirEntry, error) {
	children, err := childNodes(ctx, tx, parentID)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, &nodeDirEntry{node: child})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

var (
	_ fs.ReadDirFile = (*catalogDir)(nil)
	_ fs.File        = (*catalogFile)(nil)
	_ fs.FileInfo    = (*nodeFileInfo)(nil)
	_ fs.DirEntry    = (*nodeDirEntry)(nil)
)
