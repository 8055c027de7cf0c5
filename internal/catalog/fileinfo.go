package catalog

import (
	"io/fs"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/types"
)

// node is a resolved path element: a folder (or the root) or a file
type node struct {
	name     string
	dir      bool
	folderID *int64      // set for folders, nil for the root
	file     *types.File // set for files
	modTime  time.Time
}

func folderNode(folder *types.Folder) *node {
	id := folder.ID
	return &node{name: folder.Name, dir: true, folderID: &id, modTime: folder.CreatedAt}
}

func fileNode(file *types.File) *node {
	return &node{name: file.Name, file: file, modTime: file.CreatedAt}
}

func rootNode() *node {
	return &node{name: ".", dir: true}
}

// nodeFileInfo wraps a node to implement fs.FileInfo
type nodeFileInfo struct {
	node *node
}

// Name returns the base name of the file
func (fi *nodeFileInfo) Name() string {
	return fi.node.name
}

// Size returns the declared size for files; 0 for folders
func (fi *nodeFileInfo) Size() int64 {
	if fi.node.file == nil {
		return 0
	}
	return fi.node.file.Size
}

// Mode returns read-only permission bits
func (fi *nodeFileInfo) Mode() fs.FileMode {
	if fi.node.dir {
		return fs.ModeDir | 0555
	}
	return 0444
}

func (fi *nodeFileInfo) ModTime() time.Time {
	return fi.node.modTime
}

func (fi *nodeFileInfo) IsDir() bool {
	return fi.node.dir
}

// Sys returns the underlying *types.File for files, nil otherwise
func (fi *nodeFileInfo) Sys() any {
	if fi.node.file == nil {
		return nil
	}
	return fi.node.file
}
