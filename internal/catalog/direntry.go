package catalog

import (
	"io/fs"
)

// nodeDirEntry wraps a node to implement fs.DirEntry
type nodeDirEntry struct {
	node *node
}

func (de *nodeDirEntry) Name() string {
	return de.node.name
}

func (de *nodeDirEntry) IsDir() bool {
	return de.node.dir
}

// Type returns the type bits for the entry
func (de *nodeDirEntry) Type() fs.FileMode {
	if de.node.dir {
		return fs.ModeDir
	}
	return 0
}

func (de *nodeDirEntry) Info() (fs.FileInfo, error) {
	return &nodeFileInfo{node: de.node}, nil
}
