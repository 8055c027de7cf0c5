package catalog

import (
	"bytes"
	"io"
	"io/fs"
)

// catalogFile implements fs.File over a fully loaded payload.
// Seek and ReadAt come from the embedded reader, which http.FileServer relies on.
type catalogFile struct {
	*bytes.Reader
	node *node
}

func (f *catalogFile) Stat() (fs.FileInfo, error) {
	return &nodeFileInfo{node: f.node}, nil
}

func (f *catalogFile) Close() error {
	return nil
}

// catalogDir implements fs.ReadDirFile for folders and the root
type catalogDir struct {
	node    *node
	entries []fs.DirEntry
}

func (d *catalogDir) Stat() (fs.FileInfo, error) {
	return &nodeFileInfo{node: d.node}, nil
}

// Read fails: directories have no content
func (d *catalogDir) Read(b []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.node.name, Err: fs.ErrInvalid}
}

// ReadDir reads the contents of the directory and returns
// a slice of up to n DirEntry values in directory order
func (d *catalogDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if n <= 0 {
		result := d.entries
		d.entries = nil
		if result == nil {
			result = []fs.DirEntry{}
		}
		return result, nil
	}

	if len(d.entries) == 0 {
		return nil, io.EOF
	}

	count := min(n, len(d.entries))
	result := make([]fs.DirEntry, count)
	copy(result, d.entries[:count])
	d.entries = d.entries[count:]
	return result, nil
}

func (d *catalogDir) Close() error {
	return nil
}
