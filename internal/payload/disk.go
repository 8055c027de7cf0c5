package payload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	dirPermsDefault  = 0o755
	filePermsDefault = 0o644
)

// DiskStore keeps each payload as one file under a base directory
type DiskStore struct {
	root string
}

// NewDiskStore creates the base directory if needed
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("disk store requires a directory")
	}
	if err := os.MkdirAll(root, dirPermsDefault); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &DiskStore{root: filepath.Clean(root)}, nil
}

// path resolves key inside the root and refuses anything that escapes it
func (d *DiskStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid payload key %q", key)
	}
	return filepath.Join(d.root, key), nil
}

// Put writes to a temp file first and renames it into place, so a failed
// copy never leaves a partial payload under key.
func (d *DiskStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	target, err := d.path(key)
	if err != nil {
		return 0, err
	}

	tmp := filepath.Join(d.root, ".upload-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermsDefault)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return n, fmt.Errorf("failed to write payload %s: %w", key, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return n, fmt.Errorf("failed to move payload %s into place: %w", key, err)
	}
	return n, nil
}

// Open returns the payload file; *os.File also satisfies io.ReadSeeker
func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := d.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("payload %s: %w", key, ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open payload %s: %w", key, err)
	}
	return f, nil
}

func (d *DiskStore) Delete(ctx context.Context, key string) error {
	target, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("payload %s: %w", key, ErrNotExist)
		}
		return fmt.Errorf("failed to delete payload %s: %w", key, err)
	}
	return nil
}

func (d *DiskStore) Close() error {
	return nil
}

// Root returns the base directory
func (d *DiskStore) Root() string {
	return d.root
}

// ctxReader stops a long copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
