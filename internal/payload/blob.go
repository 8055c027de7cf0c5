package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Project-Sylos/Cabinet/internal/db"
)

// BlobStore keeps payloads inline in the catalog's own DuckDB database
type BlobStore struct {
	db *db.DB
}

// NewBlobStore wraps an open catalog database
func NewBlobStore(database *db.DB) *BlobStore {
	return &BlobStore{db: database}
}

func (s *BlobStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: r})
	if err != nil {
		return 0, fmt.Errorf("failed to read payload %s: %w", key, err)
	}
	if err := s.db.PutPayload(ctx, key, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func (s *BlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := s.db.GetPayload(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("payload %s: %w", key, ErrNotExist)
		}
		return nil, err
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.db.DeletePayload(ctx, key); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("payload %s: %w", key, ErrNotExist)
		}
		return err
	}
	return nil
}

// Close is a no-op: the database belongs to the catalog
func (s *BlobStore) Close() error {
	return nil
}
