// Package payload stores the bytes behind catalog files.
//
// A Store is addressed by opaque string keys; the catalog derives them with
// Key. Three backends exist: plain files on disk, a badger key/value store,
// and an inline table inside the catalog's DuckDB database.
package payload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Project-Sylos/Cabinet/internal/db"
	"github.com/Project-Sylos/Cabinet/internal/logging"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/internal/utils"
	"github.com/dgraph-io/badger/v4"
)

// ErrNotExist is returned when no payload is stored under a key
var ErrNotExist = errors.New("payload does not exist")

// Store persists payload bytes by key
type Store interface {
	// Put streams r into the store under key and returns the number of bytes written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Open returns a reader for the payload under key. Callers must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the payload under key.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key derives the storage key of a file: "<id>.<extension of name>"
func Key(id int64, name string) string {
	return strconv.FormatInt(id, 10) + "." + utils.Extension(name)
}

// Open builds the store selected by cfg. The database backend shares database.
func Open(cfg types.StorageConfig, database *db.DB) (Store, error) {
	switch cfg.Backend {
	case types.StorageDisk:
		return NewDiskStore(cfg.Directory)
	case types.StorageBadger:
		options := badger.DefaultOptions(cfg.Directory)
		options.Logger = &logging.BadgerLogger{}
		return NewBadgerStore(options)
	case types.StorageDatabase:
		if database == nil {
			return nil, fmt.Errorf("database backend requires an open database")
		}
		return NewBlobStore(database), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
