package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

func payloadKey(key string) []byte {
	return []byte("payload/" + key)
}

// BadgerStore keeps payloads as single values in a badger database
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a badger database with options
func NewBadgerStore(options badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: r})
	if err != nil {
		return 0, fmt.Errorf("failed to read payload %s: %w", key, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(payloadKey(key), data)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to write payload %s: %w", key, err)
	}
	return int64(len(data)), nil
}

func (b *BadgerStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(payloadKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("payload %s: %w", key, ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read payload %s: %w", key, err)
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(payloadKey(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("payload %s: %w", key, ErrNotExist)
			}
			return err
		}
		return txn.Delete(payloadKey(key))
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// readSeekNopCloser keeps the Seek method visible to http.ServeContent
type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
