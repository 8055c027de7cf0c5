package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/types"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a row addressed by id or key does not exist
var ErrNotFound = errors.New("row not found")

const (
	folderColumns = "id, name, parent_id, created_at"
	fileColumns   = "id, name, content_type, size, parent_id, checksum, storage_key, created_at"
)

// DB wraps a DuckDB connection pool holding the folder and file tables
type DB struct {
	conn *sql.DB
	path string
}

// New opens (or creates) the DuckDB database at dbPath and initializes the schema.
// An empty dbPath opens an in-memory database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	db := &DB{
		conn: conn,
		path: dbPath,
	}

	if err := db.InitializeSchema(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitializeSchema creates the sequences, tables and indexes if they are missing
func (db *DB) InitializeSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return db.VerifySchema(ctx)
}

// VerifySchema checks that all required tables exist
func (db *DB) VerifySchema(ctx context.Context) error {
	for _, table := range requiredTables {
		var count int
		err := db.conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path ("" for in-memory)
func (db *DB) Path() string {
	return db.path
}

// WithTx runs fn as one unit of work. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Msg("failed to roll back transaction")
			}
		}
	}()

	if err = fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PutPayload stores payload bytes inline in the payloads table
func (db *DB) PutPayload(ctx context.Context, key string, data []byte) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO "+tablePayloads+" (payload_key, data) VALUES (?, ?)", key, data)
	if err != nil {
		return fmt.Errorf("failed to store payload %s: %w", key, err)
	}
	return nil
}

// GetPayload loads inline payload bytes
func (db *DB) GetPayload(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.conn.QueryRowContext(ctx,
		"SELECT data FROM "+tablePayloads+" WHERE payload_key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payload %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payload %s: %w", key, err)
	}
	return data, nil
}

// DeletePayload removes inline payload bytes
func (db *DB) DeletePayload(ctx context.Context, key string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM "+tablePayloads+" WHERE payload_key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete payload %s: %w", key, err)
	}
	return expectOneRow(result, "payload "+key)
}

// ParentFilter restricts folder and file listings by parent reference
type ParentFilter struct {
	All      bool
	ParentID *int64
}

// AnyParent matches every row
func AnyParent() ParentFilter {
	return ParentFilter{All: true}
}

// ChildrenOf matches direct children of parentID; nil means root level
func ChildrenOf(parentID *int64) ParentFilter {
	return ParentFilter{ParentID: parentID}
}

func (f ParentFilter) where() (string, []any) {
	switch {
	case f.All:
		return "", nil
	case f.ParentID == nil:
		return " WHERE parent_id IS NULL", nil
	default:
		return " WHERE parent_id = ?", []any{*f.ParentID}
	}
}

// Tx is a single unit of work against the catalog tables
type Tx struct {
	tx *sql.Tx
}

// InsertFolder inserts folder, assigning its ID and creation time
func (t *Tx) InsertFolder(ctx context.Context, folder *types.Folder) error {
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now().UTC()
	}

	query := "INSERT INTO " + tableFolders + " (" + folderColumns + ") VALUES (nextval('" + seqFolderIDs + "'), ?, ?, ?) RETURNING id"
	err := t.tx.QueryRowContext(ctx, query, folder.Name, nullable(folder.ParentID), folder.CreatedAt).Scan(&folder.ID)
	if err != nil {
		return fmt.Errorf("failed to insert folder %q: %w", folder.Name, err)
	}
	return nil
}

// GetFolder retrieves a folder by id
func (t *Tx) GetFolder(ctx context.Context, id int64) (*types.Folder, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+folderColumns+" FROM "+tableFolders+" WHERE id = ?", id)
	folder, err := scanFolder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get folder %d: %w", id, err)
	}
	return folder, nil
}

// FolderExists reports whether a folder with id exists
func (t *Tx) FolderExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM "+tableFolders+" WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check folder %d: %w", id, err)
	}
	return exists, nil
}

// ListFolders lists folders matching filter in id order
func (t *Tx) ListFolders(ctx context.Context, filter ParentFilter) ([]*types.Folder, error) {
	where, args := filter.where()
	rows, err := t.tx.QueryContext(ctx, "SELECT "+folderColumns+" FROM "+tableFolders+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	folders := make([]*types.Folder, 0)
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}
	return folders, nil
}

// DeleteFolder deletes a single folder row. Children are not touched.
func (t *Tx) DeleteFolder(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM "+tableFolders+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete folder %d: %w", id, err)
	}
	return expectOneRow(result, fmt.Sprintf("folder %d", id))
}

// NextFileID reserves a file id ahead of the payload write
func (t *Tx) NextFileID(ctx context.Context) (int64, error) {
	var id int64
	if err := t.tx.QueryRowContext(ctx, "SELECT nextval('"+seqFileIDs+"')").Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to reserve file id: %w", err)
	}
	return id, nil
}

// InsertFile inserts a file whose ID was reserved with NextFileID
func (t *Tx) InsertFile(ctx context.Context, file *types.File) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	query := "INSERT INTO " + tableFiles + " (" + fileColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := t.tx.ExecContext(ctx, query,
		file.ID,
		file.Name,
		file.ContentType,
		file.Size,
		nullable(file.ParentID),
		file.Checksum,
		file.StorageKey,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file %d: %w", file.ID, err)
	}
	return nil
}

// GetFile retrieves a file by id
func (t *Tx) GetFile(ctx context.Context, id int64) (*types.File, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM "+tableFiles+" WHERE id = ?", id)
	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("file %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get file %d: %w", id, err)
	}
	return file, nil
}

// ListFiles lists files matching filter in id order
func (t *Tx) ListFiles(ctx context.Context, filter ParentFilter) ([]*types.File, error) {
	where, args := filter.where()
	rows, err := t.tx.QueryContext(ctx, "SELECT "+fileColumns+" FROM "+tableFiles+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := make([]*types.File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}
	return files, nil
}

// DeleteFile deletes a file row
func (t *Tx) DeleteFile(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM "+tableFiles+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file %d: %w", id, err)
	}
	return expectOneRow(result, fmt.Sprintf("file %d", id))
}

// CountChildren returns the number of direct child folders and files of a folder
func (t *Tx) CountChildren(ctx context.Context, folderID int64) (folders int, files int, err error) {
	err = t.tx.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM "+tableFolders+" WHERE parent_id = ?), (SELECT COUNT(*) FROM "+tableFiles+" WHERE parent_id = ?)",
		folderID, folderID).Scan(&folders, &files)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count children of folder %d: %w", folderID, err)
	}
	return folders, files, nil
}

// Stats returns row counts and the declared byte total
func (t *Tx) Stats(ctx context.Context) (types.Stats, error) {
	var stats types.Stats
	err := t.tx.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM "+tableFolders+"), (SELECT COUNT(*) FROM "+tableFiles+"), (SELECT CAST(COALESCE(SUM(size), 0) AS BIGINT) FROM "+tableFiles+")").
		Scan(&stats.Folders, &stats.Files, &stats.Bytes)
	if err != nil {
		return types.Stats{}, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}

// DeleteAll removes every folder and file row (for Reset)
func (t *Tx) DeleteAll(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM "+tableFiles); err != nil {
		return fmt.Errorf("failed to delete from files table: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM "+tableFolders); err != nil {
		return fmt.Errorf("failed to delete from folders table: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(s scanner) (*types.Folder, error) {
	folder := &types.Folder{}
	var parent sql.NullInt64
	if err := s.Scan(&folder.ID, &folder.Name, &parent, &folder.CreatedAt); err != nil {
		return nil, err
	}
	folder.ParentID = fromNullable(parent)
	return folder, nil
}

func scanFile(s scanner) (*types.File, error) {
	file := &types.File{}
	var parent sql.NullInt64
	err := s.Scan(
		&file.ID,
		&file.Name,
		&file.ContentType,
		&file.Size,
		&parent,
		&file.Checksum,
		&file.StorageKey,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	file.ParentID = fromNullable(parent)
	return file, nil
}

func nullable(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func fromNullable(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
