package db

// Table and sequence names
const (
	tableFolders  = "folders"
	tableFiles    = "files"
	tablePayloads = "payloads"

	seqFolderIDs = "folder_ids"
	seqFileIDs   = "file_ids"
)

// Parent references are plain nullable columns: DuckDB cannot delete a
// referenced row and its referrers in one transaction, so parent existence
// is checked by the catalog instead of a FOREIGN KEY.
var schemaStatements = []string{
	"CREATE SEQUENCE IF NOT EXISTS " + seqFolderIDs + " START 1",
	"CREATE SEQUENCE IF NOT EXISTS " + seqFileIDs + " START 1",
	`CREATE TABLE IF NOT EXISTS ` + tableFolders + ` (
	id         BIGINT PRIMARY KEY,
	name       VARCHAR NOT NULL,
	parent_id  BIGINT,
	created_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + tableFiles + ` (
	id           BIGINT PRIMARY KEY,
	name         VARCHAR NOT NULL,
	content_type VARCHAR NOT NULL,
	size         BIGINT NOT NULL,
	parent_id    BIGINT,
	checksum     VARCHAR NOT NULL,
	storage_key  VARCHAR NOT NULL,
	created_at   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ` + tablePayloads + ` (
	payload_key VARCHAR PRIMARY KEY,
	data        BLOB NOT NULL
)`,
	"CREATE INDEX IF NOT EXISTS idx_folders_parent ON " + tableFolders + " (parent_id)",
	"CREATE INDEX IF NOT EXISTS idx_files_parent ON " + tableFiles + " (parent_id)",
}

// requiredTables are checked by VerifySchema
var requiredTables = []string{tableFolders, tableFiles, tablePayloads}
