package catalog

import (
	"errors"
	"fmt"
)

// Entity kinds reported by NotFoundError
const (
	KindFolder       = "folder"
	KindParentFolder = "parent folder"
	KindFile         = "file"
)

var (
	// ErrNotFound matches every NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrPayloadWrite matches every PayloadWriteError
	ErrPayloadWrite = errors.New("payload write failed")
	// ErrCorruptHierarchy matches every CorruptHierarchyError
	ErrCorruptHierarchy = errors.New("corrupt folder hierarchy")
	// ErrFolderNotEmpty is returned when a non-recursive delete hits a folder with children
	ErrFolderNotEmpty = errors.New("folder is not empty")
	// ErrInvalidName is returned for names that cannot be stored
	ErrInvalidName = errors.New("invalid name")
)

// NotFoundError reports a requested or referenced entity that does not exist
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PayloadWriteError reports a failed write of a file's content
type PayloadWriteError struct {
	Key string
	Err error
}

func (e *PayloadWriteError) Error() string {
	return fmt.Sprintf("failed to write payload %s: %v", e.Key, e.Err)
}

func (e *PayloadWriteError) Unwrap() error {
	return e.Err
}

func (e *PayloadWriteError) Is(target error) bool {
	return target == ErrPayloadWrite
}

// CorruptHierarchyError reports a parent chain that revisits a folder,
// points at a missing folder, or is deeper than the configured bound.
type CorruptHierarchyError struct {
	FolderID int64
	Depth    int
	Reason   string
}

func (e *CorruptHierarchyError) Error() string {
	return fmt.Sprintf("corrupt hierarchy above folder %d at depth %d: %s", e.FolderID, e.Depth, e.Reason)
}

func (e *CorruptHierarchyError) Is(target error) bool {
	return target == ErrCorruptHierarchy
}
