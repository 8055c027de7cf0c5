package models

// CreateFolderRequest is the JSON or form body of POST /folders
type CreateFolderRequest struct {
	FolderName string `json:"folder_name"`
	ParentID   *int64 `json:"parent_id"`
}
