package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/rs/zerolog/log"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory before spilling to temp files
const multipartMemory = 32 << 20

// FileHandler handles file-related endpoints
type FileHandler struct {
	BaseHandler
	cabinet        *sdk.Cabinet
	maxUploadBytes int64
}

// NewFileHandler creates a new file handler
func NewFileHandler(cabinet *sdk.Cabinet) *FileHandler {
	return &FileHandler{
		cabinet:        cabinet,
		maxUploadBytes: cabinet.GetConfig().API.MaxUploadBytes,
	}
}

// ListFiles handles GET /files; ?folder_id=N lists that folder, otherwise the root level
func (h *FileHandler) ListFiles(w http.ResponseWriter, req *http.Request) {
	parentID, err := optionalID("folder_id", req.URL.Query().Get("folder_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := h.cabinet.ListFiles(req.Context(), parentID)
	if err != nil {
		h.sendFailure(w, req, "list files", err)
		return
	}

	h.sendJSON(w, http.StatusOK, files)
}

// UploadFile handles the multipart upload endpoint (fields: file, folder_id)
func (h *FileHandler) UploadFile(w http.ResponseWriter, req *http.Request) {
	if req.ContentLength > h.maxUploadBytes {
		h.sendFailure(w, req, "upload file", &http.MaxBytesError{Limit: h.maxUploadBytes})
		return
	}
	req.Body = http.MaxBytesReader(w, req.Body, h.maxUploadBytes)

	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendFailure(w, req, "upload file", err)
			return
		}
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart body: %v", err))
		return
	}
	defer req.MultipartForm.RemoveAll()

	parentID, err := optionalID("folder_id", req.FormValue("folder_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, header, err := req.FormFile("file")
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer body.Close()

	file, err := h.cabinet.UploadFile(req.Context(), sdk.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		ParentID:    parentID,
		Body:        body,
	})
	if err != nil {
		h.sendFailure(w, req, "upload file", err)
		return
	}

	h.sendJSON(w, http.StatusOK, file)
}

// GetFile handles the file metadata endpoint
func (h *FileHandler) GetFile(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.cabinet.GetFile(req.Context(), id)
	if err != nil {
		h.sendFailure(w, req, "get file", err)
		return
	}

	h.sendJSON(w, http.StatusOK, file)
}

// DownloadFile streams a file's payload. Seekable payloads go through
// http.ServeContent so ranges and conditional requests work.
func (h *FileHandler) DownloadFile(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, body, err := h.cabinet.OpenFile(req.Context(), id)
	if err != nil {
		h.sendFailure(w, req, "download file", err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("ETag", `"`+file.Checksum+`"`)

	if seeker, ok := body.(io.ReadSeeker); ok {
		http.ServeContent(w, req, file.Name, file.CreatedAt, seeker)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.Warn().Err(err).Int64("file_id", id).Msg("download interrupted")
	}
}

// DeleteFile removes a file and its payload
func (h *FileHandler) DeleteFile(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.cabinet.DeleteFile(req.Context(), id); err != nil {
		h.sendFailure(w, req, "delete file", err)
		return
	}

	h.sendSuccess(w, fmt.Sprintf("File %d deleted", id), nil)
}
