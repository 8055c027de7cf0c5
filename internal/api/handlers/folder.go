package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/Project-Sylos/Cabinet/internal/api/models"
	"github.com/Project-Sylos/Cabinet/sdk"
)

// FolderHandler handles folder-related endpoints
type FolderHandler struct {
	BaseHandler
	cabinet *sdk.Cabinet
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(cabinet *sdk.Cabinet) *FolderHandler {
	return &FolderHandler{
		cabinet: cabinet,
	}
}

// ListFolders handles GET /folders: every folder, unfiltered
func (h *FolderHandler) ListFolders(w http.ResponseWriter, req *http.Request) {
	folders, err := h.cabinet.ListFolders(req.Context())
	if err != nil {
		h.sendFailure(w, req, "list folders", err)
		return
	}

	h.sendJSON(w, http.StatusOK, folders)
}

// GetRootFolder handles GET /folders/: the implicit root and its direct children
func (h *FolderHandler) GetRootFolder(w http.ResponseWriter, req *http.Request) {
	view, err := h.cabinet.GetRootFolder(req.Context())
	if err != nil {
		h.sendFailure(w, req, "get root folder", err)
		return
	}

	h.sendJSON(w, http.StatusOK, view)
}

// GetFolder handles GET /folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.cabinet.GetFolder(req.Context(), id)
	if err != nil {
		h.sendFailure(w, req, "get folder", err)
		return
	}

	h.sendJSON(w, http.StatusOK, view)
}

// CreateFolder handles POST /folders with a JSON or form body (folder_name, parent_id)
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, req *http.Request) {
	request, err := decodeCreateFolder(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if request.FolderName == "" {
		h.sendError(w, http.StatusBadRequest, "folder_name is required")
		return
	}

	folder, err := h.cabinet.CreateFolder(req.Context(), request.FolderName, request.ParentID)
	if err != nil {
		h.sendFailure(w, req, "create folder", err)
		return
	}

	h.sendJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /folders/{id}; ?recursive=true removes the whole subtree
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	recursive := false
	if raw := req.URL.Query().Get("recursive"); raw != "" {
		if recursive, err = strconv.ParseBool(raw); err != nil {
			h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid recursive flag %q", raw))
			return
		}
	}

	if err := h.cabinet.DeleteFolder(req.Context(), id, recursive); err != nil {
		h.sendFailure(w, req, "delete folder", err)
		return
	}

	h.sendSuccess(w, fmt.Sprintf("Folder %d deleted", id), nil)
}

func decodeCreateFolder(req *http.Request) (*models.CreateFolderRequest, error) {
	var request models.CreateFolderRequest

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
			return nil, fmt.Errorf("Invalid request body")
		}
		return &request, nil
	}

	if err := req.ParseMultipartForm(multipartMemory); err != nil && err != http.ErrNotMultipart {
		return nil, fmt.Errorf("Invalid form body: %v", err)
	}
	request.FolderName = req.FormValue("folder_name")

	parentID, err := optionalID("parent_id", req.FormValue("parent_id"))
	if err != nil {
		return nil, err
	}
	request.ParentID = parentID
	return &request, nil
}
