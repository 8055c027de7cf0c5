package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BaseHandler provides common functionality for all API handlers
type BaseHandler struct{}

// sendJSON sends a JSON response with the given status code and data
func (h *BaseHandler) sendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// sendError sends an error response with the given status code and message
func (h *BaseHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	h.sendJSON(w, statusCode, types.APIResponse{
		Success: false,
		Message: message,
	})
}

// sendSuccess sends a success response with the given data
func (h *BaseHandler) sendSuccess(w http.ResponseWriter, message string, data any) {
	h.sendJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// sendFailure maps a catalog error onto a status code.
// Anything unrecognised is a 500 and gets logged with the failed action.
func (h *BaseHandler) sendFailure(w http.ResponseWriter, req *http.Request, action string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, sdk.ErrNotFound):
		h.sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sdk.ErrInvalidName):
		h.sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sdk.ErrFolderNotEmpty):
		h.sendError(w, http.StatusConflict, err.Error())
	case errors.As(err, &tooLarge):
		h.sendError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
	default:
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.Path).Msg("failed to " + action)
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s: %v", action, err))
	}
}

// pathID parses the {id} route parameter
func pathID(req *http.Request) (int64, error) {
	raw := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// optionalID parses a folder reference where "" (or "null") means the root level
func optionalID(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, raw)
	}
	return &id, nil
}
