package handlers

import (
	"net/http"

	"github.com/Project-Sylos/Cabinet/sdk"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	cabinet *sdk.Cabinet
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cabinet *sdk.Cabinet) *SystemHandler {
	return &SystemHandler{
		cabinet: cabinet,
	}
}

// Reset handles the reset endpoint; it is refused unless api.allow_reset is set
func (h *SystemHandler) Reset(w http.ResponseWriter, req *http.Request) {
	if !h.cabinet.GetConfig().API.AllowReset {
		h.sendError(w, http.StatusForbidden, "reset is disabled")
		return
	}

	if err := h.cabinet.Reset(req.Context()); err != nil {
		h.sendFailure(w, req, "reset cabinet", err)
		return
	}

	h.sendSuccess(w, "Cabinet reset successfully", nil)
}

// GetConfig handles the get config endpoint
func (h *SystemHandler) GetConfig(w http.ResponseWriter, req *http.Request) {
	h.sendSuccess(w, "Config retrieved successfully", h.cabinet.GetConfig())
}

// GetStats handles the get stats endpoint
func (h *SystemHandler) GetStats(w http.ResponseWriter, req *http.Request) {
	stats, err := h.cabinet.GetStats(req.Context())
	if err != nil {
		h.sendFailure(w, req, "get stats", err)
		return
	}

	h.sendSuccess(w, "Stats retrieved successfully", stats)
}
