package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/models"
)

// ChecklistHandler serves the static checklist definitions.
type ChecklistHandler struct {
	logger *zap.Logger
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{logger: logger}
}

// RegisterRoutes registers the checklist handler's routes on the given mux.
func (h *ChecklistHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/checklist", h.List)
	mux.HandleFunc("GET /api/checklist/{section}", h.ListSection)
}

// List handles GET /api/checklist
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, models.Checklist); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListSection handles GET /api/checklist/{section}
func (h *ChecklistHandler) ListSection(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	if !models.IsValidSection(section) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_section", "Section must be prerequisites or technical"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, models.ChecklistBySection(section)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
