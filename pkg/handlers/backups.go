package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/services"
)

// SelectiveBackupRequest is the request body for a selective backup.
type SelectiveBackupRequest struct {
	Criteria models.SelectionCriteria `json:"criteria"`
}

// ResetRequest is the request body for a system reset.
type ResetRequest struct {
	CreateBackup bool `json:"create_backup"`
}

// SelectiveDeleteRequest is the request body for a selective delete.
type SelectiveDeleteRequest struct {
	Criteria     models.SelectionCriteria `json:"criteria"`
	CreateBackup bool                     `json:"create_backup"`
}

// BackupHandler handles backup, restore, and destructive admin
// endpoints. Mounted behind the manage-backups capability check.
type BackupHandler struct {
	backups services.BackupService
	logger  *zap.Logger
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(backups services.BackupService, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{backups: backups, logger: logger}
}

// RegisterRoutes registers the backup handler's routes on the given mux.
func (h *BackupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/backups/full", h.CreateFull)
	mux.HandleFunc("POST /api/admin/backups/selective", h.CreateSelective)
	mux.HandleFunc("GET /api/admin/backups", h.List)
	mux.HandleFunc("POST /api/admin/backups/{id}/restore", h.Restore)
	mux.HandleFunc("POST /api/admin/system/reset", h.Reset)
	mux.HandleFunc("POST /api/admin/system/delete", h.DeleteSelective)
	mux.HandleFunc("GET /api/admin/system/logs", h.Logs)
	mux.HandleFunc("GET /api/admin/system/archive", h.Archive)
}

func (h *BackupHandler) caller(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}
	return identity, true
}

func limitParam(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// CreateFull handles POST /api/admin/backups/full
func (h *BackupHandler) CreateFull(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	record, err := h.backups.CreateFullBackup(r.Context(), identity.UserID)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusCreated, record); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateSelective handles POST /api/admin/backups/selective
func (h *BackupHandler) CreateSelective(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req SelectiveBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	record, err := h.backups.CreateSelectiveBackup(r.Context(), identity.UserID, &req.Criteria)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusCreated, record); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/admin/backups
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.backups.ListBackups(r.Context(), limitParam(r, 100))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, records); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Restore handles POST /api/admin/backups/{id}/restore
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	backupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_backup_id", "Backup id must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.backups.RestoreFromBackup(r.Context(), identity.UserID, backupID)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reset handles POST /api/admin/system/reset
func (h *BackupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.backups.ResetSystem(r.Context(), identity.UserID, req.CreateBackup)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteSelective handles POST /api/admin/system/delete
func (h *BackupHandler) DeleteSelective(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req SelectiveDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.backups.DeleteSelective(r.Context(), identity.UserID, &req.Criteria, req.CreateBackup)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logs handles GET /api/admin/system/logs
func (h *BackupHandler) Logs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.backups.ListLogs(r.Context(), limitParam(r, 100))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Archive handles GET /api/admin/system/archive
func (h *BackupHandler) Archive(w http.ResponseWriter, r *http.Request) {
	entries, err := h.backups.ListArchive(r.Context(), r.URL.Query().Get("table"), limitParam(r, 100))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
