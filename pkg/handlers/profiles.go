package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/services"
)

// CreateProfileRequest is the request body for profile creation.
type CreateProfileRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CopyFrom    *uuid.UUID `json:"copy_from,omitempty"`
}

// SaveItemRequest is the request body for saving one assessment item.
type SaveItemRequest struct {
	ItemID     string                `json:"item_id"`
	Met        *bool                 `json:"met"`
	Response   string                `json:"response"`
	Evidence   []models.EvidenceFile `json:"evidence,omitempty"`
	Evaluation *models.Evaluation    `json:"evaluation,omitempty"`
}

// ProfileHandler handles profile and assessment item endpoints. All
// routes operate on the authenticated caller's own profiles.
type ProfileHandler struct {
	profiles services.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profiles", h.List)
	mux.HandleFunc("POST /api/profiles", h.Create)
	mux.HandleFunc("GET /api/profiles/active", h.Active)
	mux.HandleFunc("POST /api/profiles/{id}/activate", h.Activate)
	mux.HandleFunc("DELETE /api/profiles/{id}", h.Delete)
	mux.HandleFunc("GET /api/profiles/{id}/assessment/{section}", h.GetSection)
	mux.HandleFunc("PUT /api/profiles/{id}/assessment/{section}", h.SaveItem)
	mux.HandleFunc("DELETE /api/profiles/{id}/assessment/{section}", h.DeleteSection)
}

func (h *ProfileHandler) caller(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}
	return identity, true
}

func (h *ProfileHandler) profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_profile_id", "Profile id must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	summaries, err := h.profiles.ListProfiles(r.Context(), identity.UserID, includeInactive)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, summaries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	profile, err := h.profiles.CreateProfile(r.Context(), identity.UserID, req.Name, req.Description, req.CopyFrom)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusCreated, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Active handles GET /api/profiles/active
// Returns the caller's active profile, migrating legacy data if needed.
func (h *ProfileHandler) Active(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetOrMigrateActiveProfile(r.Context(), identity.UserID)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Activate handles POST /api/profiles/{id}/activate
func (h *ProfileHandler) Activate(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.profiles.ActivateProfile(r.Context(), identity.UserID, id); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/profiles/{id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), identity.UserID, id); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetSection handles GET /api/profiles/{id}/assessment/{section}
func (h *ProfileHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	items, err := h.profiles.GetAssessmentData(r.Context(), identity.UserID, id, r.PathValue("section"))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, items); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveItem handles PUT /api/profiles/{id}/assessment/{section}
func (h *ProfileHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	var req SaveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	item := &models.AssessmentItem{
		ItemID:     req.ItemID,
		Met:        req.Met,
		Response:   req.Response,
		Evidence:   req.Evidence,
		Evaluation: req.Evaluation,
	}
	if err := h.profiles.SaveAssessmentItem(r.Context(), identity.UserID, id, r.PathValue("section"), item); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, item); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteSection handles DELETE /api/profiles/{id}/assessment/{section}
func (h *ProfileHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	if err := h.profiles.DeleteAssessmentData(r.Context(), identity.UserID, id, r.PathValue("section")); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
