package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/services"
)

// GenerateCacheRequest is the request body for batch generation.
type GenerateCacheRequest struct {
	Languages     []string `json:"languages,omitempty"`
	SourceVersion string   `json:"source_version,omitempty"`
	Provider      string   `json:"provider,omitempty"`
}

// ActivateVersionRequest is the request body for version activation.
type ActivateVersionRequest struct {
	Language string `json:"language"`
}

// CacheHandler serves cached AI content and the admin endpoints that
// manage cache versions.
type CacheHandler struct {
	cache    services.CacheVersionService
	llm      *llm.Factory
	provider string
	logger   *zap.Logger
}

// NewCacheHandler creates a new cache handler. provider is the default
// generation provider from configuration.
func NewCacheHandler(cache services.CacheVersionService, factory *llm.Factory, provider string, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{cache: cache, llm: factory, provider: provider, logger: logger}
}

// RegisterRoutes registers content-serving routes on the given mux.
func (h *CacheHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/advice/{itemId}", h.GetAdvice)
	mux.HandleFunc("GET /api/evidence/{itemId}", h.GetEvidence)
}

// RegisterAdminRoutes registers version management routes. Mounted
// behind the manage-cache capability check.
func (h *CacheHandler) RegisterAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/cache/{type}/versions", h.ListVersions)
	mux.HandleFunc("POST /api/admin/cache/{type}/versions/{version}/activate", h.ActivateVersion)
	mux.HandleFunc("DELETE /api/admin/cache/{type}/versions/{version}", h.DeleteVersion)
	mux.HandleFunc("POST /api/admin/cache/{type}/generate", h.Generate)
}

func (h *CacheHandler) cacheType(w http.ResponseWriter, r *http.Request) (models.CacheType, bool) {
	t := models.CacheType(r.PathValue("type"))
	if !models.IsValidCacheType(t) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_cache_type", "Cache type must be advice or evidence"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return t, true
}

func language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return models.LanguageKorean
}

// GetAdvice handles GET /api/advice/{itemId}
func (h *CacheHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	h.serveEntry(w, r, models.CacheTypeAdvice)
}

// GetEvidence handles GET /api/evidence/{itemId}
func (h *CacheHandler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	h.serveEntry(w, r, models.CacheTypeEvidence)
}

// serveEntry resolves an item through the active version pointer.
func (h *CacheHandler) serveEntry(w http.ResponseWriter, r *http.Request, cacheType models.CacheType) {
	entry, err := h.cache.GetActiveEntry(r.Context(), cacheType, r.PathValue("itemId"), language(r))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if entry == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "not_found", "No active content for this item"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, entry); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListVersions handles GET /api/admin/cache/{type}/versions
func (h *CacheHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	cacheType, ok := h.cacheType(w, r)
	if !ok {
		return
	}

	versions, err := h.cache.ListVersions(r.Context(), cacheType)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	active, err := h.cache.ActiveVersion(r.Context(), cacheType, language(r))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := map[string]any{"versions": versions}
	if active != nil {
		response["active"] = active
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ActivateVersion handles POST /api/admin/cache/{type}/versions/{version}/activate
func (h *CacheHandler) ActivateVersion(w http.ResponseWriter, r *http.Request) {
	cacheType, ok := h.cacheType(w, r)
	if !ok {
		return
	}

	var req ActivateVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Language == "" {
		req.Language = models.LanguageKorean
	}

	if err := h.cache.SetActiveVersion(r.Context(), cacheType, r.PathValue("version"), req.Language); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteVersion handles DELETE /api/admin/cache/{type}/versions/{version}
func (h *CacheHandler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	cacheType, ok := h.cacheType(w, r)
	if !ok {
		return
	}

	deleted, err := h.cache.DeleteVersion(r.Context(), cacheType, r.PathValue("version"))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"deleted_entries": deleted}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Generate handles POST /api/admin/cache/{type}/generate
// Runs batch generation synchronously and reports per-item failures.
func (h *CacheHandler) Generate(w http.ResponseWriter, r *http.Request) {
	cacheType, ok := h.cacheType(w, r)
	if !ok {
		return
	}

	var req GenerateCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = h.provider
	}
	generator, err := h.llm.Create(r.Context(), provider)
	if err != nil {
		h.logger.Error("Failed to create generator", zap.String("provider", provider), zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "provider_unavailable", "Could not initialize the AI provider"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	languages := req.Languages
	if len(languages) == 0 {
		languages = []string{models.LanguageKorean}
	}
	version := h.cache.GenerateVersionID(cacheType, req.SourceVersion, languages[0], provider)

	result, err := h.cache.GenerateBatch(r.Context(), cacheType, version, languages, generator)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	status := http.StatusOK
	if result.ErrorCount > 0 {
		status = http.StatusMultiStatus
	}
	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
