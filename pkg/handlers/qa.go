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

// AskQuestionRequest is the request body for submitting a question.
type AskQuestionRequest struct {
	Question string `json:"question"`
}

// AnswerQuestionRequest is the request body for answering a question.
type AnswerQuestionRequest struct {
	Answer string `json:"answer"`
}

// QAHandler handles per-item question and answer endpoints.
type QAHandler struct {
	qa     services.QAService
	logger *zap.Logger
}

// NewQAHandler creates a new Q&A handler.
func NewQAHandler(qa services.QAService, logger *zap.Logger) *QAHandler {
	return &QAHandler{qa: qa, logger: logger}
}

// RegisterRoutes registers the Q&A handler's routes on the given mux.
func (h *QAHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items/{itemId}/questions", h.List)
	mux.HandleFunc("POST /api/items/{itemId}/questions", h.Ask)
}

// RegisterAnswerRoutes registers the answer route. Mounted behind the
// answer-qa capability check.
func (h *QAHandler) RegisterAnswerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/questions/{id}/answer", h.Answer)
}

// List handles GET /api/items/{itemId}/questions
func (h *QAHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.qa.ListQuestions(r.Context(), r.PathValue("itemId"))
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if entries == nil {
		entries = []models.QAEntry{}
	}
	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Ask handles POST /api/items/{itemId}/questions
func (h *QAHandler) Ask(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	entry, err := h.qa.AskQuestion(r.Context(), identity.UserID, r.PathValue("itemId"), req.Question)
	if err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusCreated, entry); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Answer handles POST /api/questions/{id}/answer
func (h *QAHandler) Answer(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	questionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_question_id", "Question id must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req AnswerQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.qa.AnswerQuestion(r.Context(), identity.UserID, questionID, req.Answer); err != nil {
		if err := ServiceError(w, err); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
