package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/models"
)

func TestQAHandlerListEmpty(t *testing.T) {
	handler := NewQAHandler(&mockQAService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/items/mgmt-1/questions", nil)
	req.SetPathValue("itemId", "mgmt-1")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestQAHandlerList(t *testing.T) {
	svc := &mockQAService{
		ListQuestionsFunc: func(ctx context.Context, itemID string) ([]models.QAEntry, error) {
			return []models.QAEntry{
				{ID: uuid.New(), ItemID: itemID, Question: "Does MFA count here?"},
			}, nil
		},
	}
	handler := NewQAHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/items/sec-3/questions", nil)
	req.SetPathValue("itemId", "sec-3")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var entries []models.QAEntry
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "sec-3", entries[0].ItemID)
}

func TestQAHandlerAskRequiresIdentity(t *testing.T) {
	handler := NewQAHandler(&mockQAService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/items/mgmt-1/questions",
		jsonBody(t, AskQuestionRequest{Question: "Is this required?"}))
	req.SetPathValue("itemId", "mgmt-1")
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQAHandlerAsk(t *testing.T) {
	userID := uuid.New()
	var gotUser uuid.UUID
	var gotItem, gotQuestion string
	svc := &mockQAService{
		AskQuestionFunc: func(ctx context.Context, uid uuid.UUID, itemID, question string) (*models.QAEntry, error) {
			gotUser, gotItem, gotQuestion = uid, itemID, question
			return &models.QAEntry{ID: uuid.New(), UserID: uid, ItemID: itemID, Question: question}, nil
		},
	}
	handler := NewQAHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/items/mgmt-1/questions",
		jsonBody(t, AskQuestionRequest{Question: "Is an annual review enough?"}))
	req.SetPathValue("itemId", "mgmt-1")
	rec := httptest.NewRecorder()
	handler.Ask(rec, withIdentity(req, userID, models.RoleMember))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, "mgmt-1", gotItem)
	assert.Equal(t, "Is an annual review enough?", gotQuestion)
}

func TestQAHandlerAnswer(t *testing.T) {
	adminID := uuid.New()
	questionID := uuid.New()
	var gotAnsweredBy, gotQuestion uuid.UUID
	var gotAnswer string
	svc := &mockQAService{
		AnswerQuestionFunc: func(ctx context.Context, answeredBy, qid uuid.UUID, answer string) error {
			gotAnsweredBy, gotQuestion, gotAnswer = answeredBy, qid, answer
			return nil
		},
	}
	handler := NewQAHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/questions/"+questionID.String()+"/answer",
		jsonBody(t, AnswerQuestionRequest{Answer: "Yes, with documented sign-off."}))
	req.SetPathValue("id", questionID.String())
	rec := httptest.NewRecorder()
	handler.Answer(rec, withIdentity(req, adminID, models.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminID, gotAnsweredBy)
	assert.Equal(t, questionID, gotQuestion)
	assert.Equal(t, "Yes, with documented sign-off.", gotAnswer)
}

func TestQAHandlerAnswerInvalidID(t *testing.T) {
	handler := NewQAHandler(&mockQAService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/questions/nope/answer",
		jsonBody(t, AnswerQuestionRequest{Answer: "n/a"}))
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	handler.Answer(rec, withIdentity(req, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_question_id")
}
