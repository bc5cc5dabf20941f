package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

// QAService handles per-item questions and their answers.
type QAService interface {
	// AskQuestion records a question about a checklist item.
	AskQuestion(ctx context.Context, userID uuid.UUID, itemID, question string) (*models.QAEntry, error)

	// ListQuestions returns all questions for a checklist item, oldest first.
	ListQuestions(ctx context.Context, itemID string) ([]models.QAEntry, error)

	// AnswerQuestion records an answer on an unanswered question.
	AnswerQuestion(ctx context.Context, answeredBy, questionID uuid.UUID, answer string) error
}

type qaService struct {
	qa     repositories.QARepository
	logger *zap.Logger
}

// NewQAService creates a new QAService.
func NewQAService(qa repositories.QARepository, logger *zap.Logger) QAService {
	return &qaService{qa: qa, logger: logger.Named("qa-service")}
}

var _ QAService = (*qaService)(nil)

func (s *qaService) AskQuestion(ctx context.Context, userID uuid.UUID, itemID, question string) (*models.QAEntry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", apperrors.ErrValidation)
	}
	if _, ok := models.ChecklistItem(itemID); !ok {
		return nil, fmt.Errorf("unknown checklist item %q: %w", itemID, apperrors.ErrValidation)
	}

	entry := &models.QAEntry{
		ItemID:   itemID,
		UserID:   userID,
		Question: question,
	}
	if err := s.qa.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Question submitted",
		zap.String("item_id", itemID),
		zap.String("user_id", userID.String()))
	return entry, nil
}

func (s *qaService) ListQuestions(ctx context.Context, itemID string) ([]models.QAEntry, error) {
	return s.qa.ListByItem(ctx, itemID)
}

func (s *qaService) AnswerQuestion(ctx context.Context, answeredBy, questionID uuid.UUID, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fmt.Errorf("answer is required: %w", apperrors.ErrValidation)
	}
	if err := s.qa.Answer(ctx, questionID, answer, answeredBy); err != nil {
		return err
	}
	s.logger.Info("Question answered",
		zap.String("question_id", questionID.String()),
		zap.String("answered_by", answeredBy.String()))
	return nil
}
