// Package services – AnswerService
//
// AnswerService creates and reads answers. Answers reference their question
// loosely: no existence check on create and no cascade when the question is
// deleted.
package services

import (
	"context"
	"strings"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// AnswerStore defines the store contract required by AnswerService.
type AnswerStore interface {
	AddAnswer(ctx context.Context, in domain.AnswerInput) (domain.Answer, error)
	GetAnswer(ctx context.Context, id string) (domain.Answer, error)
	ListAnswers(ctx context.Context, questionID string) []domain.Answer
	DeleteAnswer(ctx context.Context, id string) error
}

// AnswerService provides answer operations.
type AnswerService struct {
	Store AnswerStore
}

// NewAnswerService constructs an AnswerService.
func NewAnswerService(st AnswerStore) *AnswerService {
	return &AnswerService{Store: st}
}

// Create trims the question reference and stores a new answer.
func (s *AnswerService) Create(ctx context.Context, in domain.AnswerInput) (domain.Answer, error) {
	in.QuestionID = strings.TrimSpace(in.QuestionID)
	return s.Store.AddAnswer(ctx, in)
}

// Get returns the answer with id.
func (s *AnswerService) Get(ctx context.Context, id string) (domain.Answer, error) {
	return s.Store.GetAnswer(ctx, id)
}

// ListForQuestion returns the answers that reference questionID.
func (s *AnswerService) ListForQuestion(ctx context.Context, questionID string) []domain.Answer {
	return s.Store.ListAnswers(ctx, questionID)
}

// Delete removes the answer with id.
func (s *AnswerService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteAnswer(ctx, id)
}
