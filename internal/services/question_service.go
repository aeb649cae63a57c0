// Package services – QuestionService
//
// This file implements QuestionService, the glue between the HTTP handlers,
// the pagination parser, and the store. Titles and content pass through
// untouched. Tags are brought to their canonical form (trimmed, lower-cased,
// unique) and rejected when there are more than MaxTags of them; the store
// owns every other validation and id assignment.
//
// Errors from the store and the parser are returned unchanged so handlers can
// render them through apperr.
package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/pagination"
)

// QuestionStore defines the store contract required by QuestionService.
type QuestionStore interface {
	// ListQuestions returns questions in insertion order restricted to rng (nil = all).
	ListQuestions(ctx context.Context, rng *pagination.Range) []domain.Question
	// CountQuestions returns the number of live questions.
	CountQuestions(ctx context.Context) int
	// GetQuestion fetches one question by id.
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	// AddQuestion validates and stores a new question.
	AddQuestion(ctx context.Context, in domain.QuestionInput) (domain.Question, error)
	// UpdateQuestion replaces every field but the id.
	UpdateQuestion(ctx context.Context, id string, in domain.QuestionInput) (domain.Question, error)
	// DeleteQuestion removes a question.
	DeleteQuestion(ctx context.Context, id string) error
}

// QuestionService provides question CRUD with tag canonicalization.
type QuestionService struct {
	// Store is the backing question store.
	Store QuestionStore

	// TagLocale selects case folding rules for tags.
	TagLocale language.Tag
	// MaxTags caps the number of distinct tags per question (0 = unlimited).
	MaxTags int
}

// NewQuestionService constructs a QuestionService with default tag handling.
func NewQuestionService(st QuestionStore) *QuestionService {
	return &QuestionService{
		Store:     st,
		TagLocale: language.Und,
		MaxTags:   16,
	}
}

// List parses pagination params and returns the selected page together with
// the total number of questions.
func (s *QuestionService) List(ctx context.Context, params map[string]string) ([]domain.Question, int, error) {
	rng, err := pagination.Parse(params)
	if err != nil {
		return nil, 0, err
	}
	items := s.Store.ListQuestions(ctx, rng)
	return items, s.Store.CountQuestions(ctx), nil
}

// Get returns the question with id.
func (s *QuestionService) Get(ctx context.Context, id string) (domain.Question, error) {
	return s.Store.GetQuestion(ctx, id)
}

// Create canonicalizes tags and stores a new question.
func (s *QuestionService) Create(ctx context.Context, in domain.QuestionInput) (domain.Question, error) {
	tags, err := s.canonicalTags(in.Tags)
	if err != nil {
		return domain.Question{}, err
	}
	in.Tags = tags
	return s.Store.AddQuestion(ctx, in)
}

// Update canonicalizes tags and replaces the question with id. A missing id
// is reported before any tag error.
func (s *QuestionService) Update(ctx context.Context, id string, in domain.QuestionInput) (domain.Question, error) {
	tags, err := s.canonicalTags(in.Tags)
	if err != nil {
		if _, gerr := s.Store.GetQuestion(ctx, id); gerr != nil {
			return domain.Question{}, gerr
		}
		return domain.Question{}, err
	}
	in.Tags = tags
	return s.Store.UpdateQuestion(ctx, id, in)
}

// Delete removes the question with id. Its answers are kept.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteQuestion(ctx, id)
}

// canonicalTags trims and lower-cases tags, drops blanks, and removes
// duplicates keeping first occurrence. A nil input stays nil; a non-nil
// input never becomes nil. More than MaxTags distinct tags is invalid input.
func (s *QuestionService) canonicalTags(tags []string) ([]string, error) {
	if tags == nil {
		return nil, nil
	}
	fold := cases.Lower(s.TagLocale)
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = fold.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if s.MaxTags > 0 && len(out) > s.MaxTags {
		return nil, apperr.InvalidInput("tags", fmt.Sprintf("at most %d distinct tags allowed, got %d", s.MaxTags, len(out)))
	}
	return out, nil
}
