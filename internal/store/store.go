// Package store holds the authoritative in-memory state for questions and
// answers.
//
// The two collections are locked independently with sync.RWMutex: reads
// share, writes are exclusive, and no code path ever holds both locks, so a
// write to answers never blocks a read of questions and deadlock is not
// possible. Each operation runs to completion once it holds its lock.
//
// Records are returned as deep copies; callers can never observe or mutate
// stored state directly, and a record is visible only after it is fully
// written.
//
// Error semantics (see package apperr):
//   - A missing id yields apperr.ErrNotFound.
//   - A field that fails validation yields apperr.ErrInvalidInput.
//
// Answers reference questions loosely: AddAnswer does not check that the
// question exists, and DeleteQuestion does not cascade to answers.
//
// Operations:
//
//   - ListQuestions(ctx, rng) -> []domain.Question
//   - CountQuestions(ctx) -> int
//   - GetQuestion(ctx, id) -> domain.Question, error
//   - AddQuestion(ctx, in) -> domain.Question, error
//   - UpdateQuestion(ctx, id, in) -> domain.Question, error
//   - DeleteQuestion(ctx, id) -> error
//   - AddAnswer(ctx, in) -> domain.Answer, error
//   - GetAnswer(ctx, id) -> domain.Answer, error
//   - ListAnswers(ctx, questionID) -> []domain.Answer
//   - DeleteAnswer(ctx, id) -> error
//   - CountAnswers(ctx) -> int
//
// A single *Store is built at startup and passed to the HTTP layer; it lives
// as long as the process and needs no teardown.
package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/pagination"
)

// Collection names, used in error messages, metrics, and spans.
const (
	CollectionQuestions = "question"
	CollectionAnswers   = "answer"
)

// questionRefRE defines a well-formed question reference.
var questionRefRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Store is safe for concurrent use.
type Store struct {
	questions *collection[domain.Question]
	answers   *collection[domain.Answer]
	newID     func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv4 id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		questions: newCollection(CollectionQuestions, domain.Question.Clone),
		answers:   newCollection(CollectionAnswers, func(a domain.Answer) domain.Answer { return a }),
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ListQuestions returns questions in insertion order, restricted to rng.
// A nil rng returns the whole collection. A window past the end, or with
// Start > End, yields an empty slice.
func (s *Store) ListQuestions(ctx context.Context, rng *pagination.Range) []domain.Question {
	var attrs []attribute.KeyValue
	if rng != nil {
		attrs = append(attrs, attribute.Int("range.start", rng.Start), attribute.Int("range.end", rng.End))
	}
	_, done := op(ctx, CollectionQuestions, "ListQuestions", attrs...)
	out := s.questions.slice(rng)
	done(nil)
	return out
}

// CountQuestions returns the number of live questions.
func (s *Store) CountQuestions(ctx context.Context) int {
	_, done := op(ctx, CollectionQuestions, "CountQuestions")
	n := s.questions.len()
	done(nil)
	return n
}

// GetQuestion fetches a question by id.
func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	_, done := op(ctx, CollectionQuestions, "GetQuestion", attribute.String("record.id", id))
	q, err := s.questions.get(id)
	done(err)
	return q, err
}

// AddQuestion validates in, assigns a fresh id, and stores the question.
func (s *Store) AddQuestion(ctx context.Context, in domain.QuestionInput) (domain.Question, error) {
	_, done := op(ctx, CollectionQuestions, "AddQuestion")
	if err := validateQuestion(in); err != nil {
		done(err)
		return domain.Question{}, err
	}
	q := s.questions.insert(s.newID, in.ToQuestion)
	done(nil)
	return q, nil
}

// UpdateQuestion replaces every field of the question except its id. A
// missing id is reported before validation of in.
func (s *Store) UpdateQuestion(ctx context.Context, id string, in domain.QuestionInput) (domain.Question, error) {
	_, done := op(ctx, CollectionQuestions, "UpdateQuestion", attribute.String("record.id", id))
	q, err := s.questions.replace(id, func(id string) (domain.Question, error) {
		if err := validateQuestion(in); err != nil {
			return domain.Question{}, err
		}
		return in.ToQuestion(id), nil
	})
	done(err)
	return q, err
}

// DeleteQuestion removes the question. Deleting twice reports not found.
// Answers pointing at the question are left in place.
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	_, done := op(ctx, CollectionQuestions, "DeleteQuestion", attribute.String("record.id", id))
	err := s.questions.remove(id)
	done(err)
	return err
}

// AddAnswer validates in, assigns a fresh id, and stores the answer. The
// referenced question does not need to exist.
func (s *Store) AddAnswer(ctx context.Context, in domain.AnswerInput) (domain.Answer, error) {
	_, done := op(ctx, CollectionAnswers, "AddAnswer", attribute.String("answer.question_id", in.QuestionID))
	if err := validateAnswer(in); err != nil {
		done(err)
		return domain.Answer{}, err
	}
	a := s.answers.insert(s.newID, in.ToAnswer)
	done(nil)
	return a, nil
}

// GetAnswer fetches an answer by id.
func (s *Store) GetAnswer(ctx context.Context, id string) (domain.Answer, error) {
	_, done := op(ctx, CollectionAnswers, "GetAnswer", attribute.String("record.id", id))
	a, err := s.answers.get(id)
	done(err)
	return a, err
}

// ListAnswers returns answers referencing questionID in insertion order, or
// every answer when questionID is empty.
func (s *Store) ListAnswers(ctx context.Context, questionID string) []domain.Answer {
	_, done := op(ctx, CollectionAnswers, "ListAnswers", attribute.String("answer.question_id", questionID))
	out := s.answers.filter(func(a domain.Answer) bool {
		return questionID == "" || a.QuestionID == questionID
	})
	done(nil)
	return out
}

// DeleteAnswer removes the answer.
func (s *Store) DeleteAnswer(ctx context.Context, id string) error {
	_, done := op(ctx, CollectionAnswers, "DeleteAnswer", attribute.String("record.id", id))
	err := s.answers.remove(id)
	done(err)
	return err
}

// CountAnswers returns the number of live answers.
func (s *Store) CountAnswers(ctx context.Context) int {
	_, done := op(ctx, CollectionAnswers, "CountAnswers")
	n := s.answers.len()
	done(nil)
	return n
}

func validateQuestion(in domain.QuestionInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.InvalidInput("title", "must not be empty")
	}
	return nil
}

func validateAnswer(in domain.AnswerInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return apperr.InvalidInput("content", "must not be empty")
	}
	if !questionRefRE.MatchString(in.QuestionID) {
		return apperr.InvalidInput("question_id", "must be 1-64 letters, digits, '-' or '_'")
	}
	return nil
}
