// Question HTTP handlers.
//
// This file exposes REST endpoints for question resources:
//   - GET    /questions          (list, optional start/end or offset/limit)
//   - GET    /questions/{id}     (fetch)
//   - POST   /questions          (create)
//   - PUT    /questions/{id}     (replace)
//   - DELETE /questions/{id}     (delete)
//
// Handlers are transport-thin: they bind input, call the services, and hand
// any failure to failErr.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/pagination"
)

//
// Service contracts (context-aware)
//

// QuestionService defines question operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use.
type QuestionService interface {
	// List parses raw pagination params and returns the page and the total.
	List(ctx context.Context, params map[string]string) ([]domain.Question, int, error)
	// Get fetches one question.
	Get(ctx context.Context, id string) (domain.Question, error)
	// Create stores a new question.
	Create(ctx context.Context, in domain.QuestionInput) (domain.Question, error)
	// Update replaces a question's fields.
	Update(ctx context.Context, id string, in domain.QuestionInput) (domain.Question, error)
	// Delete removes a question.
	Delete(ctx context.Context, id string) error
}

// AnswerService defines answer operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use.
type AnswerService interface {
	Create(ctx context.Context, in domain.AnswerInput) (domain.Answer, error)
	Get(ctx context.Context, id string) (domain.Answer, error)
	ListForQuestion(ctx context.Context, questionID string) []domain.Answer
	Delete(ctx context.Context, id string) error
}

//
// Handler wiring
//

// IdempotencyRecorder remembers which record an Idempotency-Key created.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, scope, key, recordID string, now time.Time)
}

// Handlers groups HTTP endpoints for questions and answers.
type Handlers struct {
	qSvc QuestionService
	aSvc AnswerService
	idem IdempotencyRecorder
}

// Option configures Handlers.
type Option func(*Handlers)

// WithIdempotency makes the create endpoints record Idempotency-Keys in rec
// so retries replay the first result.
func WithIdempotency(rec IdempotencyRecorder) Option {
	return func(h *Handlers) { h.idem = rec }
}

// New constructs and returns a Handlers instance bound to the given services.
func New(qSvc QuestionService, aSvc AnswerService, opts ...Option) *Handlers {
	h := &Handlers{qSvc: qSvc, aSvc: aSvc}
	for _, o := range opts {
		o(h)
	}
	return h
}

// remember records the key of a successful create, if the request had one.
func (h *Handlers) remember(c *gin.Context, recordID string) {
	if h.idem == nil {
		return
	}
	if scope, key, found := middleware.GetIdempotencyKey(c); found {
		h.idem.Remember(c.Request.Context(), scope, key, recordID, time.Now().UTC())
	}
}

// markReplayed flags a response served from an earlier create.
func markReplayed(c *gin.Context) {
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
}

// HeaderTotalCount carries the collection size on list responses.
const HeaderTotalCount = "X-Total-Count"

//
// Handlers
//

// ListQuestions godoc
// @ID          listQuestions
// @Summary     List questions
// @Description Returns questions in insertion order. Pass both start and end (half-open window) or both offset and limit; partial pairs are rejected. start > end yields an empty list.
// @Tags        Questions
// @Produce     json
//
// @Param       start   query  int  false  "Window start index"  minimum(0)
// @Param       end     query  int  false  "Window end index (exclusive)"  minimum(0)
// @Param       offset  query  int  false  "Alternative to start"  minimum(0)
// @Param       limit   query  int  false  "Alternative to end-start"  minimum(0)
//
// @Success     200  {array}   domain.Question
// @Header      200  {integer} X-Total-Count  "Total number of questions"
// @Failure     400  {object}  handlers.ErrorResponse  "missing_parameter or parse_error"
// @Router      /questions [get]
func (h *Handlers) ListQuestions(c *gin.Context) {
	items, total, err := h.qSvc.List(c.Request.Context(), pagination.Flatten(c.Request.URL.Query()))
	if err != nil {
		failErr(c, err)
		return
	}
	c.Header(HeaderTotalCount, strconv.Itoa(total))
	ok(c, http.StatusOK, items)
}

// GetQuestion godoc
// @ID          getQuestion
// @Summary     Get a question
// @Tags        Questions
// @Produce     json
// @Param       id   path      string  true  "Question ID"
// @Success     200  {object}  domain.Question
// @Failure     404  {object}  handlers.ErrorResponse  "not_found"
// @Router      /questions/{id} [get]
func (h *Handlers) GetQuestion(c *gin.Context) {
	q, err := h.qSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, q)
}

// AddQuestion godoc
// @ID          addQuestion
// @Summary     Create a question
// @Description The id is assigned by the server. Title must not be blank. Supports idempotency via the Idempotency-Key header (same key → same question).
// @Tags        Questions
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                false  "Key for safe retries (UUID recommended)"
// @Param       body             body    domain.QuestionInput  true   "Question fields"
// @Success     201   {object}  domain.Question
// @Failure     400   {object}  handlers.ErrorResponse  "invalid_input"
// @Router      /questions [post]
func (h *Handlers) AddQuestion(c *gin.Context) {
	var in domain.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failErr(c, apperr.BadBody(err))
		return
	}
	ctx := c.Request.Context()

	// Replay path: the earlier question, if it still exists.
	if id, found := middleware.ReplayOf(c); found {
		if prev, err := h.qSvc.Get(ctx, id); err == nil {
			markReplayed(c)
			ok(c, http.StatusCreated, prev)
			return
		}
	}

	q, err := h.qSvc.Create(ctx, in)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, q.ID)
	ok(c, http.StatusCreated, q)
}

// UpdateQuestion godoc
// @ID          updateQuestion
// @Summary     Replace a question
// @Description Replaces every field except the id.
// @Tags        Questions
// @Accept      json
// @Produce     json
// @Param       id    path      string                true  "Question ID"
// @Param       body  body      domain.QuestionInput  true  "Question fields"
// @Success     200   {object}  domain.Question
// @Failure     400   {object}  handlers.ErrorResponse  "invalid_input"
// @Failure     404   {object}  handlers.ErrorResponse  "not_found"
// @Router      /questions/{id} [put]
func (h *Handlers) UpdateQuestion(c *gin.Context) {
	var in domain.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failErr(c, apperr.BadBody(err))
		return
	}
	q, err := h.qSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, q)
}

// DeleteQuestion godoc
// @ID          deleteQuestion
// @Summary     Delete a question
// @Description Answers that reference the question are kept.
// @Tags        Questions
// @Param       id   path    string  true  "Question ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse  "not_found"
// @Router      /questions/{id} [delete]
func (h *Handlers) DeleteQuestion(c *gin.Context) {
	if err := h.qSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
