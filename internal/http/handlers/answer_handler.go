// Answer HTTP handlers.
//
//   - POST   /answers                 (create; form or JSON body)
//   - GET    /answers/{id}            (fetch)
//   - DELETE /answers/{id}            (delete)
//   - GET    /questions/{id}/answers  (answers referencing a question)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

// AddAnswer godoc
// @ID          addAnswer
// @Summary     Create an answer
// @Description The referenced question is not required to exist. Supports idempotency via the Idempotency-Key header, shared with /comments.
// @Tags        Answers
// @Accept      x-www-form-urlencoded,json
// @Produce     json
// @Param       Idempotency-Key  header    string  false  "Key for safe retries (UUID recommended)"
// @Param       content          formData  string  true   "Answer text"
// @Param       question_id      formData  string  true   "Referenced question ID"
// @Success     201  {object}  domain.Answer
// @Failure     400  {object}  handlers.ErrorResponse  "invalid_input"
// @Router      /answers [post]
func (h *Handlers) AddAnswer(c *gin.Context) {
	var in domain.AnswerInput
	if err := c.ShouldBind(&in); err != nil {
		failErr(c, apperr.BadBody(err))
		return
	}
	ctx := c.Request.Context()

	if id, found := middleware.ReplayOf(c); found {
		if prev, err := h.aSvc.Get(ctx, id); err == nil {
			markReplayed(c)
			ok(c, http.StatusCreated, prev)
			return
		}
	}

	a, err := h.aSvc.Create(ctx, in)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, a.ID)
	ok(c, http.StatusCreated, a)
}

// GetAnswer godoc
// @ID          getAnswer
// @Summary     Get an answer
// @Tags        Answers
// @Produce     json
// @Param       id   path      string  true  "Answer ID"
// @Success     200  {object}  domain.Answer
// @Failure     404  {object}  handlers.ErrorResponse  "not_found"
// @Router      /answers/{id} [get]
func (h *Handlers) GetAnswer(c *gin.Context) {
	a, err := h.aSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// DeleteAnswer godoc
// @ID          deleteAnswer
// @Summary     Delete an answer
// @Tags        Answers
// @Param       id   path    string  true  "Answer ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse  "not_found"
// @Router      /answers/{id} [delete]
func (h *Handlers) DeleteAnswer(c *gin.Context) {
	if err := h.aSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListQuestionAnswers godoc
// @ID          listQuestionAnswers
// @Summary     List answers of a question
// @Description Returns answers referencing the question id, whether or not the question still exists.
// @Tags        Answers
// @Produce     json
// @Param       id   path      string  true  "Question ID"
// @Success     200  {array}   domain.Answer
// @Router      /questions/{id}/answers [get]
func (h *Handlers) ListQuestionAnswers(c *gin.Context) {
	ok(c, http.StatusOK, h.aSvc.ListForQuestion(c.Request.Context(), c.Param("id")))
}
