// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by all endpoints. Every
// error leaves through respond(), so the envelope is the same whether the
// failure came from the store, the pagination parser, body decoding, the
// router fallbacks, or panic recovery.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "question \"abc\" not found",
//	  "status": 404
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/apperr"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation ID echoed from the X-Request-ID header.
//   - Code: stable, machine-readable kind tag (see errors.go).
//   - Message: human-readable description, safe to show to users.
//   - Status: the HTTP status code of the response.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
	// HTTP status code
	Status int `json:"status" example:"404"`
}

// respond aborts the request with an ErrorResponse. 5xx responses are logged
// with the request-scoped logger together with cause, if any.
func respond(c *gin.Context, status int, code, msg string, cause error) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Status:    status,
	}
	middleware.SetErrorCode(c, code)

	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if cause != nil {
			ev = ev.Err(cause)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// fail aborts with an explicit status, code, and message.
func fail(c *gin.Context, status int, code, msg string) {
	respond(c, status, code, msg, nil)
}

// failErr renders err through apperr and aborts with the result.
func failErr(c *gin.Context, err error) {
	p := apperr.Render(err)
	respond(c, p.Status, p.Code, p.Message, err)
}

// Fail is the exported variant of fail() for the router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
