// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Record-level codes mirror the kinds of package apperr one to one; the
// handlers never invent a code for a store or pagination failure, they render
// it through apperr.Render. The remaining codes are produced by the router
// itself (unknown route, wrong method) and by panic recovery.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "parse_error",
//	  "message": "cannot parse parameter \"start\" from \"x\"",
//	  "status": 400
//	}
package handlers

import "github.com/tbourn/go-qa-backend/internal/apperr"

var (
	ErrCodeMissingParameter = apperr.KindMissingParameter.String()
	ErrCodeParse            = apperr.KindParse.String()
	ErrCodeInvalidInput     = apperr.KindInvalidInput.String()
	ErrCodeNotFound         = apperr.KindNotFound.String()
	ErrCodeInternal         = apperr.KindInternal.String()
)

// Router-level:
const ErrCodeMethodNotAllowed = "method_not_allowed"
