package apperr

import "errors"

// Payload is the uniform rendering of an error: a kind tag, a message that is
// safe to show to clients, and the HTTP status.
type Payload struct {
	Code    string `json:"code"    example:"not_found"`
	Message string `json:"message" example:"question \"abc\" not found"`
	Status  int    `json:"status"  example:"404"`
}

// Render translates any error into a Payload. A nil error renders as an
// internal error since callers only render on failure.
func Render(err error) Payload {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return Payload{
			Code:    KindInternal.String(),
			Message: "internal server error",
			Status:  KindInternal.Status(),
		}
	}
	msg := e.Msg
	if e.Kind == KindInternal || msg == "" {
		// never leak causes of unclassified failures
		msg = "internal server error"
		if e.Kind != KindInternal {
			msg = e.Kind.String()
		}
	}
	return Payload{
		Code:    e.Kind.String(),
		Message: msg,
		Status:  e.Kind.Status(),
	}
}
