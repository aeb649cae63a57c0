// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for the create endpoints
// (POST /questions, POST /answers and its /comments alias). It validates the
// header, looks up whether the key already created a record in the route's
// scope, and annotates the Gin context so handlers can:
//   - read the scope and key (GetIdempotencyKey)
//   - replay the earlier record instead of creating a new one (ReplayOf)
//
// Persistence stays behind the narrow IdempotencyLookup function type; the
// handler that performs the create records the key afterwards.
package middleware

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/apperr"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from an
// earlier create.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemScope  = "idem.scope"
	ctxKeyIdemReplay = "idem.replay" // string: id of the record to replay
)

const defaultIdempotencyKeyLen = 200

// defaultIdempotencyPattern admits RFC 7230 token characters commonly used in
// keys (UUIDs, ULIDs, dotted or colon-separated ids).
var defaultIdempotencyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the scope and validated key stored by
// IdempotencyValidator. ok is false when the request carried no key.
func GetIdempotencyKey(c *gin.Context) (scope, key string, ok bool) {
	k, _ := c.Get(ctxKeyIdemKey)
	sc, _ := c.Get(ctxKeyIdemScope)
	key, scope = asString(k), asString(sc)
	return scope, key, key != ""
}

// ReplayOf returns the id of the record an earlier request with the same key
// created, when the lookup found one.
func ReplayOf(c *gin.Context) (string, bool) {
	v, _ := c.Get(ctxKeyIdemReplay)
	id := asString(v)
	return id, id != ""
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// Scope namespaces keys. Empty selects the matched route path.
	Scope string
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Nil selects ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the id of the record created under (scope, key)
// and still valid at now. Any error, including not-found, means "no replay";
// lookups never block normal processing.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (recordID string, err error)

// IdempotencyValidator validates the Idempotency-Key header (if present),
// stashes scope and key in the Gin context, and marks the request as a replay
// when lookup finds an earlier record.
//
// Behavior:
//   - header absent: no-op
//   - header too long or with disallowed characters: 400 invalid_input
//   - lookup hit: ReplayOf reports the earlier record id
//
// The middleware never serves a response itself on a hit; handlers decide
// how to replay.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdempotencyKeyLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdempotencyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			p := apperr.Render(apperr.InvalidInput(HeaderIdempotencyKey,
				fmt.Sprintf("must be 1-%d characters from [A-Za-z0-9._~-:]", maxLen)))
			abortJSON(c, p.Status, p.Code, p.Message)
			return
		}

		scope := opts.Scope
		if scope == "" {
			scope = c.FullPath()
		}
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemScope, scope)

		if lookup != nil {
			if id, err := lookup(c.Request.Context(), scope, key, time.Now().UTC()); err == nil && id != "" {
				c.Set(ctxKeyIdemReplay, id)
			}
		}
		c.Next()
	}
}
