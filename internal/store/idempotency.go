package store

import (
	"context"
	"sync"
	"time"

	"github.com/tbourn/go-qa-backend/internal/apperr"
)

// Idempotency scopes. POST /answers and its /comments alias share one scope,
// so a key replays across both paths.
const (
	ScopeQuestions = "questions"
	ScopeAnswers   = "answers"
)

// collectionIdempotency labels idempotency operations in metrics and spans.
const collectionIdempotency = "idempotency"

// sweepEvery bounds how many Remember calls may pass between expiry sweeps.
const sweepEvery = 64

type idemKey struct{ scope, key string }

type idemEntry struct {
	recordID string
	expires  time.Time
}

// Idempotency remembers which record a client-supplied Idempotency-Key
// created, for ttl after the create. It is independent of the question and
// answer collections and safe for concurrent use.
type Idempotency struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[idemKey]idemEntry
	puts    int
}

// DefaultIdempotencyTTL applies when NewIdempotency gets ttl <= 0.
const DefaultIdempotencyTTL = 24 * time.Hour

// NewIdempotency returns an empty record set whose entries live for ttl.
func NewIdempotency(ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &Idempotency{ttl: ttl, entries: make(map[idemKey]idemEntry)}
}

// Lookup returns the id of the record created under (scope, key), or
// apperr.ErrNotFound when there is none or it expired at or before now.
func (s *Idempotency) Lookup(ctx context.Context, scope, key string, now time.Time) (string, error) {
	_, done := op(ctx, collectionIdempotency, "Lookup")
	s.mu.Lock()
	e, ok := s.entries[idemKey{scope, key}]
	s.mu.Unlock()

	var err error
	if !ok || !now.Before(e.expires) {
		err = apperr.NotFound("idempotency key", key)
	}
	done(err)
	if err != nil {
		return "", err
	}
	return e.recordID, nil
}

// Remember records that (scope, key) created recordID at now, replacing any
// earlier entry. Expired entries are swept periodically.
func (s *Idempotency) Remember(ctx context.Context, scope, key, recordID string, now time.Time) {
	_, done := op(ctx, collectionIdempotency, "Remember")
	s.mu.Lock()
	s.entries[idemKey{scope, key}] = idemEntry{recordID: recordID, expires: now.Add(s.ttl)}
	s.puts++
	if s.puts%sweepEvery == 0 {
		for k, e := range s.entries {
			if !now.Before(e.expires) {
				delete(s.entries, k)
			}
		}
	}
	s.mu.Unlock()
	done(nil)
}

// Len returns the number of entries held, expired or not.
func (s *Idempotency) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
