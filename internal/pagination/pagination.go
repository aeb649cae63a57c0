// Package pagination turns raw list query parameters into a validated,
// half-open index range over an insertion-ordered collection.
//
// Recognized keys are start/end, or the equivalent offset/limit pair, which
// is consulted only when neither start nor end is present. All other keys
// are ignored.
//
// Example:
//
//	rng, err := pagination.Parse(map[string]string{"start": "0", "end": "2"})
//	// rng = &Range{Start: 0, End: 2}
//
//	rng, err = pagination.Parse(nil)
//	// rng = nil (no restriction)
package pagination

import (
	"math"
	"net/url"
	"strconv"

	"github.com/tbourn/go-qa-backend/internal/apperr"
)

// Query parameter names.
const (
	KeyStart  = "start"
	KeyEnd    = "end"
	KeyOffset = "offset"
	KeyLimit  = "limit"
)

// Range is a half-open [Start, End) window. Start > End is valid and selects
// nothing.
type Range struct {
	Start int
	End   int
}

// Bounds clamps r to a collection of n items and returns slice indices
// lo <= hi. An out-of-range or inverted window yields lo == hi.
func (r Range) Bounds(n int) (lo, hi int) {
	lo, hi = r.Start, r.End
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Parse validates params. It returns nil when no pagination was requested.
func Parse(params map[string]string) (*Range, error) {
	start, hasStart := params[KeyStart]
	end, hasEnd := params[KeyEnd]
	if hasStart || hasEnd {
		return parsePair(KeyStart, start, hasStart, KeyEnd, end, hasEnd)
	}

	offset, hasOffset := params[KeyOffset]
	limit, hasLimit := params[KeyLimit]
	if !hasOffset && !hasLimit {
		return nil, nil
	}
	rng, err := parsePair(KeyOffset, offset, hasOffset, KeyLimit, limit, hasLimit)
	if err != nil {
		return nil, err
	}
	// limit is a count; convert to an end index without overflowing.
	if rng.End > math.MaxInt-rng.Start {
		rng.End = math.MaxInt
	} else {
		rng.End += rng.Start
	}
	return rng, nil
}

// Flatten keeps the first value of each key in v.
func Flatten(v url.Values) map[string]string {
	params := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			params[k] = vals[0]
		}
	}
	return params
}

// FromValues is Parse(Flatten(v)).
func FromValues(v url.Values) (*Range, error) {
	return Parse(Flatten(v))
}

func parsePair(aKey, aRaw string, hasA bool, bKey, bRaw string, hasB bool) (*Range, error) {
	if !hasA {
		return nil, apperr.MissingParameter(aKey)
	}
	if !hasB {
		return nil, apperr.MissingParameter(bKey)
	}
	a, err := parseIndex(aKey, aRaw)
	if err != nil {
		return nil, err
	}
	b, err := parseIndex(bKey, bRaw)
	if err != nil {
		return nil, err
	}
	return &Range{Start: a, End: b}, nil
}

// parseIndex accepts plain base-10 digit strings only: no sign, no
// trimming. Values that do not fit an int are parse errors.
func parseIndex(key, raw string) (int, error) {
	n, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return 0, apperr.Parse(key, raw, err)
	}
	return int(n), nil
}
