package models

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// Pagination is the offset/limit window applied to a listing.
// A nil Limit means unbounded.
type Pagination struct {
	Offset int
	Limit  *int
}

// ParsePagination reads the optional "offset" and "limit" query parameters.
// Both must be non-negative integers when present.
func ParsePagination(q url.Values) (Pagination, error) {
	var p Pagination

	if v := q.Get("offset"); v != "" {
		n, err := parseUint(v)
		if err != nil {
			return Pagination{}, fmt.Errorf("invalid offset: %w", err)
		}
		p.Offset = n
	}

	if v := q.Get("limit"); v != "" {
		n, err := parseUint(v)
		if err != nil {
			return Pagination{}, fmt.Errorf("invalid limit: %w", err)
		}
		p.Limit = &n
	}

	return p, nil
}

// parseUint accepts any unsigned 64-bit value. Values past math.MaxInt
// saturate, so a huge limit reads as unbounded and a huge offset as past
// the end.
func parseUint(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt {
		n = math.MaxInt
	}
	return int(n), nil
}

// Window returns the [Offset, Offset+Limit) slice of todos, clipped to the
// available rows. The result is never nil.
func (p Pagination) Window(todos []Todo) []Todo {
	if p.Offset < 0 || p.Offset >= len(todos) {
		return []Todo{}
	}

	end := len(todos)
	if p.Limit != nil && *p.Limit < end-p.Offset {
		end = p.Offset + *p.Limit
	}

	out := make([]Todo, end-p.Offset)
	copy(out, todos[p.Offset:end])
	return out
}
