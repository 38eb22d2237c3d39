// Package pagination turns untrusted page/limit query values into
// normalized offsets and builds the pagination block of list responses.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit inside int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params is the normalized form of a page request.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"-"`
}

// Meta is the pagination block returned next to list data.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page is the list response shape: { data: T[], pagination: {...} }.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// FromQuery normalizes raw query values. Missing, non-numeric, zero or
// negative values fall back to the defaults; limit is then capped at MaxLimit.
func FromQuery(rawPage, rawLimit string) Params {
	page := parsePositive(rawPage, DefaultPage)

	limit := parsePositive(rawLimit, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return New(page, limit)
}

// New clamps already numeric values into range and computes Skip.
// Page is capped at MaxPage so Skip never overflows.
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// NewMeta derives totalPages, hasNext and hasPrev from the row count.
func NewMeta(total int64, p Params) Meta {
	if total < 0 {
		total = 0
	}

	limit := int64(p.Limit)
	if limit < 1 {
		limit = 1
	}
	totalPages := int((total + limit - 1) / limit)

	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// NewPage wraps a result page and its metadata. A nil slice is rendered as [].
func NewPage[T any](data []T, total int64, p Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Pagination: NewMeta(total, p),
	}
}

// parsePositive reads the leading integer of s, the way a lenient query
// parser would ("12abc" -> 12). Anything that is not a positive integer
// yields def.
func parsePositive(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return def
	}
	return n
}
