// Package pagination normalizes list query parameters and builds the
// shared response envelope. It holds no state and performs no I/O.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a normalized query plan for a list endpoint
type Params struct {
	Page   int
	Limit  int
	Skip   int
	Search string
}

// Parse normalizes page/limit/search query parameters. Non-numeric or
// out-of-range values are clamped rather than rejected.
func Parse(query url.Values) Params {
	page := parseClamped(query.Get("page"), DefaultPage, 1, math.MaxInt)
	limit := parseClamped(query.Get("limit"), DefaultLimit, 1, MaxLimit)

	search := strings.TrimSpace(query.Get("search"))
	if search == "" {
		search = strings.TrimSpace(query.Get("q"))
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Skip:   (page - 1) * limit,
		Search: search,
	}
}

func parseClamped(raw string, fallback, min, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = fallback
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}

// Meta describes the position of a page within the full result set
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Envelope is the shared paginated response shape
type Envelope struct {
	Data       any  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewEnvelope wraps a page of data with pagination metadata
func NewEnvelope(data any, total, page, limit int) Envelope {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return Envelope{
		Data: data,
		Pagination: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}
