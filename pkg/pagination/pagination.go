// Package pagination parses page/per_page query parameters.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params is a validated page window.
type Params struct {
	Page    int
	PerPage int
}

// Offset is the number of rows to skip.
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Limit is the page size.
func (p Params) Limit() int { return p.PerPage }

// Slice applies the window to n items and returns the [lo, hi) bounds.
func (p Params) Slice(n int) (lo, hi int) {
	lo = min(p.Offset(), n)
	hi = min(lo+p.PerPage, n)
	return lo, hi
}

// FromRequest reads ?page and ?per_page. Out-of-range values fall back to
// the defaults; per_page is capped at MaxPerPage.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{Page: 1, PerPage: DefaultPerPage}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 {
		p.PerPage = min(v, MaxPerPage)
	}
	return p
}
