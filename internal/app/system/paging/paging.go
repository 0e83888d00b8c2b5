// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the default number of rows in paged lists.
const PageSize = 50

// MaxPageSize bounds client-requested page sizes.
const MaxPageSize = 200

// Page holds parsed pagination parameters.
type Page struct {
	Limit  int64
	Offset int64
}

// Parse reads "limit" and "offset" query parameters with clamping.
func Parse(r *http.Request) Page {
	p := Page{Limit: PageSize}

	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			p.Limit = int64(n)
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Offset = int64(n)
		}
	}
	return p
}

// LimitPlusOne returns Limit+1 for look-ahead fetching: ask for one extra
// row to learn whether a next page exists without a count query.
func (p Page) LimitPlusOne() int64 { return p.Limit + 1 }

// Trim cuts a look-ahead slice back to the page size in place and reports
// whether a next page exists.
func Trim[T any](rows *[]T, p Page) (hasNext bool) {
	if int64(len(*rows)) > p.Limit {
		*rows = (*rows)[:p.Limit]
		return true
	}
	return false
}
