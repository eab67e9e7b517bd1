package domain

// PageRequest carries page/limit values from the HTTP layer to the service layer.
// Page is 1-indexed.
type PageRequest struct {
	Page  int
	Limit int
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// NewPageRequest builds a PageRequest from optional query values.
// Nil pointers fall back to page=1, limit=50; the limit is capped at 500.
func NewPageRequest(page, limit *int) PageRequest {
	p := PageRequest{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a larger, already filtered result set.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// Paginate cuts the requested page out of items. Pages past the end are empty.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	out := Page[T]{Items: []T{}, Total: len(items), Page: req.Page, Limit: req.Limit}
	start := req.Offset()
	if start >= len(items) {
		return out
	}
	end := min(start+req.Limit, len(items))
	out.Items = items[start:end]
	return out
}
