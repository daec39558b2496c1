package dto

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is the common query string of paginated list endpoints.
type ListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

// Normalize fills page and limit defaults.
func (q *ListQuery) Normalize() {
	q.Page, q.Limit = NormalizePage(q.Page, q.Limit)
}

// Offset is the number of rows skipped before the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// NormalizePage applies the default page and limit and clamps the limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page is one window of a list query.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	Limit      int
}

func NewPage[T any](items []T, total int64, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, TotalCount: total, Page: page, Limit: limit}
}

func (p *Page[T]) TotalPages() int {
	return TotalPages(p.TotalCount, p.Limit)
}

// Envelope renders the page under the given collection key, e.g. "devices".
func (p *Page[T]) Envelope(key string) map[string]any {
	return map[string]any{
		key:          p.Items,
		"totalCount": p.TotalCount,
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": p.TotalPages(),
	}
}

// IDRequest binds the ":id" path segment.
type IDRequest struct {
	ID uint `uri:"id" binding:"required,gt=0"`
}
