package shared

// PageQuery represents pagination options for list reads.
// IncludeDeleted widens the query to soft-deleted rows; it is set from
// the caller's access policy, never directly from request input.
type PageQuery struct {
	Page           int
	Limit          int
	IncludeDeleted bool
}

// DefaultPageQuery returns a page query with default values
func DefaultPageQuery() PageQuery {
	return PageQuery{
		Page:  1,
		Limit: 20,
	}
}

// Normalize clamps page and limit to sane values
func (q PageQuery) Normalize() PageQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	return q
}

// Offset returns the row offset for the query
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta is the pagination metadata returned with every list read
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
}

// NewPageMeta computes pagination metadata. LastPage is ceil(total/limit).
func NewPageMeta(total int64, page, limit int) PageMeta {
	lastPage := int(total) / limit
	if int(total)%limit > 0 {
		lastPage++
	}
	return PageMeta{
		Total:    total,
		Page:     page,
		LastPage: lastPage,
	}
}

// Page represents a paginated result
type Page[T any] struct {
	Meta PageMeta `json:"meta"`
	Data []T      `json:"data"`
}

// NewPage creates a paginated result
func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	return Page[T]{
		Meta: NewPageMeta(total, page, limit),
		Data: data,
	}
}
