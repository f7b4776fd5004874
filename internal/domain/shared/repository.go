package shared

// Page represents offset/limit pagination as exposed by the public API.
type Page struct {
	Offset int
	Limit  int
}

// DefaultPage returns the default page window
func DefaultPage() Page {
	return Page{Offset: 0, Limit: 30}
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize(maxLimit int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	NextOffset int   `json:"nextOffset"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page Page) Paginated[T] {
	return Paginated[T]{
		Items:      items,
		TotalCount: total,
		Offset:     page.Offset,
		Limit:      page.Limit,
		NextOffset: page.Offset + len(items),
	}
}

// CondResult reports the outcome of a conditional single-document update:
// how many rows matched the identifying key and how many were actually
// modified. matched=0 means the entity does not exist; matched>0 with
// modified=0 means the predicate did not hold.
type CondResult struct {
	Matched  int64
	Modified int64
}

// Applied reports whether the write took effect
func (r CondResult) Applied() bool {
	return r.Modified > 0
}

// NotFound reports whether the identifying key matched nothing
func (r CondResult) NotFound() bool {
	return r.Matched == 0
}

// PredicateFailed reports whether the key matched but the guard predicate
// did not hold at the moment of the write
func (r CondResult) PredicateFailed() bool {
	return r.Matched > 0 && r.Modified == 0
}
