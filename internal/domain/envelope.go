package domain

// ============================================================
// Response envelopes returned by every adapter call
// ============================================================

// Response wraps a single entity.
type Response[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Page wraps one page of a list.
type Page[T any] struct {
	Data       []T    `json:"data"`
	Total      int    `json:"total"`
	HasNext    bool   `json:"hasNext"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Empty is the envelope of operations that return no entity (deletes, actions).
type Empty = Response[struct{}]

// OK wraps data in a successful envelope.
func OK[T any](data T) Response[T] {
	return Response[T]{Data: data, Success: true}
}

// Done is the successful empty envelope.
func Done() Empty {
	return Empty{Success: true}
}

// NewPage builds a page, never leaving Data nil.
func NewPage[T any](items []T, total int, nextCursor string) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data:       items,
		Total:      total,
		HasNext:    nextCursor != "",
		NextCursor: nextCursor,
	}
}

// Normalize replaces a nil Data slice with an empty one.
func (p *Page[T]) Normalize() {
	if p.Data == nil {
		p.Data = []T{}
	}
}
