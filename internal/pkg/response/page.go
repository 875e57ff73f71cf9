package response

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse is a helper to quickly create a response
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	return PageResponse[T]{
		Items:    NonNil(items),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}

// NonNil returns an empty slice for nil so lists encode as [] instead of null.
func NonNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
