package paging

// PagedList is an offset-based slice of a larger ordered result set, with the
// navigation metadata clients need to page through it.
type PagedList[T any] struct {
	Items      []T  `json:"items"`
	PageNumber int  `json:"page_number"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_previous_page"`
	HasNext    bool `json:"has_next_page"`
}

func NewPagedList[T any](items []T, totalCount, pageNumber, pageSize int) PagedList[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return PagedList[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasPrev:    pageNumber > 1,
		HasNext:    pageNumber < totalPages,
	}
}

// Map converts the items of a paged list while keeping the metadata.
func Map[T, U any](p PagedList[T], fn func(T) U) PagedList[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return PagedList[U]{
		Items:      items,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
	}
}
