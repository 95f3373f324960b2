package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

type Meta struct {
	Page       int
	Size       int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

func (m Meta) PrevPage() int { return m.Page - 1 }
func (m Meta) NextPage() int { return m.Page + 1 }

// Page cuts one page out of items. A page past the end is empty, not an error.
func Page[T any](items []T, page, size int) ([]T, Meta) {
	if page < 1 {
		page = 1
	}
	offset, limit := Calculate(page, size)
	total := len(items)

	meta := Meta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: max(1, (total+limit-1)/limit),
		HasPrev:    page > 1,
		HasNext:    offset+limit < total,
	}
	if offset >= total {
		return []T{}, meta
	}
	end := min(offset+limit, total)
	return items[offset:end], meta
}
