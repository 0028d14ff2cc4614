package fop

import (
	"fmt"
	"strconv"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageIntCursor is an offset based page request.
type PageIntCursor struct {
	Limit  int
	Cursor int
}

// PageInfoIntCursor returns pagination data. Every slice query should return page info.
type PageInfoIntCursor struct {
	HasPrev        bool `json:"hasPrev,omitempty"`
	Limit          int  `json:"limit,omitempty"`
	PreviousCursor int  `json:"previousCursor,omitempty"`
	NextCursor     int  `json:"nextCursor,omitempty"`
	PageTotal      int  `json:"pageTotal,omitempty"`
	Total          int  `json:"total"`
}

func ParsePageIntCursor(pageLimit string, cursor string) (PageIntCursor, error) {
	limit := DefaultPageLimit

	if pageLimit != "" {
		var err error
		limit, err = strconv.Atoi(pageLimit)
		if err != nil {
			return PageIntCursor{}, fmt.Errorf("page limit conversion: %w", err)
		}
	}
	if limit <= 0 {
		return PageIntCursor{}, fmt.Errorf("rows value too small, must be larger than 0")
	}
	if limit > MaxPageLimit {
		return PageIntCursor{}, fmt.Errorf("rows value too large, must be at most %d", MaxPageLimit)
	}

	offset := 0
	if cursor != "" {
		var err error
		offset, err = strconv.Atoi(cursor)
		if err != nil {
			return PageIntCursor{}, fmt.Errorf("cursor conversion: %w", err)
		}
		if offset < 0 {
			return PageIntCursor{}, fmt.Errorf("cursor must not be negative")
		}
	}

	return PageIntCursor{
		Limit:  limit,
		Cursor: offset,
	}, nil
}

// Paginate returns the page of items selected by page along with its page info.
func Paginate[T any](items []T, page PageIntCursor) ([]T, PageInfoIntCursor) {
	total := len(items)
	start := min(page.Cursor, total)
	end := min(start+page.Limit, total)

	info := PageInfoIntCursor{
		HasPrev:   start > 0,
		Limit:     page.Limit,
		PageTotal: end - start,
		Total:     total,
	}
	if start > 0 {
		info.PreviousCursor = max(start-page.Limit, 0)
	}
	if end < total {
		info.NextCursor = end
	}

	return items[start:end], info
}
