// Package fopbridge provides support for query paging with unified response types.
package fopbridge

import (
	"encoding/json"

	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

// PaginatedResponse wraps a page of records with its page info.
type PaginatedResponse[T any, C comparable] struct {
	Records  []T         `json:"records"`
	PageInfo PageInfo[C] `json:"pageInfo"`
}

// PageInfo is a generic page info structure that works with any cursor type
type PageInfo[C comparable] struct {
	HasPrev        bool `json:"hasPrev,omitempty"`
	HasNext        bool `json:"hasNext,omitempty"`
	Limit          int  `json:"limit,omitempty"`
	PreviousCursor *C   `json:"previousCursor,omitempty"`
	NextCursor     *C   `json:"nextCursor,omitempty"`
	PageTotal      int  `json:"pageTotal"`
	Total          int  `json:"total"`
}

// Encode implements the encoder interface for the paginated response
func (p PaginatedResponse[T, C]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

// NewPaginatedResponseIntCursor pages records with page and wraps the result.
// A nil slice is encoded as an empty list.
func NewPaginatedResponseIntCursor[T any](records []T, page fop.PageIntCursor) PaginatedResponse[T, int] {
	window, info := fop.Paginate(records, page)
	if window == nil {
		window = []T{}
	}

	pageInfo := PageInfo[int]{
		HasPrev:   info.HasPrev,
		HasNext:   info.NextCursor > 0,
		Limit:     info.Limit,
		PageTotal: info.PageTotal,
		Total:     info.Total,
	}
	if info.HasPrev {
		prev := info.PreviousCursor
		pageInfo.PreviousCursor = &prev
	}
	if pageInfo.HasNext {
		next := info.NextCursor
		pageInfo.NextCursor = &next
	}

	return PaginatedResponse[T, int]{
		Records:  window,
		PageInfo: pageInfo,
	}
}

// NonPaginatedRecords wraps every record without paging.
type NonPaginatedRecords[T any] struct {
	Records []T `json:"records"`
}

func NewNonPaginatedRecords[T any](records []T) NonPaginatedRecords[T] {
	if records == nil {
		records = []T{}
	}
	return NonPaginatedRecords[T]{Records: records}
}

func (n NonPaginatedRecords[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(n)
	return data, "application/json", err
}
