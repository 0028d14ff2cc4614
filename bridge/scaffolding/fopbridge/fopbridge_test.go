package fopbridge_test

import (
	"encoding/json"
	"testing"

	"github.com/jrazmi/taskboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

func TestNewPaginatedResponseIntCursor(t *testing.T) {
	records := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name     string
		page     fop.PageIntCursor
		want     []string
		prev     *int
		next     *int
		pageSize int
	}{
		{name: "first page", page: fop.PageIntCursor{Limit: 2}, want: []string{"a", "b"}, next: ptr(2)},
		{name: "middle page", page: fop.PageIntCursor{Limit: 2, Cursor: 2}, want: []string{"c", "d"}, prev: ptr(0), next: ptr(4)},
		{name: "last page", page: fop.PageIntCursor{Limit: 2, Cursor: 4}, want: []string{"e"}, prev: ptr(2)},
		{name: "past the end", page: fop.PageIntCursor{Limit: 2, Cursor: 9}, want: []string{}, prev: ptr(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fopbridge.NewPaginatedResponseIntCursor(records, tt.page)
			if len(got.Records) != len(tt.want) {
				t.Fatalf("records = %v, want %v", got.Records, tt.want)
			}
			for i := range tt.want {
				if got.Records[i] != tt.want[i] {
					t.Fatalf("records = %v, want %v", got.Records, tt.want)
				}
			}
			if !sameCursor(got.PageInfo.PreviousCursor, tt.prev) {
				t.Errorf("prev = %v, want %v", deref(got.PageInfo.PreviousCursor), deref(tt.prev))
			}
			if !sameCursor(got.PageInfo.NextCursor, tt.next) {
				t.Errorf("next = %v, want %v", deref(got.PageInfo.NextCursor), deref(tt.next))
			}
			if got.PageInfo.Total != len(records) {
				t.Errorf("total = %d", got.PageInfo.Total)
			}
		})
	}
}

func TestEmptyRecordsEncodeAsList(t *testing.T) {
	data, _, err := fopbridge.NewPaginatedResponseIntCursor[string](nil, fop.PageIntCursor{Limit: 10}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if string(body.Records) != "[]" {
		t.Errorf("records = %s, want []", body.Records)
	}
}

func ptr(i int) *int { return &i }

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func sameCursor(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
