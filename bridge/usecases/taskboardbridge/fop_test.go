package taskboardbridge_test

import (
	"net/url"
	"testing"

	"github.com/jrazmi/taskboard/bridge/usecases/taskboardbridge"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

func TestSerializeCriteria(t *testing.T) {
	tests := []struct {
		name string
		c    tasksrepo.Criteria
		want string
	}{
		{name: "defaults", c: tasksrepo.DefaultCriteria(), want: ""},
		{
			name: "everything set",
			c:    tasksrepo.Criteria{Search: "lab panel", Filter: tasksrepo.ScopeCreatedByMe, SortBy: tasksrepo.OrderByPriority, SortOrder: fop.ASC},
			want: "filter=created_by_me&search=lab+panel&sortBy=priority&sortOrder=asc",
		},
		{
			name: "only sort order",
			c:    tasksrepo.Criteria{Filter: tasksrepo.ScopeAll, SortBy: tasksrepo.OrderByCreatedOn, SortOrder: fop.ASC},
			want: "sortOrder=asc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taskboardbridge.SerializeCriteria(tt.c).Encode(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCriteriaRoundTrip(t *testing.T) {
	for _, search := range []string{"", "mri", "a&b=c"} {
		for _, scope := range tasksrepo.Scopes {
			for field := range tasksrepo.OrderByFields {
				for _, dir := range []string{fop.ASC, fop.DESC} {
					c := tasksrepo.Criteria{Search: search, Filter: scope, SortBy: field, SortOrder: dir}

					q, err := url.ParseQuery(taskboardbridge.SerializeCriteria(c).Encode())
					if err != nil {
						t.Fatal(err)
					}
					if got := taskboardbridge.CriteriaFromQuery(q); got != c {
						t.Errorf("round trip of %+v gave %+v", c, got)
					}
				}
			}
		}
	}
}

func TestDeserializeIgnoresInvalidValues(t *testing.T) {
	q := url.Values{
		"filter":    {"everyone"},
		"sortBy":    {"title"},
		"sortOrder": {"sideways"},
		"search":    {"chart"},
	}

	p := taskboardbridge.DeserializeCriteria(q)
	if p.Filter != nil || p.SortBy != nil || p.SortOrder != nil {
		t.Fatalf("invalid enum values kept: %+v", p)
	}
	if p.Search == nil || *p.Search != "chart" {
		t.Fatalf("search = %v, want chart", p.Search)
	}

	got := taskboardbridge.CriteriaFromQuery(q)
	want := tasksrepo.DefaultCriteria()
	want.Search = "chart"
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDeserializeEmptyQuery(t *testing.T) {
	if p := taskboardbridge.DeserializeCriteria(url.Values{}); !p.IsEmpty() {
		t.Errorf("patch = %+v, want empty", p)
	}
}
