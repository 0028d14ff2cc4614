package tasksrepo_test

import (
	"slices"
	"testing"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
	"github.com/jrazmi/taskboard/sdk/validation"
)

func criteria(search string, scope tasksrepo.Scope, sortBy, order string) tasksrepo.Criteria {
	return tasksrepo.Criteria{Search: search, Filter: scope, SortBy: sortBy, SortOrder: order}
}

func TestApplySearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title", "MRI", []string{"t5"}},
		{"assignee or creator name", "omar", []string{"t1", "t2", "t5"}},
		{"mixed case name", "PRIYA", []string{"t3", "t4", "t5"}},
		{"tag", "cardio", []string{"t1"}},
		{"patient code", "pt-2", []string{"t3"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tasksrepo.Apply(fixtureTasks(), criteria(tt.search, tasksrepo.ScopeAll, tasksrepo.OrderByCreatedOn, fop.ASC), tasksrepo.CurrentUserID)
			gotIDs := ids(got)
			slices.Sort(gotIDs)
			if !slices.Equal(gotIDs, tt.want) {
				t.Errorf("search %q = %v, want %v", tt.search, gotIDs, tt.want)
			}
		})
	}
}

func TestApplyEmptySearchIsPermutation(t *testing.T) {
	tasks := fixtureTasks()
	for _, sortBy := range []string{tasksrepo.OrderByCreatedOn, tasksrepo.OrderByDueOn, tasksrepo.OrderByPriority} {
		for _, order := range []string{fop.ASC, fop.DESC} {
			got := ids(tasksrepo.Apply(tasks, criteria("", tasksrepo.ScopeAll, sortBy, order), tasksrepo.CurrentUserID))
			want := ids(tasks)
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("%s %s: got %v, want permutation of %v", sortBy, order, got, want)
			}
		}
	}
}

func TestApplyAssignedToMe(t *testing.T) {
	tasks := tasksrepo.Apply(fixtureTasks(), tasksrepo.DefaultCriteria().Merge(tasksrepo.CriteriaPatch{
		Filter: scopePtr(tasksrepo.ScopeAssignedToMe),
	}), tasksrepo.CurrentUserID)

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.AssignedTo.ID != tasksrepo.CurrentUserID {
			t.Errorf("task %s assigned to %s", task.ID, task.AssignedTo.ID)
		}
	}
}

func TestApplyCreatedByMe(t *testing.T) {
	got := ids(tasksrepo.Apply(fixtureTasks(), criteria("", tasksrepo.ScopeCreatedByMe, tasksrepo.OrderByCreatedOn, fop.ASC), tasksrepo.CurrentUserID))
	if !slices.Equal(got, []string{"t2", "t3"}) {
		t.Errorf("created_by_me = %v", got)
	}
}

func TestApplySortOrders(t *testing.T) {
	tests := []struct {
		sortBy string
		order  string
		want   []string
	}{
		{tasksrepo.OrderByCreatedOn, fop.DESC, []string{"t3", "t5", "t1", "t4", "t2"}},
		{tasksrepo.OrderByCreatedOn, fop.ASC, []string{"t2", "t4", "t1", "t5", "t3"}},
		{tasksrepo.OrderByDueOn, fop.ASC, []string{"t3", "t1", "t2", "t5", "t4"}},
		// ties keep input order in both directions
		{tasksrepo.OrderByPriority, fop.ASC, []string{"t3", "t2", "t4", "t1", "t5"}},
		{tasksrepo.OrderByPriority, fop.DESC, []string{"t1", "t5", "t2", "t4", "t3"}},
	}

	for _, tt := range tests {
		got := ids(tasksrepo.Apply(fixtureTasks(), criteria("", tasksrepo.ScopeAll, tt.sortBy, tt.order), tasksrepo.CurrentUserID))
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s %s = %v, want %v", tt.sortBy, tt.order, got, tt.want)
		}
	}
}

func TestApplySortAntisymmetry(t *testing.T) {
	desc := tasksrepo.Apply(fixtureTasks(), criteria("", tasksrepo.ScopeAll, tasksrepo.OrderByCreatedOn, fop.DESC), tasksrepo.CurrentUserID)
	asc := tasksrepo.Apply(desc, criteria("", tasksrepo.ScopeAll, tasksrepo.OrderByCreatedOn, fop.ASC), tasksrepo.CurrentUserID)

	reversed := ids(desc)
	slices.Reverse(reversed)
	if !slices.Equal(ids(asc), reversed) {
		t.Errorf("asc %v is not the reverse of desc %v", ids(asc), ids(desc))
	}
}

func TestApplyIdempotent(t *testing.T) {
	all := []tasksrepo.Criteria{
		tasksrepo.DefaultCriteria(),
		criteria("pt", tasksrepo.ScopeAssignedToMe, tasksrepo.OrderByDueOn, fop.ASC),
		criteria("", tasksrepo.ScopeCreatedByMe, tasksrepo.OrderByPriority, fop.DESC),
		criteria("o", tasksrepo.ScopeAll, tasksrepo.OrderByPriority, fop.ASC),
	}
	for _, c := range all {
		once := tasksrepo.Apply(fixtureTasks(), c, tasksrepo.CurrentUserID)
		twice := tasksrepo.Apply(once, c, tasksrepo.CurrentUserID)
		if !slices.Equal(ids(once), ids(twice)) {
			t.Errorf("criteria %+v not idempotent: %v then %v", c, ids(once), ids(twice))
		}
	}
}

func TestApplyEmptyAndNoMutation(t *testing.T) {
	if got := tasksrepo.Apply(nil, tasksrepo.DefaultCriteria(), tasksrepo.CurrentUserID); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}

	tasks := fixtureTasks()
	before := ids(tasks)
	_ = tasksrepo.Apply(tasks, criteria("", tasksrepo.ScopeAll, tasksrepo.OrderByPriority, fop.DESC), tasksrepo.CurrentUserID)
	if !slices.Equal(ids(tasks), before) {
		t.Errorf("input reordered: %v", ids(tasks))
	}
}

func TestCriteriaMerge(t *testing.T) {
	c := tasksrepo.DefaultCriteria()
	if !c.Valid() {
		t.Fatal("default criteria should be valid")
	}

	c = c.Merge(tasksrepo.CriteriaPatch{Search: validation.StringPtr("mri")})
	want := tasksrepo.Criteria{Search: "mri", Filter: tasksrepo.ScopeAll, SortBy: tasksrepo.OrderByCreatedOn, SortOrder: fop.DESC}
	if c != want {
		t.Errorf("merge search = %+v", c)
	}

	c = c.Merge(tasksrepo.CriteriaPatch{SortBy: validation.StringPtr(tasksrepo.OrderByPriority), SortOrder: validation.StringPtr(fop.ASC)})
	if c.SortBy != tasksrepo.OrderByPriority || c.SortOrder != fop.ASC || c.Search != "mri" {
		t.Errorf("merge sort = %+v", c)
	}

	bad := c.Merge(tasksrepo.CriteriaPatch{
		Filter:    scopePtr("everyone"),
		SortBy:    validation.StringPtr("title"),
		SortOrder: validation.StringPtr("up"),
	})
	if bad != c {
		t.Errorf("invalid patch values should be ignored, got %+v", bad)
	}
}

func scopePtr(s tasksrepo.Scope) *tasksrepo.Scope {
	return &s
}
