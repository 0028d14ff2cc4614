package tasksrepo_test

import (
	"slices"
	"testing"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

func TestGroupByAssigneeFollowsSortedOrder(t *testing.T) {
	sorted := tasksrepo.Apply(fixtureTasks(), tasksrepo.Criteria{
		Filter: tasksrepo.ScopeAll, SortBy: tasksrepo.OrderByDueOn, SortOrder: fop.DESC,
	}, tasksrepo.CurrentUserID)
	// due desc: t4, t5, t2, t1, t3

	groups := tasksrepo.GroupByAssignee(sorted)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	want := []struct {
		user string
		ids  []string
	}{
		{"u1", []string{"t4", "t1"}},
		{"u3", []string{"t5", "t3"}},
		{"u2", []string{"t2"}},
	}
	for i, w := range want {
		if groups[i].User.ID != w.user {
			t.Errorf("group %d user = %s, want %s", i, groups[i].User.ID, w.user)
		}
		if !slices.Equal(ids(groups[i].Tasks), w.ids) {
			t.Errorf("group %d tasks = %v, want %v", i, ids(groups[i].Tasks), w.ids)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := tasksrepo.Summarize(fixtureTasks())
	if s.Total != 5 {
		t.Errorf("total = %d", s.Total)
	}
	if s.ByStatus[tasksrepo.StatusTodo] != 2 || s.ByStatus[tasksrepo.StatusDone] != 1 {
		t.Errorf("byStatus = %v", s.ByStatus)
	}
	if s.ByPriority[tasksrepo.PriorityHigh] != 2 || s.ByPriority[tasksrepo.PriorityLow] != 1 {
		t.Errorf("byPriority = %v", s.ByPriority)
	}

	empty := tasksrepo.Summarize(nil)
	if len(empty.ByStatus) != len(tasksrepo.Statuses) || empty.ByStatus[tasksrepo.StatusInReview] != 0 {
		t.Errorf("empty stats should list every status: %v", empty.ByStatus)
	}
}

func TestUsers(t *testing.T) {
	users := tasksrepo.Users(fixtureTasks())
	var got []string
	for _, u := range users {
		got = append(got, u.ID)
	}
	if !slices.Equal(got, []string{"u1", "u2", "u3"}) {
		t.Errorf("users = %v", got)
	}
	if users[1].HasAvatar() {
		t.Errorf("empty avatar should read as no avatar")
	}
}

func TestUsersLastRecordWins(t *testing.T) {
	renamed := omar
	renamed.Name = "Omar H."
	tasks := fixtureTasks()
	tasks[len(tasks)-1].CreatedBy = renamed

	users := tasksrepo.Users(tasks)
	if len(users) != 3 || users[1].ID != "u2" {
		t.Fatalf("users = %+v", users)
	}
	if users[1].Name != "Omar H." {
		t.Errorf("u2 name = %q, want the last record seen", users[1].Name)
	}
}

func TestPriorityRank(t *testing.T) {
	if tasksrepo.PriorityLow.Rank() != 1 || tasksrepo.PriorityMedium.Rank() != 2 || tasksrepo.PriorityHigh.Rank() != 3 {
		t.Error("unexpected priority ranks")
	}
	if tasksrepo.Priority("urgent").Rank() != 0 {
		t.Error("unknown priority should rank 0")
	}
}
