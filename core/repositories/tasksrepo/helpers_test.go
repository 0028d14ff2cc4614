package tasksrepo_test

import (
	"context"
	"testing"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

var (
	amie  = tasksrepo.User{ID: "u1", Name: "Amie Leighton", Avatar: "https://example.test/u1.png"}
	omar  = tasksrepo.User{ID: "u2", Name: "Omar Haddad", Avatar: ""}
	priya = tasksrepo.User{ID: "u3", Name: "Priya Nair", Avatar: "https://example.test/u3.png"}
)

// fixtureTasks returns five tasks, two of them assigned to the acting user,
// with distinct created/due timestamps.
func fixtureTasks() []tasksrepo.Task {
	return []tasksrepo.Task{
		{
			ID: "t1", Title: "Review discharge summary", AssignedTo: amie, CreatedBy: omar,
			Tags: []string{"Cardiology"}, Priority: tasksrepo.PriorityHigh, Status: tasksrepo.StatusTodo,
			CreatedOn: "2025-01-03T09:00:00.000Z", DueOn: "2025-01-10T09:00:00.000Z",
			Meta: tasksrepo.Meta{PatientCode: "PT-101", CommentsCount: 2},
		},
		{
			ID: "t2", Title: "Order lab panel", AssignedTo: omar, CreatedBy: amie,
			Tags: []string{"labs", "urgent"}, Priority: tasksrepo.PriorityMedium, Status: tasksrepo.StatusInProgress,
			CreatedOn: "2025-01-01T09:00:00.000Z", DueOn: "2025-01-12T09:00:00.000Z",
			Meta: tasksrepo.Meta{PatientCode: "PT-102"},
		},
		{
			ID: "t3", Title: "Call pharmacy", AssignedTo: priya, CreatedBy: amie,
			Tags: []string{}, Priority: tasksrepo.PriorityLow, Status: tasksrepo.StatusDone,
			CreatedOn: "2025-01-05T09:00:00.000Z", DueOn: "2025-01-08T09:00:00.000Z",
			Meta: tasksrepo.Meta{PatientCode: "PT-207", CommentsCount: 1},
		},
		{
			ID: "t4", Title: "Update care plan", AssignedTo: amie, CreatedBy: priya,
			Tags: []string{"follow-up"}, Priority: tasksrepo.PriorityMedium, Status: tasksrepo.StatusInReview,
			CreatedOn: "2025-01-02T09:00:00.000Z", DueOn: "2025-01-20T09:00:00.000Z",
			Meta: tasksrepo.Meta{PatientCode: "PT-330"},
		},
		{
			ID: "t5", Title: "Schedule MRI", AssignedTo: priya, CreatedBy: omar,
			Tags: []string{"imaging"}, Priority: tasksrepo.PriorityHigh, Status: tasksrepo.StatusTodo,
			CreatedOn: "2025-01-04T09:00:00.000Z", DueOn: "2025-01-15T09:00:00.000Z",
			Meta: tasksrepo.Meta{PatientCode: "PT-451"},
		},
	}
}

func ids(tasks []tasksrepo.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// memStorer serves a fixed document or error.
type memStorer struct {
	data []byte
	err  error
}

func (m memStorer) Fixture(ctx context.Context) ([]byte, error) {
	return m.data, m.err
}

func fixtureStorer(t *testing.T) memStorer {
	t.Helper()
	data, err := tasksrepo.EncodeDocument("tasks.v1", fixtureTasks())
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return memStorer{data: data}
}
