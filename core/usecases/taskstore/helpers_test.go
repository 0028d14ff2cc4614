package taskstore_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

var (
	amie  = tasksrepo.User{ID: "u1", Name: "Amie Leighton"}
	omar  = tasksrepo.User{ID: "u2", Name: "Omar Haddad"}
	priya = tasksrepo.User{ID: "u3", Name: "Priya Nair"}
)

func task(id string, assignee, creator tasksrepo.User, status tasksrepo.Status, created, due string) tasksrepo.Task {
	return tasksrepo.Task{
		ID: id, Title: "Task " + id, AssignedTo: assignee, CreatedBy: creator,
		Tags: []string{}, Priority: tasksrepo.PriorityMedium, Status: status,
		CreatedOn: created, DueOn: due, Meta: tasksrepo.Meta{PatientCode: "PT-" + id},
	}
}

// fixture has five tasks, two assigned to the acting user.
func fixture() []tasksrepo.Task {
	return []tasksrepo.Task{
		task("t1", amie, omar, tasksrepo.StatusTodo, "2025-01-03T09:00:00Z", "2025-01-10T09:00:00Z"),
		task("t2", omar, amie, tasksrepo.StatusInProgress, "2025-01-01T09:00:00Z", "2025-01-12T09:00:00Z"),
		task("t3", priya, amie, tasksrepo.StatusDone, "2025-01-05T09:00:00Z", "2025-01-08T09:00:00Z"),
		task("t4", amie, priya, tasksrepo.StatusInReview, "2025-01-02T09:00:00Z", "2025-01-20T09:00:00Z"),
		task("t5", priya, omar, tasksrepo.StatusTodo, "2025-01-04T09:00:00Z", "2025-01-15T09:00:00Z"),
	}
}

var errBoom = &tasksrepo.NetworkError{Op: tasksrepo.OpUpdateTaskStatus, Message: "Failed to update task status. Please try again.", Err: errors.New("boom")}

// fakeRepo is a deterministic Repository. When gate is set, UpdateTaskStatus
// signals started and then blocks until gate is closed.
type fakeRepo struct {
	mu        sync.Mutex
	tasks     []tasksrepo.Task
	listErr   error
	createErr error
	updateErr func(id string, status tasksrepo.Status) error
	updates   int

	started chan struct{}
	gate    chan struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: fixture()}
}

func (f *fakeRepo) ListTasks(ctx context.Context) ([]tasksrepo.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]tasksrepo.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeRepo) UpdateTaskStatus(ctx context.Context, id string, status tasksrepo.Status) (tasksrepo.Task, error) {
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		if err := f.updateErr(id, status); err != nil {
			return tasksrepo.Task{}, err
		}
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t.WithStatus(status), nil
		}
	}
	return tasksrepo.Task{ID: id, Title: "New Task", Status: status, Tags: []string{}}, nil
}

func (f *fakeRepo) CreateTask(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return tasksrepo.Task{}, f.createErr
	}
	t := task("t-new", omar, amie, input.Status, "2025-02-01T00:00:00Z", input.DueOn)
	t.Title = input.Title
	return t, nil
}

func (f *fakeRepo) updateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

func ids(tasks []tasksrepo.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func statusOf(tasks []tasksrepo.Task, id string) tasksrepo.Status {
	for _, t := range tasks {
		if t.ID == id {
			return t.Status
		}
	}
	return ""
}
