package tasksrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/sdk/logger"
)

var fixedNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func newRepo(storer tasksrepo.Storer, opts ...tasksrepo.Option) *tasksrepo.Repository {
	base := []tasksrepo.Option{
		tasksrepo.WithDelayPolicy(tasksrepo.NoDelay),
		tasksrepo.WithFailurePolicy(tasksrepo.NeverFail),
		tasksrepo.WithClock(func() time.Time { return fixedNow }),
		tasksrepo.WithIDGenerator(func() string { return "t-new" }),
		tasksrepo.WithPatientCodes(func() string { return "PT-042" }),
	}
	return tasksrepo.NewRepository(logger.NewDiscard(), storer, append(base, opts...)...)
}

func TestListTasks(t *testing.T) {
	repo := newRepo(fixtureStorer(t))

	tasks, err := repo.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(tasks))
	}
	if tasks[2].Tags == nil {
		t.Error("empty tags should decode as an empty slice")
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	repo := tasksrepo.NewRepository(nil, fixtureStorer(t),
		tasksrepo.WithDelayPolicy(tasksrepo.NoDelay),
		tasksrepo.WithFailurePolicy(tasksrepo.NeverFail),
	)

	if _, err := repo.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if _, err := repo.UpdateTaskStatus(context.Background(), "t1", tasksrepo.StatusDone); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
}

func TestListTasksDataFormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		storer memStorer
	}{
		{"missing", memStorer{err: tasksrepo.ErrFixtureNotFound}},
		{"empty", memStorer{data: []byte("   \n")}},
		{"not json", memStorer{data: []byte("{tasks: nope")}},
		{"no tasks field", memStorer{data: []byte(`{"_meta":{"schema":"v1"}}`)}},
		{"tasks not array", memStorer{data: []byte(`{"tasks":{"id":"t1"}}`)}},
		{"tasks null", memStorer{data: []byte(`{"tasks":null}`)}},
		{"task without id", memStorer{data: []byte(`{"tasks":[{"title":"x"}]}`)}},
		{"duplicate ids", memStorer{data: []byte(`{"tasks":[{"id":"a"},{"id":"a"}]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRepo(tt.storer).ListTasks(context.Background())

			var dfe *tasksrepo.DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected DataFormatError, got %v", err)
			}
			if errors.Is(err, tasksrepo.ErrNetwork) {
				t.Error("data format error must not match ErrNetwork")
			}
		})
	}
}

func TestListTasksNetworkErrors(t *testing.T) {
	t.Run("simulated", func(t *testing.T) {
		repo := newRepo(fixtureStorer(t), tasksrepo.WithFailurePolicy(tasksrepo.FailOn(tasksrepo.OpListTasks)))
		_, err := repo.ListTasks(context.Background())

		var ne *tasksrepo.NetworkError
		if !errors.As(err, &ne) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
		if ne.Op != tasksrepo.OpListTasks || ne.Error() != "Failed to load tasks. Please try again." {
			t.Errorf("unexpected error %+v", ne)
		}
	})

	t.Run("storer failure", func(t *testing.T) {
		repo := newRepo(memStorer{err: errors.New("connection reset")})
		if _, err := repo.ListTasks(context.Background()); !errors.Is(err, tasksrepo.ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("cancelled during latency", func(t *testing.T) {
		repo := newRepo(fixtureStorer(t), tasksrepo.WithDelayPolicy(tasksrepo.FixedDelay(time.Hour)))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := repo.ListTasks(ctx)
		if !errors.Is(err, tasksrepo.ErrNetwork) || !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancelled network error, got %v", err)
		}
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	repo := newRepo(fixtureStorer(t))

	task, err := repo.UpdateTaskStatus(context.Background(), "t1", tasksrepo.StatusDone)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if task.ID != "t1" || task.Status != tasksrepo.StatusDone || task.Title != "Review discharge summary" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestUpdateTaskStatusMissingReturnsPlaceholder(t *testing.T) {
	repo := newRepo(fixtureStorer(t))

	task, err := repo.UpdateTaskStatus(context.Background(), "missing-id", tasksrepo.StatusDone)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if task.ID != "missing-id" || task.Status != tasksrepo.StatusDone {
		t.Errorf("unexpected placeholder %+v", task)
	}
	if task.Meta.PatientCode != "PT-000" || task.AssignedTo.ID != tasksrepo.CurrentUserID || task.Overdue {
		t.Errorf("unexpected placeholder fields %+v", task)
	}
}

func TestUpdateTaskStatusFailures(t *testing.T) {
	repo := newRepo(fixtureStorer(t), tasksrepo.WithFailurePolicy(tasksrepo.FailOn(tasksrepo.OpUpdateTaskStatus)))
	if _, err := repo.UpdateTaskStatus(context.Background(), "t1", tasksrepo.StatusDone); !errors.Is(err, tasksrepo.ErrNetwork) {
		t.Errorf("expected network error, got %v", err)
	}

	repo = newRepo(fixtureStorer(t))
	if _, err := repo.UpdateTaskStatus(context.Background(), "t1", "archived"); !errors.Is(err, repositories.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestCreateTask(t *testing.T) {
	repo := newRepo(fixtureStorer(t))

	task, err := repo.CreateTask(context.Background(), tasksrepo.CreateTask{
		Title:      "  Chase radiology report ",
		AssignedTo: "u2",
		Priority:   tasksrepo.PriorityHigh,
		Status:     tasksrepo.StatusTodo,
		DueOn:      "2020-01-01",
		Tags:       []string{"imaging", " imaging", ""},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if !task.Overdue {
		t.Error("task due in the past should be overdue")
	}
	if task.ID != "t-new" || task.Title != "Chase radiology report" {
		t.Errorf("unexpected identity %+v", task)
	}
	if task.AssignedTo != omar || task.CreatedBy != amie {
		t.Errorf("unexpected users %+v / %+v", task.AssignedTo, task.CreatedBy)
	}
	if task.CreatedOn != "2025-02-01T12:00:00.000Z" || task.DueOn != "2020-01-01" {
		t.Errorf("unexpected timestamps %s / %s", task.CreatedOn, task.DueOn)
	}
	if len(task.Tags) != 1 || task.Meta.CommentsCount != 0 || task.Meta.PatientCode != "PT-042" {
		t.Errorf("unexpected tags/meta %v %+v", task.Tags, task.Meta)
	}
}

func TestCreateTaskFutureDueIsNotOverdue(t *testing.T) {
	task, err := newRepo(fixtureStorer(t)).CreateTask(context.Background(), tasksrepo.CreateTask{
		Title: "Prep consent forms", AssignedTo: "u1", Priority: tasksrepo.PriorityLow,
		Status: tasksrepo.StatusTodo, DueOn: "2030-06-01",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Overdue {
		t.Error("future task should not be overdue")
	}
	if task.Tags == nil {
		t.Error("tags should be an empty slice")
	}
}

func TestCreateTaskErrors(t *testing.T) {
	valid := tasksrepo.CreateTask{Title: "X", AssignedTo: "u2", Priority: tasksrepo.PriorityHigh, Status: tasksrepo.StatusTodo, DueOn: "2020-01-01"}

	t.Run("unknown assignee", func(t *testing.T) {
		in := valid
		in.AssignedTo = "u9"
		_, err := newRepo(fixtureStorer(t)).CreateTask(context.Background(), in)

		var nf *tasksrepo.NotFoundError
		if !errors.As(err, &nf) || nf.ID != "u9" || !errors.Is(err, repositories.ErrNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})

	t.Run("acting user unknown", func(t *testing.T) {
		tasks := fixtureTasks()[4:] // only u3 and u2
		data, _ := tasksrepo.EncodeDocument("v1", tasks)
		_, err := newRepo(memStorer{data: data}).CreateTask(context.Background(), valid)
		if !errors.Is(err, repositories.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		for _, mutate := range []func(*tasksrepo.CreateTask){
			func(c *tasksrepo.CreateTask) { c.Title = "   " },
			func(c *tasksrepo.CreateTask) { c.AssignedTo = "" },
			func(c *tasksrepo.CreateTask) { c.Priority = "critical" },
			func(c *tasksrepo.CreateTask) { c.Status = "blocked" },
			func(c *tasksrepo.CreateTask) { c.DueOn = "soon" },
		} {
			in := valid
			mutate(&in)
			if _, err := newRepo(fixtureStorer(t)).CreateTask(context.Background(), in); !errors.Is(err, repositories.ErrInvalidInput) {
				t.Errorf("input %+v: expected invalid input, got %v", in, err)
			}
		}
	})

	t.Run("simulated failure", func(t *testing.T) {
		repo := newRepo(fixtureStorer(t), tasksrepo.WithFailurePolicy(tasksrepo.FailOn(tasksrepo.OpCreateTask)))
		if _, err := repo.CreateTask(context.Background(), valid); !errors.Is(err, tasksrepo.ErrNetwork) {
			t.Fatalf("expected network error, got %v", err)
		}
	})
}

func TestSimulatedDelayBounds(t *testing.T) {
	delay := tasksrepo.SimulatedDelay()
	for range 100 {
		if d := delay(tasksrepo.OpListTasks); d < 800*time.Millisecond || d >= 1200*time.Millisecond {
			t.Fatalf("list delay %v out of range", d)
		}
		if d := delay(tasksrepo.OpUpdateTaskStatus); d < 600*time.Millisecond || d >= 900*time.Millisecond {
			t.Fatalf("update delay %v out of range", d)
		}
	}
}

func TestSimulatedFailureExtremes(t *testing.T) {
	never, always := tasksrepo.SimulatedFailure(0), tasksrepo.SimulatedFailure(1)
	for range 50 {
		if never(tasksrepo.OpListTasks) {
			t.Fatal("rate 0 failed")
		}
		if !always(tasksrepo.OpListTasks) {
			t.Fatal("rate 1 succeeded")
		}
	}
}
