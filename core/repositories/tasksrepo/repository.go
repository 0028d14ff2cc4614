package tasksrepo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/validation"
)

// ========================================
// STORER INTERFACE
// ========================================

// Storer serves the raw fixture document backing the repository. It returns
// ErrFixtureNotFound when there is no document to serve.
type Storer interface {
	Fixture(ctx context.Context) ([]byte, error)
}

// ========================================
// REPOSITORY
// ========================================

// Repository is the task data source. Every call waits for the configured
// DelayPolicy and may fail according to the FailurePolicy before touching
// the fixture, which is never written.
type Repository struct {
	log         *logger.Logger
	storer      Storer
	delay       DelayPolicy
	fail        FailurePolicy
	now         func() time.Time
	newID       func() string
	patientCode func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithDelayPolicy replaces the simulated latency.
func WithDelayPolicy(p DelayPolicy) Option {
	return func(r *Repository) {
		r.delay = p
	}
}

// WithFailurePolicy replaces the simulated failure injection.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(r *Repository) {
		r.fail = p
	}
}

// WithClock sets the time source used for timestamps and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithIDGenerator sets the identifier source for created tasks.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) {
		r.newID = newID
	}
}

// WithPatientCodes sets the patient code source for created tasks.
func WithPatientCodes(next func() string) Option {
	return func(r *Repository) {
		r.patientCode = next
	}
}

// NewRepository creates a new Task repository with the simulated network
// behaviour enabled.
func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	if log == nil {
		log = logger.NewDiscard()
	}
	r := &Repository{
		log:         log,
		storer:      storer,
		delay:       SimulatedDelay(),
		fail:        SimulatedFailure(DefaultFailureRate),
		now:         time.Now,
		newID:       func() string { return "t-" + uuid.NewString() },
		patientCode: randomPatientCode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func randomPatientCode() string {
	return fmt.Sprintf("PT-%03d", rand.IntN(100))
}

// ListTasks returns every task in the fixture.
func (r *Repository) ListTasks(ctx context.Context) ([]Task, error) {
	start := time.Now()
	if err := r.simulate(ctx, OpListTasks, "Failed to load tasks. Please try again."); err != nil {
		return nil, err
	}

	tasks, err := r.load(ctx, OpListTasks)
	if err != nil {
		r.log.ErrorContext(ctx, "list tasks", "err", err)
		return nil, err
	}

	r.log.InfoContext(ctx, "list tasks", "count", len(tasks), "duration", time.Since(start))
	return tasks, nil
}

// UpdateTaskStatus returns the task with its status replaced. An id that is
// not in the fixture yields a placeholder task carrying id and status rather
// than an error; tasks created during the session never reach the fixture.
func (r *Repository) UpdateTaskStatus(ctx context.Context, id string, status Status) (Task, error) {
	if !status.Valid() {
		return Task{}, fmt.Errorf("update task status: %w", repositories.NewFieldError("status", fmt.Sprintf("unknown status %q", status)))
	}
	if err := r.simulate(ctx, OpUpdateTaskStatus, "Failed to update task status. Please try again."); err != nil {
		return Task{}, err
	}

	tasks, err := r.load(ctx, OpUpdateTaskStatus)
	if err != nil {
		r.log.ErrorContext(ctx, "update task status", "task_id", id, "err", err)
		return Task{}, err
	}

	for _, t := range tasks {
		if t.ID == id {
			r.log.InfoContext(ctx, "update task status", "task_id", id, "status", status)
			return t.WithStatus(status), nil
		}
	}

	r.log.WarnContext(ctx, "task not found in fixture, returning placeholder", "task_id", id, "status", status)
	return r.placeholder(id, status), nil
}

func (r *Repository) placeholder(id string, status Status) Task {
	now := validation.FormatTime(r.now())
	current := User{ID: CurrentUserID, Name: "Current User", Avatar: ""}
	return Task{
		ID:         id,
		Title:      "New Task",
		AssignedTo: current,
		CreatedBy:  current,
		Tags:       []string{},
		Priority:   PriorityMedium,
		Status:     status,
		CreatedOn:  now,
		DueOn:      now,
		Overdue:    false,
		Meta: Meta{
			PatientCode:   "PT-000",
			CommentsCount: 0,
		},
	}
}

// CreateTask builds a new task. The assignee and the acting user must both be
// discoverable from the fixture tasks.
func (r *Repository) CreateTask(ctx context.Context, input CreateTask) (Task, error) {
	if err := input.Validate(); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	if err := r.simulate(ctx, OpCreateTask, "Failed to create task. Please try again."); err != nil {
		return Task{}, err
	}

	tasks, err := r.load(ctx, OpCreateTask)
	if err != nil {
		r.log.ErrorContext(ctx, "create task", "err", err)
		return Task{}, err
	}

	users := Users(tasks)
	assignee, ok := findUser(users, input.AssignedTo)
	if !ok {
		return Task{}, &NotFoundError{Kind: "user", ID: input.AssignedTo}
	}
	creator, ok := findUser(users, CurrentUserID)
	if !ok {
		return Task{}, &NotFoundError{Kind: "user", ID: CurrentUserID}
	}

	now := r.now()
	due, _ := validation.ParseFlexibleDate(input.DueOn)

	task := Task{
		ID:         r.newID(),
		Title:      strings.TrimSpace(input.Title),
		AssignedTo: assignee,
		CreatedBy:  creator,
		Tags:       validation.UniqueTrimmed(input.Tags),
		Priority:   input.Priority,
		Status:     input.Status,
		CreatedOn:  validation.FormatTime(now),
		DueOn:      input.DueOn,
		Overdue:    due.Before(now),
		Meta: Meta{
			PatientCode:   r.patientCode(),
			CommentsCount: 0,
		},
	}

	r.log.InfoContext(ctx, "create task", "task_id", task.ID, "assigned_to", assignee.ID, "overdue", task.Overdue)
	return task, nil
}

// simulate waits out the artificial latency and then applies the failure
// policy. A cancelled context ends the wait early as a network error.
func (r *Repository) simulate(ctx context.Context, op Operation, message string) error {
	if d := r.delay(op); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return &NetworkError{Op: op, Message: message, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	if r.fail(op) {
		r.log.WarnContext(ctx, "simulated failure", "op", op)
		return &NetworkError{Op: op, Message: message, Err: errors.New("simulated failure")}
	}
	return nil
}

func (r *Repository) load(ctx context.Context, op Operation) ([]Task, error) {
	data, err := r.storer.Fixture(ctx)
	if err != nil {
		if errors.Is(err, ErrFixtureNotFound) {
			return nil, &DataFormatError{Message: "Tasks data is missing", Err: err}
		}
		return nil, &NetworkError{Op: op, Message: "Failed to load tasks. Please try again.", Err: err}
	}
	return ParseDocument(data)
}

func findUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
