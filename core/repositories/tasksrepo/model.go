package tasksrepo

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/sdk/validation"
)

// CurrentUserID is the acting user: the identity used for "mine" filtering and
// as the creator of new tasks.
const CurrentUserID = "u1"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Rank orders priorities: low=1, medium=2, high=3. Unknown priorities rank 0.
func (p Priority) Rank() int {
	return slices.Index(Priorities, p) + 1
}

// Status of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// User is referenced by tasks as assignee or creator. Avatar is a URL or the
// empty string when the user has none.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (u User) HasAvatar() bool {
	return strings.TrimSpace(u.Avatar) != ""
}

type Meta struct {
	PatientCode   string `json:"patientCode"`
	CommentsCount int    `json:"commentsCount"`
}

// Task is the main entity type. Timestamps are kept as the ISO-8601 strings
// they travel as; CreatedAt and DueAt parse them.
type Task struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	AssignedTo User     `json:"assignedTo"`
	CreatedBy  User     `json:"createdBy"`
	Tags       []string `json:"tags"`
	Priority   Priority `json:"priority"`
	Status     Status   `json:"status"`
	CreatedOn  string   `json:"createdOn"`
	DueOn      string   `json:"dueOn"`
	Overdue    bool     `json:"overdue"`
	Meta       Meta     `json:"meta"`
}

// GetID returns the task identifier.
func (t Task) GetID() string {
	return t.ID
}

// CreatedAt parses CreatedOn. Unparseable values yield the zero time.
func (t Task) CreatedAt() time.Time {
	return parseTimestamp(t.CreatedOn)
}

// DueAt parses DueOn. Unparseable values yield the zero time.
func (t Task) DueAt() time.Time {
	return parseTimestamp(t.DueOn)
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

// WithStatus returns a copy of t with the status replaced.
func (t Task) WithStatus(s Status) Task {
	c := t.Clone()
	c.Status = s
	return c
}

func parseTimestamp(s string) time.Time {
	ts, err := validation.ParseFlexibleDate(s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// CreateTask contains fields for creating a new task.
type CreateTask struct {
	Title      string   `json:"title"`
	AssignedTo string   `json:"assignedTo"`
	Priority   Priority `json:"priority"`
	Status     Status   `json:"status"`
	DueOn      string   `json:"dueOn"`
	Tags       []string `json:"tags"`
}

// Validate checks the input and reports the first invalid field.
func (c CreateTask) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return repositories.NewFieldError("title", "please enter task title")
	}
	if strings.TrimSpace(c.AssignedTo) == "" {
		return repositories.NewFieldError("assignedTo", "please select an assignee")
	}
	if !c.Priority.Valid() {
		return repositories.NewFieldError("priority", fmt.Sprintf("unknown priority %q", c.Priority))
	}
	if !c.Status.Valid() {
		return repositories.NewFieldError("status", fmt.Sprintf("unknown status %q", c.Status))
	}
	if _, err := validation.ParseFlexibleDate(c.DueOn); err != nil {
		return repositories.NewFieldError("dueOn", err.Error())
	}
	return nil
}

// DocumentMeta describes the fixture document.
type DocumentMeta struct {
	Schema string `json:"schema"`
}

// Document is the JSON fixture shape: { _meta: { schema }, tasks: [] }.
type Document struct {
	Meta  DocumentMeta `json:"_meta"`
	Tasks []Task       `json:"tasks"`
}
