// Package taskstore owns the dashboard's task state: the canonical task
// collection, the filter criteria, the optimistic status overlay and the
// loading markers. Every mutation goes through a Store action.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Repository is the data source the Store drives. *tasksrepo.Repository
// satisfies it.
type Repository interface {
	ListTasks(ctx context.Context) ([]tasksrepo.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status tasksrepo.Status) (tasksrepo.Task, error)
	CreateTask(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error)
}

// ErrAlreadyResolved is returned by ResolveStatusUpdate for a Pending that
// has already been resolved or was never begun on this store.
var ErrAlreadyResolved = errors.New("status update already resolved")

// RacePolicy decides which of several overlapping updates to the same task
// determines the final state.
type RacePolicy string

const (
	// RaceLastIssued lets the most recently issued update win. Stale
	// resolutions neither clear a newer overlay nor overwrite a newer
	// confirmation.
	RaceLastIssued RacePolicy = "last_issued"

	// RaceLastResolved applies every resolution as it lands, so whichever
	// response arrives last wins.
	RaceLastResolved RacePolicy = "last_resolved"
)

func (p RacePolicy) Valid() bool {
	return p == RaceLastIssued || p == RaceLastResolved
}

// State is an immutable snapshot of the store. Slices and sets are replaced
// wholesale on every transition and must not be modified by readers.
type State struct {
	// Tasks is the canonical collection as last confirmed by the repository.
	Tasks []tasksrepo.Task
	// Filtered is the display view: overlay applied, then filtered and sorted.
	Filtered   []tasksrepo.Task
	Loading    bool
	Error      string
	Criteria   tasksrepo.Criteria
	Overlay    Overlay
	LoadingIDs LoadingSet
}

// HasError reports whether the error slot is set.
func (s State) HasError() bool {
	return s.Error != ""
}

// ========================================
// STORE
// ========================================

// Store orchestrates the repository, the filter engine and the optimistic
// overlay. It is safe for concurrent use; no lock is held while a repository
// call is in flight.
type Store struct {
	log  *logger.Logger
	repo Repository
	race RacePolicy

	// notifyMu serializes transitions so listeners see states in the order
	// they were published.
	notifyMu sync.Mutex

	mu          sync.Mutex
	state       State
	busy        int
	seq         uint64
	confirmed   map[string]uint64
	outstanding map[uint64]struct{}

	listenMu  sync.Mutex
	listeners map[int]func(State)
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithRacePolicy selects how overlapping updates to one task resolve.
// Unknown policies are ignored.
func WithRacePolicy(p RacePolicy) Option {
	return func(s *Store) {
		if p.Valid() {
			s.race = p
		}
	}
}

// WithInitialCriteria merges patch into the default criteria.
func WithInitialCriteria(patch tasksrepo.CriteriaPatch) Option {
	return func(s *Store) {
		s.state.Criteria = s.state.Criteria.Merge(patch)
	}
}

// New creates an empty store over repo. Call FetchTasks to load it.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		log:  logger.NewDiscard(),
		repo: repo,
		race: RaceLastIssued,
		state: State{
			Tasks:    []tasksrepo.Task{},
			Filtered: []tasksrepo.Task{},
			Criteria: tasksrepo.DefaultCriteria(),
		},
		confirmed:   make(map[string]uint64),
		outstanding: make(map[uint64]struct{}),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RacePolicy returns the policy in effect.
func (s *Store) RacePolicy() RacePolicy {
	return s.race
}

// ========================================
// ACTIONS
// ========================================

// FetchTasks replaces the canonical collection with the repository's. On
// failure the collection is left untouched and the error slot is set.
func (s *Store) FetchTasks(ctx context.Context) error {
	s.transition(func(st *State) {
		s.busy++
		st.Loading = true
		st.Error = ""
	})

	tasks, err := s.repo.ListTasks(ctx)

	s.transition(func(st *State) {
		s.busy--
		st.Loading = s.busy > 0
		if err != nil {
			st.Error = errorMessage(err, "Failed to fetch tasks")
			return
		}
		st.Tasks = tasks
		s.refilter(st)
	})

	if err != nil {
		s.log.ErrorContext(ctx, "fetch tasks", "err", err)
		return fmt.Errorf("fetch tasks: %w", err)
	}
	s.log.InfoContext(ctx, "fetch tasks", "count", len(tasks))
	return nil
}

// CreateTask appends the created task to the canonical collection. Nothing is
// added when the repository fails.
func (s *Store) CreateTask(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error) {
	s.transition(func(st *State) {
		s.busy++
		st.Loading = true
		st.Error = ""
	})

	task, err := s.repo.CreateTask(ctx, input)

	s.transition(func(st *State) {
		s.busy--
		st.Loading = s.busy > 0
		if err != nil {
			st.Error = errorMessage(err, "Failed to create task")
			return
		}
		tasks := make([]tasksrepo.Task, 0, len(st.Tasks)+1)
		tasks = append(tasks, st.Tasks...)
		st.Tasks = append(tasks, task)
		s.refilter(st)
	})

	if err != nil {
		s.log.ErrorContext(ctx, "create task", "err", err)
		return tasksrepo.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.log.InfoContext(ctx, "create task", "task_id", task.ID)
	return task, nil
}

// UpdateTaskStatus applies status optimistically, calls the repository and
// reconciles. It is BeginStatusUpdate followed by ResolveStatusUpdate.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status tasksrepo.Status) error {
	p, err := s.BeginStatusUpdate(id, status)
	if err != nil {
		return err
	}
	return s.ResolveStatusUpdate(ctx, p)
}

// BeginStatusUpdate records the optimistic overlay entry and the loading
// marker for id. The display view reflects status as soon as it returns.
func (s *Store) BeginStatusUpdate(id string, status tasksrepo.Status) (Pending, error) {
	if id == "" {
		return Pending{}, s.fail(repositories.NewFieldError("id", "task id is required"))
	}
	if !status.Valid() {
		return Pending{}, s.fail(repositories.NewFieldError("status", fmt.Sprintf("unknown status %q", status)))
	}

	var p Pending
	s.transition(func(st *State) {
		s.seq++
		p = Pending{ID: id, Status: status, Seq: s.seq}
		s.outstanding[p.Seq] = struct{}{}
		st.Overlay = st.Overlay.With(p)
		st.LoadingIDs = st.LoadingIDs.With(id)
		s.refilter(st)
	})
	return p, nil
}

// ResolveStatusUpdate performs the repository call for p. On success the
// canonical record is replaced by the confirmed task; on failure it is left
// as it was and the error slot is set. Either way the overlay entry and the
// loading marker are cleared, subject to the race policy. Each Pending resolves
// at most once; later calls return ErrAlreadyResolved without touching the
// repository.
func (s *Store) ResolveStatusUpdate(ctx context.Context, p Pending) error {
	if !s.claim(p) {
		s.log.WarnContext(ctx, "update task status", "task_id", p.ID, "seq", p.Seq, "err", ErrAlreadyResolved)
		return ErrAlreadyResolved
	}

	task, err := s.repo.UpdateTaskStatus(ctx, p.ID, p.Status)

	s.transition(func(st *State) {
		newest := true
		if s.race == RaceLastIssued {
			cur, ok := st.Overlay.Get(p.ID)
			newest = ok && cur.Seq == p.Seq
		}
		if newest {
			st.Overlay = st.Overlay.Without(p.ID)
			st.LoadingIDs = st.LoadingIDs.Without(p.ID)
		}

		if err != nil {
			st.Error = errorMessage(err, "Failed to update task status")
		} else if s.race == RaceLastResolved || p.Seq > s.confirmed[p.ID] {
			s.confirmed[p.ID] = p.Seq
			st.Tasks = replaceTask(st.Tasks, task)
		}
		s.refilter(st)
	})

	if err != nil {
		s.log.ErrorContext(ctx, "update task status", "task_id", p.ID, "status", p.Status, "seq", p.Seq, "err", err)
		return fmt.Errorf("update task status: %w", err)
	}
	s.log.InfoContext(ctx, "update task status", "task_id", p.ID, "status", task.Status, "seq", p.Seq)
	return nil
}

// SetFilters merges patch into the current criteria and re-filters. Invalid
// enum values in patch are ignored.
func (s *Store) SetFilters(patch tasksrepo.CriteriaPatch) tasksrepo.Criteria {
	var c tasksrepo.Criteria
	s.transition(func(st *State) {
		st.Criteria = st.Criteria.Merge(patch)
		c = st.Criteria
		s.refilter(st)
	})
	return c
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.transition(func(st *State) {
		st.Error = ""
	})
}

// ========================================
// READERS
// ========================================

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Tasks() []tasksrepo.Task {
	return s.Snapshot().Tasks
}

func (s *Store) FilteredTasks() []tasksrepo.Task {
	return s.Snapshot().Filtered
}

func (s *Store) Loading() bool {
	return s.Snapshot().Loading
}

func (s *Store) Error() string {
	return s.Snapshot().Error
}

func (s *Store) Criteria() tasksrepo.Criteria {
	return s.Snapshot().Criteria
}

func (s *Store) Overlay() Overlay {
	return s.Snapshot().Overlay
}

func (s *Store) LoadingIDs() LoadingSet {
	return s.Snapshot().LoadingIDs
}

// DisplayStatus returns the overlay status for id if one is pending and the
// canonical status otherwise. ok is false when id is unknown to both.
func (s *Store) DisplayStatus(id string) (status tasksrepo.Status, ok bool) {
	st := s.Snapshot()
	if status, ok := st.Overlay.Status(id); ok {
		return status, true
	}
	for _, t := range st.Tasks {
		if t.ID == id {
			return t.Status, true
		}
	}
	return "", false
}

// DisplayTask returns the canonical task for id with the overlay status
// applied. It ignores the filter criteria.
func (s *Store) DisplayTask(id string) (tasksrepo.Task, bool) {
	st := s.Snapshot()
	i := slices.IndexFunc(st.Tasks, func(t tasksrepo.Task) bool { return t.ID == id })
	if i < 0 {
		return tasksrepo.Task{}, false
	}
	t := st.Tasks[i]
	if status, ok := st.Overlay.Status(id); ok {
		return t.WithStatus(status), true
	}
	return t.Clone(), true
}

// Groups returns the display view grouped by assignee.
func (s *Store) Groups() []tasksrepo.Group {
	return tasksrepo.GroupByAssignee(s.FilteredTasks())
}

// Stats summarizes the display view.
func (s *Store) Stats() tasksrepo.Stats {
	return tasksrepo.Summarize(s.FilteredTasks())
}

// Users returns the users discoverable from the canonical collection.
func (s *Store) Users() []tasksrepo.User {
	return tasksrepo.Users(s.Tasks())
}

// Subscribe registers fn to receive the state after every transition. The
// returned func removes it. fn runs on the goroutine that made the change,
// in publication order. It must not block and must not call Store actions;
// readers such as Snapshot are safe.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.listenMu.Lock()
		defer s.listenMu.Unlock()
		delete(s.listeners, id)
	}
}

// ========================================
// INTERNALS
// ========================================

// claim removes p from the outstanding updates. It reports false when p was
// already claimed.
func (s *Store) claim(p Pending) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outstanding[p.Seq]; !ok {
		return false
	}
	delete(s.outstanding, p.Seq)
	return true
}

// transition applies mutate to a copy of the state under the lock, publishes
// the copy and notifies listeners. Readers are not blocked while listeners
// run, but the next transition waits for them.
func (s *Store) transition(mutate func(st *State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := s.state
	mutate(&next)
	s.state = next
	s.mu.Unlock()

	s.listenMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// refilter recomputes the display view. Called with the lock held.
func (s *Store) refilter(st *State) {
	st.Filtered = tasksrepo.Apply(st.Overlay.Apply(st.Tasks), st.Criteria, tasksrepo.CurrentUserID)
}

func (s *Store) fail(err error) error {
	s.transition(func(st *State) {
		st.Error = err.Error()
	})
	return err
}

// replaceTask returns a new slice with the task sharing updated's id swapped
// for updated. Ids not in tasks leave the collection unchanged.
func replaceTask(tasks []tasksrepo.Task, updated tasksrepo.Task) []tasksrepo.Task {
	i := slices.IndexFunc(tasks, func(t tasksrepo.Task) bool { return t.ID == updated.ID })
	if i < 0 {
		return tasks
	}
	next := slices.Clone(tasks)
	next[i] = updated
	return next
}

func errorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
