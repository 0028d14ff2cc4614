package taskstore

import (
	"maps"
	"slices"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

// Pending is a status change that has been applied optimistically and is
// waiting for the repository. Seq orders updates issued by one Store.
type Pending struct {
	ID     string           `json:"id"`
	Status tasksrepo.Status `json:"status"`
	Seq    uint64           `json:"seq"`
}

// GetID returns the task id the update targets.
func (p Pending) GetID() string {
	return p.ID
}

// ========================================
// OVERLAY
// ========================================

// Overlay maps task ids to their pending status. It is an immutable value:
// With and Without return modified copies and never touch the receiver.
// The zero value is an empty overlay.
type Overlay struct {
	entries map[string]Pending
}

// With returns a copy of o with p as the single entry for p.ID.
func (o Overlay) With(p Pending) Overlay {
	next := make(map[string]Pending, len(o.entries)+1)
	maps.Copy(next, o.entries)
	next[p.ID] = p
	return Overlay{entries: next}
}

// Without returns a copy of o with id removed.
func (o Overlay) Without(id string) Overlay {
	if _, ok := o.entries[id]; !ok {
		return o
	}
	next := maps.Clone(o.entries)
	delete(next, id)
	return Overlay{entries: next}
}

// Get returns the pending entry for id.
func (o Overlay) Get(id string) (Pending, bool) {
	p, ok := o.entries[id]
	return p, ok
}

// Status returns the optimistic status for id.
func (o Overlay) Status(id string) (tasksrepo.Status, bool) {
	p, ok := o.entries[id]
	return p.Status, ok
}

func (o Overlay) Len() int {
	return len(o.entries)
}

// Map returns the overlay as a fresh id → status map.
func (o Overlay) Map() map[string]tasksrepo.Status {
	out := make(map[string]tasksrepo.Status, len(o.entries))
	for id, p := range o.entries {
		out[id] = p.Status
	}
	return out
}

// Apply returns tasks with every overlaid status substituted. Tasks without an
// entry are returned as is; the input slice is not modified.
func (o Overlay) Apply(tasks []tasksrepo.Task) []tasksrepo.Task {
	out := make([]tasksrepo.Task, len(tasks))
	for i, t := range tasks {
		if p, ok := o.entries[t.ID]; ok {
			t = t.WithStatus(p.Status)
		}
		out[i] = t
	}
	return out
}

// ========================================
// LOADING SET
// ========================================

// LoadingSet holds the ids of tasks with an update in flight. Like Overlay it
// is immutable.
type LoadingSet struct {
	ids map[string]struct{}
}

// With returns a copy of l containing id.
func (l LoadingSet) With(id string) LoadingSet {
	next := make(map[string]struct{}, len(l.ids)+1)
	maps.Copy(next, l.ids)
	next[id] = struct{}{}
	return LoadingSet{ids: next}
}

// Without returns a copy of l without id.
func (l LoadingSet) Without(id string) LoadingSet {
	if _, ok := l.ids[id]; !ok {
		return l
	}
	next := maps.Clone(l.ids)
	delete(next, id)
	return LoadingSet{ids: next}
}

func (l LoadingSet) Has(id string) bool {
	_, ok := l.ids[id]
	return ok
}

func (l LoadingSet) Len() int {
	return len(l.ids)
}

// IDs returns the members in sorted order.
func (l LoadingSet) IDs() []string {
	ids := slices.Sorted(maps.Keys(l.ids))
	if ids == nil {
		ids = []string{}
	}
	return ids
}
