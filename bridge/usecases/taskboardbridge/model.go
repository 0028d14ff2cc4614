package taskboardbridge

import (
	"encoding/json"
	"fmt"

	"github.com/jrazmi/taskboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskboard/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/usecases/taskstore"
	"github.com/jrazmi/taskboard/infrastructure/workers"
)

// BoardView is the dashboard state as the front end renders it.
type BoardView struct {
	Tasks      fopbridge.PaginatedResponse[tasksrepo.Task, int] `json:"tasks"`
	Criteria   tasksrepo.Criteria                               `json:"criteria"`
	Query      string                                           `json:"query"`
	Overlay    map[string]tasksrepo.Status                      `json:"overlay"`
	LoadingIDs []string                                         `json:"loadingIds"`
	Loading    bool                                             `json:"loading"`
	Error      *string                                          `json:"error"`
}

func (v BoardView) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v)
	return data, "application/json", err
}

func toBoardView(st taskstore.State, records fopbridge.PaginatedResponse[tasksrepo.Task, int]) BoardView {
	v := BoardView{
		Tasks:      records,
		Criteria:   st.Criteria,
		Query:      SerializeCriteria(st.Criteria).Encode(),
		Overlay:    st.Overlay.Map(),
		LoadingIDs: st.LoadingIDs.IDs(),
		Loading:    st.Loading,
	}
	if st.HasError() {
		msg := st.Error
		v.Error = &msg
	}
	return v
}

// FiltersView is the criteria with its query string form.
type FiltersView struct {
	Criteria tasksrepo.Criteria `json:"criteria"`
	Query    string             `json:"query"`
}

func (v FiltersView) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v)
	return data, "application/json", err
}

func toFiltersView(c tasksrepo.Criteria) FiltersView {
	return FiltersView{Criteria: c, Query: SerializeCriteria(c).Encode()}
}

// UpdateStatus is the body of a status change request.
type UpdateStatus struct {
	Status tasksrepo.Status `json:"status"`
}

func (u UpdateStatus) Validate() error {
	if !u.Status.Valid() {
		return repositories.NewFieldError("status", fmt.Sprintf("unknown status %q", u.Status))
	}
	return nil
}

// StatusUpdateView reports a begun or resolved status change. Task is the
// display view of the task and is absent for ids the store does not hold.
type StatusUpdateView struct {
	Pending  taskstore.Pending `json:"pending"`
	Resolved bool              `json:"resolved"`
	Task     *tasksrepo.Task   `json:"task,omitempty"`
	status   int
}

func (v StatusUpdateView) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v)
	return data, "application/json", err
}

func (v StatusUpdateView) HTTPStatus() int {
	return v.status
}

// AdminView reports the request counters and the status worker pool.
type AdminView struct {
	HTTP          metrics.Snapshot        `json:"http"`
	Workers       workers.MetricsSnapshot `json:"workers"`
	QueuedUpdates int                     `json:"queuedUpdates"`
}

func (v AdminView) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v)
	return data, "application/json", err
}

// statsView wraps tasksrepo.Stats as an Encoder.
type statsView struct {
	tasksrepo.Stats
}

func (v statsView) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v.Stats)
	return data, "application/json", err
}
