// Package taskboardbridge exposes the task store over HTTP for the dashboard
// front end.
package taskboardbridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskboard/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
	"github.com/jrazmi/taskboard/core/usecases/taskstore"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/infrastructure/workers"
	"github.com/jrazmi/taskboard/sdk/logger"
)

type bridge struct {
	log           *logger.Logger
	store         *taskstore.Store
	resolver      *taskstore.Resolver
	workerMetrics func() workers.MetricsSnapshot
}

func newBridge(cfg Config) *bridge {
	log := cfg.Log
	if log == nil {
		log = logger.NewDiscard()
	}
	wm := cfg.WorkerMetrics
	if wm == nil {
		wm = func() workers.MetricsSnapshot { return workers.MetricsSnapshot{} }
	}
	return &bridge{
		log:           log,
		store:         cfg.Store,
		resolver:      cfg.Resolver,
		workerMetrics: wm,
	}
}

func (b *bridge) board(r *http.Request, st taskstore.State) web.Encoder {
	page, err := fop.ParsePageIntCursor(web.QueryParam(r, "limit"), web.QueryParam(r, "cursor"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}
	return toBoardView(st, fopbridge.NewPaginatedResponseIntCursor(st.Filtered, page))
}

// httpBoard serves the display view. Criteria in the query string filter a
// copy of the state for this response only; PUT /filters changes the
// store's criteria.
func (b *bridge) httpBoard(ctx context.Context, r *http.Request) web.Encoder {
	st := b.store.Snapshot()
	if q := r.URL.Query(); hasCriteria(q) {
		st.Criteria = CriteriaFromQuery(q)
		st.Filtered = tasksrepo.Apply(st.Overlay.Apply(st.Tasks), st.Criteria, tasksrepo.CurrentUserID)
	}
	return b.board(r, st)
}

func (b *bridge) httpGroups(ctx context.Context, r *http.Request) web.Encoder {
	return fopbridge.NewNonPaginatedRecords(b.store.Groups())
}

func (b *bridge) httpStats(ctx context.Context, r *http.Request) web.Encoder {
	return statsView{b.store.Stats()}
}

func (b *bridge) httpUsers(ctx context.Context, r *http.Request) web.Encoder {
	return fopbridge.NewNonPaginatedRecords(b.store.Users())
}

func (b *bridge) httpRefresh(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.store.FetchTasks(ctx); err != nil {
		return errs.FromError(err)
	}
	return b.board(r, b.store.Snapshot())
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input tasksrepo.CreateTask
	if err := web.Decode(r, &input); err != nil {
		return decodeError(err)
	}

	task, err := b.store.CreateTask(ctx, input)
	if err != nil {
		return errs.FromError(err)
	}
	return web.NewJSONResponseWithStatus(fopbridge.NewRecordResponse(task), http.StatusCreated)
}

// httpUpdateStatus applies the change optimistically. With ?wait=true the
// repository call runs inline and its outcome is the response; otherwise the
// call is queued and the optimistic view is returned with 202.
func (b *bridge) httpUpdateStatus(ctx context.Context, r *http.Request) web.Encoder {
	id := web.Param(r, "task_id")

	var body UpdateStatus
	if err := web.Decode(r, &body); err != nil {
		return decodeError(err)
	}

	p, err := b.store.BeginStatusUpdate(id, body.Status)
	if err != nil {
		return errs.FromError(err)
	}

	if b.resolver == nil || web.QueryBool(r, "wait") {
		if err := b.store.ResolveStatusUpdate(ctx, p); err != nil {
			return errs.FromError(err)
		}
		return b.statusView(p, true, http.StatusOK)
	}

	b.resolver.Enqueue(p)
	b.log.InfoContext(ctx, "status update queued", "task_id", p.ID, "status", p.Status, "seq", p.Seq)
	return b.statusView(p, false, http.StatusAccepted)
}

func (b *bridge) statusView(p taskstore.Pending, resolved bool, status int) StatusUpdateView {
	v := StatusUpdateView{Pending: p, Resolved: resolved, status: status}
	if t, ok := b.store.DisplayTask(p.ID); ok {
		v.Task = &t
	}
	return v
}

func (b *bridge) httpGetFilters(ctx context.Context, r *http.Request) web.Encoder {
	return toFiltersView(b.store.Criteria())
}

// httpSetFilters accepts either a JSON patch body or criteria query
// parameters.
func (b *bridge) httpSetFilters(ctx context.Context, r *http.Request) web.Encoder {
	var patch tasksrepo.CriteriaPatch
	if q := r.URL.Query(); hasCriteria(q) {
		patch = DeserializeCriteria(q)
	} else if err := web.Decode(r, &patch); err != nil {
		return decodeError(err)
	}
	return toFiltersView(b.store.SetFilters(patch))
}

func (b *bridge) httpClearError(ctx context.Context, r *http.Request) web.Encoder {
	b.store.ClearError()
	return nil
}

func (b *bridge) httpAdminWorkers(ctx context.Context, r *http.Request) web.Encoder {
	v := AdminView{
		HTTP:    metrics.Read(),
		Workers: b.workerMetrics(),
	}
	if b.resolver != nil {
		v.QueuedUpdates = b.resolver.Pending()
	}
	return v
}
