package taskboardbridge

import (
	"errors"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/usecases/taskstore"
	"github.com/jrazmi/taskboard/infrastructure/web"
	"github.com/jrazmi/taskboard/infrastructure/workers"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Config holds configuration for the taskboard bridge. Without a Resolver
// every status update is resolved inline.
type Config struct {
	Log           *logger.Logger
	Store         *taskstore.Store
	Resolver      *taskstore.Resolver
	WorkerMetrics func() workers.MetricsSnapshot
	Middleware    []web.Middleware
}

// AddHttpRoutes registers the taskboard routes on group.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)
	g := group.Group("", cfg.Middleware...)

	g.GET("/tasks", b.httpBoard)
	g.GET("/tasks/groups", b.httpGroups)
	g.GET("/tasks/stats", b.httpStats)
	g.POST("/tasks", b.httpCreate)
	g.POST("/tasks/refresh", b.httpRefresh)
	g.PUT("/tasks/{task_id}/status", b.httpUpdateStatus)

	g.GET("/users", b.httpUsers)

	g.GET("/filters", b.httpGetFilters)
	g.PUT("/filters", b.httpSetFilters)

	g.DELETE("/error", b.httpClearError)

	g.GET("/admin/workers", b.httpAdminWorkers)
}

// decodeError reports a request body that could not be decoded or failed
// validation.
func decodeError(err error) *errs.Error {
	if errors.Is(err, repositories.ErrInvalidInput) {
		return errs.FromError(err)
	}
	return errs.New(errs.InvalidArgument, err)
}
